package tsunami

import (
	"math"
	"strconv"
)

// Accuracy selects the quality/performance trade-off of the analytic field.
type Accuracy string

const (
	// AccuracyStandard evaluates the hydrostatic envelope only.
	AccuracyStandard Accuracy = "standard"
	// AccuracyEnhanced adds a nonhydrostatic oscillatory correction around
	// the crest, proportional to local wave steepness.
	AccuracyEnhanced Accuracy = "enhanced"
)

// Params holds the closed-form wave shaping constants. Lengths are meters,
// speeds m/s, times seconds.
type Params struct {
	WaveHeight     float64
	WaveSpeed      float64
	NumWaves       int
	WaveSpacing    float64
	AmplitudeDecay float64

	// Envelope geometry along the projection axis: the runup body ramps in
	// over RampLength, the crest pulse sits CrestOffset behind the front,
	// and the backwash region occupies [BodyLength, BackwashLength] with
	// FadeLength transitions.
	RampLength     float64
	CrestOffset    float64
	CrestWidth     float64
	BodyLength     float64
	BackwashLength float64
	FadeLength     float64

	CrestGain    float64
	BodyGain     float64
	BackwashGain float64

	FroudeScale   float64
	BoreBoost     float64
	BackwashSpeed float64

	LateralAmplitude  float64
	LateralWavelength float64
	LateralPeriod     float64

	SeaLevel       float64
	MaxRunupHeight float64

	// StartOffset places the initial front along the projection axis,
	// negative meaning offshore of the origin.
	StartOffset float64

	PulseTTL       float64
	PulseDecayRate float64
	FrontPulseGain float64

	NonhydroGain float64
	Accuracy     Accuracy
}

// Config controls a tsunami field instance.
type Config struct {
	Seed int64

	// Propagation direction (normalized at construction) and projection
	// origin in world space.
	DirX, DirZ       float64
	OriginX, OriginZ float64

	Params Params
}

// DefaultConfig returns the standard configuration: a shore-normal bore
// traveling along +x.
func DefaultConfig() Config {
	return Config{
		Seed: 1337,
		DirX: 1,
		DirZ: 0,
		Params: Params{
			WaveHeight:        10,
			WaveSpeed:         20,
			NumWaves:          3,
			WaveSpacing:       180,
			AmplitudeDecay:    0.6,
			RampLength:        15,
			CrestOffset:       30,
			CrestWidth:        8,
			BodyLength:        120,
			BackwashLength:    260,
			FadeLength:        40,
			CrestGain:         0.6,
			BodyGain:          1.0,
			BackwashGain:      0.35,
			FroudeScale:       0.8,
			BoreBoost:         0.5,
			BackwashSpeed:     6,
			LateralAmplitude:  1.5,
			LateralWavelength: 40,
			LateralPeriod:     4,
			SeaLevel:          0,
			MaxRunupHeight:    15,
			StartOffset:       -40,
			PulseTTL:          3,
			PulseDecayRate:    1.2,
			FrontPulseGain:    0.02,
			NonhydroGain:      0.12,
			Accuracy:          AccuracyStandard,
		},
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["dir_x"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.DirX = parsed
		}
	}
	if v, ok := cfg["dir_z"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.DirZ = parsed
		}
	}
	if v, ok := cfg["origin_x"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.OriginX = parsed
		}
	}
	if v, ok := cfg["origin_z"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.OriginZ = parsed
		}
	}
	if v, ok := cfg["wave_height"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.WaveHeight = parsed
		}
	}
	if v, ok := cfg["wave_speed"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.WaveSpeed = parsed
		}
	}
	if v, ok := cfg["num_waves"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 1 {
			c.Params.NumWaves = parsed
		}
	}
	if v, ok := cfg["wave_spacing"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.WaveSpacing = parsed
		}
	}
	if v, ok := cfg["amplitude_decay"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 && parsed <= 1 {
			c.Params.AmplitudeDecay = parsed
		}
	}
	if v, ok := cfg["sea_level"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Params.SeaLevel = parsed
		}
	}
	if v, ok := cfg["max_runup"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.MaxRunupHeight = parsed
		}
	}
	if v, ok := cfg["start_offset"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Params.StartOffset = parsed
		}
	}
	if v, ok := cfg["accuracy"]; ok {
		switch Accuracy(v) {
		case AccuracyStandard, AccuracyEnhanced:
			c.Params.Accuracy = Accuracy(v)
		}
	}
	return c
}

// normalizedDirection returns the unit propagation direction, defaulting to
// +x for a degenerate input vector.
func (c Config) normalizedDirection() (float64, float64) {
	length := math.Hypot(c.DirX, c.DirZ)
	if length < 1e-9 || math.IsNaN(length) || math.IsInf(length, 0) {
		return 1, 0
	}
	return c.DirX / length, c.DirZ / length
}

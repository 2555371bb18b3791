package flood

import "strconv"

// Params holds the tunable physical and numerical knobs of the shallow-water
// integrator. Rates are per second, lengths in meters.
type Params struct {
	Gravity float64
	CFL     float64
	MinDt   float64
	MaxDt   float64
	// MaxSubsteps caps catch-up work per Step; excess accumulated time is
	// dropped in favor of frame-rate stability.
	MaxSubsteps int

	ManningN        float64
	VelocityDamping float64
	MaxFlowSpeed    float64

	// WetThreshold classifies a cell as wet for stats and CFL purposes.
	// DryEpsilon is the depth below which state snaps to exactly zero so
	// near-dry cells cannot accumulate denormal drift or spurious
	// velocities.
	WetThreshold float64
	DryEpsilon   float64

	SourceEnabled     bool
	SourceFlowRate    float64
	SourceRadiusCells int

	RainRate         float64
	InfiltrationRate float64
	DrainageRate     float64

	ImpulseRadiusMax float64
}

// Config controls a flood solver instance.
type Config struct {
	Seed int64

	Params Params
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Seed: 1337,
		Params: Params{
			Gravity:           9.81,
			CFL:               0.45,
			MinDt:             1e-4,
			MaxDt:             0.05,
			MaxSubsteps:       32,
			ManningN:          0.03,
			VelocityDamping:   0.15,
			MaxFlowSpeed:      20,
			WetThreshold:      1e-4,
			DryEpsilon:        1e-8,
			SourceEnabled:     false,
			SourceFlowRate:    6,
			SourceRadiusCells: 2,
			RainRate:          0,
			InfiltrationRate:  0,
			DrainageRate:      0,
			ImpulseRadiusMax:  64,
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
	if v, ok := cfg["gravity"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.Gravity = parsed
		}
	}
	if v, ok := cfg["cfl"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 && parsed <= 1 {
			c.Params.CFL = parsed
		}
	}
	if v, ok := cfg["min_dt"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.MinDt = parsed
		}
	}
	if v, ok := cfg["max_dt"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.MaxDt = parsed
		}
	}
	if c.Params.MaxDt < c.Params.MinDt {
		c.Params.MaxDt = c.Params.MinDt
	}
	if v, ok := cfg["max_substeps"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Params.MaxSubsteps = parsed
		}
	}
	if v, ok := cfg["manning_n"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.ManningN = parsed
		}
	}
	if v, ok := cfg["velocity_damping"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.VelocityDamping = parsed
		}
	}
	if v, ok := cfg["max_flow_speed"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.MaxFlowSpeed = parsed
		}
	}
	if v, ok := cfg["wet_threshold"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.WetThreshold = parsed
		}
	}
	if v, ok := cfg["source_enabled"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Params.SourceEnabled = parsed
		}
	}
	if v, ok := cfg["source_flow"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.SourceFlowRate = parsed
		}
	}
	if v, ok := cfg["source_radius"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.SourceRadiusCells = parsed
		}
	}
	if v, ok := cfg["rain_rate"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.RainRate = parsed
		}
	}
	if v, ok := cfg["infiltration_rate"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.InfiltrationRate = parsed
		}
	}
	if v, ok := cfg["drainage_rate"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.DrainageRate = parsed
		}
	}
	return c
}

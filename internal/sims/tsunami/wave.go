package tsunami

import (
	"math"

	"deluge/internal/core"
	pkgcore "deluge/pkg/core"
)

// Phase is the discrete flow regime at a sampled point. Dependent systems
// (sediment overlays, damage models) switch response formulas on it.
type Phase uint8

const (
	PhaseDry Phase = iota
	PhaseRunup
	PhaseCrest
	PhaseBackwash
)

// String returns the lower-case phase name.
func (p Phase) String() string {
	switch p {
	case PhaseRunup:
		return "runup"
	case PhaseCrest:
		return "crest"
	case PhaseBackwash:
		return "backwash"
	default:
		return "dry"
	}
}

// Field is the analytic traveling-bore model: hydro state is a closed-form
// function of the projection distance behind an advancing front rather than
// the result of per-cell integration. Up to NumWaves decaying wave trains
// superpose; each contributes a Gaussian crest pulse, a smoothstep-bounded
// runup body, and a backwash retreat region further behind the front.
type Field struct {
	cfg          Config
	dirX, dirZ   float64
	perpX, perpZ float64

	front        float64
	elapsed      float64
	lateralPhase float64

	pulses core.PulseSet
}

// envelope carries the aggregated shaping signals at one projection offset.
type envelope struct {
	depth float64
	crest float64
	body  float64
	back  float64
}

// NewField constructs an analytic wave field. The lateral turbulence phase
// is drawn from the seeded RNG so runs replay deterministically.
func NewField(cfg Config) *Field {
	dx, dz := cfg.normalizedDirection()
	f := &Field{
		cfg:  cfg,
		dirX: dx, dirZ: dz,
		perpX: -dz, perpZ: dx,
		lateralPhase: pkgcore.NewRNG(cfg.Seed).Range(0, 2*math.Pi),
	}
	f.front = cfg.Params.StartOffset
	return f
}

// Config returns a copy of the active configuration.
func (f *Field) Config() Config { return f.cfg }

// Front reports the current front position along the projection axis.
func (f *Field) Front() float64 { return f.front }

// Reset rewinds the front to its start offset and drops pending pulses.
func (f *Field) Reset() {
	f.front = f.cfg.Params.StartOffset
	f.elapsed = 0
	f.pulses.Clear()
}

// Advance moves the front by one tick. Momentum pulses aligned with the
// propagation direction nudge the front slightly while they decay.
func (f *Field) Advance(dt float64) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return
	}
	p := f.cfg.Params
	f.front += p.WaveSpeed * dt

	for _, pulse := range f.pulses.Pulses() {
		along := pulse.Vx*f.dirX + pulse.Vz*f.dirZ
		if along > 0 {
			f.front += along * pulse.Strength * p.FrontPulseGain * dt
		}
	}
	f.pulses.Decay(dt, p.PulseDecayRate)
	f.elapsed += dt
}

// AddPulse queues an external momentum pulse. Malformed parameters are
// rejected inside the pulse set.
func (f *Field) AddPulse(x, z, vx, vz, radius, strength float64) bool {
	return f.pulses.Add(x, z, vx, vz, radius, strength, f.cfg.Params.PulseTTL)
}

// Project returns the signed distance of a point along the wave direction.
func (f *Field) Project(x, z float64) float64 {
	return (x-f.cfg.OriginX)*f.dirX + (z-f.cfg.OriginZ)*f.dirZ
}

// EvalAt computes depth and velocity at a world point over terrain height
// terrainY. Depth attenuates with elevation above sea level, a crude proxy
// for runup decay on rising ground.
func (f *Field) EvalAt(x, z, terrainY float64) (depth, u, v float64) {
	env := f.envelopeAt(x, z, terrainY)
	depth = env.depth
	if depth <= 0 {
		pu, pv := f.pulses.VelocityAt(x, z)
		return 0, pu, pv
	}

	p := f.cfg.Params
	// Forward transport scales with normalized depth; the crest adds the
	// leading turbulent bore, the backwash region opposes the flow.
	normalized := clamp01(depth / p.WaveHeight)
	along := p.FroudeScale*p.WaveSpeed*normalized + p.BoreBoost*p.WaveSpeed*env.crest
	along -= p.BackwashSpeed * env.back

	lateral := 0.0
	if p.LateralAmplitude > 0 && p.LateralWavelength > 0 && p.LateralPeriod > 0 {
		arg := 2*math.Pi*(f.Project(x, z)/p.LateralWavelength+f.elapsed/p.LateralPeriod) + f.lateralPhase
		lateral = p.LateralAmplitude * env.body * math.Sin(arg)
	}

	pu, pv := f.pulses.VelocityAt(x, z)
	u = f.dirX*along + f.perpX*lateral + pu
	v = f.dirZ*along + f.perpZ*lateral + pv
	return depth, u, v
}

// PhaseAt classifies the flow regime at a point from the relative strengths
// of the shaping signals.
func (f *Field) PhaseAt(x, z, terrainY float64) Phase {
	env := f.envelopeAt(x, z, terrainY)
	switch {
	case env.depth <= 1e-6:
		return PhaseDry
	case env.crest >= 0.5:
		return PhaseCrest
	case env.back > env.body:
		return PhaseBackwash
	default:
		return PhaseRunup
	}
}

func (f *Field) envelopeAt(x, z, terrainY float64) envelope {
	p := f.cfg.Params
	delta := f.front - f.Project(x, z)

	atten := clamp01(1 - (terrainY-p.SeaLevel)/p.MaxRunupHeight)
	if atten <= 0 {
		return envelope{}
	}

	var env envelope
	amp := 1.0
	for k := 0; k < p.NumWaves; k++ {
		d := delta - float64(k)*p.WaveSpacing
		if d <= 0 {
			break
		}
		crest := gaussian(d-p.CrestOffset, p.CrestWidth)
		body := smoothstep(0, p.RampLength, d) * (1 - smoothstep(p.BodyLength, p.BodyLength+p.FadeLength, d))
		back := smoothstep(p.BodyLength, p.BodyLength+p.FadeLength, d) *
			(1 - smoothstep(p.BackwashLength, p.BackwashLength+p.FadeLength, d))

		contribution := p.WaveHeight * amp * (p.CrestGain*crest + p.BodyGain*body + p.BackwashGain*back)
		if p.Accuracy == AccuracyEnhanced && crest > 0 {
			// Nonhydrostatic correction: short oscillation riding the
			// crest, strongest where the envelope is steepest.
			steep := crest * math.Abs(d-p.CrestOffset) / p.CrestWidth
			contribution += p.WaveHeight * amp * p.NonhydroGain * steep * math.Sin(math.Pi*(d-p.CrestOffset)/p.CrestWidth)
		}
		if contribution < 0 {
			contribution = 0
		}

		env.depth += contribution * atten
		if w := crest * amp; w > env.crest {
			env.crest = w
		}
		env.body = math.Max(env.body, body*amp)
		env.back = math.Max(env.back, back*amp)

		amp *= p.AmplitudeDecay
	}
	return env
}

func gaussian(d, width float64) float64 {
	if width <= 0 {
		return 0
	}
	return math.Exp(-d * d / (2 * width * width))
}

func smoothstep(lo, hi, v float64) float64 {
	if hi <= lo {
		if v >= hi {
			return 1
		}
		return 0
	}
	t := clamp01((v - lo) / (hi - lo))
	return t * t * (3 - 2*t)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

package core

import "math"

// negligibleStrength is the floor below which a decayed pulse is dropped.
const negligibleStrength = 1e-4

// Pulse is a transient momentum perturbation injected by an external event
// such as a debris splash or a collapsing wall. Pulses superpose additively
// with Gaussian radial falloff and decay exponentially until their TTL runs
// out.
type Pulse struct {
	X, Z     float64
	Vx, Vz   float64
	Radius   float64
	Strength float64
	TTL      float64
}

// PulseSet owns a solver's pending pulses.
type PulseSet struct {
	pulses []Pulse
}

// Add queues a pulse after validating its parameters. Non-finite values and
// non-positive radius, strength, or TTL are discarded silently; a malformed
// external event must never corrupt solver state. It reports whether the
// pulse was accepted.
func (s *PulseSet) Add(x, z, vx, vz, radius, strength, ttl float64) bool {
	if !finite(x) || !finite(z) || !finite(vx) || !finite(vz) ||
		!finite(radius) || !finite(strength) || !finite(ttl) {
		return false
	}
	if radius <= 0 || strength <= 0 || ttl <= 0 {
		return false
	}
	s.pulses = append(s.pulses, Pulse{X: x, Z: z, Vx: vx, Vz: vz, Radius: radius, Strength: strength, TTL: ttl})
	return true
}

// Decay ages every pulse by dt, applying exponential strength decay at the
// given per-second rate, and drops pulses that expired or faded below the
// negligible threshold.
func (s *PulseSet) Decay(dt, rate float64) {
	if dt <= 0 {
		return
	}
	factor := math.Exp(-rate * dt)
	kept := s.pulses[:0]
	for _, p := range s.pulses {
		p.TTL -= dt
		p.Strength *= factor
		if p.TTL <= 0 || p.Strength < negligibleStrength {
			continue
		}
		kept = append(kept, p)
	}
	s.pulses = kept
}

// VelocityAt returns the superposed velocity contribution of all active
// pulses at a world-space point.
func (s *PulseSet) VelocityAt(x, z float64) (float64, float64) {
	var u, v float64
	for _, p := range s.pulses {
		w := p.Weight(x, z)
		if w <= 0 {
			continue
		}
		u += p.Vx * p.Strength * w
		v += p.Vz * p.Strength * w
	}
	return u, v
}

// Weight returns the Gaussian falloff of pulse p at a point, zero beyond
// 2 radii.
func (p Pulse) Weight(x, z float64) float64 {
	dx := x - p.X
	dz := z - p.Z
	d2 := dx*dx + dz*dz
	cutoff := 2 * p.Radius
	if d2 > cutoff*cutoff {
		return 0
	}
	sigma := p.Radius * 0.5
	return math.Exp(-d2 / (2 * sigma * sigma))
}

// Pulses exposes the live pulse list for stamping loops. Callers must not
// retain the slice across Decay calls.
func (s *PulseSet) Pulses() []Pulse { return s.pulses }

// Active reports the number of live pulses.
func (s *PulseSet) Active() int { return len(s.pulses) }

// Clear drops all pending pulses.
func (s *PulseSet) Clear() { s.pulses = s.pulses[:0] }

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

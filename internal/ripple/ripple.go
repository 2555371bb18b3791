// Package ripple layers a high-frequency 2D wave equation on top of the
// active hydro solver. The primary depth field is far too coarse for
// capillary and impact detail, so splash rings and wake ripples live here
// and get carried along by the primary flow.
package ripple

import (
	"math"

	"deluge/internal/core"
)

// Config holds the overlay's tunables.
type Config struct {
	// SpringK couples a cell toward its neighbor average, per second.
	// Damping decays ripple velocity exponentially, per second.
	SpringK float64
	Damping float64

	// The explicit scheme stays stable by splitting a frame into at most
	// MaxSubsteps chunks no longer than MaxSubstepDt.
	MaxSubstepDt float64
	MaxSubsteps  int

	// AdvectionBlend is how strongly ripples follow the primary flow
	// (semi-Lagrangian back-sampling), 0 to 1.
	AdvectionBlend float64

	// SuppressDepth is the minimum primary depth a cell needs to carry
	// ripples; below it height and velocity are forced to zero.
	SuppressDepth float64

	PulseTTL       float64
	PulseDecayRate float64
}

// DefaultConfig returns the standard overlay configuration.
func DefaultConfig() Config {
	return Config{
		SpringK:        18,
		Damping:        1.6,
		MaxSubstepDt:   1.0 / 120.0,
		MaxSubsteps:    4,
		AdvectionBlend: 0.65,
		SuppressDepth:  0.02,
		PulseTTL:       1.5,
		PulseDecayRate: 2.5,
	}
}

// Field is the double-buffered ripple heightfield sharing the raster's
// indexing with the primary solver.
type Field struct {
	cfg Config
	r   *core.Raster

	height   *core.FloatGrid
	velocity *core.FloatGrid
	prev     *core.FloatGrid

	pulses core.PulseSet
}

// New allocates a ripple field over the raster.
func New(r *core.Raster, cfg Config) *Field {
	return &Field{
		cfg:      cfg,
		r:        r,
		height:   core.NewFloatGrid(r.W, r.H),
		velocity: core.NewFloatGrid(r.W, r.H),
		prev:     core.NewFloatGrid(r.W, r.H),
	}
}

// Height exposes the current ripple heights, row-major over the raster.
func (f *Field) Height() []float64 { return f.height.Cells() }

// AddPulse queues an impact pulse (debris splash, wall strike) to be
// stamped with Gaussian falloff before the next physics substep.
func (f *Field) AddPulse(x, z, radius, strength float64) bool {
	return f.pulses.Add(x, z, 0, 0, radius, strength, f.cfg.PulseTTL)
}

// Clear zeroes the ripple buffers and drops pending pulses. Buffers persist
// across a solver Reset unless this is called explicitly.
func (f *Field) Clear() {
	f.height.Clear()
	f.velocity.Clear()
	f.prev.Clear()
	f.pulses.Clear()
}

// Step advances the overlay by dt seconds, reading the primary solver's
// depth and momentum for suppression and advection.
func (f *Field) Step(dt float64, primary core.Solver) {
	if !(dt > 0) || math.IsInf(dt, 0) || primary == nil {
		return
	}
	f.stampPulses()
	f.pulses.Decay(dt, f.cfg.PulseDecayRate)

	n := int(math.Ceil(dt / f.cfg.MaxSubstepDt))
	if n < 1 {
		n = 1
	}
	if n > f.cfg.MaxSubsteps {
		n = f.cfg.MaxSubsteps
	}
	sub := dt / float64(n)

	depth := primary.Depth()
	for i := 0; i < n; i++ {
		f.relax(sub, depth)
	}
	f.advect(dt, depth, primary.MomentumX(), primary.MomentumY())
	f.suppress(depth)
}

// stampPulses adds each live pulse onto the height buffer with Gaussian
// radial falloff, producing localized splash rings.
func (f *Field) stampPulses() {
	h := f.height.Cells()
	for _, p := range f.pulses.Pulses() {
		reach := 2 * p.Radius
		cxMin, czMin := f.r.CellAt(p.X-reach, p.Z-reach)
		cxMax, czMax := f.r.CellAt(p.X+reach, p.Z+reach)
		for cz := czMin; cz <= czMax; cz++ {
			for cx := cxMin; cx <= cxMax; cx++ {
				idx := f.r.Index(cx, cz)
				if f.r.IsObstacle(idx) {
					continue
				}
				x, z := f.r.CellCenter(idx)
				h[idx] += p.Strength * p.Weight(x, z)
			}
		}
	}
}

// relax runs one Jacobi neighbor-averaging substep of the spring/damping
// wave equation.
func (f *Field) relax(dt float64, depth []float64) {
	w, hgt := f.r.W, f.r.H
	h := f.height.Cells()
	vel := f.velocity.Cells()
	next := f.prev.Cells()

	for cz := 0; cz < hgt; cz++ {
		for cx := 0; cx < w; cx++ {
			idx := cz*w + cx
			if f.r.IsObstacle(idx) || depth[idx] < f.cfg.SuppressDepth {
				next[idx] = 0
				vel[idx] = 0
				continue
			}
			avg := f.neighborAverage(cx, cz, idx, depth)
			v := vel[idx] + (avg-h[idx])*f.cfg.SpringK*dt
			v *= math.Exp(-f.cfg.Damping * dt)
			vel[idx] = v
			next[idx] = h[idx] + v*dt
		}
	}
	f.height, f.prev = f.prev, f.height
}

// neighborAverage reads the 4-neighborhood; walls and dry cells reflect
// (contribute the center value) so ripples cannot bleed through obstacles.
func (f *Field) neighborAverage(cx, cz, idx int, depth []float64) float64 {
	h := f.height.Cells()
	center := h[idx]
	sum := 0.0
	for _, n := range [4][2]int{{cx - 1, cz}, {cx + 1, cz}, {cx, cz - 1}, {cx, cz + 1}} {
		nx, nz := n[0], n[1]
		if nx < 0 || nx >= f.r.W || nz < 0 || nz >= f.r.H {
			sum += center
			continue
		}
		nIdx := nz*f.r.W + nx
		if f.r.IsObstacle(nIdx) || depth[nIdx] < f.cfg.SuppressDepth {
			sum += center
			continue
		}
		sum += h[nIdx]
	}
	return sum / 4
}

// advect carries ripples downstream: each cell samples the pre-advection
// field at the upstream point position - velocity*dt and blends toward it.
func (f *Field) advect(dt float64, depth, momX, momZ []float64) {
	blend := f.cfg.AdvectionBlend
	if blend <= 0 {
		return
	}
	h := f.height.Cells()
	src := f.prev.Cells()
	copy(src, h)

	for cz := 0; cz < f.r.H; cz++ {
		for cx := 0; cx < f.r.W; cx++ {
			idx := cz*f.r.W + cx
			d := depth[idx]
			if f.r.IsObstacle(idx) || d < f.cfg.SuppressDepth {
				continue
			}
			u := momX[idx] / d
			v := momZ[idx] / d
			if u == 0 && v == 0 {
				continue
			}
			x, z := f.r.CellCenter(idx)
			upstream := f.sampleBilinear(src, x-u*dt, z-v*dt)
			h[idx] = h[idx] + (upstream-h[idx])*blend
		}
	}
}

func (f *Field) sampleBilinear(src []float64, x, z float64) float64 {
	fx := (x-f.r.XMin)/f.r.Dx - 0.5
	fz := (z-f.r.ZMin)/f.r.Dz - 0.5
	x0 := int(math.Floor(fx))
	z0 := int(math.Floor(fz))
	tx := fx - float64(x0)
	tz := fz - float64(z0)

	v00 := f.clampedAt(src, x0, z0)
	v10 := f.clampedAt(src, x0+1, z0)
	v01 := f.clampedAt(src, x0, z0+1)
	v11 := f.clampedAt(src, x0+1, z0+1)
	top := v00 + (v10-v00)*tx
	bottom := v01 + (v11-v01)*tx
	return top + (bottom-top)*tz
}

func (f *Field) clampedAt(src []float64, cx, cz int) float64 {
	if cx < 0 {
		cx = 0
	}
	if cx >= f.r.W {
		cx = f.r.W - 1
	}
	if cz < 0 {
		cz = 0
	}
	if cz >= f.r.H {
		cz = f.r.H - 1
	}
	idx := cz*f.r.W + cx
	if f.r.IsObstacle(idx) {
		return 0
	}
	return src[idx]
}

// suppress zeroes ripples on dry or obstacle cells; ripples cannot exist
// without water.
func (f *Field) suppress(depth []float64) {
	h := f.height.Cells()
	vel := f.velocity.Cells()
	for i := range h {
		if f.r.IsObstacle(i) || depth[i] < f.cfg.SuppressDepth {
			h[i] = 0
			vel[i] = 0
		}
	}
}

package tsunami

import (
	"math"

	"deluge/internal/core"
)

// Bridge wraps the analytic field behind the same state-array contract as
// the grid PDE solver. Once per Step it materializes depth and momentum by
// sampling the closed-form field at every raster cell, so every downstream
// consumer stays solver-agnostic.
type Bridge struct {
	cfg   Config
	field *Field
	r     *core.Raster

	depth []float64
	momX  []float64
	momZ  []float64

	stats core.Stats
}

// New returns a tsunami bridge over the provided raster using defaults.
func New(r *core.Raster) *Bridge {
	return NewWithConfig(r, DefaultConfig())
}

// NewWithConfig returns a tsunami bridge configured from the provided
// options. When no origin is set the wave enters at the -x edge of the
// raster, centered in z.
func NewWithConfig(r *core.Raster, cfg Config) *Bridge {
	if cfg.OriginX == 0 && cfg.OriginZ == 0 {
		cfg.OriginX = r.XMin
		cfg.OriginZ = (r.ZMin + r.ZMax) / 2
	}
	total := r.W * r.H
	return &Bridge{
		cfg:   cfg,
		field: NewField(cfg),
		r:     r,
		depth: make([]float64, total),
		momX:  make([]float64, total),
		momZ:  make([]float64, total),
	}
}

// Name returns the solver identifier.
func (b *Bridge) Name() string { return "tsunami" }

// Raster exposes the underlying grid geometry.
func (b *Bridge) Raster() *core.Raster { return b.r }

// Field exposes the analytic wave model for phase-aware consumers.
func (b *Bridge) Field() *Field { return b.field }

// Depth exposes the per-cell water depth materialized by the last Step.
func (b *Bridge) Depth() []float64 { return b.depth }

// MomentumX exposes the per-cell x momentum materialized by the last Step.
func (b *Bridge) MomentumX() []float64 { return b.momX }

// MomentumY exposes the per-cell z momentum materialized by the last Step.
func (b *Bridge) MomentumY() []float64 { return b.momZ }

// Stats returns the diagnostics captured by the last Step.
func (b *Bridge) Stats() core.Stats { return b.stats }

// Reset rewinds the wave front and zeroes the materialized state.
func (b *Bridge) Reset() {
	b.field.Reset()
	for i := range b.depth {
		b.depth[i] = 0
		b.momX[i] = 0
		b.momZ[i] = 0
	}
	b.stats = core.Stats{}
}

// Step advances the front and rematerializes the grid arrays. Obstacle
// cells stay exactly zero.
func (b *Bridge) Step(dt float64) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return
	}
	b.field.Advance(dt)

	st := core.Stats{LastDt: dt, Substeps: 1}
	area := b.r.CellArea()
	for i := range b.depth {
		if b.r.IsObstacle(i) {
			b.depth[i] = 0
			b.momX[i] = 0
			b.momZ[i] = 0
			continue
		}
		x, z := b.r.CellCenter(i)
		h, u, v := b.field.EvalAt(x, z, b.r.Terrain[i])
		b.depth[i] = h
		b.momX[i] = h * u
		b.momZ[i] = h * v

		st.TotalVolume += h * area
		if h > 1e-4 {
			st.WetCells++
		}
		if h > st.MaxDepth {
			st.MaxDepth = h
		}
	}
	b.stats = st
}

// SampleAt queries hydro state at a world point under the shared contract.
func (b *Bridge) SampleAt(x, z float64, interpolate bool, obstacleSearchRadius int) core.Sample {
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(z) || math.IsInf(z, 0) {
		return core.Sample{Obstacle: true}
	}
	return core.SampleGrid(b.r, b.depth, b.momX, b.momZ, x, z, interpolate, obstacleSearchRadius)
}

// PhaseAt reports the flow regime at a world point, using the raster's
// terrain at the enclosing cell.
func (b *Bridge) PhaseAt(x, z float64) Phase {
	cx, cz := b.r.CellAt(x, z)
	return b.field.PhaseAt(x, z, b.r.Terrain[b.r.Index(cx, cz)])
}

// InjectImpulse queues a transient pulse sampled implicitly inside the next
// materialization; it decays over its TTL rather than persisting.
func (b *Bridge) InjectImpulse(x, z, vx, vz, radiusMeters, strength float64) {
	b.field.AddPulse(x, z, vx, vz, radiusMeters, strength)
}

// ClearObstaclesInAABB opens the obstacle mask inside the box; the freed
// cells pick up analytic state on the next Step.
func (b *Bridge) ClearObstaclesInAABB(xMin, xMax, zMin, zMax float64) {
	if math.IsNaN(xMin) || math.IsNaN(xMax) || math.IsNaN(zMin) || math.IsNaN(zMax) {
		return
	}
	b.r.ClearObstaclesInAABB(xMin, xMax, zMin, zMax)
}

func init() {
	core.Register("tsunami", func(r *core.Raster, cfg map[string]string) core.Solver {
		return NewWithConfig(r, FromMap(cfg))
	})
}

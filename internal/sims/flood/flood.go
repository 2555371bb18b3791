package flood

import (
	"math"

	"deluge/internal/core"
)

// Solver is an explicit depth-averaged shallow-water integrator over a
// terrain raster. It exchanges mass and momentum between 4-neighborhoods
// with a donor-limited upwind flux, which keeps total volume exactly
// conserved and depth non-negative, and couples flow to the terrain through
// a well-balanced surface-gradient term so water runs downhill.
type Solver struct {
	cfg Config
	r   *core.Raster

	depth []float64
	momX  []float64
	momZ  []float64

	// scratch, reused every substep
	velX    []float64
	velZ    []float64
	fluxHX  []float64
	fluxMXX []float64
	fluxMZX []float64
	fluxHZ  []float64
	fluxMXZ []float64
	fluxMZZ []float64
	outflow []float64
	limiter []float64

	stats core.Stats
}

// New returns a flood solver over the provided raster using defaults.
func New(r *core.Raster) *Solver {
	return NewWithConfig(r, DefaultConfig())
}

// NewWithConfig returns a flood solver configured from the provided options.
func NewWithConfig(r *core.Raster, cfg Config) *Solver {
	total := r.W * r.H
	return &Solver{
		cfg:     cfg,
		r:       r,
		depth:   make([]float64, total),
		momX:    make([]float64, total),
		momZ:    make([]float64, total),
		velX:    make([]float64, total),
		velZ:    make([]float64, total),
		fluxHX:  make([]float64, total),
		fluxMXX: make([]float64, total),
		fluxMZX: make([]float64, total),
		fluxHZ:  make([]float64, total),
		fluxMXZ: make([]float64, total),
		fluxMZZ: make([]float64, total),
		outflow: make([]float64, total),
		limiter: make([]float64, total),
	}
}

// Name returns the solver identifier.
func (s *Solver) Name() string { return "flood" }

// Raster exposes the underlying grid geometry.
func (s *Solver) Raster() *core.Raster { return s.r }

// Depth exposes the per-cell water depth array.
func (s *Solver) Depth() []float64 { return s.depth }

// MomentumX exposes the per-cell x momentum (depth times velocity).
func (s *Solver) MomentumX() []float64 { return s.momX }

// MomentumY exposes the per-cell z momentum.
func (s *Solver) MomentumY() []float64 { return s.momZ }

// Stats returns the diagnostics captured by the last Step.
func (s *Solver) Stats() core.Stats { return s.stats }

// Config returns a copy of the active configuration.
func (s *Solver) Config() Config { return s.cfg }

// Reset zeroes all live fluid state. The raster geometry is untouched.
func (s *Solver) Reset() {
	for i := range s.depth {
		s.depth[i] = 0
		s.momX[i] = 0
		s.momZ[i] = 0
	}
	s.stats = core.Stats{}
}

// Step advances the simulation by dt seconds of simulated time using
// CFL-limited substeps. The substep count is hard-capped; leftover time
// beyond the cap is dropped so one expensive frame cannot cascade into
// unbounded catch-up work.
func (s *Solver) Step(dt float64) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return
	}
	p := s.cfg.Params
	remaining := dt
	lastDt := 0.0
	substeps := 0
	for substeps < p.MaxSubsteps && remaining > 1e-9 {
		sub := s.stableDt()
		if sub > remaining {
			sub = remaining
		}
		s.substep(sub)
		remaining -= sub
		lastDt = sub
		substeps++
	}
	s.refreshStats(lastDt, substeps)
}

// SampleAt queries hydro state at a world point under the shared contract.
func (s *Solver) SampleAt(x, z float64, interpolate bool, obstacleSearchRadius int) core.Sample {
	if !finite(x) || !finite(z) {
		return core.Sample{Obstacle: true}
	}
	return core.SampleGrid(s.r, s.depth, s.momX, s.momZ, x, z, interpolate, obstacleSearchRadius)
}

// InjectImpulse blends a localized velocity perturbation into the momentum
// arrays with Gaussian falloff. Dry cells are unaffected; there is no water
// to push. Invalid parameters are discarded at the boundary.
func (s *Solver) InjectImpulse(x, z, vx, vz, radiusMeters, strength float64) {
	if !finite(x) || !finite(z) || !finite(vx) || !finite(vz) ||
		!finite(radiusMeters) || !finite(strength) {
		return
	}
	if radiusMeters <= 0 || strength <= 0 {
		return
	}
	if radiusMeters > s.cfg.Params.ImpulseRadiusMax {
		radiusMeters = s.cfg.Params.ImpulseRadiusMax
	}
	pulse := core.Pulse{X: x, Z: z, Vx: vx, Vz: vz, Radius: radiusMeters, Strength: strength}
	reach := 2 * radiusMeters
	cxMin, czMin := s.r.CellAt(x-reach, z-reach)
	cxMax, czMax := s.r.CellAt(x+reach, z+reach)
	for cz := czMin; cz <= czMax; cz++ {
		for cx := cxMin; cx <= cxMax; cx++ {
			idx := s.r.Index(cx, cz)
			if s.r.IsObstacle(idx) {
				continue
			}
			h := s.depth[idx]
			if h <= s.cfg.Params.DryEpsilon {
				continue
			}
			px, pz := s.r.CellCenter(idx)
			w := pulse.Weight(px, pz)
			if w <= 0 {
				continue
			}
			s.momX[idx] += w * strength * vx * h
			s.momZ[idx] += w * strength * vz * h
		}
	}
}

// ClearObstaclesInAABB opens the obstacle mask inside the box, letting fluid
// flow into a collapsed structure's footprint. Idempotent.
func (s *Solver) ClearObstaclesInAABB(xMin, xMax, zMin, zMax float64) {
	if !finite(xMin) || !finite(xMax) || !finite(zMin) || !finite(zMax) {
		return
	}
	s.r.ClearObstaclesInAABB(xMin, xMax, zMin, zMax)
}

// stableDt derives a substep from the CFL condition: wave speed is flow
// speed plus the gravity-wave celerity sqrt(g*h), evaluated over wet cells.
func (s *Solver) stableDt() float64 {
	p := s.cfg.Params
	maxWave := 0.0
	for i, h := range s.depth {
		if h <= p.WetThreshold || s.r.IsObstacle(i) {
			continue
		}
		c := math.Sqrt(p.Gravity * h)
		wx := math.Abs(s.momX[i]/h) + c
		wz := math.Abs(s.momZ[i]/h) + c
		if wx > maxWave {
			maxWave = wx
		}
		if wz > maxWave {
			maxWave = wz
		}
	}
	cell := math.Min(s.r.Dx, s.r.Dz)
	dt := p.MaxDt
	if maxWave > 1e-9 {
		dt = p.CFL * cell / maxWave
	}
	if dt < p.MinDt {
		dt = p.MinDt
	}
	if dt > p.MaxDt {
		dt = p.MaxDt
	}
	return dt
}

func (s *Solver) substep(dt float64) {
	s.computeVelocities()
	s.computeFluxes()
	s.limitOutflow(dt)
	s.applyFluxes(dt)
	s.applyMomentumSources(dt)
	s.applyDepthSources(dt)
	s.snapDryCells()
}

func (s *Solver) computeVelocities() {
	p := s.cfg.Params
	for i, h := range s.depth {
		if h > p.WetThreshold {
			s.velX[i] = s.momX[i] / h
			s.velZ[i] = s.momZ[i] / h
		} else {
			s.velX[i] = 0
			s.velZ[i] = 0
		}
	}
}

// computeFluxes fills the face flux arrays. The x-face at index i sits
// between cell i and its +x neighbor; the z-face between i and its +z
// neighbor. Obstacle faces carry zero flux, which makes walls reflective.
// Each face picks its donor cell by the sign of the face velocity, so every
// flux has a unique donor for the outflow limiter.
func (s *Solver) computeFluxes() {
	w, h := s.r.W, s.r.H
	for cz := 0; cz < h; cz++ {
		for cx := 0; cx < w; cx++ {
			i := cz*w + cx
			s.fluxHX[i], s.fluxMXX[i], s.fluxMZX[i] = 0, 0, 0
			s.fluxHZ[i], s.fluxMXZ[i], s.fluxMZZ[i] = 0, 0, 0
			blocked := s.r.IsObstacle(i)

			if cx+1 < w {
				j := i + 1
				if !blocked && !s.r.IsObstacle(j) {
					uf := 0.5 * (s.velX[i] + s.velX[j])
					if uf != 0 {
						donor := i
						if uf < 0 {
							donor = j
						}
						s.fluxHX[i] = uf * s.depth[donor]
						s.fluxMXX[i] = uf * s.momX[donor]
						s.fluxMZX[i] = uf * s.momZ[donor]
					}
				}
			}
			if cz+1 < h {
				j := i + w
				if !blocked && !s.r.IsObstacle(j) {
					vf := 0.5 * (s.velZ[i] + s.velZ[j])
					if vf != 0 {
						donor := i
						if vf < 0 {
							donor = j
						}
						s.fluxHZ[i] = vf * s.depth[donor]
						s.fluxMXZ[i] = vf * s.momX[donor]
						s.fluxMZZ[i] = vf * s.momZ[donor]
					}
				}
			}
		}
	}
}

// limitOutflow computes a per-donor scale factor so a cell can never export
// more volume in one substep than it holds. Because each face flux is scaled
// only by its donor's factor, the exchange stays exactly antisymmetric and
// mass-conservative.
func (s *Solver) limitOutflow(dt float64) {
	w, h := s.r.W, s.r.H
	area := s.r.CellArea()
	for i := range s.outflow {
		s.outflow[i] = 0
	}
	for cz := 0; cz < h; cz++ {
		for cx := 0; cx < w; cx++ {
			i := cz*w + cx
			if f := s.fluxHX[i]; f != 0 {
				donor := i
				if f < 0 {
					donor = i + 1
				}
				s.outflow[donor] += math.Abs(f) * s.r.Dz
			}
			if f := s.fluxHZ[i]; f != 0 {
				donor := i
				if f < 0 {
					donor = i + w
				}
				s.outflow[donor] += math.Abs(f) * s.r.Dx
			}
		}
	}
	for i := range s.limiter {
		s.limiter[i] = 1
		out := s.outflow[i] * dt
		if out > 0 {
			avail := s.depth[i] * area
			if out > avail {
				s.limiter[i] = avail / out
			}
		}
	}
}

func (s *Solver) applyFluxes(dt float64) {
	w, h := s.r.W, s.r.H
	for cz := 0; cz < h; cz++ {
		for cx := 0; cx < w; cx++ {
			i := cz*w + cx
			if f := s.fluxHX[i]; f != 0 {
				j := i + 1
				donor := i
				if f < 0 {
					donor = j
				}
				sc := s.limiter[donor] * dt / s.r.Dx
				s.depth[i] -= f * sc
				s.depth[j] += f * sc
				s.momX[i] -= s.fluxMXX[i] * sc
				s.momX[j] += s.fluxMXX[i] * sc
				s.momZ[i] -= s.fluxMZX[i] * sc
				s.momZ[j] += s.fluxMZX[i] * sc
			}
			if f := s.fluxHZ[i]; f != 0 {
				j := i + w
				donor := i
				if f < 0 {
					donor = j
				}
				sc := s.limiter[donor] * dt / s.r.Dz
				s.depth[i] -= f * sc
				s.depth[j] += f * sc
				s.momX[i] -= s.fluxMXZ[i] * sc
				s.momX[j] += s.fluxMXZ[i] * sc
				s.momZ[i] -= s.fluxMZZ[i] * sc
				s.momZ[j] += s.fluxMZZ[i] * sc
			}
		}
	}
}

// applyMomentumSources adds the surface-gradient acceleration, Manning
// friction, impulse damping, and the flow-speed clamp. The gradient uses
// water-surface elevation, so a lake at rest over uneven terrain produces no
// spurious flow. Dry neighbors whose ground sits above our surface act as
// walls instead of pulling water uphill.
func (s *Solver) applyMomentumSources(dt float64) {
	p := s.cfg.Params
	w, hgt := s.r.W, s.r.H
	for cz := 0; cz < hgt; cz++ {
		for cx := 0; cx < w; cx++ {
			i := cz*w + cx
			h := s.depth[i]
			if h <= p.WetThreshold || s.r.IsObstacle(i) {
				continue
			}
			eta := s.r.Terrain[i] + h

			gradX := s.surfaceGradient(i, eta, cx > 0, i-1, cx+1 < w, i+1, s.r.Dx)
			gradZ := s.surfaceGradient(i, eta, cz > 0, i-w, cz+1 < hgt, i+w, s.r.Dz)

			s.momX[i] -= p.Gravity * h * gradX * dt
			s.momZ[i] -= p.Gravity * h * gradZ * dt

			speed := math.Hypot(s.momX[i], s.momZ[i]) / h
			if p.ManningN > 0 && speed > 0 {
				// Denominator form cannot flip the flow sign within a substep.
				drag := 1 + dt*p.Gravity*p.ManningN*p.ManningN*speed/math.Pow(h, 4.0/3.0)
				s.momX[i] /= drag
				s.momZ[i] /= drag
			}
			if p.VelocityDamping > 0 {
				damp := 1 + p.VelocityDamping*dt
				s.momX[i] /= damp
				s.momZ[i] /= damp
			}
			speed = math.Hypot(s.momX[i], s.momZ[i]) / h
			if speed > p.MaxFlowSpeed {
				scale := p.MaxFlowSpeed / speed
				s.momX[i] *= scale
				s.momZ[i] *= scale
			}
		}
	}
}

func (s *Solver) surfaceGradient(i int, eta float64, hasLo bool, lo int, hasHi bool, hi int, spacing float64) float64 {
	p := s.cfg.Params
	etaLo, okLo := s.neighborSurface(lo, hasLo, eta, p)
	etaHi, okHi := s.neighborSurface(hi, hasHi, eta, p)
	switch {
	case okLo && okHi:
		return (etaHi - etaLo) / (2 * spacing)
	case okHi:
		return (etaHi - eta) / spacing
	case okLo:
		return (eta - etaLo) / spacing
	default:
		return 0
	}
}

func (s *Solver) neighborSurface(idx int, valid bool, ownEta float64, p Params) (float64, bool) {
	if !valid || s.r.IsObstacle(idx) {
		return 0, false
	}
	h := s.depth[idx]
	eta := s.r.Terrain[idx] + h
	if h <= p.WetThreshold && s.r.Terrain[idx] > ownEta {
		// Dry ground above our surface blocks rather than attracts.
		return 0, false
	}
	return eta, true
}

// applyDepthSources handles point inflow, rainfall, infiltration and
// drainage. The inflow is distributed uniformly over the open cells of a
// disc around the source cell and normalized by the actual covered area, so
// the configured flow rate enters the grid exactly.
func (s *Solver) applyDepthSources(dt float64) {
	p := s.cfg.Params
	if p.SourceEnabled && p.SourceFlowRate > 0 {
		s.applyPointSource(dt)
	}
	rain := p.RainRate
	loss := p.InfiltrationRate + p.DrainageRate
	if rain > 0 || loss > 0 {
		for i := range s.depth {
			if s.r.IsObstacle(i) {
				continue
			}
			if rain > 0 {
				s.depth[i] += rain * dt
			}
			if loss > 0 && s.depth[i] > 0 {
				s.depth[i] -= loss * dt
				if s.depth[i] < 0 {
					s.depth[i] = 0
				}
			}
		}
	}
}

func (s *Solver) applyPointSource(dt float64) {
	p := s.cfg.Params
	src := s.r.SourceIndex
	if src < 0 || src >= len(s.depth) {
		return
	}
	scx := src % s.r.W
	scz := src / s.r.W
	radius := p.SourceRadiusCells
	r2 := radius * radius

	covered := 0
	for dz := -radius; dz <= radius; dz++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dz*dz > r2 {
				continue
			}
			nx, nz := scx+dx, scz+dz
			if nx < 0 || nx >= s.r.W || nz < 0 || nz >= s.r.H {
				continue
			}
			if !s.r.IsObstacle(s.r.Index(nx, nz)) {
				covered++
			}
		}
	}
	if covered == 0 {
		return
	}
	add := p.SourceFlowRate * dt / (float64(covered) * s.r.CellArea())
	for dz := -radius; dz <= radius; dz++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dz*dz > r2 {
				continue
			}
			nx, nz := scx+dx, scz+dz
			if nx < 0 || nx >= s.r.W || nz < 0 || nz >= s.r.H {
				continue
			}
			idx := s.r.Index(nx, nz)
			if !s.r.IsObstacle(idx) {
				s.depth[idx] += add
			}
		}
	}
}

func (s *Solver) snapDryCells() {
	p := s.cfg.Params
	for i, h := range s.depth {
		if s.r.IsObstacle(i) || h < p.DryEpsilon {
			s.depth[i] = 0
			s.momX[i] = 0
			s.momZ[i] = 0
		}
	}
}

func (s *Solver) refreshStats(lastDt float64, substeps int) {
	p := s.cfg.Params
	st := core.Stats{LastDt: lastDt, Substeps: substeps}
	area := s.r.CellArea()
	for i, h := range s.depth {
		if s.r.IsObstacle(i) {
			continue
		}
		st.TotalVolume += h * area
		if h > p.WetThreshold {
			st.WetCells++
		}
		if h > st.MaxDepth {
			st.MaxDepth = h
		}
	}
	s.stats = st
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func init() {
	core.Register("flood", func(r *core.Raster, cfg map[string]string) core.Solver {
		return NewWithConfig(r, FromMap(cfg))
	})
}

package core

// Sample is the result of querying hydrodynamic state at a world-space point.
// Velocity components are zero wherever depth is below the wet threshold of
// the producing solver; they are never derived by dividing by a near-zero
// depth.
type Sample struct {
	Depth    float64
	U        float64
	V        float64
	SurfaceY float64
	TerrainY float64
	Obstacle bool
}

// Stats aggregates per-step diagnostics. They are observational only and are
// recomputed once per full Step, not per substep.
type Stats struct {
	WetCells    int
	MaxDepth    float64
	TotalVolume float64
	LastDt      float64
	Substeps    int
}

// Solver is the contract every hydrodynamic backend implements. Downstream
// systems (surface meshes, debris, structural damage) interact exclusively
// through this interface so that a grid PDE integrator and an analytic wave
// field are interchangeable.
//
// The backing arrays exposed by Depth/MomentumX/MomentumY share the raster's
// row-major indexing and are owned by the solver; callers read them but must
// never write. Momentum is depth times velocity, the conserved quantity.
type Solver interface {
	Name() string
	Raster() *Raster
	Reset()
	Step(dt float64)
	SampleAt(x, z float64, interpolate bool, obstacleSearchRadius int) Sample
	InjectImpulse(x, z, vx, vz, radiusMeters, strength float64)
	ClearObstaclesInAABB(xMin, xMax, zMin, zMax float64)
	Depth() []float64
	MomentumX() []float64
	MomentumY() []float64
	Stats() Stats
}

// Factory constructs a Solver over a prepared raster using an optional
// configuration map.
type Factory func(r *Raster, cfg map[string]string) Solver

var solvers = map[string]Factory{}

// Register adds a solver factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	solvers[name] = f
}

// Solvers exposes the registry of available solver factories.
func Solvers() map[string]Factory {
	return solvers
}

package core

import "math"

// ElevationGrid is a row-major height raster covering a world-aligned extent.
// It is usually coarser than the simulation grid and gets resampled onto it.
type ElevationGrid struct {
	Cols, Rows int
	XMin, XMax float64
	ZMin, ZMax float64
	Heights    []float64
}

// Polygon is a closed ring of world-space (x, z) vertices. The final edge
// from the last vertex back to the first is implicit.
type Polygon [][2]float64

// RasterInput carries everything needed to build a simulation raster:
// terrain heights, building footprints, and grid sizing constraints.
type RasterInput struct {
	Elevation ElevationGrid
	Buildings []Polygon

	// CellSize is the target cell edge length in meters. Grid dimensions
	// derived from it are clamped to [MinResolution, MaxResolution] so
	// memory stays bounded regardless of the covered area.
	CellSize      float64
	MinResolution int
	MaxResolution int

	// FallbackX/FallbackZ seed the expanding-ring source search used when
	// no open cell survives the terrain scan.
	FallbackX float64
	FallbackZ float64
}

// Raster is the uniform simulation grid: cell heights, an obstacle mask and
// a chosen source cell. Geometry is fixed after construction; the obstacle
// mask may only be mutated through ClearObstaclesInAABB, which solvers call
// on collapse events.
type Raster struct {
	W, H   int
	Dx, Dz float64
	XMin, XMax float64
	ZMin, ZMax float64

	Terrain  []float64
	Obstacle []uint8

	SourceIndex int
}

const (
	defaultMinResolution = 16
	defaultMaxResolution = 512
)

// BuildRaster constructs a Raster from external terrain and building
// geometry. Degenerate input (empty elevation, inverted bounds, bad cell
// size) is coerced into a usable minimal grid rather than rejected; the only
// documented precondition is that at least one cell stays free of obstacles.
func BuildRaster(in RasterInput) *Raster {
	minRes := in.MinResolution
	if minRes <= 0 {
		minRes = defaultMinResolution
	}
	maxRes := in.MaxResolution
	if maxRes < minRes {
		maxRes = defaultMaxResolution
		if maxRes < minRes {
			maxRes = minRes
		}
	}

	xMin, xMax := orderedBounds(in.Elevation.XMin, in.Elevation.XMax)
	zMin, zMax := orderedBounds(in.Elevation.ZMin, in.Elevation.ZMax)

	cell := in.CellSize
	if !(cell > 0) || math.IsInf(cell, 0) {
		cell = (xMax - xMin) / float64(minRes)
	}

	w := clampInt(int(math.Round((xMax-xMin)/cell)), minRes, maxRes)
	h := clampInt(int(math.Round((zMax-zMin)/cell)), minRes, maxRes)

	r := &Raster{
		W: w, H: h,
		Dx:   (xMax - xMin) / float64(w),
		Dz:   (zMax - zMin) / float64(h),
		XMin: xMin, XMax: xMax,
		ZMin: zMin, ZMax: zMax,
		Terrain:  make([]float64, w*h),
		Obstacle: make([]uint8, w*h),
	}

	r.resampleTerrain(in.Elevation)
	for _, poly := range in.Buildings {
		r.rasterizePolygon(poly)
	}
	r.selectSource(in.FallbackX, in.FallbackZ)
	return r
}

// Index returns the linear slice index for cell coordinates (cx, cz).
func (r *Raster) Index(cx, cz int) int { return cz*r.W + cx }

// CellCenter returns the world-space center of the cell at linear index i.
func (r *Raster) CellCenter(i int) (float64, float64) {
	cx := i % r.W
	cz := i / r.W
	return r.XMin + (float64(cx)+0.5)*r.Dx, r.ZMin + (float64(cz)+0.5)*r.Dz
}

// CellAt maps a world position to clamped cell coordinates.
func (r *Raster) CellAt(x, z float64) (int, int) {
	cx := clampInt(int(math.Floor((x-r.XMin)/r.Dx)), 0, r.W-1)
	cz := clampInt(int(math.Floor((z-r.ZMin)/r.Dz)), 0, r.H-1)
	return cx, cz
}

// CellArea returns the footprint of a single cell in square meters.
func (r *Raster) CellArea() float64 { return r.Dx * r.Dz }

// IsObstacle reports whether the cell at linear index i is blocked.
func (r *Raster) IsObstacle(i int) bool { return r.Obstacle[i] != 0 }

// ClearObstaclesInAABB removes the obstacle flag from every cell whose
// center lies inside the world-space box and returns how many cells were
// cleared. Calling it again over the same box is a no-op.
func (r *Raster) ClearObstaclesInAABB(xMin, xMax, zMin, zMax float64) int {
	if xMax < xMin {
		xMin, xMax = xMax, xMin
	}
	if zMax < zMin {
		zMin, zMax = zMax, zMin
	}
	cxMin, czMin := r.CellAt(xMin, zMin)
	cxMax, czMax := r.CellAt(xMax, zMax)
	cleared := 0
	for cz := czMin; cz <= czMax; cz++ {
		for cx := cxMin; cx <= cxMax; cx++ {
			x, z := r.CellCenter(r.Index(cx, cz))
			if x < xMin || x > xMax || z < zMin || z > zMax {
				continue
			}
			idx := r.Index(cx, cz)
			if r.Obstacle[idx] != 0 {
				r.Obstacle[idx] = 0
				cleared++
			}
		}
	}
	return cleared
}

// NearestOpenCell searches outward in expanding rings from (cx, cz) for the
// closest non-obstacle cell, out to maxRadius rings. It returns -1 when
// every visited cell is blocked.
func (r *Raster) NearestOpenCell(cx, cz, maxRadius int) int {
	cx = clampInt(cx, 0, r.W-1)
	cz = clampInt(cz, 0, r.H-1)
	if !r.IsObstacle(r.Index(cx, cz)) {
		return r.Index(cx, cz)
	}
	for ring := 1; ring <= maxRadius; ring++ {
		best := -1
		bestDist := math.MaxFloat64
		for dz := -ring; dz <= ring; dz++ {
			for dx := -ring; dx <= ring; dx++ {
				if absInt(dx) != ring && absInt(dz) != ring {
					continue
				}
				nx, nz := cx+dx, cz+dz
				if nx < 0 || nx >= r.W || nz < 0 || nz >= r.H {
					continue
				}
				idx := r.Index(nx, nz)
				if r.IsObstacle(idx) {
					continue
				}
				d := float64(dx*dx + dz*dz)
				if d < bestDist {
					bestDist = d
					best = idx
				}
			}
		}
		if best >= 0 {
			return best
		}
	}
	return -1
}

func (r *Raster) resampleTerrain(elev ElevationGrid) {
	if elev.Cols < 1 || elev.Rows < 1 || len(elev.Heights) < elev.Cols*elev.Rows {
		return
	}
	exMin, exMax := orderedBounds(elev.XMin, elev.XMax)
	ezMin, ezMax := orderedBounds(elev.ZMin, elev.ZMax)
	spanX := exMax - exMin
	spanZ := ezMax - ezMin

	for cz := 0; cz < r.H; cz++ {
		for cx := 0; cx < r.W; cx++ {
			x, z := r.CellCenter(r.Index(cx, cz))
			fx := 0.0
			if elev.Cols > 1 && spanX > 0 {
				fx = (x - exMin) / spanX * float64(elev.Cols-1)
			}
			fz := 0.0
			if elev.Rows > 1 && spanZ > 0 {
				fz = (z - ezMin) / spanZ * float64(elev.Rows-1)
			}
			r.Terrain[r.Index(cx, cz)] = bilinear(elev.Heights, elev.Cols, elev.Rows, fx, fz)
		}
	}
}

// rasterizePolygon marks obstacle cells whose centers fall inside the ring.
// Only the polygon's bounding cell range is scanned, so cost follows the
// footprint area rather than the whole grid.
func (r *Raster) rasterizePolygon(poly Polygon) {
	if len(poly) < 3 {
		return
	}
	bxMin, bxMax := poly[0][0], poly[0][0]
	bzMin, bzMax := poly[0][1], poly[0][1]
	for _, p := range poly[1:] {
		bxMin = math.Min(bxMin, p[0])
		bxMax = math.Max(bxMax, p[0])
		bzMin = math.Min(bzMin, p[1])
		bzMax = math.Max(bzMax, p[1])
	}
	if bxMax < r.XMin || bxMin > r.XMax || bzMax < r.ZMin || bzMin > r.ZMax {
		return
	}
	cxMin, czMin := r.CellAt(bxMin, bzMin)
	cxMax, czMax := r.CellAt(bxMax, bzMax)
	for cz := czMin; cz <= czMax; cz++ {
		for cx := cxMin; cx <= cxMax; cx++ {
			idx := r.Index(cx, cz)
			x, z := r.CellCenter(idx)
			if pointInPolygon(poly, x, z) {
				r.Obstacle[idx] = 1
			}
		}
	}
}

// selectSource picks the highest open cell as the inlet; a flood or tsunami
// source should start at a locally high, open point. When every cell is
// blocked near that criterion it falls back to a ring search around the
// fallback coordinate, which cannot fail while at least one open cell
// exists.
func (r *Raster) selectSource(fallbackX, fallbackZ float64) {
	best := -1
	bestHeight := math.Inf(-1)
	for i := range r.Terrain {
		if r.Obstacle[i] != 0 {
			continue
		}
		if r.Terrain[i] > bestHeight {
			bestHeight = r.Terrain[i]
			best = i
		}
	}
	if best < 0 {
		cx, cz := r.CellAt(fallbackX, fallbackZ)
		maxRing := r.W
		if r.H > maxRing {
			maxRing = r.H
		}
		best = r.NearestOpenCell(cx, cz, maxRing)
		if best < 0 {
			best = 0
		}
	}
	r.SourceIndex = best
}

// pointInPolygon runs an even-odd ray cast against the ring's edges.
func pointInPolygon(poly Polygon, x, z float64) bool {
	inside := false
	n := len(poly)
	j := n - 1
	for i := 0; i < n; i++ {
		xi, zi := poly[i][0], poly[i][1]
		xj, zj := poly[j][0], poly[j][1]
		if (zi > z) != (zj > z) {
			cross := (xj-xi)*(z-zi)/(zj-zi) + xi
			if x < cross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// bilinear samples a row-major grid at fractional coordinates, clamping to
// the border.
func bilinear(values []float64, cols, rows int, fx, fz float64) float64 {
	x0 := clampInt(int(math.Floor(fx)), 0, cols-1)
	z0 := clampInt(int(math.Floor(fz)), 0, rows-1)
	x1 := clampInt(x0+1, 0, cols-1)
	z1 := clampInt(z0+1, 0, rows-1)
	tx := clampFloat(fx-float64(x0), 0, 1)
	tz := clampFloat(fz-float64(z0), 0, 1)

	v00 := values[z0*cols+x0]
	v10 := values[z0*cols+x1]
	v01 := values[z1*cols+x0]
	v11 := values[z1*cols+x1]
	top := v00 + (v10-v00)*tx
	bottom := v01 + (v11-v01)*tx
	return top + (bottom-top)*tz
}

func orderedBounds(lo, hi float64) (float64, float64) {
	if math.IsNaN(lo) || math.IsInf(lo, 0) {
		lo = 0
	}
	if math.IsNaN(hi) || math.IsInf(hi, 0) {
		hi = 0
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi-lo <= 0 {
		hi = lo + 1
	}
	return lo, hi
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package core

import "math"

// velocityEpsilon is the depth below which velocity is reported as zero
// instead of dividing momentum by a vanishing depth.
const velocityEpsilon = 1e-6

// SampleGrid evaluates materialized depth/momentum arrays at a world-space
// point under the shared sampling contract. Both solver families route their
// SampleAt through it so consumers observe identical semantics.
//
// With interpolate false the nearest cell is read directly. With interpolate
// true the four enclosing cells are blended bilinearly, but any obstacle in
// the stencil marks the whole sample as obstacle and falls back to the
// nearest cell's raw values, so state never blends across a wall. When the
// queried cell itself is an obstacle, a ring search bounded by searchRadius
// substitutes the nearest open cell, which keeps samples usable right at
// building edges.
func SampleGrid(r *Raster, depth, momX, momZ []float64, x, z float64, interpolate bool, searchRadius int) Sample {
	x = clampFloat(x, r.XMin, r.XMax)
	z = clampFloat(z, r.ZMin, r.ZMax)

	cx, cz := r.CellAt(x, z)
	idx := r.Index(cx, cz)

	if r.IsObstacle(idx) {
		open := -1
		if searchRadius > 0 {
			open = r.NearestOpenCell(cx, cz, searchRadius)
		}
		if open < 0 {
			return Sample{TerrainY: r.Terrain[idx], SurfaceY: r.Terrain[idx], Obstacle: true}
		}
		s := cellSample(r, depth, momX, momZ, open)
		s.Obstacle = true
		return s
	}

	if !interpolate {
		return cellSample(r, depth, momX, momZ, idx)
	}

	// Stencil anchored at the cell whose center is lower-left of the point.
	fx := (x-r.XMin)/r.Dx - 0.5
	fz := (z-r.ZMin)/r.Dz - 0.5
	x0 := clampInt(int(math.Floor(fx)), 0, r.W-1)
	z0 := clampInt(int(math.Floor(fz)), 0, r.H-1)
	x1 := clampInt(x0+1, 0, r.W-1)
	z1 := clampInt(z0+1, 0, r.H-1)

	i00 := r.Index(x0, z0)
	i10 := r.Index(x1, z0)
	i01 := r.Index(x0, z1)
	i11 := r.Index(x1, z1)

	if r.IsObstacle(i00) || r.IsObstacle(i10) || r.IsObstacle(i01) || r.IsObstacle(i11) {
		s := cellSample(r, depth, momX, momZ, idx)
		s.Obstacle = true
		return s
	}

	tx := clampFloat(fx-float64(x0), 0, 1)
	tz := clampFloat(fz-float64(z0), 0, 1)

	h := blend(depth[i00], depth[i10], depth[i01], depth[i11], tx, tz)
	terrain := blend(r.Terrain[i00], r.Terrain[i10], r.Terrain[i01], r.Terrain[i11], tx, tz)
	s := Sample{Depth: h, TerrainY: terrain, SurfaceY: terrain + h}
	if h > velocityEpsilon {
		mx := blend(momX[i00], momX[i10], momX[i01], momX[i11], tx, tz)
		mz := blend(momZ[i00], momZ[i10], momZ[i01], momZ[i11], tx, tz)
		s.U = mx / h
		s.V = mz / h
	}
	return s
}

func cellSample(r *Raster, depth, momX, momZ []float64, idx int) Sample {
	h := depth[idx]
	s := Sample{Depth: h, TerrainY: r.Terrain[idx], SurfaceY: r.Terrain[idx] + h}
	if h > velocityEpsilon {
		s.U = momX[idx] / h
		s.V = momZ[idx] / h
	}
	return s
}

func blend(v00, v10, v01, v11, tx, tz float64) float64 {
	top := v00 + (v10-v00)*tx
	bottom := v01 + (v11-v01)*tx
	return top + (bottom-top)*tz
}

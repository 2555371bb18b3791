package core

import (
	"math"
	"testing"
)

type sampleFixture struct {
	r     *Raster
	depth []float64
	momX  []float64
	momZ  []float64
}

func newSampleFixture(t *testing.T) *sampleFixture {
	t.Helper()
	r := BuildRaster(flatInput(16, 0))
	n := r.W * r.H
	return &sampleFixture{
		r:     r,
		depth: make([]float64, n),
		momX:  make([]float64, n),
		momZ:  make([]float64, n),
	}
}

func (f *sampleFixture) at(x, z float64, interpolate bool, radius int) Sample {
	return SampleGrid(f.r, f.depth, f.momX, f.momZ, x, z, interpolate, radius)
}

func TestSampleAtCellCenterIsExact(t *testing.T) {
	f := newSampleFixture(t)
	idx := f.r.Index(5, 7)
	f.depth[idx] = 2.0
	f.momX[idx] = 1.0 // u = 0.5
	f.momZ[idx] = -3.0

	x, z := f.r.CellCenter(idx)
	for _, interpolate := range []bool{false, true} {
		s := f.at(x, z, interpolate, 0)
		if math.Abs(s.Depth-2.0) > 1e-12 {
			t.Fatalf("interpolate=%v depth=%f want 2", interpolate, s.Depth)
		}
		if math.Abs(s.U-0.5) > 1e-12 || math.Abs(s.V+1.5) > 1e-12 {
			t.Fatalf("interpolate=%v velocity=(%f,%f) want (0.5,-1.5)", interpolate, s.U, s.V)
		}
		if math.Abs(s.SurfaceY-(s.TerrainY+s.Depth)) > 1e-12 {
			t.Fatalf("surface must equal terrain+depth, got %f vs %f", s.SurfaceY, s.TerrainY+s.Depth)
		}
		if s.Obstacle {
			t.Fatal("open cell flagged as obstacle")
		}
	}
}

func TestSampleInterpolatesBetweenCenters(t *testing.T) {
	f := newSampleFixture(t)
	a := f.r.Index(4, 4)
	b := f.r.Index(5, 4)
	f.depth[a] = 1.0
	f.depth[b] = 3.0

	ax, az := f.r.CellCenter(a)
	s := f.at(ax+0.5*f.r.Dx, az, true, 0)
	if math.Abs(s.Depth-2.0) > 1e-12 {
		t.Fatalf("midpoint depth=%f want 2", s.Depth)
	}

	// Nearest-cell mode snaps instead of blending.
	s = f.at(ax+0.25*f.r.Dx, az, false, 0)
	if s.Depth != 1.0 {
		t.Fatalf("nearest depth=%f want 1", s.Depth)
	}
}

func TestSampleNeverBlendsAcrossObstacle(t *testing.T) {
	f := newSampleFixture(t)
	open := f.r.Index(4, 4)
	blocked := f.r.Index(5, 4)
	f.r.Obstacle[blocked] = 1
	f.depth[open] = 1.0

	x, z := f.r.CellCenter(open)
	s := f.at(x+0.4*f.r.Dx, z, true, 0)
	if !s.Obstacle {
		t.Fatal("stencil touching an obstacle should mark the sample")
	}
	if s.Depth != 1.0 {
		t.Fatalf("sample should fall back to the nearest cell raw value, depth=%f", s.Depth)
	}
}

func TestSampleInsideObstacleUsesRingSearch(t *testing.T) {
	f := newSampleFixture(t)
	blocked := f.r.Index(8, 8)
	neighbor := f.r.Index(7, 8)
	f.r.Obstacle[blocked] = 1
	f.depth[neighbor] = 0.7

	x, z := f.r.CellCenter(blocked)
	s := f.at(x, z, false, 2)
	if !s.Obstacle {
		t.Fatal("query inside an obstacle must be flagged")
	}
	if math.Abs(s.Depth-0.7) > 1e-12 {
		t.Fatalf("expected nearest open cell depth 0.7, got %f", s.Depth)
	}

	// Without a search radius the sample degrades to dry terrain.
	s = f.at(x, z, false, 0)
	if !s.Obstacle || s.Depth != 0 || s.U != 0 || s.V != 0 {
		t.Fatalf("radius 0 should give a dry obstacle sample, got %+v", s)
	}
}

func TestSampleVelocityZeroBelowEpsilon(t *testing.T) {
	f := newSampleFixture(t)
	idx := f.r.Index(3, 3)
	f.depth[idx] = 1e-9
	f.momX[idx] = 5.0

	x, z := f.r.CellCenter(idx)
	s := f.at(x, z, false, 0)
	if s.U != 0 || s.V != 0 {
		t.Fatalf("near-dry cell must report zero velocity, got (%f,%f)", s.U, s.V)
	}
}

func TestSampleClampsOutOfBoundsQueries(t *testing.T) {
	f := newSampleFixture(t)
	corner := f.r.Index(0, 0)
	f.depth[corner] = 1.5

	s := f.at(f.r.XMin-100, f.r.ZMin-100, false, 0)
	if math.Abs(s.Depth-1.5) > 1e-12 {
		t.Fatalf("out-of-bounds query should clamp to the corner cell, depth=%f", s.Depth)
	}
}

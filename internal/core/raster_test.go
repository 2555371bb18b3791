package core

import (
	"math"
	"testing"
)

func flatInput(n int, height float64) RasterInput {
	return RasterInput{
		Elevation: ElevationGrid{
			Cols: 2, Rows: 2,
			XMin: 0, XMax: float64(n),
			ZMin: 0, ZMax: float64(n),
			Heights: []float64{height, height, height, height},
		},
		CellSize:      1,
		MinResolution: n,
		MaxResolution: n,
	}
}

func TestBuildRasterDimensionsClamped(t *testing.T) {
	in := RasterInput{
		Elevation: ElevationGrid{
			Cols: 2, Rows: 2,
			XMin: 0, XMax: 1000, ZMin: 0, ZMax: 1000,
			Heights: []float64{0, 0, 0, 0},
		},
		CellSize:      1,
		MinResolution: 16,
		MaxResolution: 64,
	}
	r := BuildRaster(in)
	if r.W != 64 || r.H != 64 {
		t.Fatalf("expected 64x64 grid after clamping, got %dx%d", r.W, r.H)
	}
	if math.Abs(r.Dx-1000.0/64) > 1e-9 {
		t.Fatalf("cell spacing should cover the full extent, got dx=%f", r.Dx)
	}

	in.Elevation.XMax = 4
	in.Elevation.ZMax = 4
	r = BuildRaster(in)
	if r.W != 16 || r.H != 16 {
		t.Fatalf("expected small areas to clamp up to 16x16, got %dx%d", r.W, r.H)
	}
}

func TestBuildRasterDegenerateInputCoerced(t *testing.T) {
	r := BuildRaster(RasterInput{})
	if r.W <= 0 || r.H <= 0 {
		t.Fatalf("degenerate input must still produce a usable grid, got %dx%d", r.W, r.H)
	}
	if r.SourceIndex < 0 || r.SourceIndex >= r.W*r.H {
		t.Fatalf("source index out of range: %d", r.SourceIndex)
	}
}

func TestResampleLinearGradientIsExact(t *testing.T) {
	in := RasterInput{
		Elevation: ElevationGrid{
			Cols: 2, Rows: 2,
			XMin: 0, XMax: 10, ZMin: 0, ZMax: 10,
			Heights: []float64{0, 10, 0, 10},
		},
		CellSize:      1,
		MinResolution: 10,
		MaxResolution: 10,
	}
	r := BuildRaster(in)
	for cx := 0; cx < r.W; cx++ {
		x, _ := r.CellCenter(r.Index(cx, 3))
		got := r.Terrain[r.Index(cx, 3)]
		if math.Abs(got-x) > 1e-9 {
			t.Fatalf("bilinear resample of linear field should be exact: cell %d got %f want %f", cx, got, x)
		}
	}
}

func TestObstacleRasterizationMarksFootprintOnly(t *testing.T) {
	in := flatInput(10, 0)
	in.Buildings = []Polygon{{{2, 2}, {5, 2}, {5, 5}, {2, 5}}}
	r := BuildRaster(in)

	count := 0
	for i := range r.Obstacle {
		if r.Obstacle[i] != 0 {
			count++
			x, z := r.CellCenter(i)
			if x < 2 || x > 5 || z < 2 || z > 5 {
				t.Fatalf("cell center (%f,%f) marked obstacle outside footprint", x, z)
			}
		}
	}
	// Cell centers 2.5, 3.5, 4.5 fall inside in each axis.
	if count != 9 {
		t.Fatalf("expected 9 obstacle cells for a 3x3 footprint, got %d", count)
	}
}

func TestSourceIsHighestOpenCell(t *testing.T) {
	in := RasterInput{
		Elevation: ElevationGrid{
			Cols: 2, Rows: 2,
			XMin: 0, XMax: 10, ZMin: 0, ZMax: 10,
			Heights: []float64{0, 10, 0, 10},
		},
		CellSize:      1,
		MinResolution: 10,
		MaxResolution: 10,
	}
	r := BuildRaster(in)
	sx, _ := r.CellCenter(r.SourceIndex)
	if sx < 9 {
		t.Fatalf("source should sit on the high east edge, got x=%f", sx)
	}

	// Block the entire high half; the source must move to open ground.
	in.Buildings = []Polygon{{{5, -1}, {11, -1}, {11, 11}, {5, 11}}}
	r = BuildRaster(in)
	if r.IsObstacle(r.SourceIndex) {
		t.Fatal("source landed on an obstacle cell")
	}
	sx, _ = r.CellCenter(r.SourceIndex)
	if sx > 5 {
		t.Fatalf("source should have moved west of the blocked half, got x=%f", sx)
	}
}

func TestNearestOpenCellRingSearch(t *testing.T) {
	r := BuildRaster(flatInput(10, 0))
	// Wall off a 3x3 block and search from its center.
	for cz := 4; cz <= 6; cz++ {
		for cx := 4; cx <= 6; cx++ {
			r.Obstacle[r.Index(cx, cz)] = 1
		}
	}
	idx := r.NearestOpenCell(5, 5, 8)
	if idx < 0 {
		t.Fatal("search should find an open cell")
	}
	if r.IsObstacle(idx) {
		t.Fatal("search returned an obstacle cell")
	}
	cx, cz := idx%r.W, idx/r.W
	if absInt(cx-5) > 2 || absInt(cz-5) > 2 {
		t.Fatalf("expected nearest ring hit, got cell (%d,%d)", cx, cz)
	}

	for i := range r.Obstacle {
		r.Obstacle[i] = 1
	}
	if got := r.NearestOpenCell(5, 5, 20); got != -1 {
		t.Fatalf("fully blocked grid should report -1, got %d", got)
	}
}

func TestClearObstaclesInAABBIdempotent(t *testing.T) {
	in := flatInput(10, 0)
	in.Buildings = []Polygon{{{2, 2}, {5, 2}, {5, 5}, {2, 5}}}
	r := BuildRaster(in)

	cleared := r.ClearObstaclesInAABB(2, 5, 2, 5)
	if cleared != 9 {
		t.Fatalf("expected 9 cells cleared, got %d", cleared)
	}
	if again := r.ClearObstaclesInAABB(2, 5, 2, 5); again != 0 {
		t.Fatalf("second clear should be a no-op, got %d", again)
	}
	for i := range r.Obstacle {
		if r.Obstacle[i] != 0 {
			t.Fatal("obstacle flag survived clearing")
		}
	}
}

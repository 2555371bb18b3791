package render

import (
	"testing"

	"deluge/internal/core"
)

func testRaster() *core.Raster {
	return core.BuildRaster(core.RasterInput{
		Elevation: core.ElevationGrid{
			Cols: 2, Rows: 2,
			XMin: 0, XMax: 16, ZMin: 0, ZMax: 16,
			Heights: []float64{0, 10, 0, 10},
		},
		CellSize:      1,
		MinResolution: 16,
		MaxResolution: 16,
		Buildings:     []core.Polygon{{{1, 1}, {3, 1}, {3, 3}, {1, 3}}},
	})
}

func TestShadePicksLayerPerCell(t *testing.T) {
	r := testRaster()
	s := NewFieldShader(r)
	depth := make([]float64, r.W*r.H)
	wet := r.Index(8, 8)
	depth[wet] = 2

	buf := make([]byte, 4*r.W*r.H)
	s.Shade(buf, depth, nil, 2)

	obstacle := -1
	for i := range r.Obstacle {
		if r.IsObstacle(i) {
			obstacle = i
			break
		}
	}
	if obstacle < 0 {
		t.Fatal("fixture has no obstacle cell")
	}
	if buf[obstacle*4] != 72 || buf[obstacle*4+1] != 72 || buf[obstacle*4+2] != 78 {
		t.Fatalf("obstacle cell not grey: %v", buf[obstacle*4:obstacle*4+4])
	}

	// Wet cells lean blue; dry cells take the terrain ramp (green-ish low).
	if !(buf[wet*4+2] > buf[wet*4]) {
		t.Fatalf("wet cell not blue-dominant: %v", buf[wet*4:wet*4+4])
	}
	dry := r.Index(8, 12)
	if !(buf[dry*4+1] >= buf[dry*4+2]) {
		t.Fatalf("dry cell not terrain-toned: %v", buf[dry*4:dry*4+4])
	}
	for i := 0; i < r.W*r.H; i++ {
		if buf[i*4+3] != 255 {
			t.Fatalf("cell %d not opaque", i)
		}
	}
}

func TestRippleModulatesWaterBrightness(t *testing.T) {
	r := testRaster()
	s := NewFieldShader(r)
	n := r.W * r.H
	depth := make([]float64, n)
	wet := r.Index(8, 8)
	depth[wet] = 2

	flat := make([]byte, 4*n)
	s.Shade(flat, depth, nil, 2)

	ripples := make([]float64, n)
	ripples[wet] = 0.4
	lit := make([]byte, 4*n)
	s.Shade(lit, depth, ripples, 2)

	if !(lit[wet*4] > flat[wet*4]) {
		t.Fatalf("crest did not brighten the cell: %d vs %d", lit[wet*4], flat[wet*4])
	}

	ripples[wet] = -0.4
	s.Shade(lit, depth, ripples, 2)
	if !(lit[wet*4+2] < flat[wet*4+2]) {
		t.Fatalf("trough did not darken the cell: %d vs %d", lit[wet*4+2], flat[wet*4+2])
	}
}

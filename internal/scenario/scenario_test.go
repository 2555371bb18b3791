package scenario

import (
	"reflect"
	"testing"

	"deluge/internal/core"
)

func TestPresetNamesResolve(t *testing.T) {
	for _, name := range Names() {
		sc, ok := Preset(name, 42)
		if !ok {
			t.Fatalf("listed preset %q not resolvable", name)
		}
		if sc.Name != name || sc.Solver == "" {
			t.Fatalf("preset %q incomplete: %+v", name, sc)
		}
	}
	if _, ok := Preset("volcano", 42); ok {
		t.Fatal("unknown preset resolved")
	}
}

func TestScenariosAreDeterministic(t *testing.T) {
	for _, name := range Names() {
		a, _ := Preset(name, 7)
		b, _ := Preset(name, 7)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("preset %q differs between runs with the same seed", name)
		}
		c, _ := Preset(name, 8)
		if reflect.DeepEqual(a.Input.Elevation.Heights, c.Input.Elevation.Heights) {
			t.Fatalf("preset %q ignores its seed", name)
		}
	}
}

func TestScenariosBuildUsableRasters(t *testing.T) {
	for _, name := range Names() {
		sc, _ := Preset(name, 42)
		r := core.BuildRaster(sc.Input)
		if r.W <= 0 || r.H <= 0 {
			t.Fatalf("preset %q built an empty raster", name)
		}
		open := 0
		for i := range r.Obstacle {
			if r.Obstacle[i] == 0 {
				open++
			}
		}
		if open == 0 {
			t.Fatalf("preset %q left no open cells", name)
		}
		if r.IsObstacle(r.SourceIndex) {
			t.Fatalf("preset %q source cell is blocked", name)
		}
		if len(sc.Input.Buildings) == 0 {
			t.Fatalf("preset %q placed no buildings", name)
		}
	}
}

func TestFloodValleyDrainsInward(t *testing.T) {
	sc := Flood(42)
	r := core.BuildRaster(sc.Input)
	// The valley floor near the center column should sit below the ridges.
	mid := r.Terrain[r.Index(r.W/2, r.H/2)]
	edge := r.Terrain[r.Index(1, r.H/2)]
	if mid >= edge {
		t.Fatalf("valley center %f not below ridge %f", mid, edge)
	}
}

func TestTsunamiShoreRampsInland(t *testing.T) {
	sc := Tsunami(42)
	r := core.BuildRaster(sc.Input)
	sea := r.Terrain[r.Index(2, r.H/2)]
	inland := r.Terrain[r.Index(r.W-2, r.H/2)]
	if sea >= 0 {
		t.Fatalf("offshore terrain %f should start below sea level", sea)
	}
	if inland <= sea+5 {
		t.Fatalf("terrain never ramps inland: sea=%f inland=%f", sea, inland)
	}
}

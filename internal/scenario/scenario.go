// Package scenario builds synthetic terrain and building geometry shaped
// like the real-world rasters the simulation normally receives from its geo
// collaborators. Demos and tooling run on these stand-ins; the data shapes
// are identical to the external contract.
package scenario

import (
	"deluge/internal/core"
	pkgcore "deluge/pkg/core"

	"github.com/ojrac/opensimplex-go"
)

// Scenario bundles raster input with the solver preset meant to run on it.
type Scenario struct {
	Name         string
	Input        core.RasterInput
	Solver       string
	SolverConfig map[string]string
}

const (
	areaSize   = 480.0
	sourceCols = 96
	sourceRows = 96
	cellSize   = 5.0
)

// Names lists the available presets.
func Names() []string { return []string{"flood", "tsunami"} }

// Preset returns the named scenario, reporting whether the name is known.
func Preset(name string, seed int64) (Scenario, bool) {
	switch name {
	case "flood":
		return Flood(seed), true
	case "tsunami":
		return Tsunami(seed), true
	}
	return Scenario{}, false
}

// Flood is a river valley: high ground along the x edges draining toward a
// central channel, with buildings scattered on the lower slopes. The source
// cell lands on a ridge, so enabling the inlet floods the valley floor.
func Flood(seed int64) Scenario {
	noise := opensimplex.New(seed)
	heights := make([]float64, sourceCols*sourceRows)
	for row := 0; row < sourceRows; row++ {
		for col := 0; col < sourceCols; col++ {
			nx := float64(col) / float64(sourceCols-1)
			nz := float64(row) / float64(sourceRows-1)
			// Parabolic valley cross-section plus rolling noise.
			ridge := 18 * (nx - 0.5) * (nx - 0.5) * 4
			slope := 3 * nz
			heights[row*sourceCols+col] = ridge + slope + 2.5*fbm(noise, nx*4, nz*4, 4)
		}
	}
	elev := baseElevation(heights)
	buildings := placeBuildings(seed+1, heights, 28, func(h float64) bool {
		return h > 1 && h < 10
	})
	return Scenario{
		Name: "flood",
		Input: core.RasterInput{
			Elevation: elev,
			Buildings: buildings,
			CellSize:  cellSize,
			FallbackX: areaSize / 2,
			FallbackZ: areaSize / 2,
		},
		Solver: "flood",
		SolverConfig: map[string]string{
			"source_enabled": "true",
			"source_flow":    "40",
			"source_radius":  "2",
		},
	}
}

// Tsunami is a coastline: seabed below sea level on the -x side ramping up
// to inland terrain, with a beachfront building row. The default bridge
// origin sends the bore ashore along +x.
func Tsunami(seed int64) Scenario {
	noise := opensimplex.New(seed)
	heights := make([]float64, sourceCols*sourceRows)
	for row := 0; row < sourceRows; row++ {
		for col := 0; col < sourceCols; col++ {
			nx := float64(col) / float64(sourceCols-1)
			nz := float64(row) / float64(sourceRows-1)
			shore := (nx - 0.25) * 24
			if shore < -4 {
				shore = -4
			}
			heights[row*sourceCols+col] = shore + 1.5*fbm(noise, nx*5, nz*5, 4)
		}
	}
	elev := baseElevation(heights)
	buildings := placeBuildings(seed+1, heights, 36, func(h float64) bool {
		return h > 0.5 && h < 8
	})
	return Scenario{
		Name: "tsunami",
		Input: core.RasterInput{
			Elevation: elev,
			Buildings: buildings,
			CellSize:  cellSize,
			FallbackX: areaSize / 2,
			FallbackZ: areaSize / 2,
		},
		Solver: "tsunami",
		SolverConfig: map[string]string{
			"wave_height": "8",
			"wave_speed":  "18",
			"num_waves":   "3",
		},
	}
}

func baseElevation(heights []float64) core.ElevationGrid {
	return core.ElevationGrid{
		Cols: sourceCols, Rows: sourceRows,
		XMin: 0, XMax: areaSize,
		ZMin: 0, ZMax: areaSize,
		Heights: heights,
	}
}

// placeBuildings scatters rectangular footprints on cells the suitability
// predicate accepts, using a deterministic RNG so scenarios replay exactly.
func placeBuildings(seed int64, heights []float64, count int, suitable func(h float64) bool) []core.Polygon {
	rng := pkgcore.NewRNG(seed)
	var out []core.Polygon
	attempts := count * 8
	for len(out) < count && attempts > 0 {
		attempts--
		x := rng.Range(20, areaSize-20)
		z := rng.Range(20, areaSize-20)
		if !suitable(heightAt(heights, x, z)) {
			continue
		}
		w := rng.Range(8, 18)
		d := rng.Range(8, 18)
		out = append(out, core.Polygon{
			{x - w/2, z - d/2},
			{x + w/2, z - d/2},
			{x + w/2, z + d/2},
			{x - w/2, z + d/2},
		})
	}
	return out
}

func heightAt(heights []float64, x, z float64) float64 {
	col := int(x / areaSize * float64(sourceCols-1))
	row := int(z / areaSize * float64(sourceRows-1))
	if col < 0 {
		col = 0
	}
	if col >= sourceCols {
		col = sourceCols - 1
	}
	if row < 0 {
		row = 0
	}
	if row >= sourceRows {
		row = sourceRows - 1
	}
	return heights[row*sourceCols+col]
}

// fbm sums octaves of simplex noise with halving amplitude.
func fbm(noise opensimplex.Noise, x, z float64, octaves int) float64 {
	sum := 0.0
	amp := 1.0
	freq := 1.0
	norm := 0.0
	for i := 0; i < octaves; i++ {
		sum += amp * noise.Eval2(x*freq, z*freq)
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

package render

import (
	"image/color"
	"math"

	"deluge/internal/core"
)

// FieldShader converts raster terrain plus fluid state into RGBA pixels:
// hypsometric terrain tint, depth-darkened water, obstacle grey, and a
// ripple brightness modulation.
type FieldShader struct {
	r          *core.Raster
	minTerrain float64
	maxTerrain float64
}

// NewFieldShader builds a shader for the raster, caching its height range.
func NewFieldShader(r *core.Raster) *FieldShader {
	minT, maxT := r.Terrain[0], r.Terrain[0]
	for _, h := range r.Terrain {
		if h < minT {
			minT = h
		}
		if h > maxT {
			maxT = h
		}
	}
	if maxT-minT < 1e-9 {
		maxT = minT + 1
	}
	return &FieldShader{r: r, minTerrain: minT, maxTerrain: maxT}
}

// Shade fills buf (4 bytes per cell, row-major) from depth and optional
// ripple heights. maxDepth controls the water color ramp; values at or
// below zero fall back to 1 meter.
func (s *FieldShader) Shade(buf []byte, depth, rippleHeights []float64, maxDepth float64) {
	if maxDepth <= 0 {
		maxDepth = 1
	}
	for i := range s.r.Terrain {
		base := i * 4
		var col color.RGBA
		switch {
		case s.r.IsObstacle(i):
			col = color.RGBA{R: 72, G: 72, B: 78, A: 255}
		case depth[i] > 1e-3:
			t := clamp01(depth[i] / maxDepth)
			col = waterColor(t)
			if rippleHeights != nil {
				col = brighten(col, rippleHeights[i])
			}
		default:
			t := clamp01((s.r.Terrain[i] - s.minTerrain) / (s.maxTerrain - s.minTerrain))
			col = terrainColor(t)
		}
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// waterColor ramps from shallow cyan to deep navy.
func waterColor(t float64) color.RGBA {
	return lerpRGBA(
		color.RGBA{R: 120, G: 190, B: 235, A: 255},
		color.RGBA{R: 12, G: 40, B: 110, A: 255},
		math.Sqrt(t),
	)
}

// terrainColor is a compact hypsometric ramp: lowland green through ochre
// to pale summit.
func terrainColor(t float64) color.RGBA {
	stops := []struct {
		t   float64
		col color.RGBA
	}{
		{0.0, color.RGBA{R: 58, G: 96, B: 58, A: 255}},
		{0.45, color.RGBA{R: 110, G: 130, B: 70, A: 255}},
		{0.75, color.RGBA{R: 172, G: 142, B: 88, A: 255}},
		{1.0, color.RGBA{R: 226, G: 222, B: 206, A: 255}},
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].t {
			prev := stops[i-1]
			span := stops[i].t - prev.t
			local := 0.0
			if span > 0 {
				local = (t - prev.t) / span
			}
			return lerpRGBA(prev.col, stops[i].col, local)
		}
	}
	return stops[len(stops)-1].col
}

// brighten shifts a color by the signed ripple height, crest up, trough
// down.
func brighten(c color.RGBA, ripple float64) color.RGBA {
	shift := clampFloat(ripple*120, -60, 60)
	return color.RGBA{
		R: addComponent(c.R, shift),
		G: addComponent(c.G, shift),
		B: addComponent(c.B, shift),
		A: c.A,
	}
}

func addComponent(v uint8, shift float64) uint8 {
	out := float64(v) + shift
	if out < 0 {
		return 0
	}
	if out > 255 {
		return 255
	}
	return uint8(math.Round(out))
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	t = clamp01(t)
	return color.RGBA{
		R: lerpComponent(a.R, b.R, t),
		G: lerpComponent(a.G, b.G, t),
		B: lerpComponent(a.B, b.B, t),
		A: lerpComponent(a.A, b.A, t),
	}
}

func lerpComponent(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
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

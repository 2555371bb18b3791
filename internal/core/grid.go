package core

// FloatGrid stores a 2D grid of float64 cell values in row-major order. It
// backs the double-buffered ripple fields and other per-cell scratch layers.
type FloatGrid struct {
	W, H int
	data []float64
}

// NewFloatGrid allocates a grid with the given dimensions.
func NewFloatGrid(w, h int) *FloatGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &FloatGrid{W: w, H: h, data: make([]float64, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *FloatGrid) Cells() []float64 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *FloatGrid) Index(x, y int) int { return y*g.W + x }

// At reads the value at (x, y) with border clamping.
func (g *FloatGrid) At(x, y int) float64 {
	x = clampInt(x, 0, g.W-1)
	y = clampInt(y, 0, g.H-1)
	return g.data[y*g.W+x]
}

// Clear fills the grid with zeros.
func (g *FloatGrid) Clear() {
	for i := range g.data {
		g.data[i] = 0
	}
}

//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"deluge/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Overlay draws optional debugging visuals on top of the base field view:
// a sampled flow-velocity arrow grid and an obstacle-mask tint.
type Overlay struct {
	solver core.Solver
	scale  int

	showFlow      bool
	showObstacles bool

	pixel   *ebiten.Image
	maskImg *ebiten.Image
	maskBuf []byte

	samples []flowSample
}

type flowSample struct {
	wx, wz float64
	sx, sy float64
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(solver core.Solver, scale int) *Overlay {
	o := &Overlay{solver: solver, scale: scale}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles overlay layers from the number keys.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showFlow = !o.showFlow
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showObstacles = !o.showObstacles
	}
}

// Draw renders the enabled overlay layers onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if o.showFlow {
		o.drawFlowField(screen)
	}
	if o.showObstacles {
		o.drawObstacles(screen)
	}
}

// drawFlowField samples velocity on a spaced grid through the solver's
// world-space sampling contract and draws speed-scaled arrows.
func (o *Overlay) drawFlowField(screen *ebiten.Image) {
	o.ensureSamples()

	const (
		calmThreshold = 0.05
		speedScale    = 6.0
	)
	scale := float64(o.scale)
	for _, sample := range o.samples {
		s := o.solver.SampleAt(sample.wx, sample.wz, true, 0)
		if s.Obstacle || s.Depth <= 0 {
			continue
		}
		speed := math.Hypot(s.U, s.V)
		if speed < calmThreshold {
			continue
		}
		length := math.Min(speed*speedScale, scale*6)
		nx := s.U / speed
		ny := s.V / speed
		tipX := sample.sx + nx*length
		tipY := sample.sy + ny*length
		col := flowColor(speed)
		o.drawLine(screen, sample.sx, sample.sy, tipX, tipY, scale*0.4, col)

		angle := math.Atan2(ny, nx)
		head := math.Min(length*0.35, scale*2)
		o.drawLine(screen, tipX, tipY, tipX-math.Cos(angle+math.Pi/6)*head, tipY-math.Sin(angle+math.Pi/6)*head, scale*0.35, col)
		o.drawLine(screen, tipX, tipY, tipX-math.Cos(angle-math.Pi/6)*head, tipY-math.Sin(angle-math.Pi/6)*head, scale*0.35, col)
	}
}

func (o *Overlay) ensureSamples() {
	if len(o.samples) > 0 {
		return
	}
	r := o.solver.Raster()
	spacing := r.W / 24
	if spacing < 2 {
		spacing = 2
	}
	for cz := spacing / 2; cz < r.H; cz += spacing {
		for cx := spacing / 2; cx < r.W; cx += spacing {
			wx, wz := r.CellCenter(r.Index(cx, cz))
			o.samples = append(o.samples, flowSample{
				wx: wx, wz: wz,
				sx: (float64(cx) + 0.5) * float64(o.scale),
				sy: (float64(cz) + 0.5) * float64(o.scale),
			})
		}
	}
}

func (o *Overlay) drawObstacles(screen *ebiten.Image) {
	r := o.solver.Raster()
	total := r.W * r.H
	if o.maskImg == nil {
		o.maskImg = ebiten.NewImage(r.W, r.H)
		o.maskBuf = make([]byte, 4*total)
	}
	for i := 0; i < total; i++ {
		base := i * 4
		if r.IsObstacle(i) {
			o.maskBuf[base+0] = 255
			o.maskBuf[base+1] = 80
			o.maskBuf[base+2] = 60
			o.maskBuf[base+3] = 120
		} else {
			o.maskBuf[base+3] = 0
		}
	}
	o.maskImg.WritePixels(o.maskBuf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(o.scale), float64(o.scale))
	screen.DrawImage(o.maskImg, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 || thickness <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.Scale(float32(col.R)/255, float32(col.G)/255, float32(col.B)/255, float32(col.A)/255)
	screen.DrawImage(o.pixel, op)
}

func flowColor(speed float64) color.RGBA {
	t := speed / 10
	if t > 1 {
		t = 1
	}
	return color.RGBA{
		R: uint8(80 + 150*t),
		G: uint8(200 - 80*t),
		B: 240,
		A: 220,
	}
}

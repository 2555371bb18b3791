//go:build ebiten

package app

import (
	"deluge/internal/core"
	"deluge/internal/render"
	"deluge/internal/ripple"
	"deluge/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// impulseStrength scales the velocity perturbation a mouse drag injects.
const (
	impulseStrength = 2.0
	impulseRadius   = 12.0
	rippleStrength  = 0.35
	rippleRadius    = 8.0
)

// Game adapts a hydro solver plus ripple overlay to the ebiten.Game
// interface. A left click splashes a ripple pulse; dragging while clicking
// also injects a momentum impulse along the drag direction, exercising the
// same entry points debris and structure systems use.
type Game struct {
	solver  core.Solver
	ripple  *ripple.Field
	shader  *render.FieldShader
	overlay *ui.Overlay
	hud     *ui.HUD

	img *ebiten.Image
	buf []byte

	scale    int
	dt       float64
	paused   bool
	tickOnce bool

	lastMouseX int
	lastMouseY int
	mouseDown  bool
}

// New constructs a Game for the provided solver and overlay field.
func New(solver core.Solver, rip *ripple.Field, scale, tps int) *Game {
	if scale <= 0 {
		scale = 1
	}
	if tps <= 0 {
		tps = 60
	}
	r := solver.Raster()
	return &Game{
		solver:  solver,
		ripple:  rip,
		shader:  render.NewFieldShader(r),
		overlay: ui.NewOverlay(solver, scale),
		hud:     ui.NewHUD(solver, ui.PanelWidth),
		img:     ebiten.NewImage(r.W, r.H),
		buf:     make([]byte, 4*r.W*r.H),
		scale:   scale,
		dt:      1.0 / float64(tps),
	}
}

// Reset reinitializes the solver and clears the ripple overlay.
func (g *Game) Reset() {
	g.solver.Reset()
	if g.ripple != nil {
		g.ripple.Clear()
	}
	g.tickOnce = false
}

// Update handles per-frame input and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset()
	}

	g.handleMouse()
	g.overlay.Update()
	g.hud.Update(g.solver.Raster().W * g.scale)

	if !g.paused || g.tickOnce {
		g.solver.Step(g.dt)
		if g.ripple != nil {
			g.ripple.Step(g.dt, g.solver)
		}
		g.tickOnce = false
	}
	return nil
}

func (g *Game) handleMouse() {
	x, y := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	r := g.solver.Raster()

	if pressed && !g.mouseDown {
		wx := r.XMin + float64(x)/float64(g.scale)*r.Dx
		wz := r.ZMin + float64(y)/float64(g.scale)*r.Dz
		if wx >= r.XMin && wx <= r.XMax && wz >= r.ZMin && wz <= r.ZMax {
			if g.ripple != nil {
				g.ripple.AddPulse(wx, wz, rippleRadius, rippleStrength)
			}
		}
	}
	if pressed && g.mouseDown && (x != g.lastMouseX || y != g.lastMouseY) {
		wx := r.XMin + float64(x)/float64(g.scale)*r.Dx
		wz := r.ZMin + float64(y)/float64(g.scale)*r.Dz
		dx := float64(x-g.lastMouseX) / float64(g.scale) * r.Dx
		dz := float64(y-g.lastMouseY) / float64(g.scale) * r.Dz
		g.solver.InjectImpulse(wx, wz, dx, dz, impulseRadius, impulseStrength)
	}
	g.mouseDown = pressed
	g.lastMouseX = x
	g.lastMouseY = y
}

// Draw renders the shaded field, overlay, and HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	var rippleHeights []float64
	if g.ripple != nil {
		rippleHeights = g.ripple.Height()
	}
	g.shader.Shade(g.buf, g.solver.Depth(), rippleHeights, g.solver.Stats().MaxDepth)
	g.img.WritePixels(g.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.img, op)

	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.solver.Raster().W*g.scale, g.scale)
}

// Layout returns the logical screen size including the HUD panel.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	r := g.solver.Raster()
	return r.W*g.scale + ui.PanelWidth, r.H * g.scale
}

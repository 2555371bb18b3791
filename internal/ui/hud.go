//go:build ebiten

package ui

import (
	"fmt"
	"image/color"

	"deluge/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// PanelWidth is the HUD strip width in pixels.
const PanelWidth = 200

type parameterProvider interface {
	Parameters() core.ParameterSnapshot
}

// HUD renders solver stats and tunable parameters to the right of the
// simulation view. Tab cycles the selected control; minus/equals adjust it
// through the solver's setter interfaces.
type HUD struct {
	solver core.Solver
	width  int

	panel      *ebiten.Image
	lastHeight int
	offsetX    int

	controls    []core.ParameterControl
	selected    int
	floatSetter core.FloatParameterSetter
	intSetter   core.IntParameterSetter
	boolSetter  core.BoolParameterSetter
}

// NewHUD constructs a HUD for the provided solver and panel width.
func NewHUD(solver core.Solver, width int) *HUD {
	h := &HUD{solver: solver, width: width}
	if provider, ok := solver.(core.ParameterControlsProvider); ok {
		h.controls = provider.ParameterControls()
	}
	if setter, ok := solver.(core.FloatParameterSetter); ok {
		h.floatSetter = setter
	}
	if setter, ok := solver.(core.IntParameterSetter); ok {
		h.intSetter = setter
	}
	if setter, ok := solver.(core.BoolParameterSetter); ok {
		h.boolSetter = setter
	}
	return h
}

// Update processes HUD key input.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.offsetX = panelOffsetX
	if len(h.controls) == 0 {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		h.selected = (h.selected + 1) % len(h.controls)
	}
	delta := 0.0
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		delta = -1
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		delta = 1
	}
	if delta != 0 {
		h.adjust(h.controls[h.selected], delta)
	}
}

func (h *HUD) adjust(ctrl core.ParameterControl, direction float64) {
	switch ctrl.Type {
	case core.ParamTypeBool:
		if h.boolSetter != nil {
			h.boolSetter.SetBoolParameter(ctrl.Key, direction > 0)
		}
	case core.ParamTypeInt:
		if h.intSetter != nil {
			step := int(ctrl.Step)
			if step == 0 {
				step = 1
			}
			if cur, ok := h.currentValue(ctrl.Key); ok {
				h.intSetter.SetIntParameter(ctrl.Key, int(cur)+step*int(direction))
			}
		}
	case core.ParamTypeFloat:
		if h.floatSetter != nil {
			step := ctrl.Step
			if step == 0 {
				step = 0.1
			}
			if cur, ok := h.currentValue(ctrl.Key); ok {
				h.floatSetter.SetFloatParameter(ctrl.Key, cur+step*direction)
			}
		}
	}
}

func (h *HUD) currentValue(key string) (float64, bool) {
	provider, ok := h.solver.(parameterProvider)
	if !ok {
		return 0, false
	}
	for _, group := range provider.Parameters().Groups {
		for _, param := range group.Params {
			if param.Key != key {
				continue
			}
			var v float64
			if _, err := fmt.Sscanf(param.Value, "%g", &v); err == nil {
				return v, true
			}
			if param.Value == "true" {
				return 1, true
			}
			return 0, true
		}
	}
	return 0, false
}

// Draw paints the HUD panel anchored to the right edge of the view.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	height := h.solver.Raster().H * scale
	if height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})

	face := basicfont.Face7x13
	y := 18
	line := func(s string, col color.Color) {
		text.Draw(h.panel, s, face, 10, y, col)
		y += 16
	}

	line(h.solver.Name()+" solver", color.White)
	y += 4
	st := h.solver.Stats()
	line(fmt.Sprintf("wet cells  %d", st.WetCells), color.RGBA{R: 160, G: 200, B: 255, A: 255})
	line(fmt.Sprintf("max depth  %.2f m", st.MaxDepth), color.RGBA{R: 160, G: 200, B: 255, A: 255})
	line(fmt.Sprintf("volume     %.1f m3", st.TotalVolume), color.RGBA{R: 160, G: 200, B: 255, A: 255})
	line(fmt.Sprintf("last dt    %.4f s", st.LastDt), color.RGBA{R: 160, G: 200, B: 255, A: 255})
	line(fmt.Sprintf("substeps   %d", st.Substeps), color.RGBA{R: 160, G: 200, B: 255, A: 255})

	if len(h.controls) > 0 {
		y += 8
		line("tab select  -/= adjust", color.RGBA{R: 120, G: 120, B: 130, A: 255})
		for i, ctrl := range h.controls {
			col := color.Color(color.RGBA{R: 190, G: 190, B: 190, A: 255})
			prefix := "  "
			if i == h.selected {
				col = color.White
				prefix = "> "
			}
			value := "--"
			if provider, ok := h.solver.(parameterProvider); ok {
				for _, group := range provider.Parameters().Groups {
					for _, param := range group.Params {
						if param.Key == ctrl.Key {
							value = param.Value
						}
					}
				}
			}
			line(fmt.Sprintf("%s%-12s %s", prefix, ctrl.Label, value), col)
		}
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

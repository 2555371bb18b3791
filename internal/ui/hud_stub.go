//go:build !ebiten

package ui

import "deluge/internal/core"

// PanelWidth is the HUD strip width in pixels.
const PanelWidth = 200

// HUD is a no-op placeholder for headless builds.
type HUD struct{}

// NewHUD returns nil in the headless build.
func NewHUD(core.Solver, int) *HUD { return nil }

// Update is a no-op in the headless build.
func (h *HUD) Update(int) {}

// Draw is a no-op in the headless build.
func (h *HUD) Draw(any, int, int) {}

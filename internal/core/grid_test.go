package core

import "testing"

func TestFloatGridClampedReads(t *testing.T) {
	g := NewFloatGrid(4, 3)
	g.Cells()[g.Index(3, 2)] = 7
	if v := g.At(10, 10); v != 7 {
		t.Fatalf("out-of-range read should clamp to the corner, got %f", v)
	}
	if v := g.At(-5, -5); v != g.Cells()[0] {
		t.Fatalf("negative read should clamp to origin, got %f", v)
	}
	g.Clear()
	if v := g.At(3, 2); v != 0 {
		t.Fatalf("clear left %f behind", v)
	}
}

func TestFloatGridDegenerateDims(t *testing.T) {
	g := NewFloatGrid(0, -2)
	if g.W != 1 || g.H != 1 || len(g.Cells()) != 1 {
		t.Fatalf("degenerate dims not coerced: %dx%d", g.W, g.H)
	}
}

func TestFixedStepDt(t *testing.T) {
	fs := NewFixedStep(50)
	if dt := fs.Dt(); dt != 0.02 {
		t.Fatalf("dt=%f want 0.02", dt)
	}
	fs.SetTPS(0)
	if dt := fs.Dt(); dt < 0.016 || dt > 0.017 {
		t.Fatalf("invalid tps should fall back to 60, dt=%f", dt)
	}
	// A fresh controller starts with one tick pre-accumulated.
	if !fs.ShouldStep() {
		t.Fatal("first poll should fire a tick")
	}
}

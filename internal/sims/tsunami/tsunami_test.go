package tsunami

import (
	"math"
	"testing"

	"deluge/internal/core"
)

func flatRaster(n int) *core.Raster {
	return core.BuildRaster(core.RasterInput{
		Elevation: core.ElevationGrid{
			Cols: 2, Rows: 2,
			XMin: 0, XMax: float64(n), ZMin: 0, ZMax: float64(n),
			Heights: []float64{0, 0, 0, 0},
		},
		CellSize:      1,
		MinResolution: n,
		MaxResolution: n,
	})
}

func TestFieldDryAheadOfFront(t *testing.T) {
	f := NewField(DefaultConfig())
	if got := f.PhaseAt(100, 0, 0); got != PhaseDry {
		t.Fatalf("point ahead of the front reported %v, want dry", got)
	}
	h, u, v := f.EvalAt(100, 0, 0)
	if h != 0 || u != 0 || v != 0 {
		t.Fatalf("ahead of the front should be still water: h=%f u=%f v=%f", h, u, v)
	}
}

func TestPhaseProgressionAtFixedPoint(t *testing.T) {
	cfg := DefaultConfig()
	f := NewField(cfg)

	first := map[Phase]int{}
	for tick := 0; tick < 320; tick++ {
		f.Advance(0.05)
		ph := f.PhaseAt(100, 0, 0)
		if _, seen := first[ph]; !seen {
			first[ph] = tick
		}
	}
	for _, ph := range []Phase{PhaseRunup, PhaseCrest, PhaseBackwash} {
		if _, seen := first[ph]; !seen {
			t.Fatalf("phase %v never observed", ph)
		}
	}
	if !(first[PhaseRunup] < first[PhaseCrest] && first[PhaseCrest] < first[PhaseBackwash]) {
		t.Fatalf("phases out of order: runup@%d crest@%d backwash@%d",
			first[PhaseRunup], first[PhaseCrest], first[PhaseBackwash])
	}
}

func TestDepthAttenuatesWithElevation(t *testing.T) {
	cfg := DefaultConfig()
	f := NewField(cfg)
	for f.Front() < 150 {
		f.Advance(0.1)
	}

	low, _, _ := f.EvalAt(100, 0, 0)
	mid, _, _ := f.EvalAt(100, 0, cfg.Params.MaxRunupHeight/2)
	high, _, _ := f.EvalAt(100, 0, cfg.Params.MaxRunupHeight+1)
	if !(low > mid) {
		t.Fatalf("depth should shrink on rising ground: low=%f mid=%f", low, mid)
	}
	if high != 0 {
		t.Fatalf("ground above max runup must stay dry, got %f", high)
	}
}

func TestTrailingWavesAreWeaker(t *testing.T) {
	cfg := DefaultConfig()
	f := NewField(cfg)
	// Park the front so the probe sits at the crest offset of wave k for
	// front = probe + offset + k*spacing.
	probe := 0.0
	offset := cfg.Params.CrestOffset
	spacing := cfg.Params.WaveSpacing

	depthAtCrest := func(k int) float64 {
		f.front = probe + offset + float64(k)*spacing
		h, _, _ := f.EvalAt(probe, 0, 0)
		return h
	}
	first := depthAtCrest(0)
	second := depthAtCrest(1)
	if !(first > 0 && second > 0) {
		t.Fatalf("expected both crests wet: first=%f second=%f", first, second)
	}
	if second >= first {
		t.Fatalf("trailing crest %f should be weaker than leading crest %f", second, first)
	}
}

func TestEnhancedAccuracyPerturbsCrest(t *testing.T) {
	std := DefaultConfig()
	enh := DefaultConfig()
	enh.Params.Accuracy = AccuracyEnhanced

	fs := NewField(std)
	fe := NewField(enh)
	for tick := 0; tick < 100; tick++ {
		fs.Advance(0.05)
		fe.Advance(0.05)
	}
	// Probe just off the crest peak where the oscillatory term is nonzero.
	probe := fs.Front() - std.Params.CrestOffset - 3
	hs, _, _ := fs.EvalAt(probe, 0, 0)
	he, _, _ := fe.EvalAt(probe, 0, 0)
	if hs == he {
		t.Fatal("enhanced mode produced the standard profile at the crest")
	}
	if he < 0 {
		t.Fatalf("enhanced correction drove depth negative: %f", he)
	}
}

func TestLateralJitterIsSeeded(t *testing.T) {
	a := DefaultConfig()
	a.Seed = 1
	b := DefaultConfig()
	b.Seed = 2

	fa1 := NewField(a)
	fa2 := NewField(a)
	fb := NewField(b)
	if fa1.lateralPhase != fa2.lateralPhase {
		t.Fatal("same seed produced different lateral phases")
	}
	if fa1.lateralPhase == fb.lateralPhase {
		t.Fatal("different seeds produced the same lateral phase")
	}
}

func TestPulseVelocityDecaysStrictly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Params.StartOffset = -1e6 // keep the wave far offshore
	f := NewField(cfg)

	if !f.AddPulse(50, 50, 2, 0, 5, 1) {
		t.Fatal("valid pulse rejected")
	}
	if f.AddPulse(math.NaN(), 0, 1, 0, 5, 1) {
		t.Fatal("malformed pulse accepted")
	}

	_, prev, _ := f.EvalAt(50, 50, 0)
	if prev <= 0 {
		t.Fatalf("pulse produced no velocity, u=%f", prev)
	}
	for tick := 0; tick < 25; tick++ {
		f.Advance(0.1)
		_, u, _ := f.EvalAt(50, 50, 0)
		if u >= prev {
			t.Fatalf("pulse velocity did not decay at tick %d: %f -> %f", tick, prev, u)
		}
		prev = u
	}
	for tick := 0; tick < 10; tick++ {
		f.Advance(0.1)
	}
	if f.pulses.Active() != 0 {
		t.Fatal("pulse outlived its ttl")
	}
	if _, u, _ := f.EvalAt(50, 50, 0); u != 0 {
		t.Fatalf("expired pulse still contributes velocity %f", u)
	}
}

func TestBridgeMaterializesFieldState(t *testing.T) {
	r := flatRaster(32)
	b := New(r)
	for tick := 0; tick < 60; tick++ {
		b.Step(0.1)
	}
	st := b.Stats()
	if st.WetCells == 0 || st.TotalVolume <= 0 {
		t.Fatalf("wave never entered the grid: %+v", st)
	}

	f := b.Field()
	for _, idx := range []int{r.Index(2, 16), r.Index(10, 16), r.Index(30, 16)} {
		x, z := r.CellCenter(idx)
		h, u, v := f.EvalAt(x, z, r.Terrain[idx])
		if b.depth[idx] != h {
			t.Fatalf("cell %d depth %f disagrees with field %f", idx, b.depth[idx], h)
		}
		if b.momX[idx] != h*u || b.momZ[idx] != h*v {
			t.Fatalf("cell %d momentum disagrees with field", idx)
		}
	}

	// The shared sampling contract applies on top of the arrays.
	x, z := r.CellCenter(r.Index(10, 16))
	s := b.SampleAt(x, z, false, 0)
	if s.Depth != b.depth[r.Index(10, 16)] {
		t.Fatalf("sample depth %f disagrees with array %f", s.Depth, b.depth[r.Index(10, 16)])
	}
}

func TestBridgeKeepsObstaclesDry(t *testing.T) {
	r := core.BuildRaster(core.RasterInput{
		Elevation: core.ElevationGrid{
			Cols: 2, Rows: 2,
			XMin: 0, XMax: 32, ZMin: 0, ZMax: 32,
			Heights: []float64{0, 0, 0, 0},
		},
		CellSize:      1,
		MinResolution: 32,
		MaxResolution: 32,
		Buildings:     []core.Polygon{{{10, 10}, {14, 10}, {14, 14}, {10, 14}}},
	})
	b := New(r)
	for tick := 0; tick < 60; tick++ {
		b.Step(0.1)
	}
	for i := range b.depth {
		if r.IsObstacle(i) && (b.depth[i] != 0 || b.momX[i] != 0 || b.momZ[i] != 0) {
			t.Fatalf("obstacle cell %d picked up wave state", i)
		}
	}
}

func TestBridgeResetRewindsFront(t *testing.T) {
	r := flatRaster(32)
	b := New(r)
	for tick := 0; tick < 40; tick++ {
		b.Step(0.1)
	}
	b.Reset()
	if b.field.Front() != b.cfg.Params.StartOffset {
		t.Fatalf("front %f did not rewind to %f", b.field.Front(), b.cfg.Params.StartOffset)
	}
	for i := range b.depth {
		if b.depth[i] != 0 || b.momX[i] != 0 || b.momZ[i] != 0 {
			t.Fatalf("state survived reset at cell %d", i)
		}
	}
	if b.Stats() != (core.Stats{}) {
		t.Fatal("stats survived reset")
	}
}

func TestSolverRegistered(t *testing.T) {
	f, ok := core.Solvers()["tsunami"]
	if !ok {
		t.Fatal("tsunami factory not registered")
	}
	s := f(flatRaster(16), map[string]string{"wave_height": "5"})
	if s.Name() != "tsunami" {
		t.Fatalf("factory built %q", s.Name())
	}
	b := s.(*Bridge)
	if b.cfg.Params.WaveHeight != 5 {
		t.Fatalf("config map ignored: wave height %f", b.cfg.Params.WaveHeight)
	}
}

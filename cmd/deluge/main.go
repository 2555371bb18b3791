//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"strconv"

	"deluge/internal/app"
	"deluge/internal/core"
	"deluge/internal/ripple"
	"deluge/internal/scenario"
	_ "deluge/internal/sims/flood"
	_ "deluge/internal/sims/tsunami"
	"deluge/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	sc, ok := scenario.Preset(cfg.Scenario, cfg.Seed)
	if !ok {
		log.Fatalf("unknown scenario %q (have %v)", cfg.Scenario, scenario.Names())
	}
	solverName := sc.Solver
	if cfg.Solver != "" {
		solverName = cfg.Solver
	}
	factory, ok := core.Solvers()[solverName]
	if !ok {
		log.Fatalf("unknown solver %q", solverName)
	}

	raster := core.BuildRaster(sc.Input)
	solverCfg := map[string]string{"seed": strconv.FormatInt(cfg.Seed, 10)}
	for k, v := range sc.SolverConfig {
		solverCfg[k] = v
	}
	solver := factory(raster, solverCfg)
	solver.Reset()

	rip := ripple.New(raster, ripple.DefaultConfig())
	game := app.New(solver, rip, cfg.Scale, cfg.TPS)

	ebiten.SetWindowTitle("deluge " + sc.Name + "/" + solver.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(raster.W*cfg.Scale+ui.PanelWidth, raster.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}

package main

import (
	"flag"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"deluge/internal/core"
	"deluge/internal/scenario"
	"deluge/internal/sims/flood"
)

// candidate is one point in the numerics sweep.
type candidate struct {
	cfl     float64
	manning float64
	damping float64
}

type result struct {
	params candidate

	drift  float64
	extent flood.ExtentResult
	score  float64
}

func (c candidate) String() string {
	return fmt.Sprintf("cfl=%.2f manning=%.3f damping=%.2f", c.cfl, c.manning, c.damping)
}

// The sweep scores each candidate on conservation drift (must stay at
// floating-point noise) and inundation reach (flow should actually spread),
// flagging numerics that are stable but overdamped.
func main() {
	steps := flag.Int("steps", 600, "ticks to simulate per candidate")
	tps := flag.Int("tps", 30, "simulation ticks per second")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel candidate evaluations")
	seed := flag.Int64("seed", 1337, "scenario seed")
	top := flag.Int("top", 8, "number of best candidates to print")
	flag.Parse()

	sc, _ := scenario.Preset("flood", *seed)
	raster := core.BuildRaster(sc.Input)
	dt := 1.0 / float64(*tps)

	var candidates []candidate
	for _, cfl := range []float64{0.25, 0.35, 0.45, 0.6} {
		for _, manning := range []float64{0.015, 0.03, 0.06} {
			for _, damping := range []float64{0.05, 0.15, 0.4} {
				candidates = append(candidates, candidate{cfl: cfl, manning: manning, damping: damping})
			}
		}
	}

	jobs := make(chan candidate)
	results := make(chan result)
	var wg sync.WaitGroup
	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cand := range jobs {
				results <- evaluate(raster, cand, *seed, *steps, dt)
			}
		}()
	}
	go func() {
		for _, cand := range candidates {
			jobs <- cand
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	var all []result
	for res := range results {
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].score > all[j].score })

	fmt.Printf("evaluated %d candidates over %d steps (dt=%.4fs)\n\n", len(all), *steps, dt)
	limit := *top
	if limit > len(all) {
		limit = len(all)
	}
	for i := 0; i < limit; i++ {
		res := all[i]
		fmt.Printf("%2d. %s  drift=%.2e  reach=%.1fm  peakWet=%d  firstWet=%d\n",
			i+1, res.params, res.drift, res.extent.MaxDistance, res.extent.PeakWetCells, res.extent.FirstWetStep)
	}
}

func evaluate(raster *core.Raster, cand candidate, seed int64, steps int, dt float64) result {
	cfg := flood.DefaultConfig()
	cfg.Seed = seed
	cfg.Params.CFL = cand.cfl
	cfg.Params.ManningN = cand.manning
	cfg.Params.VelocityDamping = cand.damping

	drift := flood.ConservationDrift(raster, cfg, 2.0, steps/4, dt)

	cfg.Params.SourceEnabled = true
	cfg.Params.SourceFlowRate = 40
	extent := flood.MeasureExtent(raster, cfg, steps, dt)

	score := extent.MaxDistance
	if drift > 1e-6 {
		// Any measurable mass drift disqualifies the candidate.
		score = -drift
	}
	return result{params: cand, drift: drift, extent: extent, score: score}
}

package app

import "flag"

// Config represents the command-line parameters for the viewer.
type Config struct {
	Scenario string
	Solver   string
	Scale    int
	TPS      int
	Seed     int64
}

// NewConfig returns a Config populated with sensible defaults. An empty
// Solver defers to the scenario's own preset.
func NewConfig() *Config {
	return &Config{Scenario: "flood", Solver: "", Scale: 6, TPS: 60, Seed: 42}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Scenario, "scenario", c.Scenario, "scenario preset to load")
	fs.StringVar(&c.Solver, "solver", c.Solver, "solver override (flood, tsunami)")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for terrain and solver state")
}

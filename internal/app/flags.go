package app

import (
	"flag"

	"gridstep/internal/config"
)

// Config represents the command-line parameters of the viewer.
type Config struct {
	Length  int
	History int
	Scale   int
	Rate    int
	Threads int
	Engine  string
	Seed    int64
	Panel   int
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Length: 400, History: 300, Scale: 2, Rate: 30, Threads: 4, Engine: "pooled", Seed: 42, Panel: 220}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Length, "length", c.Length, "grid length (one pixel per cell)")
	fs.IntVar(&c.History, "history", c.History, "generations kept on screen")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.Rate, "rate", c.Rate, "generations per second")
	fs.IntVar(&c.Threads, "threads", c.Threads, "worker threads per step")
	fs.StringVar(&c.Engine, "engine", c.Engine, "step engine (chunked or pooled)")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for the initial grid")
	fs.IntVar(&c.Panel, "panel", c.Panel, "HUD panel width in pixels, 0 to hide")
}

// RunConfig converts the viewer flags into a run configuration.
func (c *Config) RunConfig() config.Config {
	rc := config.DefaultConfig()
	rc.Length = c.Length
	rc.Seed = c.Seed
	rc.ReuseBuffers = true
	rc.Stages[0].Engine = c.Engine
	rc.Stages[0].Threads = c.Threads
	return rc
}

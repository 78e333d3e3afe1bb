// Package bench times Driver.Advance across a range of thread counts.
package bench

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"

	"gridstep/internal/config"
	"gridstep/internal/core"
	"gridstep/internal/sim"
)

// Options tune a sweep. Zero values fall back to the config's bench section.
type Options struct {
	Steps      int
	MinThreads int
	MaxThreads int

	Logger   *slog.Logger
	Observer sim.StepObserver
	// Source overrides the seeded initial state. The same source is used for
	// every thread count so results stay comparable.
	Source core.RandomSource
}

// Result is the timing of one thread count.
type Result struct {
	Threads    int           `yaml:"threads"`
	Steps      int           `yaml:"steps"`
	Elapsed    time.Duration `yaml:"elapsed"`
	PerStep    time.Duration `yaml:"per_step"`
	Speedup    float64       `yaml:"speedup"`
	Generation int           `yaml:"generation"`
	Checksum   uint64        `yaml:"checksum"`
}

// Report collects a whole sweep.
type Report struct {
	RunID   string    `yaml:"run_id"`
	Started time.Time `yaml:"started"`
	Length  int       `yaml:"length"`
	Engines []string  `yaml:"engines"`
	Results []Result  `yaml:"results"`
}

// Consistent reports whether every thread count produced the same final grid.
func (r Report) Consistent() bool {
	for _, res := range r.Results[min(1, len(r.Results)):] {
		if res.Checksum != r.Results[0].Checksum {
			return false
		}
	}
	return true
}

// Best returns the result with the lowest per-step latency.
func (r Report) Best() (Result, bool) {
	if len(r.Results) == 0 {
		return Result{}, false
	}
	best := r.Results[0]
	for _, res := range r.Results[1:] {
		if res.PerStep < best.PerStep {
			best = res
		}
	}
	return best, true
}

// Run builds a fresh driver for every thread count from MinThreads to
// MaxThreads, advances it Steps times and records the mean step latency.
// Building the initial generation is not timed.
func Run(cfg config.Config, opts Options) (Report, error) {
	steps := opts.Steps
	if steps <= 0 {
		steps = cfg.Bench.Steps
	}
	maxThreads := opts.MaxThreads
	if maxThreads <= 0 {
		maxThreads = cfg.Bench.MaxThreads
	}
	if maxThreads <= 0 {
		maxThreads = runtime.NumCPU()
	}
	minThreads := max(opts.MinThreads, 1)
	if steps < 1 || minThreads > maxThreads {
		return Report{}, fmt.Errorf("%w: steps %d, threads %d..%d", core.ErrInvalidConfiguration, steps, minThreads, maxThreads)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rep := Report{
		RunID:   uuid.NewString(),
		Started: time.Now().UTC(),
		Length:  cfg.Length,
	}
	for _, s := range cfg.Stages {
		rep.Engines = append(rep.Engines, s.Engine+"("+strings.Join(s.Transforms, "+")+")")
	}

	var base time.Duration
	for threads := minThreads; threads <= maxThreads; threads++ {
		res, err := runOne(cfg, threads, steps, opts, logger)
		if err != nil {
			return rep, fmt.Errorf("threads %d: %w", threads, err)
		}
		if threads == minThreads {
			base = res.PerStep
		}
		if res.PerStep > 0 {
			res.Speedup = float64(base) / float64(res.PerStep)
		}
		logger.Info("bench result",
			"run_id", rep.RunID,
			"threads", threads,
			"per_step", res.PerStep,
			"speedup", fmt.Sprintf("%.2f", res.Speedup))
		rep.Results = append(rep.Results, res)
	}
	if !rep.Consistent() {
		logger.Warn("final grids differ between thread counts", "run_id", rep.RunID)
	}
	return rep, nil
}

func runOne(cfg config.Config, threads, steps int, opts Options, logger *slog.Logger) (res Result, err error) {
	cfg, err = config.FromMap(cfg, map[string]string{"threads": fmt.Sprint(threads)})
	if err != nil {
		return Result{}, err
	}
	d, err := sim.FromConfig(cfg, opts.Source, sim.WithLogger(logger), sim.WithObserver(opts.Observer))
	if err != nil {
		return Result{}, err
	}
	defer func() { err = errors.Join(err, d.Close()) }()

	start := time.Now()
	if err := d.AdvanceN(steps); err != nil {
		return Result{}, err
	}
	elapsed := time.Since(start)

	return Result{
		Threads:    threads,
		Steps:      steps,
		Elapsed:    elapsed,
		PerStep:    elapsed / time.Duration(steps),
		Generation: d.Index(),
		Checksum:   d.Current().Checksum(),
	}, nil
}

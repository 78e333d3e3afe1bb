// Package sim owns the current generation of a run and advances it through a
// chain of engine stages.
package sim

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"gridstep/internal/core"
)

// Stage pairs an engine with the thread count it is stepped with.
type Stage struct {
	Engine  core.Engine
	Threads int
}

// StepObserver receives the outcome of every engine step.
type StepObserver interface {
	ObserveStep(engine string, threads int, elapsed time.Duration, err error)
	ObserveGeneration(index int)
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithObserver attaches a step observer such as a metrics recorder.
func WithObserver(o StepObserver) Option {
	return func(d *Driver) { d.observer = o }
}

// WithBufferReuse hands every superseded generation back to the engine that
// will overwrite it next instead of allocating a fresh clone. A generation
// returned by Current is then only valid until the following Advance.
func WithBufferReuse(enabled bool) Option {
	return func(d *Driver) { d.reuse = enabled }
}

// Driver holds exactly one current generation.
type Driver struct {
	current  *core.Generation
	stages   []Stage
	logger   *slog.Logger
	observer StepObserver
	reuse    bool
}

// New builds a driver starting from initial. At least one stage is required
// and every stage needs an engine and a thread count of one or more.
func New(initial *core.Generation, stages []Stage, opts ...Option) (*Driver, error) {
	if initial == nil {
		return nil, fmt.Errorf("%w: nil initial generation", core.ErrInvalidConfiguration)
	}
	if len(stages) == 0 {
		return nil, fmt.Errorf("%w: driver needs at least one engine stage", core.ErrInvalidConfiguration)
	}
	for i, s := range stages {
		if s.Engine == nil {
			return nil, fmt.Errorf("%w: stage %d has no engine", core.ErrInvalidConfiguration, i)
		}
		if s.Threads < 1 {
			return nil, fmt.Errorf("%w: stage %d thread count %d, need at least 1", core.ErrInvalidConfiguration, i, s.Threads)
		}
	}
	d := &Driver{
		current: initial,
		stages:  append([]Stage(nil), stages...),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Current returns the current generation.
func (d *Driver) Current() *core.Generation { return d.current }

// Index returns the index of the current generation.
func (d *Driver) Index() int { return d.current.Index() }

// Stages returns a copy of the configured stages.
func (d *Driver) Stages() []Stage { return append([]Stage(nil), d.stages...) }

// Advance runs every stage in order, feeding each output into the next, and
// makes the final output current. The whole chain is one step, so the index
// grows by exactly one per call. On failure the current generation is left
// untouched and the error wraps core.ErrTransformFailure or
// core.ErrInvalidConfiguration.
func (d *Driver) Advance() error {
	src := d.current
	produced := make([]*core.Generation, 0, len(d.stages))
	for i, s := range d.stages {
		start := time.Now()
		next, err := s.Engine.Step(src, s.Threads)
		elapsed := time.Since(start)
		if d.observer != nil {
			d.observer.ObserveStep(s.Engine.Name(), s.Threads, elapsed, err)
		}
		if err != nil {
			d.logger.Error("engine step failed",
				"stage", i,
				"engine", s.Engine.Name(),
				"threads", s.Threads,
				"generation", src.Index(),
				"error", err)
			return fmt.Errorf("stage %d (%s): %w", i, s.Engine.Name(), err)
		}
		d.logger.Debug("engine step",
			"stage", i,
			"engine", s.Engine.Name(),
			"threads", s.Threads,
			"generation", d.current.Index()+1,
			"elapsed", elapsed)
		produced = append(produced, next)
		src = next
	}

	old := d.current
	src.Renumber(old.Index() + 1)
	d.current = src
	if d.observer != nil {
		d.observer.ObserveGeneration(d.current.Index())
	}
	if d.reuse {
		d.recycle(old, produced)
	}
	return nil
}

// recycle returns intermediates to the stage that produced them and the
// superseded generation to the last stage.
func (d *Driver) recycle(old *core.Generation, produced []*core.Generation) {
	last := len(d.stages) - 1
	for i := 0; i < last; i++ {
		if r, ok := d.stages[i].Engine.(core.Recycler); ok {
			r.Recycle(produced[i])
		}
	}
	if r, ok := d.stages[last].Engine.(core.Recycler); ok {
		r.Recycle(old)
	}
}

// AdvanceN calls Advance n times, stopping at the first error.
func (d *Driver) AdvanceN(n int) error {
	for i := 0; i < n; i++ {
		if err := d.Advance(); err != nil {
			return err
		}
	}
	return nil
}

// Reset replaces the current generation, for example with a freshly seeded one.
func (d *Driver) Reset(g *core.Generation) error {
	if g == nil {
		return fmt.Errorf("%w: nil generation", core.ErrInvalidConfiguration)
	}
	d.current = g
	return nil
}

// SetIntParameter updates "threads" for every stage or "threads.N" for stage N.
// It reports whether the key was recognised and the value accepted.
func (d *Driver) SetIntParameter(key string, value int) bool {
	if value < 1 {
		return false
	}
	if key == "threads" {
		for i := range d.stages {
			d.stages[i].Threads = value
		}
		return true
	}
	idx, ok := strings.CutPrefix(key, "threads.")
	if !ok {
		return false
	}
	i, err := strconv.Atoi(idx)
	if err != nil || i < 0 || i >= len(d.stages) {
		return false
	}
	d.stages[i].Threads = value
	return true
}

// Parameters describes the live state of the driver.
func (d *Driver) Parameters() core.ParameterSnapshot {
	groups := []core.ParameterGroup{{
		Name: "Grid",
		Params: []core.Parameter{
			intParam("length", "Length", d.current.Len()),
			intParam("generation", "Generation", d.current.Index()),
			boolParam("reuse_buffers", "Reuse buffers", d.reuse),
		},
	}}
	for i, s := range d.stages {
		groups = append(groups, core.ParameterGroup{
			Name: fmt.Sprintf("Stage %d", i),
			Params: []core.Parameter{
				stringParam(fmt.Sprintf("engine.%d", i), "Engine", s.Engine.Name()),
				intParam(fmt.Sprintf("threads.%d", i), "Threads", s.Threads),
				stringParam(fmt.Sprintf("transforms.%d", i), "Transforms", strings.Join(s.Engine.Pipeline().Names(), ",")),
			},
		})
	}
	return core.ParameterSnapshot{Groups: groups}
}

// Close releases engines that own goroutines.
func (d *Driver) Close() error {
	var errs []error
	seen := make(map[core.Engine]bool, len(d.stages))
	for _, s := range d.stages {
		if seen[s.Engine] {
			continue
		}
		seen[s.Engine] = true
		if c, ok := s.Engine.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}

func intParam(key, label string, v int) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.Itoa(v)}
}

func boolParam(key, label string, v bool) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeBool, Value: strconv.FormatBool(v)}
}

func stringParam(key, label, v string) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeString, Value: v}
}

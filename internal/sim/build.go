package sim

import (
	"errors"
	"fmt"

	"gridstep/internal/config"
	"gridstep/internal/core"
	_ "gridstep/internal/engine" // registers chunked and pooled
	"gridstep/internal/transform"
)

// FromConfig validates cfg, draws the initial generation from src and builds
// one engine per configured stage. A nil src means core.SeededSource with
// cfg.Seed.
func FromConfig(cfg config.Config, src core.RandomSource, opts ...Option) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	stages, err := BuildStages(cfg.Stages)
	if err != nil {
		return nil, err
	}
	if src == nil {
		src = core.SeededSource{Seed: cfg.Seed}
	}
	initial, err := src.Generate(cfg.Length)
	if err != nil {
		return nil, errors.Join(err, closeStages(stages))
	}
	opts = append([]Option{WithBufferReuse(cfg.ReuseBuffers)}, opts...)
	d, err := New(initial, stages, opts...)
	if err != nil {
		return nil, errors.Join(err, closeStages(stages))
	}
	return d, nil
}

// BuildStages instantiates the registered engine for every stage config.
func BuildStages(cfgs []config.StageConfig) ([]Stage, error) {
	stages := make([]Stage, 0, len(cfgs))
	for i, sc := range cfgs {
		factory, ok := core.Engines()[sc.Engine]
		if !ok {
			return nil, errors.Join(
				fmt.Errorf("%w: stage %d: unknown engine %q", core.ErrInvalidConfiguration, i, sc.Engine),
				closeStages(stages))
		}
		p, err := transform.Build(sc.Transforms...)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("stage %d: %w", i, err), closeStages(stages))
		}
		stages = append(stages, Stage{Engine: factory(p), Threads: sc.Threads})
	}
	return stages, nil
}

func closeStages(stages []Stage) error {
	if len(stages) == 0 {
		return nil
	}
	d := &Driver{stages: stages}
	return d.Close()
}

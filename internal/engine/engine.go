// Package engine implements the parallel step engines. Every engine clones the
// source generation, splits the index domain with core.Plan, runs the whole
// pipeline once per range and returns only after all ranges are done.
package engine

import (
	"errors"
	"fmt"
	"sync"

	"gridstep/internal/core"
)

// Registered engine names.
const (
	Chunked = "chunked"
	Pooled  = "pooled"
)

// ErrClosed is returned by Step on an engine whose workers were shut down.
var ErrClosed = errors.New("engine closed")

// base carries what every engine variant shares: the pipeline and a single
// spare buffer handed back through Recycle.
type base struct {
	name     string
	pipeline *core.Pipeline

	spareMu sync.Mutex
	spare   *core.Generation
}

// orEmpty substitutes an empty pipeline for nil, turning the engine into a
// plain clone.
func orEmpty(p *core.Pipeline) *core.Pipeline {
	if p == nil {
		p, _ = core.NewPipeline()
	}
	return p
}

// Name returns the registered engine name.
func (b *base) Name() string { return b.name }

// Pipeline returns the transforms this engine applies.
func (b *base) Pipeline() *core.Pipeline { return b.pipeline }

// Recycle offers g as the destination buffer of the next step. The caller must
// not read g afterwards.
func (b *base) Recycle(g *core.Generation) {
	if g == nil {
		return
	}
	b.spareMu.Lock()
	b.spare = g
	b.spareMu.Unlock()
}

// prepare validates the request and returns the destination buffer and the
// per-worker ranges. Nothing is allocated when validation fails.
func (b *base) prepare(src *core.Generation, threads int) (*core.Generation, []core.Range, error) {
	if src == nil {
		return nil, nil, fmt.Errorf("%w: nil source generation", core.ErrInvalidConfiguration)
	}
	if threads < 1 {
		return nil, nil, fmt.Errorf("%w: thread count %d, need at least 1", core.ErrInvalidConfiguration, threads)
	}
	ranges, err := core.Plan(src.Len(), threads)
	if err != nil {
		return nil, nil, err
	}
	return b.destination(src), ranges, nil
}

// destination reuses the spare buffer when one fits, copying only the fields
// the pipeline leaves untouched. Otherwise it clones src.
func (b *base) destination(src *core.Generation) *core.Generation {
	b.spareMu.Lock()
	spare := b.spare
	b.spare = nil
	b.spareMu.Unlock()

	keep := core.AllFields &^ b.pipeline.Writes()
	if dst := src.SuccessorInto(spare, keep); dst != nil {
		return dst
	}
	return src.Successor()
}

// discard drops a partially written destination and wraps err.
func (b *base) discard(dst *core.Generation, err error) (*core.Generation, error) {
	b.Recycle(dst)
	return nil, fmt.Errorf("%s engine, generation %d: %w", b.name, dst.Index(), err)
}

func init() {
	core.Register(Chunked, func(p *core.Pipeline) core.Engine { return NewChunked(p) })
	core.Register(Pooled, func(p *core.Pipeline) core.Engine { return NewPooled(p) })
}

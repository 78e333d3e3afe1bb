package engine

import (
	"golang.org/x/sync/errgroup"

	"gridstep/internal/core"
)

// ChunkEngine starts one goroutine per non-empty range on every step and joins
// them before returning.
type ChunkEngine struct {
	base
}

// NewChunked returns a ChunkEngine running p. A nil pipeline clones only.
func NewChunked(p *core.Pipeline) *ChunkEngine {
	return &ChunkEngine{base: base{name: Chunked, pipeline: orEmpty(p)}}
}

// Step computes the successor of src with threads workers.
func (e *ChunkEngine) Step(src *core.Generation, threads int) (*core.Generation, error) {
	dst, ranges, err := e.prepare(src, threads)
	if err != nil {
		return nil, err
	}

	in, out := src.Cells(), dst.Cells()
	var g errgroup.Group
	for _, r := range ranges {
		if r.Empty() {
			continue
		}
		g.Go(func() error {
			return e.pipeline.Run(r, in, out)
		})
	}
	if err := g.Wait(); err != nil {
		return e.discard(dst, err)
	}
	return dst, nil
}

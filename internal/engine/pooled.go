package engine

import (
	"sync"

	"gridstep/internal/core"
)

// job is the work of one step as seen by the pool workers.
type job struct {
	ranges []core.Range
	src    []core.Cell
	dst    []core.Cell
}

// PoolEngine keeps its worker goroutines alive between steps. Each step bumps
// a round counter and wakes the pool; worker i runs range i and the step waits
// until the pending count drops to zero. The pool grows to the largest thread
// count requested so far and never shrinks; Close stops every worker.
type PoolEngine struct {
	base

	stepMu sync.Mutex
	wg     sync.WaitGroup

	mu      sync.Mutex
	cond    *sync.Cond
	workers int
	round   int
	pending int
	closed  bool
	current job
	err     error
}

// NewPooled returns a PoolEngine running p. Workers are started lazily by the
// first Step; call Close to stop them.
func NewPooled(p *core.Pipeline) *PoolEngine {
	e := &PoolEngine{base: base{name: Pooled, pipeline: orEmpty(p)}}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// Workers reports how many worker goroutines are running.
func (e *PoolEngine) Workers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.workers
}

// Step computes the successor of src with threads workers.
func (e *PoolEngine) Step(src *core.Generation, threads int) (*core.Generation, error) {
	e.stepMu.Lock()
	defer e.stepMu.Unlock()

	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	dst, ranges, err := e.prepare(src, threads)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.grow(threads)
	e.current = job{ranges: ranges, src: src.Cells(), dst: dst.Cells()}
	e.err = nil
	e.pending = e.workers
	e.round++
	e.cond.Broadcast()
	for e.pending > 0 {
		e.cond.Wait()
	}
	err = e.err
	e.current = job{}
	e.mu.Unlock()

	if err != nil {
		return e.discard(dst, err)
	}
	return dst, nil
}

// Close stops the workers and waits for them to exit. It is safe to call more
// than once.
func (e *PoolEngine) Close() error {
	e.stepMu.Lock()
	defer e.stepMu.Unlock()
	e.mu.Lock()
	e.closed = true
	e.cond.Broadcast()
	e.mu.Unlock()
	e.wg.Wait()
	return nil
}

// grow starts workers until at least n are running. Must hold e.mu.
func (e *PoolEngine) grow(n int) {
	for e.workers < n {
		e.wg.Add(1)
		go e.loop(e.workers, e.round)
		e.workers++
	}
}

func (e *PoolEngine) loop(index, lastRound int) {
	defer e.wg.Done()
	e.mu.Lock()
	for {
		for e.round == lastRound && !e.closed {
			e.cond.Wait()
		}
		if e.closed {
			e.mu.Unlock()
			return
		}
		lastRound = e.round
		j := e.current
		e.mu.Unlock()

		var err error
		if index < len(j.ranges) {
			err = e.pipeline.Run(j.ranges[index], j.src, j.dst)
		}

		e.mu.Lock()
		if err != nil && e.err == nil {
			e.err = err
		}
		e.pending--
		if e.pending == 0 {
			e.cond.Broadcast()
		}
	}
}

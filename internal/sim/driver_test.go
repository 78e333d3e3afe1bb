package sim

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridstep/internal/config"
	"gridstep/internal/core"
	"gridstep/internal/engine"
	"gridstep/internal/transform"
)

type recordingObserver struct {
	mu          sync.Mutex
	steps       int
	failures    int
	generations []int
}

func (r *recordingObserver) ObserveStep(_ string, _ int, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps++
	if err != nil {
		r.failures++
	}
}

func (r *recordingObserver) ObserveGeneration(index int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generations = append(r.generations, index)
}

func initial(t *testing.T, length int) *core.Generation {
	t.Helper()
	g, err := core.SeededSource{Seed: 3}.Generate(length)
	require.NoError(t, err)
	return g
}

func TestAdvanceIncrementsIndex(t *testing.T) {
	d, err := New(initial(t, 200), []Stage{{Engine: engine.NewChunked(transform.Default()), Threads: 3}})
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		require.NoError(t, d.Advance())
		assert.Equal(t, i, d.Index())
	}
	require.NoError(t, d.AdvanceN(7))
	assert.Equal(t, 12, d.Index())
}

func TestAdvanceMatchesManualSteps(t *testing.T) {
	start := initial(t, 150)
	d, err := New(start, []Stage{{Engine: engine.NewChunked(transform.Default()), Threads: 4}})
	require.NoError(t, err)
	require.NoError(t, d.AdvanceN(3))

	want := start
	for i := 0; i < 3; i++ {
		want, err = engine.NewChunked(transform.Default()).Step(want, 1)
		require.NoError(t, err)
	}
	assert.True(t, want.Equal(d.Current()))
}

func TestChainedStagesFeedForward(t *testing.T) {
	avg, err := transform.Build(transform.Average)
	require.NoError(t, err)
	shift, err := transform.Build(transform.Shift)
	require.NoError(t, err)

	pooled := engine.NewPooled(shift)
	d, err := New(initial(t, 90), []Stage{
		{Engine: engine.NewChunked(avg), Threads: 2},
		{Engine: pooled, Threads: 5},
	})
	require.NoError(t, err)
	defer d.Close()

	start := d.Current()
	require.NoError(t, d.Advance())
	assert.Equal(t, 1, d.Index(), "a chain of stages is one step")

	mid, err := engine.NewChunked(avg).Step(start, 1)
	require.NoError(t, err)
	want, err := engine.NewChunked(shift).Step(mid, 1)
	require.NoError(t, err)
	assert.Equal(t, want.Cells(), d.Current().Cells())
}

func TestChainedStagesCountOneGenerationPerAdvance(t *testing.T) {
	avg, err := transform.Build(transform.Average)
	require.NoError(t, err)
	shift, err := transform.Build(transform.Shift)
	require.NoError(t, err)

	for _, reuse := range []bool{false, true} {
		d, err := New(initial(t, 10), []Stage{
			{Engine: engine.NewChunked(avg), Threads: 2},
			{Engine: engine.NewChunked(shift), Threads: 3},
		}, WithBufferReuse(reuse))
		require.NoError(t, err)

		for n := 1; n <= 3; n++ {
			require.NoError(t, d.Advance())
			assert.Equal(t, n, d.Index(), "reuse=%v", reuse)
		}
		require.NoError(t, d.AdvanceN(4))
		assert.Equal(t, 7, d.Index(), "reuse=%v", reuse)
	}
}

func TestBufferReuseGivesSameResults(t *testing.T) {
	plain, err := New(initial(t, 300), []Stage{{Engine: engine.NewChunked(transform.Default()), Threads: 3}})
	require.NoError(t, err)
	reused, err := New(initial(t, 300), []Stage{{Engine: engine.NewPooled(transform.Default()), Threads: 3}},
		WithBufferReuse(true))
	require.NoError(t, err)
	defer reused.Close()

	for i := 0; i < 6; i++ {
		require.NoError(t, plain.Advance())
		require.NoError(t, reused.Advance())
		assert.Equal(t, plain.Current().Checksum(), reused.Current().Checksum(), "step %d", i+1)
		assert.Equal(t, plain.Index(), reused.Index())
	}
}

func TestFailedAdvanceKeepsCurrent(t *testing.T) {
	p, err := core.NewPipeline(core.Stage{Name: "explode", Writes: core.FieldA, Fn: func(core.Range, []core.Cell, []core.Cell) {
		panic("nope")
	}})
	require.NoError(t, err)

	var logs bytes.Buffer
	obs := &recordingObserver{}
	start := initial(t, 40)
	d, err := New(start, []Stage{{Engine: engine.NewChunked(p), Threads: 2}},
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
		WithObserver(obs))
	require.NoError(t, err)

	err = d.Advance()
	require.ErrorIs(t, err, core.ErrTransformFailure)
	assert.Same(t, start, d.Current())
	assert.Equal(t, 0, d.Index())
	assert.Equal(t, 1, obs.failures)
	assert.Empty(t, obs.generations)
	assert.Contains(t, logs.String(), "engine step failed")
}

func TestObserverSeesEveryStep(t *testing.T) {
	obs := &recordingObserver{}
	d, err := New(initial(t, 20), []Stage{
		{Engine: engine.NewChunked(transform.Default()), Threads: 1},
		{Engine: engine.NewChunked(nil), Threads: 2},
	}, WithObserver(obs))
	require.NoError(t, err)
	require.NoError(t, d.AdvanceN(3))
	assert.Equal(t, 6, obs.steps)
	assert.Equal(t, []int{1, 2, 3}, obs.generations)
}

func TestNewValidation(t *testing.T) {
	e := engine.NewChunked(transform.Default())
	g := initial(t, 10)

	_, err := New(nil, []Stage{{Engine: e, Threads: 1}})
	assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
	_, err = New(g, nil)
	assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
	_, err = New(g, []Stage{{Threads: 1}})
	assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
	_, err = New(g, []Stage{{Engine: e, Threads: 0}})
	assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
}

func TestSetIntParameterAndParameters(t *testing.T) {
	d, err := New(initial(t, 10), []Stage{
		{Engine: engine.NewChunked(transform.Default()), Threads: 1},
		{Engine: engine.NewChunked(nil), Threads: 1},
	})
	require.NoError(t, err)

	assert.True(t, d.SetIntParameter("threads", 4))
	assert.True(t, d.SetIntParameter("threads.1", 2))
	assert.False(t, d.SetIntParameter("threads", 0))
	assert.False(t, d.SetIntParameter("threads.5", 2))
	assert.False(t, d.SetIntParameter("speed", 2))

	stages := d.Stages()
	assert.Equal(t, 4, stages[0].Threads)
	assert.Equal(t, 2, stages[1].Threads)

	snap := d.Parameters()
	p, ok := snap.Lookup("threads.1")
	require.True(t, ok)
	assert.Equal(t, "2", p.Value)
	p, ok = snap.Lookup("transforms.0")
	require.True(t, ok)
	assert.Equal(t, "average,shift", p.Value)
	p, ok = snap.Lookup("length")
	require.True(t, ok)
	assert.Equal(t, "10", p.Value)
}

func TestReset(t *testing.T) {
	d, err := New(initial(t, 10), []Stage{{Engine: engine.NewChunked(transform.Default()), Threads: 1}})
	require.NoError(t, err)
	require.NoError(t, d.AdvanceN(2))

	fresh := initial(t, 10)
	require.NoError(t, d.Reset(fresh))
	assert.Same(t, fresh, d.Current())
	assert.ErrorIs(t, d.Reset(nil), core.ErrInvalidConfiguration)
}

func TestFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Length = 128
	cfg.ReuseBuffers = true
	cfg.Stages[0].Engine = engine.Pooled
	cfg.Stages[0].Threads = 3

	d, err := FromConfig(cfg, nil)
	require.NoError(t, err)
	defer d.Close()
	assert.Equal(t, 128, d.Current().Len())
	assert.Equal(t, engine.Pooled, d.Stages()[0].Engine.Name())

	want, err := core.SeededSource{Seed: cfg.Seed}.Generate(128)
	require.NoError(t, err)
	assert.True(t, want.Equal(d.Current()))
	require.NoError(t, d.AdvanceN(4))
	assert.Equal(t, 4, d.Index())
}

func TestFromConfigRejectsInvalid(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Stages[0].Threads = 0
	_, err := FromConfig(cfg, nil)
	assert.ErrorIs(t, err, core.ErrInvalidConfiguration)

	cfg = config.DefaultConfig()
	cfg.Stages[0].Transforms = nil
	_, err = FromConfig(cfg, nil)
	assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
}

type failingSource struct{}

func (failingSource) Generate(int) (*core.Generation, error) { return nil, errors.New("no entropy") }

func TestFromConfigSourceError(t *testing.T) {
	_, err := FromConfig(config.DefaultConfig(), failingSource{})
	assert.EqualError(t, err, "no entropy")
}

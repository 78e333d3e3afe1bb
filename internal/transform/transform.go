// Package transform holds the reference per-cell update rules and a name
// registry used by configuration files.
package transform

import (
	"fmt"
	"sort"

	"gridstep/internal/core"
)

// Names of the reference transforms.
const (
	Average = "average"
	Shift   = "shift"
)

var registry = map[string]core.Stage{
	Average: {Name: Average, Writes: core.FieldA, Fn: AverageNeighbors},
	Shift:   {Name: Shift, Writes: core.FieldB, Fn: ShiftLeft},
}

// Lookup returns the stage registered under name.
func Lookup(name string) (core.Stage, bool) {
	s, ok := registry[name]
	return s, ok
}

// Names lists the registered transform names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build assembles a pipeline from transform names in the given order.
func Build(names ...string) (*core.Pipeline, error) {
	stages := make([]core.Stage, 0, len(names))
	for _, name := range names {
		s, ok := Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown transform %q (have %v)", core.ErrInvalidConfiguration, name, Names())
		}
		stages = append(stages, s)
	}
	return core.NewPipeline(stages...)
}

// Default returns the pipeline that averages a and rotates b.
func Default() *core.Pipeline {
	p, err := Build(Average, Shift)
	if err != nil {
		panic(err)
	}
	return p
}

// AverageNeighbors sets a to the truncated mean of the a values of the left and
// right neighbours. Boundary cells have a single neighbour; a lone cell keeps
// its value.
func AverageNeighbors(r core.Range, src, dst []core.Cell) {
	n := len(src)
	for i := r.Start; i < r.End; i++ {
		sum, count := 0, 0
		if i > 0 {
			sum += src[i-1].A
			count++
		}
		if i+1 < n {
			sum += src[i+1].A
			count++
		}
		if count == 0 {
			dst[i].A = src[i].A
			continue
		}
		dst[i].A = sum / count
	}
}

// ShiftLeft rotates b left by one position: dst[i].b = src[(i+1) mod n].b.
func ShiftLeft(r core.Range, src, dst []core.Cell) {
	n := len(src)
	for i := r.Start; i < r.End; i++ {
		next := i + 1
		if next == n {
			next = 0
		}
		dst[i].B = src[next].B
	}
}

package core

import (
	"fmt"

	"gridstep/pkg/rng"
)

// Value ranges produced by SeededSource.
const (
	MaxInitialA = 100
	MaxInitialB = 64
	MaxInitialC = 32
)

// RandomSource supplies the initial generation of a run.
type RandomSource interface {
	Generate(length int) (*Generation, error)
}

// SeededSource draws a in [0,100), b in [0,64) per cell and a single c in
// [0,32) shared by every cell. The same seed always yields the same grid.
type SeededSource struct {
	Seed int64
}

// Generate builds generation 0 with the given length.
func (s SeededSource) Generate(length int) (*Generation, error) {
	if length < 1 {
		return nil, fmt.Errorf("%w: grid length %d, need at least 1", ErrInvalidConfiguration, length)
	}
	r := rng.New(s.Seed)
	c := r.IntN(MaxInitialC)
	g := NewGeneration(length)
	for i := range g.cells {
		g.cells[i] = Cell{A: r.IntN(MaxInitialA), B: r.IntN(MaxInitialB), C: c}
	}
	return g, nil
}

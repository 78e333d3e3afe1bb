package core

import "fmt"

// Range is a half-open interval [Start, End) of cell indices.
type Range struct {
	Start int
	End   int
}

// Len returns the number of indices in r.
func (r Range) Len() int { return r.End - r.Start }

// Empty reports whether r contains no indices.
func (r Range) Empty() bool { return r.End <= r.Start }

func (r Range) String() string { return fmt.Sprintf("[%d,%d)", r.Start, r.End) }

// Plan splits [0, length) into threads contiguous ranges ordered by start.
// Lengths differ by at most one and the remainder goes to the lowest ranges.
// More threads than cells is allowed; the trailing ranges are then empty.
func Plan(length, threads int) ([]Range, error) {
	if threads < 1 {
		return nil, fmt.Errorf("%w: thread count %d, need at least 1", ErrInvalidConfiguration, threads)
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: grid length %d", ErrInvalidConfiguration, length)
	}
	chunk := length / threads
	rem := length % threads
	ranges := make([]Range, threads)
	for i := range ranges {
		start := chunk*i + min(rem, i)
		end := start + chunk
		if i < rem {
			end++
		}
		ranges[i] = Range{Start: start, End: end}
	}
	return ranges, nil
}

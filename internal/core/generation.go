package core

import (
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// Generation is one fully computed snapshot of the grid. Once handed out by an
// engine it is treated as read-only.
type Generation struct {
	index int
	cells []Cell
}

// NewGeneration allocates a zeroed generation of the given length at index 0.
func NewGeneration(length int) *Generation {
	if length < 0 {
		length = 0
	}
	return &Generation{cells: make([]Cell, length)}
}

// FromCells builds a generation from a copy of cells.
func FromCells(index int, cells []Cell) *Generation {
	return &Generation{index: index, cells: slices.Clone(cells)}
}

// Index returns the generation counter.
func (g *Generation) Index() int { return g.index }

// Len returns the number of cells.
func (g *Generation) Len() int { return len(g.cells) }

// At returns the cell at i.
func (g *Generation) At(i int) Cell { return g.cells[i] }

// Cells exposes the backing slice. Callers must not write to a generation that
// has already been produced.
func (g *Generation) Cells() []Cell { return g.cells }

// Field extracts one field of every cell into a new slice.
func (g *Generation) Field(f Field) []int {
	out := make([]int, len(g.cells))
	for i, c := range g.cells {
		switch f {
		case FieldA:
			out[i] = c.A
		case FieldB:
			out[i] = c.B
		case FieldC:
			out[i] = c.C
		}
	}
	return out
}

// Equal reports whether both generations hold the same index and cells.
func (g *Generation) Equal(other *Generation) bool {
	if g == nil || other == nil {
		return g == other
	}
	return g.index == other.index && slices.Equal(g.cells, other.cells)
}

// Successor returns a full copy of g one index further on. It is the
// destination buffer an engine writes the next generation into.
func (g *Generation) Successor() *Generation {
	return &Generation{index: g.index + 1, cells: slices.Clone(g.cells)}
}

// SuccessorInto prepares buf as the successor of g, copying only the fields in
// keep. Fields outside keep are left as they are and must be fully rewritten by
// the caller. It returns nil when buf cannot hold g.
func (g *Generation) SuccessorInto(buf *Generation, keep FieldMask) *Generation {
	if buf == nil || buf == g || len(buf.cells) != len(g.cells) {
		return nil
	}
	copyFields(buf.cells, g.cells, keep)
	buf.index = g.index + 1
	return buf
}

// Renumber sets the index of a generation that has not been published yet.
func (g *Generation) Renumber(index int) { g.index = index }

// Checksum hashes every cell in order. Equal grids hash equally regardless of
// generation index.
func (g *Generation) Checksum() uint64 {
	h := xxhash.New()
	var buf [24]byte
	for _, c := range g.cells {
		binary.LittleEndian.PutUint64(buf[0:], uint64(c.A))
		binary.LittleEndian.PutUint64(buf[8:], uint64(c.B))
		binary.LittleEndian.PutUint64(buf[16:], uint64(c.C))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

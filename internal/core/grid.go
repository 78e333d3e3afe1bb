package core

// ByteGrid stores a 2D grid of byte-sized values in row-major order. The viewer
// uses it as a scrolling history where row 0 is the newest generation.
type ByteGrid struct {
	W, H int
	data []uint8
}

// NewByteGrid allocates a grid with the given dimensions.
func NewByteGrid(w, h int) *ByteGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &ByteGrid{W: w, H: h, data: make([]uint8, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *ByteGrid) Cells() []uint8 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *ByteGrid) Index(x, y int) int { return y*g.W + x }

// Row returns row y as a sub-slice of the backing data.
func (g *ByteGrid) Row(y int) []uint8 { return g.data[y*g.W : (y+1)*g.W] }

// Push shifts every row down by one, dropping the oldest, and copies row into
// the top. Short rows leave the remainder of the top row zeroed.
func (g *ByteGrid) Push(row []uint8) {
	copy(g.data[g.W:], g.data[:g.W*(g.H-1)])
	top := g.Row(0)
	n := copy(top, row)
	clear(top[n:])
}

// Clear fills the grid with zeros.
func (g *ByteGrid) Clear() {
	clear(g.data)
}

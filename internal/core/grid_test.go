package core

import (
	"slices"
	"testing"
	"time"
)

func TestByteGridPushScrolls(t *testing.T) {
	g := NewByteGrid(3, 3)
	g.Push([]uint8{1, 1, 1})
	g.Push([]uint8{2, 2})
	g.Push([]uint8{3, 3, 3, 9})

	want := [][]uint8{{3, 3, 3}, {2, 2, 0}, {1, 1, 1}}
	for y, row := range want {
		if !slices.Equal(g.Row(y), row) {
			t.Fatalf("row %d = %v, want %v", y, g.Row(y), row)
		}
	}

	g.Push([]uint8{4, 4, 4})
	if !slices.Equal(g.Row(2), []uint8{2, 2, 0}) {
		t.Fatalf("oldest row not dropped: %v", g.Row(2))
	}

	g.Clear()
	for _, v := range g.Cells() {
		if v != 0 {
			t.Fatal("Clear left data behind")
		}
	}
}

func TestFixedStepDue(t *testing.T) {
	clock := time.Unix(0, 0)
	fs := NewFixedStep(10)
	fs.now = func() time.Time { return clock }

	if got := fs.Due(); got != 1 {
		t.Fatalf("first call Due = %d, want 1 (primed accumulator)", got)
	}
	clock = clock.Add(50 * time.Millisecond)
	if got := fs.Due(); got != 0 {
		t.Fatalf("Due after 50ms = %d, want 0", got)
	}
	clock = clock.Add(60 * time.Millisecond)
	if got := fs.Due(); got != 1 {
		t.Fatalf("Due after 110ms = %d, want 1", got)
	}
	clock = clock.Add(5 * time.Second)
	if got := fs.Due(); got != fs.MaxCatchUp {
		t.Fatalf("Due after stall = %d, want cap %d", got, fs.MaxCatchUp)
	}
	if fs.Rate() != 10 {
		t.Fatalf("Rate = %d", fs.Rate())
	}
}

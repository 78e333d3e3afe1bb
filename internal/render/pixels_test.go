package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRampPalette(t *testing.T) {
	lo := color.RGBA{R: 0, G: 0, B: 0, A: 255}
	hi := color.RGBA{R: 255, G: 100, B: 10, A: 255}

	p := RampPalette(3, lo, hi)
	assert.Equal(t, []color.RGBA{lo, {R: 128, G: 50, B: 5, A: 255}, hi}, p)
	assert.Equal(t, []color.RGBA{lo}, RampPalette(1, lo, hi))
	assert.Nil(t, RampPalette(0, lo, hi))
}

func TestQuantizeClamps(t *testing.T) {
	out := make([]uint8, 5)
	Quantize(out, []int{-5, 0, 7, 99, 1000}, 100)
	assert.Equal(t, []uint8{0, 0, 7, 99, 99}, out)

	Quantize(out, []int{300, 255, 1, 0, -1}, 1000)
	assert.Equal(t, []uint8{255, 255, 1, 0, 0}, out)
}

func TestQuantizeWithoutLevels(t *testing.T) {
	for _, levels := range []int{0, -3} {
		out := []uint8{9, 9, 9, 9}
		Quantize(out, []int{-1, 0, 50, 300}, levels)
		assert.Equal(t, []uint8{0, 0, 0, 0}, out, "levels=%d", levels)
	}
}

func TestFillPaletteRGBA(t *testing.T) {
	palette := []color.RGBA{{R: 1, G: 2, B: 3, A: 4}, {R: 5, G: 6, B: 7, A: 8}}
	buf := make([]byte, 12)
	fillPaletteRGBA(buf, []uint8{1, 0, 9}, palette)
	assert.Equal(t, []byte{5, 6, 7, 8, 1, 2, 3, 4, 5, 6, 7, 8}, buf)

	fillPaletteRGBA(buf, []uint8{1, 0, 9}, nil)
	assert.Equal(t, make([]byte, 12), buf)
}

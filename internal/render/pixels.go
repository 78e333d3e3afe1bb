package render

import "image/color"

// RampPalette returns n colours blending linearly from lo to hi.
func RampPalette(n int, lo, hi color.RGBA) []color.RGBA {
	if n <= 0 {
		return nil
	}
	palette := make([]color.RGBA, n)
	for i := range palette {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		palette[i] = color.RGBA{
			R: lerp(lo.R, hi.R, t),
			G: lerp(lo.G, hi.G, t),
			B: lerp(lo.B, hi.B, t),
			A: lerp(lo.A, hi.A, t),
		}
	}
	return palette
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}

// Quantize maps values into palette indices in [0, levels), clamping values
// outside that range. out must be at least as long as values. With fewer
// than one level every index is 0.
func Quantize(out []uint8, values []int, levels int) {
	if levels < 1 {
		clear(out[:len(values)])
		return
	}
	top := min(levels, 256) - 1
	for i, v := range values {
		switch {
		case v < 0:
			out[i] = 0
		case v > top:
			out[i] = uint8(top)
		default:
			out[i] = uint8(v)
		}
	}
}

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

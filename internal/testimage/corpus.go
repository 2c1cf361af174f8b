// Package testimage synthesizes small RGBA images for codec and container
// round-trip tests, standing in for a Kodak-style reference corpus without
// needing to embed real image files.
package testimage

import "github.com/echovr-tools/texelpack/pkg/pixel"

// Solid returns a width x height buffer filled with a single RGBA color.
func Solid(width, height int, r, g, b, a byte) *pixel.Buffer {
	buf := pixel.New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			buf.Set(x, y, r, g, b, a)
		}
	}
	return buf
}

// HorizontalRamp returns a buffer whose luminance increases monotonically
// left to right, black at x=0 to white at x=width-1 (spec.md §8 scenario 2).
func HorizontalRamp(width, height int) *pixel.Buffer {
	buf := pixel.New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := byte(x * 255 / (width - 1))
			buf.Set(x, y, v, v, v, 255)
		}
	}
	return buf
}

// Checkerboard returns a two-color checkerboard with the given cell size,
// useful for exercising block-boundary and selector-grid edge cases.
func Checkerboard(width, height, cell int, c0, c1 [4]byte) *pixel.Buffer {
	buf := pixel.New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := c0
			if (x/cell+y/cell)%2 == 1 {
				c = c1
			}
			buf.Set(x, y, c[0], c[1], c[2], c[3])
		}
	}
	return buf
}

// PseudoRandomRGBA returns a deterministic, seed-derived pseudo-random RGBA
// image (a simple linear congruential generator, not cryptographic) for
// stress-testing codec SSE search without relying on math/rand's global
// state or Date.now-style non-determinism.
func PseudoRandomRGBA(width, height int, seed uint32) *pixel.Buffer {
	buf := pixel.New(width, height)
	state := seed
	next := func() byte {
		state = state*1664525 + 1013904223
		return byte(state >> 24)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			buf.Set(x, y, next(), next(), next(), next())
		}
	}
	return buf
}

// Package blocklayout reorders a scanline-ordered pixel buffer into the
// 4x4 block-scan order the codec kernels consume, and computes mipmap
// chain extents.
//
// Block-scan order visits blocks (by, bx) in row-major order over the
// block grid, and within each block visits pixels column-major: x in
// [0,4), then y in [0,4). This lets an encoder kernel walk its input with
// a single incrementing pointer (see pkg/blocklayout doc in SPEC_FULL.md
// L1).
package blocklayout

import (
	"fmt"

	"github.com/echovr-tools/texelpack/pkg/pixel"
)

// ToBlockScan reorders buf into block-scan order for the given channel
// selector. The output has length width*height*channel.BytesPerPixel().
func ToBlockScan(buf *pixel.Buffer, ch pixel.Channel) ([]byte, error) {
	w, h := buf.Size()
	if w%4 != 0 || h%4 != 0 {
		return nil, fmt.Errorf("blocklayout: size %dx%d not a multiple of 4", w, h)
	}

	bpp := ch.BytesPerPixel()
	out := make([]byte, w*h*bpp)
	blocksWide := w / 4

	i := 0
	for by := 0; by < h/4; by++ {
		for bx := 0; bx < blocksWide; bx++ {
			for x := 0; x < 4; x++ {
				for y := 0; y < 4; y++ {
					px, py := bx*4+x, by*4+y
					r, g, b, a := buf.At(px, py)
					switch ch {
					case pixel.RGB:
						out[i+0], out[i+1], out[i+2] = r, g, b
					case pixel.Alpha:
						// spec.md §8: alpha=0 encodes as opacity byte 255
						// and alpha=255 as 0. DecodeEtc2RGBA/DecodeDxt5
						// un-invert this on the way back out; Bc4 (a raw
						// single-channel format, not coverage) must not
						// go through this path — see ToBlockScanChannel.
						out[i] = 255 - a
					}
					i += bpp
				}
			}
		}
	}
	return out, nil
}

// ToBlockScanChannel reorders a single raw 8-bit channel (0=R, 1=G, 2=B,
// 3=A) of buf into block-scan order, uninverted, for the single/dual
// arbitrary-channel formats (Etc2_R11, Etc2_RG11, Bc4, Bc5) that source
// data (normal maps, height maps) rather than color+coverage.
func ToBlockScanChannel(buf *pixel.Buffer, channel int) ([]byte, error) {
	w, h := buf.Size()
	if w%4 != 0 || h%4 != 0 {
		return nil, fmt.Errorf("blocklayout: size %dx%d not a multiple of 4", w, h)
	}

	out := make([]byte, w*h)
	blocksWide := w / 4

	i := 0
	for by := 0; by < h/4; by++ {
		for bx := 0; bx < blocksWide; bx++ {
			for x := 0; x < 4; x++ {
				for y := 0; y < 4; y++ {
					px, py := bx*4+x, by*4+y
					r, g, b, a := buf.At(px, py)
					switch channel {
					case 0:
						out[i] = r
					case 1:
						out[i] = g
					case 2:
						out[i] = b
					case 3:
						out[i] = a
					}
					i++
				}
			}
		}
	}
	return out, nil
}

// BlockOffset returns the byte offset in a block-scan buffer (as produced
// by ToBlockScan) of the pixel at (px,py), for a buffer of width w and the
// given channel's bytes-per-pixel C. This is the inverse addressing
// relationship used by the testable property in spec.md §8.
func BlockOffset(px, py, w, c int) int {
	bx, by := px/4, py/4
	x, y := px%4, py%4
	blocksWide := w / 4
	return ((by*blocksWide + bx) * 16 + x*4 + y) * c
}

// MipLevelCount returns the number of mipmap levels for an image of the
// given size: floor(log2(max(w,h))) + 1.
func MipLevelCount(width, height int) int {
	m := width
	if height > m {
		m = height
	}
	n := 1
	for m > 1 {
		m >>= 1
		n++
	}
	return n
}

// MipLevelSize returns the pixel dimensions of mip level k (k=0 is the
// full-size image), halving (floor, minimum 1) each prior level.
func MipLevelSize(width, height, level int) (int, int) {
	w, h := width, height
	for i := 0; i < level; i++ {
		w = halve(w)
		h = halve(h)
	}
	return w, h
}

func halve(v int) int {
	v /= 2
	if v < 1 {
		v = 1
	}
	return v
}

// BlockCount returns the number of 4x4 blocks a level of the given pixel
// dimensions occupies, padding any level below 4x4 up to a single block.
func BlockCount(w, h int) int {
	pw, ph := w, h
	if pw < 4 {
		pw = 4
	}
	if ph < 4 {
		ph = 4
	}
	return (pw * ph) / 16
}

// LevelPixelOffset returns the cumulative pixel count consumed by levels
// [0,level) of the mip chain rooted at (width,height) — used when an
// encode pass reads mip levels out of a single contiguous source image
// buffer (the mipmap generator collaborator provides one image per
// level, so this is mostly useful for documentation/tests).
func LevelPixelOffset(width, height, level int) int {
	total := 0
	w, h := width, height
	for i := 0; i < level; i++ {
		total += w * h
		w, h = halve(w), halve(h)
	}
	return total
}

// PayloadSize returns the total byte length of a compressed payload (not
// including any container header) for an image of the given size,
// encoded in a format whose block word is wordSize bytes, with the given
// number of mipmap levels (1 if mipmaps are not requested).
func PayloadSize(width, height, wordSize, levels int) int {
	total := 0
	w, h := width, height
	for i := 0; i < levels; i++ {
		total += BlockCount(w, h) * wordSize
		w, h = halve(w), halve(h)
	}
	return total
}

// LevelByteOffset returns the byte offset of mip level `level` within the
// payload (levels are stored largest-first, immediately concatenated).
func LevelByteOffset(width, height, wordSize, level int) int {
	return PayloadSize(width, height, wordSize, level)
}

package codec

import "encoding/binary"

// DXT1/BC1 kernel: two RGB565 endpoints packed little-endian as color0,
// color1, followed by a 2-bit-per-pixel selector grid (32 bits, row-major
// pixel order within the block). Mirrors the layout used throughout the
// reference corpus's BC1 encoders (e.g. WoozyMasta's bc1.go).

func rgb888to565(r, g, b int) uint16 {
	return uint16((r>>3)<<11 | (g>>2)<<5 | (b >> 3))
}

func rgb565to888(c uint16) (int, int, int) {
	r := int(c>>11) & 31
	g := int(c>>5) & 63
	b := int(c) & 31
	return expand5to8(r), expand6to8(g), expand5to8(b)
}

// dxt1Ramp returns the 4 interpolated RGB colors for a DXT1 block given
// its two endpoints, in the standard 4-color (non-punch-through) ordering.
func dxt1Ramp(c0, c1 uint16) [4][3]int {
	r0, g0, b0 := rgb565to888(c0)
	r1, g1, b1 := rgb565to888(c1)
	return [4][3]int{
		{r0, g0, b0},
		{r1, g1, b1},
		{(2*r0 + r1) / 3, (2*g0 + g1) / 3, (2*b0 + b1) / 3},
		{(r0 + 2*r1) / 3, (g0 + 2*g1) / 3, (b0 + 2*b1) / 3},
	}
}

// scanToRowMajor reinterprets a block-scan-ordered block (x outer, y
// inner — see pkg/blocklayout) into row-major pixel order, the order
// DXT1/BC1's selector grid is packed in.
func scanToRowMajor(b etc1Block) [16][3]int {
	var out [16][3]int
	i := 0
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			out[y*4+x] = b[i]
			i++
		}
	}
	return out
}

// encodeDxt1Block takes the block's two endpoints from the per-channel
// maximum and minimum corners of its color bounding box and packs the
// 2-bit selector grid minimizing per-pixel SSE against the 4-color ramp.
func encodeDxt1Block(px [16][3]int) (uint16, uint16, uint32) {
	var lo, hi [3]int
	lo = px[0]
	hi = px[0]
	for _, p := range px {
		for c := 0; c < 3; c++ {
			if p[c] < lo[c] {
				lo[c] = p[c]
			}
			if p[c] > hi[c] {
				hi[c] = p[c]
			}
		}
	}
	c0 := rgb888to565(hi[0], hi[1], hi[2])
	c1 := rgb888to565(lo[0], lo[1], lo[2])
	if c0 == c1 {
		// Force the "opaque 4-color" path (c0 > c1) so the ramp always
		// uses the non-punch-through interpolation.
		if c0 < 0xffff {
			c0++
		} else {
			c1--
		}
	}
	if c0 < c1 {
		c0, c1 = c1, c0
	}
	ramp := dxt1Ramp(c0, c1)
	var sel uint32
	for i := 0; i < 16; i++ {
		bi, be := 0, -1
		for k := 0; k < 4; k++ {
			e := sq(px[i][0]-ramp[k][0]) + sq(px[i][1]-ramp[k][1]) + sq(px[i][2]-ramp[k][2])
			if be == -1 || e < be {
				be, bi = e, k
			}
		}
		sel |= uint32(bi) << uint(i*2)
	}
	return c0, c1, sel
}

// EncodeDxt1 implements the DXT1/BC1 kernel's encode contract: reads
// `blocks` 4x4 blocks (block-scan layout) from src and writes `blocks`
// 8-byte block words (2 endpoints + selector grid, all little-endian) to
// dst.
func EncodeDxt1(src, dst []byte, blocks int, dither bool) {
	for i := 0; i < blocks; i++ {
		b := readRGBBlock(src, i)
		if dither {
			b = diffuseDither(b)
		}
		rowMajor := scanToRowMajor(b)
		c0, c1, sel := encodeDxt1Block(rowMajor)
		binary.LittleEndian.PutUint16(dst[i*8:], c0)
		binary.LittleEndian.PutUint16(dst[i*8+2:], c1)
		binary.LittleEndian.PutUint32(dst[i*8+4:], sel)
	}
}

// DecodeDxt1 implements the DXT1/BC1 kernel's decode contract.
func DecodeDxt1(src, dst []byte, width, height int) {
	blocksWide := (width + 3) / 4
	blocksHigh := (height + 3) / 4
	for by := 0; by < blocksHigh; by++ {
		for bx := 0; bx < blocksWide; bx++ {
			idx := by*blocksWide + bx
			o := idx * 8
			c0 := binary.LittleEndian.Uint16(src[o:])
			c1 := binary.LittleEndian.Uint16(src[o+2:])
			sel := binary.LittleEndian.Uint32(src[o+4:])
			ramp := dxt1Ramp(c0, c1)
			i := 0
			for y := 0; y < 4; y++ {
				for x := 0; x < 4; x++ {
					s := (sel >> uint(i*2)) & 3
					px, py := bx*4+x, by*4+y
					if px < width && py < height {
						o := (py*width + px) * 4
						dst[o+0] = byte(ramp[s][0])
						dst[o+1] = byte(ramp[s][1])
						dst[o+2] = byte(ramp[s][2])
						dst[o+3] = 255
					}
					i++
				}
			}
		}
	}
}

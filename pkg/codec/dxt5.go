package codec

import "encoding/binary"

// DXT5/BC3 kernel: an 8-bit-endpoint alpha block (a0, a1, 16x3-bit
// indices packed as two little-endian 24-bit runs) followed by a DXT1
// color word. BC4/BC5 reuse the alpha block format for single/dual
// channel data (grounded on leylandski's bc5.go ramp construction).

// bc4Ramp returns the 8 interpolated values for an alpha/BC4 block given
// its two endpoints, selecting the 8-interpolant ramp when a0>a1 and the
// 6-interpolant-plus-0/255 ramp (matching the reference degenerate-range
// fallback) otherwise.
func bc4Ramp(a0, a1 byte) [8]int {
	v0, v1 := int(a0), int(a1)
	var r [8]int
	r[0], r[1] = v0, v1
	if v0 > v1 {
		for i := 1; i <= 6; i++ {
			r[1+i] = ((7-i)*v0 + i*v1) / 7
		}
	} else {
		for i := 1; i <= 4; i++ {
			r[1+i] = ((5-i)*v0 + i*v1) / 5
		}
		r[6] = 0
		r[7] = 255
	}
	return r
}

func encodeBc4Block(vals [16]int) (byte, byte, uint64) {
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	a0, a1 := byte(hi), byte(lo)
	if a0 == a1 {
		if a0 < 255 {
			a0++
		} else {
			a1--
		}
	}
	ramp := bc4Ramp(a0, a1)
	var idx uint64
	for i, v := range vals {
		bi, be := 0, -1
		for k := 0; k < 8; k++ {
			e := sq(v - ramp[k])
			if be == -1 || e < be {
				be, bi = e, k
			}
		}
		idx |= uint64(bi) << uint(i*3)
	}
	return a0, a1, idx
}

func decodeBc4Block(a0, a1 byte, idx uint64) [16]int {
	ramp := bc4Ramp(a0, a1)
	var out [16]int
	for i := 0; i < 16; i++ {
		s := (idx >> uint(i*3)) & 7
		out[i] = ramp[s]
	}
	return out
}

// packAlphaWord writes the standard DXT5/BC4 alpha block layout: a0, a1,
// then 16 3-bit indices packed little-endian across 6 bytes.
func packAlphaWord(dst []byte, a0, a1 byte, idx uint64) {
	dst[0] = a0
	dst[1] = a1
	dst[2] = byte(idx)
	dst[3] = byte(idx >> 8)
	dst[4] = byte(idx >> 16)
	dst[5] = byte(idx >> 24)
	dst[6] = byte(idx >> 32)
	dst[7] = byte(idx >> 40)
}

func unpackAlphaWord(src []byte) (byte, byte, uint64) {
	a0, a1 := src[0], src[1]
	idx := uint64(src[2]) | uint64(src[3])<<8 | uint64(src[4])<<16 |
		uint64(src[5])<<24 | uint64(src[6])<<32 | uint64(src[7])<<40
	return a0, a1, idx
}

// readAlphaBlock reads a 4x4 span of a single 8-bit channel from a
// block-scan buffer (one byte per pixel, stride 16 bytes/block) and
// returns it in row-major pixel order, matching the index space BC4's
// and DXT1's selector/index packing both use.
func readAlphaBlock(src []byte, blockIdx int) [16]int {
	var scan [16]int
	base := blockIdx * 16
	for i := 0; i < 16; i++ {
		scan[i] = int(src[base+i])
	}
	var out [16]int
	i := 0
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			out[y*4+x] = scan[i]
			i++
		}
	}
	return out
}

// EncodeDxt5 implements the DXT5/BC3 kernel: rgbSrc is a block-scan RGB
// plane, alphaSrc a block-scan single-channel plane (stride 16/block).
func EncodeDxt5(rgbSrc, alphaSrc, dst []byte, blocks int, dither bool) {
	for i := 0; i < blocks; i++ {
		vals := readAlphaBlock(alphaSrc, i)
		a0, a1, idx := encodeBc4Block(vals)
		packAlphaWord(dst[i*16:i*16+8], a0, a1, idx)

		b := readRGBBlock(rgbSrc, i)
		if dither {
			b = diffuseDither(b)
		}
		rowMajor := scanToRowMajor(b)
		c0, c1, sel := encodeDxt1Block(rowMajor)
		binary.LittleEndian.PutUint16(dst[i*16+8:], c0)
		binary.LittleEndian.PutUint16(dst[i*16+10:], c1)
		binary.LittleEndian.PutUint32(dst[i*16+12:], sel)
	}
}

// DecodeDxt5 implements the DXT5/BC3 kernel's decode contract. The
// decoded alpha ramp value is un-inverted to undo blocklayout.ToBlockScan's
// coverage-to-block-scan alpha inversion applied on the encode side.
func DecodeDxt5(src, dst []byte, width, height int) {
	blocksWide := (width + 3) / 4
	blocksHigh := (height + 3) / 4
	for by := 0; by < blocksHigh; by++ {
		for bx := 0; bx < blocksWide; bx++ {
			idx := by*blocksWide + bx
			o := idx * 16
			a0, a1, aIdx := unpackAlphaWord(src[o : o+8])
			alphaVals := decodeBc4Block(a0, a1, aIdx)
			c0 := binary.LittleEndian.Uint16(src[o+8:])
			c1 := binary.LittleEndian.Uint16(src[o+10:])
			sel := binary.LittleEndian.Uint32(src[o+12:])
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
						dst[o+3] = byte(255 - alphaVals[y*4+x])
					}
					i++
				}
			}
		}
	}
}

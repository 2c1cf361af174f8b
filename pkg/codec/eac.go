package codec

import "encoding/binary"

// EAC R11/RG11 kernels: single (R11) or dual (RG11, R word then G word)
// 11-bit channel words using the same base+multiplier+modifier-table
// structure as the ETC2 alpha word, but unsigned over the full 11-bit
// range (0..2047) rather than 8-bit.

func encodeEacWord(vals [16]int) uint64 {
	sum := 0
	for _, v := range vals {
		sum += v
	}
	base11 := sum / 16

	bestWord, bestSSE := uint64(0), -1
	for tbl := 0; tbl < 16; tbl++ {
		for mul := 1; mul <= 15; mul++ {
			sse := 0
			var idx [16]int
			for i, v := range vals {
				bi, be := 0, -1
				for k := 0; k < 8; k++ {
					rv := clampInt(base11+eacAlphaModTbl[tbl][k]*mul*8, 0, 2047)
					e := sq(v - rv)
					if be == -1 || e < be {
						be, bi = e, k
					}
				}
				idx[i] = bi
				sse += be
			}
			if bestSSE == -1 || sse < bestSSE {
				bestSSE = sse
				var w uint64
				w |= uint64(clampInt(base11/8, 0, 255)) << 56
				w |= uint64(mul) << 52
				w |= uint64(tbl) << 48
				for i := 0; i < 16; i++ {
					w |= uint64(idx[i]&7) << uint(45-i*3)
				}
				bestWord = w
			}
		}
	}
	return bestWord
}

func decodeEacWord(word uint64) [16]int {
	var out [16]int
	base := int(word >> 56 & 255)
	mul := int(word >> 52 & 15)
	tbl := int(word >> 48 & 15)
	base11 := base * 8
	for i := 0; i < 16; i++ {
		idx := int(word>>uint(45-i*3)) & 7
		out[i] = clampInt(base11+eacAlphaModTbl[tbl][idx]*mul*8, 0, 2047)
	}
	return out
}

// eac11ToByte folds an 11-bit EAC sample down to an 8-bit pixel value for
// storage in an RGBA buffer (the top 8 bits of the 11-bit range).
func eac11ToByte(v int) byte { return byte(v >> 3) }

// byteToEac11 expands an 8-bit pixel value up to the 11-bit EAC range.
func byteToEac11(v byte) int { return int(v) << 3 }

// EncodeEtc2R11 implements the EAC R11 kernel: src holds one 8-bit
// channel's block-scan samples (stride 16 bytes/block), expanded to
// 11 bits before encoding.
func EncodeEtc2R11(src, dst []byte, blocks int) {
	for i := 0; i < blocks; i++ {
		var vals [16]int
		for p := 0; p < 16; p++ {
			vals[p] = byteToEac11(src[i*16+p])
		}
		binary.BigEndian.PutUint64(dst[i*8:i*8+8], encodeEacWord(vals))
	}
}

// DecodeEtc2R11 implements the EAC R11 kernel's decode contract, writing
// the decoded channel into an RGBA buffer's red channel (green/blue
// mirrored, alpha opaque) so it can be viewed like any other color plane.
func DecodeEtc2R11(src, dst []byte, width, height int) {
	blocksWide := (width + 3) / 4
	blocksHigh := (height + 3) / 4
	for by := 0; by < blocksHigh; by++ {
		for bx := 0; bx < blocksWide; bx++ {
			idx := by*blocksWide + bx
			word := binary.BigEndian.Uint64(src[idx*8 : idx*8+8])
			samples := decodeEacWord(word)
			var block [16][3]byte
			for i, v := range samples {
				g := eac11ToByte(v)
				block[i] = [3]byte{g, g, g}
			}
			writeBlockRGBA(dst, width, height, bx, by, block, nil)
		}
	}
}

// EncodeEtc2RG11 implements the EAC RG11 kernel: two independent R11
// words per block, R channel then G channel (spec.md §3).
func EncodeEtc2RG11(rSrc, gSrc, dst []byte, blocks int) {
	for i := 0; i < blocks; i++ {
		var rVals, gVals [16]int
		for p := 0; p < 16; p++ {
			rVals[p] = byteToEac11(rSrc[i*16+p])
			gVals[p] = byteToEac11(gSrc[i*16+p])
		}
		binary.BigEndian.PutUint64(dst[i*16:i*16+8], encodeEacWord(rVals))
		binary.BigEndian.PutUint64(dst[i*16+8:i*16+16], encodeEacWord(gVals))
	}
}

// DecodeEtc2RG11 implements the EAC RG11 kernel's decode contract.
func DecodeEtc2RG11(src, dst []byte, width, height int) {
	blocksWide := (width + 3) / 4
	blocksHigh := (height + 3) / 4
	for by := 0; by < blocksHigh; by++ {
		for bx := 0; bx < blocksWide; bx++ {
			idx := by*blocksWide + bx
			rWord := binary.BigEndian.Uint64(src[idx*16 : idx*16+8])
			gWord := binary.BigEndian.Uint64(src[idx*16+8 : idx*16+16])
			rSamples := decodeEacWord(rWord)
			gSamples := decodeEacWord(gWord)
			var block [16][3]byte
			for i := range block {
				block[i] = [3]byte{eac11ToByte(rSamples[i]), eac11ToByte(gSamples[i]), 0}
			}
			writeBlockRGBA(dst, width, height, bx, by, block, nil)
		}
	}
}

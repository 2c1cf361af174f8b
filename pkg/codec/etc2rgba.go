package codec

import "encoding/binary"

// encodeAlphaWord builds an ETC2-alpha block word for a 4x4 span of 8-bit
// alpha values (block-scan order). It shares the base+multiplier+modifier
// table layout with EAC R11/RG11 but keeps the channel in its native
// 8-bit range rather than expanding to 11 bits.
func encodeAlphaWord(vals [16]int) uint64 {
	sum := 0
	for _, v := range vals {
		sum += v
	}
	base := sum / 16

	bestWord, bestSSE := uint64(0), -1
	for tbl := 0; tbl < 16; tbl++ {
		for mul := 1; mul <= 15; mul++ {
			sse := 0
			var idx [16]int
			for i, v := range vals {
				bi, be := 0, -1
				for k := 0; k < 8; k++ {
					rv := clampInt(base+eacAlphaModTbl[tbl][k]*mul, 0, 255)
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
				w |= uint64(clampByte(base)) << 56
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

func decodeAlphaWord(word uint64) [16]byte {
	var out [16]byte
	base := int(word >> 56 & 255)
	mul := int(word >> 52 & 15)
	tbl := int(word >> 48 & 15)
	for i := 0; i < 16; i++ {
		idx := int(word>>uint(45-i*3)) & 7
		out[i] = byte(clampInt(base+eacAlphaModTbl[tbl][idx]*mul, 0, 255))
	}
	return out
}

// EncodeEtc2RGBA implements the dual-plane Etc2_RGBA kernel: an ETC2-alpha
// word followed by an ETC2 RGB color word per block (spec.md §3 orders the
// alpha word first).
func EncodeEtc2RGBA(rgbSrc, alphaSrc, dst []byte, blocks int, dither, heuristics bool) {
	for i := 0; i < blocks; i++ {
		var vals [16]int
		for p := 0; p < 16; p++ {
			vals[p] = int(alphaSrc[i*16+p])
		}
		binary.BigEndian.PutUint64(dst[i*16:i*16+8], encodeAlphaWord(vals))

		b := readRGBBlock(rgbSrc, i)
		if dither {
			b = diffuseDither(b)
		}
		word := bestColorWord(b, heuristics)
		binary.BigEndian.PutUint64(dst[i*16+8:i*16+16], word)
	}
}

// DecodeEtc2RGBA implements the dual-plane Etc2_RGBA kernel's decode
// contract: reads paired 8-byte alpha/color words and writes RGBA pixels.
// The decoded alpha word is un-inverted to undo blocklayout.ToBlockScan's
// coverage-to-block-scan alpha inversion applied on the encode side.
func DecodeEtc2RGBA(src, dst []byte, width, height int) {
	blocksWide := (width + 3) / 4
	blocksHigh := (height + 3) / 4
	for by := 0; by < blocksHigh; by++ {
		for bx := 0; bx < blocksWide; bx++ {
			idx := by*blocksWide + bx
			aWord := binary.BigEndian.Uint64(src[idx*16 : idx*16+8])
			cWord := binary.BigEndian.Uint64(src[idx*16+8 : idx*16+16])
			alpha := decodeAlphaWord(aWord)
			for i, v := range alpha {
				alpha[i] = 255 - v
			}
			block := decodeColorWord(cWord)
			writeBlockRGBA(dst, width, height, bx, by, block, &alpha)
		}
	}
}

package codec

// BC4 kernel: a single DXT5-style alpha word applied to one channel,
// stored and retrieved as a grayscale RGBA image (all channels mirror the
// decoded value, alpha opaque) matching Dxt5's alpha-block reuse.

// EncodeBc4 implements the BC4 kernel's encode contract: src is a
// block-scan single-channel plane (stride 16 bytes/block).
func EncodeBc4(src, dst []byte, blocks int) {
	for i := 0; i < blocks; i++ {
		vals := readAlphaBlock(src, i)
		a0, a1, idx := encodeBc4Block(vals)
		packAlphaWord(dst[i*8:i*8+8], a0, a1, idx)
	}
}

// DecodeBc4 implements the BC4 kernel's decode contract.
func DecodeBc4(src, dst []byte, width, height int) {
	blocksWide := (width + 3) / 4
	blocksHigh := (height + 3) / 4
	for by := 0; by < blocksHigh; by++ {
		for bx := 0; bx < blocksWide; bx++ {
			idx := by*blocksWide + bx
			a0, a1, aIdx := unpackAlphaWord(src[idx*8 : idx*8+8])
			vals := decodeBc4Block(a0, a1, aIdx)
			var block [16][3]byte
			for i, v := range vals {
				g := byte(v)
				block[i] = [3]byte{g, g, g}
			}
			writeBlockRGBA(dst, width, height, bx, by, rowMajorToScan(block), nil)
		}
	}
}

// rowMajorToScan reinterprets a row-major-ordered pixel array into
// block-scan order for writeBlockRGBA, which expects block-scan input.
func rowMajorToScan(rowMajor [16][3]byte) [16][3]byte {
	var out [16][3]byte
	i := 0
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			out[i] = rowMajor[y*4+x]
			i++
		}
	}
	return out
}

package codec

// BC5 kernel: two BC4 words back to back, R channel then G channel
// (spec.md §3), stored as a grayscale-per-channel RGBA image (blue 0,
// alpha opaque) — grounded on leylandski's bc5.go companion-channel
// layout.

// EncodeBc5 implements the BC5 kernel's encode contract: rSrc/gSrc are
// block-scan single-channel planes (stride 16 bytes/block).
func EncodeBc5(rSrc, gSrc, dst []byte, blocks int) {
	for i := 0; i < blocks; i++ {
		rVals := readAlphaBlock(rSrc, i)
		a0, a1, idx := encodeBc4Block(rVals)
		packAlphaWord(dst[i*16:i*16+8], a0, a1, idx)

		gVals := readAlphaBlock(gSrc, i)
		b0, b1, gIdx := encodeBc4Block(gVals)
		packAlphaWord(dst[i*16+8:i*16+16], b0, b1, gIdx)
	}
}

// DecodeBc5 implements the BC5 kernel's decode contract.
func DecodeBc5(src, dst []byte, width, height int) {
	blocksWide := (width + 3) / 4
	blocksHigh := (height + 3) / 4
	for by := 0; by < blocksHigh; by++ {
		for bx := 0; bx < blocksWide; bx++ {
			idx := by*blocksWide + bx
			o := idx * 16
			ra0, ra1, rIdx := unpackAlphaWord(src[o : o+8])
			ga0, ga1, gIdx := unpackAlphaWord(src[o+8 : o+16])
			rVals := decodeBc4Block(ra0, ra1, rIdx)
			gVals := decodeBc4Block(ga0, ga1, gIdx)
			var block [16][3]byte
			for i := range block {
				block[i] = [3]byte{byte(rVals[i]), byte(gVals[i]), 0}
			}
			writeBlockRGBA(dst, width, height, bx, by, rowMajorToScan(block), nil)
		}
	}
}

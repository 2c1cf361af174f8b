package codec

import "encoding/binary"

// EncodeEtc1Alpha implements the ETC1-alpha kernel of spec.md §4.2: a
// single-channel variant of the ETC2-alpha encoding word, used when the
// split-plane dispatch (spec.md §4.3) routes an alpha-channel encode into
// an Etc1-format payload rather than an Etc2-family one. src is a
// block-scan single-channel plane (stride 16 bytes/block); it shares
// encodeAlphaWord/decodeAlphaWord with DecodeEtc2RGBA's alpha word since
// both are the same 64-bit base+multiplier+index layout.
func EncodeEtc1Alpha(src, dst []byte, blocks int) {
	for i := 0; i < blocks; i++ {
		var vals [16]int
		for p := 0; p < 16; p++ {
			vals[p] = int(src[i*16+p])
		}
		binary.BigEndian.PutUint64(dst[i*8:i*8+8], encodeAlphaWord(vals))
	}
}

// DecodeEtc1Alpha implements the ETC1-alpha kernel's decode contract,
// writing the reconstructed single channel into all of R/G/B (alpha
// opaque), matching Bc4's grayscale convention.
func DecodeEtc1Alpha(src, dst []byte, width, height int) {
	blocksWide := (width + 3) / 4
	blocksHigh := (height + 3) / 4
	for by := 0; by < blocksHigh; by++ {
		for bx := 0; bx < blocksWide; bx++ {
			idx := by*blocksWide + bx
			word := binary.BigEndian.Uint64(src[idx*8 : idx*8+8])
			vals := decodeAlphaWord(word)
			var block [16][3]byte
			for i, v := range vals {
				block[i] = [3]byte{v, v, v}
			}
			writeBlockRGBA(dst, width, height, bx, by, block, nil)
		}
	}
}

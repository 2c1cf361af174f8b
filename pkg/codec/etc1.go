package codec

import "encoding/binary"

// etc1Block is a 4x4 block of pixels in block-scan order (index i = x*4+y,
// x outer/slow, y inner/fast — see pkg/blocklayout).
type etc1Block [16][3]int

func readRGBBlock(src []byte, blockIdx int) etc1Block {
	var b etc1Block
	base := blockIdx * 48
	for i := 0; i < 16; i++ {
		o := base + i*3
		b[i] = [3]int{int(src[o]), int(src[o+1]), int(src[o+2])}
	}
	return b
}

// diffuseDither runs a Floyd-Steinberg-shaped pass over a block's pixels
// prior to mode search, column by column. Each pixel's residual goes to the
// right, below-left, below and below-right neighbours within the 4x4 block
// only (blocks are encoded independently, so diffusion never crosses a
// block boundary). The residual is the value minus its clamp to [0,255],
// not an encoding quantization error, so it is zero for in-range input and
// the block is returned unchanged; error sent below-left lands in a column
// already visited and is not applied.
func diffuseDither(b etc1Block) etc1Block {
	var out etc1Block
	var errBuf [4][4][3]int
	idx := func(x, y int) int { return x*4 + y }
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			i := idx(x, y)
			for c := 0; c < 3; c++ {
				v := b[i][c] + errBuf[x][y][c]
				q := clampInt(v, 0, 255)
				out[i][c] = q
				e := v - q
				if x+1 < 4 {
					errBuf[x+1][y][c] += e * 7 / 16
				}
				if x-1 >= 0 && y+1 < 4 {
					errBuf[x-1][y+1][c] += e * 3 / 16
				}
				if y+1 < 4 {
					errBuf[x][y+1][c] += e * 5 / 16
				}
				if x+1 < 4 && y+1 < 4 {
					errBuf[x+1][y+1][c] += e * 1 / 16
				}
			}
		}
	}
	return out
}

// subAverage returns the rounded average RGB of the pixels in block b
// belonging to sub-block sub (0 or 1) under the given flip orientation.
func subAverage(b etc1Block, flip, sub int) [3]int {
	var sum [3]int
	n := 0
	for i := 0; i < 16; i++ {
		if etc1FlipTbl[flip][i] == sub {
			sum[0] += b[i][0]
			sum[1] += b[i][1]
			sum[2] += b[i][2]
			n++
		}
	}
	return [3]int{sum[0] / n, sum[1] / n, sum[2] / n}
}

// etc1Mode0Result holds a fully chosen individual/differential-mode
// encoding for one block.
type etc1Mode0Result struct {
	word uint64
	sse  int
}

// encodeMode0 searches ETC1's individual/differential mode (the only mode
// available to an Etc1-format block, and the fallback mode for ETC2) over
// both flip orientations, returning the lowest-error encoding.
func encodeMode0(b etc1Block) etc1Mode0Result {
	best := etc1Mode0Result{sse: -1}
	for flip := 0; flip < 2; flip++ {
		avg0 := subAverage(b, flip, 0)
		avg1 := subAverage(b, flip, 1)

		word, sse, ok := tryDifferential(b, flip, avg0, avg1)
		if !ok {
			word, sse = encodeIndividual(b, flip, avg0, avg1)
		}
		if best.sse == -1 || sse < best.sse {
			best = etc1Mode0Result{word: word, sse: sse}
		}
	}
	return best
}

func tryDifferential(b etc1Block, flip int, avg0, avg1 [3]int) (uint64, int, bool) {
	var base0, base1 [3]int
	var q0, q1 [3]int
	for c := 0; c < 3; c++ {
		q0[c] = quantizeTo(avg0[c], 5)
		q1c := quantizeTo(avg1[c], 5)
		delta := q1c - q0[c]
		if delta < -4 || delta > 3 {
			return 0, 0, false
		}
		q1[c] = q1c
		base0[c] = expand5to8(q0[c])
		base1[c] = expand5to8(q1c)
	}
	word, sse := buildMode0Word(b, flip, true, base0, base1)
	// Pack differential color fields.
	var w uint64
	for c := 0; c < 3; c++ {
		delta := q1[c] - q0[c]
		d3 := uint64(delta) & 7
		w |= uint64(q0[c]) << uint(59-c*8)
		w |= d3 << uint(56-c*8)
	}
	word = word | w
	return word, sse, true
}

func encodeIndividual(b etc1Block, flip int, avg0, avg1 [3]int) (uint64, int) {
	var base0, base1 [3]int
	var q0, q1 [3]int
	for c := 0; c < 3; c++ {
		q0[c] = quantizeTo(avg0[c], 4)
		q1[c] = quantizeTo(avg1[c], 4)
		base0[c] = expand4to8(q0[c])
		base1[c] = expand4to8(q1[c])
	}
	word, sse := buildMode0Word(b, flip, false, base0, base1)
	var w uint64
	for c := 0; c < 3; c++ {
		w |= uint64(q0[c]) << uint(60-c*8)
		w |= uint64(q1[c]) << uint(56-c*8)
	}
	word = word | w
	return word, sse
}

// buildMode0Word selects per-subblock intensity tables and per-pixel
// codewords for the given (already quantized) base colors, and returns
// the common bits (tables, diff, flip, selectors) — the color fields are
// ORed in separately by the caller since individual and differential mode
// pack them differently.
func buildMode0Word(b etc1Block, flip int, diff bool, base0, base1 [3]int) (uint64, int) {
	bases := [2][3]int{base0, base1}
	var tableIdx [2]int
	var pixelIdx [16]int
	totalSSE := 0

	for sub := 0; sub < 2; sub++ {
		bestRowSSE := -1
		bestRow := 0
		var bestIdx [16]int
		for row := 0; row < 8; row++ {
			deltas := etc1ModTbl[1][row]
			sse := 0
			var idxThisRow [16]int
			for i := 0; i < 16; i++ {
				if etc1FlipTbl[flip][i] != sub {
					continue
				}
				bestD, bestErr := 0, -1
				for d := 0; d < 4; d++ {
					e := 0
					for c := 0; c < 3; c++ {
						rv := clampByte(bases[sub][c] + deltas[d])
						e += sq(b[i][c] - int(rv))
					}
					if bestErr == -1 || e < bestErr {
						bestErr = e
						bestD = d
					}
				}
				idxThisRow[i] = bestD
				sse += bestErr
			}
			if bestRowSSE == -1 || sse < bestRowSSE {
				bestRowSSE = sse
				bestRow = row
				bestIdx = idxThisRow
			}
		}
		tableIdx[sub] = bestRow
		totalSSE += bestRowSSE
		for i := 0; i < 16; i++ {
			if etc1FlipTbl[flip][i] == sub {
				pixelIdx[i] = bestIdx[i]
			}
		}
	}

	var word uint64
	word |= uint64(tableIdx[0]) << 37
	word |= uint64(tableIdx[1]) << 34
	if diff {
		word |= 1 << 33
	}
	word |= uint64(flip) << 32
	for i := 0; i < 16; i++ {
		lsb := uint64(pixelIdx[i] & 1)
		msb := uint64((pixelIdx[i] >> 1) & 1)
		word |= lsb << uint(i)
		word |= msb << uint(16+i)
	}
	return word, totalSSE
}

// EncodeEtc1 implements the ETC1 RGB kernel's split-plane encode contract
// (spec.md §4.2 common contract): reads `blocks` 4x4 blocks from src (the
// block-scan layout of pkg/blocklayout) and writes `blocks` 8-byte block
// words to dst.
func EncodeEtc1(src, dst []byte, blocks int, dither bool) {
	for i := 0; i < blocks; i++ {
		b := readRGBBlock(src, i)
		if dither {
			b = diffuseDither(b)
		}
		res := encodeMode0(b)
		binary.BigEndian.PutUint64(dst[i*8:i*8+8], res.word)
	}
}

// DecodeEtc1 implements the ETC1 RGB kernel's decode contract: reads
// width*height/16 8-byte block words from src and writes width*height
// RGBA pixels to dst in row-major order.
func DecodeEtc1(src, dst []byte, width, height int) {
	decodeColorFamily(src, dst, width, height, 8, false)
}

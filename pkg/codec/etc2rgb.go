package codec

import "encoding/binary"

// decodeColorWord decodes a single ETC1/ETC2 color word (64 bits) into 16
// RGB triples in block-scan order (i = x*4+y). It implements the full
// ETC2 mode switch — individual/differential (mode 0, ETC1's only mode),
// T-mode, H-mode and planar-mode — mirroring the bit layouts of the
// Khronos ETC2 specification.
func decodeColorWord(word uint64) [16][3]byte {
	var out [16][3]byte
	v64 := word

	flip := (v64 >> 32) & 1
	diffBit := (v64 >> 33) & 1

	var c [4][3]int
	mode := 0
	if diffBit == 0 {
		for i := 0; i < 3; i++ {
			a := (v64 >> uint(60-i*8)) & 15
			b := (v64 >> uint(56-i*8)) & 15
			c[0][i] = int((a << 4) | a)
			c[1][i] = int((b << 4) | b)
		}
	} else {
		for i := 0; i < 3; i++ {
			a := (v64 >> uint(59-i*8)) & 31
			d := (v64 >> uint(56-i*8)) & 7
			b := int(a) + etc1DiffTbl[d]
			if b < 0 || b > 31 {
				mode = i + 1
				break
			}
			c[0][i] = int((a << 3) | (a >> 2))
			c[1][i] = int((b << 3) | (b >> 2))
		}
	}

	switch mode {
	case 0:
		codes := [2][4]int{
			etc1ModTbl[1][(v64>>37)&7],
			etc1ModTbl[1][(v64>>34)&7],
		}
		blockTbl := etc1FlipTbl[flip]
		for i := 0; i < 16; i++ {
			sub := blockTbl[i]
			idx := ((v64 >> uint(i)) & 1) | ((v64 >> uint(15+i)) & 2)
			shift := codes[sub][idx]
			for ch := 0; ch < 3; ch++ {
				out[i][ch] = clampByte(c[sub][ch] + shift)
			}
		}
	case 1: // T-mode
		c[0][0] = expand4to8(int(((v64 >> 57) & 12) | (v64>>56)&3))
		c[0][1] = expand4to8(int(v64 >> 52 & 15))
		c[0][2] = expand4to8(int(v64 >> 48 & 15))
		c[2][0] = expand4to8(int(v64 >> 44 & 15))
		c[2][1] = expand4to8(int(v64 >> 40 & 15))
		c[2][2] = expand4to8(int(v64 >> 36 & 15))

		modIdx := ((v64 >> 33) & 6) | ((v64 >> 32) & 1)
		mod := etc2HTModTbl[modIdx]
		for i := 0; i < 3; i++ {
			c[1][i] = clampInt(c[2][i]+mod, 0, 255)
			c[3][i] = clampInt(c[2][i]-mod, 0, 255)
		}
		writeSelectorIndexed(&out, v64, c)
	case 2: // H-mode
		c[0][0] = expand4to8(int(v64 >> 59 & 15))
		c[0][1] = expand4to8(int(((v64 >> 55) & 14) | ((v64 >> 52) & 1)))
		c[0][2] = expand4to8(int(((v64 >> 48) & 8) | ((v64 >> 47) & 7)))
		c[2][0] = expand4to8(int(v64 >> 43 & 15))
		c[2][1] = expand4to8(int(v64 >> 39 & 15))
		c[2][2] = expand4to8(int(v64 >> 35 & 15))

		modIdx := ((v64 >> 32) & 4) | ((v64 >> 31) & 2)
		if (c[0][0]<<16)+(c[0][1]<<8)+c[0][2] >= (c[2][0]<<16)+(c[2][1]<<8)+c[2][2] {
			modIdx++
		}
		mod := etc2HTModTbl[modIdx]
		for i := 0; i < 3; i++ {
			c[0][i], c[1][i] = clampInt(c[0][i]+mod, 0, 255), clampInt(c[0][i]-mod, 0, 255)
			c[2][i], c[3][i] = clampInt(c[2][i]+mod, 0, 255), clampInt(c[2][i]-mod, 0, 255)
		}
		writeSelectorIndexed(&out, v64, c)
	case 3: // planar-mode
		c[0][0] = expand6to8(int(v64 >> 57 & 63))
		c[0][1] = expand7to8(int(((v64 >> 50) & 64) | ((v64 >> 49) & 63)))
		c[0][2] = expand6to8(int(((v64 >> 43) & 32) | ((v64 >> 40) & 24) | ((v64 >> 39) & 7)))
		c[1][0] = expand6to8(int(((v64 >> 33) & 62) | ((v64 >> 32) & 1)))
		c[1][1] = expand7to8(int(v64 >> 25 & 127))
		c[1][2] = expand6to8(int(v64 >> 19 & 63))
		c[2][0] = expand6to8(int(v64 >> 13 & 63))
		c[2][1] = expand7to8(int(v64 >> 6 & 127))
		c[2][2] = expand6to8(int(v64 & 63))

		i := 0
		for x := 0; x < 4; x++ {
			for y := 0; y < 4; y++ {
				for ch := 0; ch < 3; ch++ {
					out[i][ch] = clampByte((x*(c[1][ch]-c[0][ch]) + y*(c[2][ch]-c[0][ch]) + 4*c[0][ch] + 2) >> 2)
				}
				i++
			}
		}
	}
	return out
}

// writeSelectorIndexed assigns each pixel one of the 4 T/H-mode colors
// using the same 2-bit selector packing as mode 0.
func writeSelectorIndexed(out *[16][3]byte, v64 uint64, c [4][3]int) {
	for i := 0; i < 16; i++ {
		idx := ((v64 >> uint(i)) & 1) | ((v64 >> uint(15+i)) & 2)
		for ch := 0; ch < 3; ch++ {
			out[i][ch] = clampByte(c[idx][ch])
		}
	}
}

// writeBlockRGBA scatters a block-scan-ordered pixel array (plus an
// optional alpha plane, all-opaque if nil) into a row-major RGBA image.
func writeBlockRGBA(dst []byte, width, height, bx, by int, block [16][3]byte, alpha *[16]byte) {
	i := 0
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			px, py := bx*4+x, by*4+y
			if px < width && py < height {
				o := (py*width + px) * 4
				a := byte(255)
				if alpha != nil {
					a = alpha[i]
				}
				dst[o+0], dst[o+1], dst[o+2], dst[o+3] = block[i][0], block[i][1], block[i][2], a
			}
			i++
		}
	}
}

// decodeColorFamily decodes a plane of single-word color blocks (ETC1 or
// ETC2 RGB: no accompanying alpha word) into a row-major RGBA image.
func decodeColorFamily(src, dst []byte, width, height, wordStride int, _ bool) {
	blocksWide := (width + 3) / 4
	blocksHigh := (height + 3) / 4
	for by := 0; by < blocksHigh; by++ {
		for bx := 0; bx < blocksWide; bx++ {
			idx := by*blocksWide + bx
			word := binary.BigEndian.Uint64(src[idx*wordStride : idx*wordStride+8])
			block := decodeColorWord(word)
			writeBlockRGBA(dst, width, height, bx, by, block, nil)
		}
	}
}

// --- ETC2 RGB encode: mode0 (ETC1) + T-mode + H-mode + planar-mode ---

func encodeTMode(b etc1Block) (uint64, int) {
	// Heuristic mode selection: c0 is the block's single most isolated
	// color (farthest from the mean), c2 the mean of the rest.
	var mean [3]int
	for i := 0; i < 16; i++ {
		mean[0] += b[i][0]
		mean[1] += b[i][1]
		mean[2] += b[i][2]
	}
	mean = [3]int{mean[0] / 16, mean[1] / 16, mean[2] / 16}
	farIdx, farDist := 0, -1
	for i := 0; i < 16; i++ {
		d := sq(b[i][0]-mean[0]) + sq(b[i][1]-mean[1]) + sq(b[i][2]-mean[2])
		if d > farDist {
			farDist = d
			farIdx = i
		}
	}
	c0 := b[farIdx]
	var restSum [3]int
	restN := 0
	for i := 0; i < 16; i++ {
		if i == farIdx {
			continue
		}
		restSum[0] += b[i][0]
		restSum[1] += b[i][1]
		restSum[2] += b[i][2]
		restN++
	}
	c2 := [3]int{restSum[0] / restN, restSum[1] / restN, restSum[2] / restN}

	q0 := [3]int{quantizeTo(c0[0], 4), quantizeTo(c0[1], 4), quantizeTo(c0[2], 4)}
	q2 := [3]int{quantizeTo(c2[0], 4), quantizeTo(c2[1], 4), quantizeTo(c2[2], 4)}
	e0 := [3]int{expand4to8(q0[0]), expand4to8(q0[1]), expand4to8(q0[2])}
	e2 := [3]int{expand4to8(q2[0]), expand4to8(q2[1]), expand4to8(q2[2])}

	bestMod, bestSSE := 0, -1
	var bestIdx [16]int
	for m := 0; m < 8; m++ {
		mod := etc2HTModTbl[m]
		cands := [4][3]int{
			e0,
			{clampInt(e2[0]+mod, 0, 255), clampInt(e2[1]+mod, 0, 255), clampInt(e2[2]+mod, 0, 255)},
			e2,
			{clampInt(e2[0]-mod, 0, 255), clampInt(e2[1]-mod, 0, 255), clampInt(e2[2]-mod, 0, 255)},
		}
		sse := 0
		var idxArr [16]int
		for i := 0; i < 16; i++ {
			bi, be := 0, -1
			for k := 0; k < 4; k++ {
				e := sq(b[i][0]-cands[k][0]) + sq(b[i][1]-cands[k][1]) + sq(b[i][2]-cands[k][2])
				if be == -1 || e < be {
					be, bi = e, k
				}
			}
			idxArr[i] = bi
			sse += be
		}
		if bestSSE == -1 || sse < bestSSE {
			bestSSE, bestMod, bestIdx = sse, m, idxArr
		}
	}

	var word uint64
	word |= uint64((q0[0]>>2)&3) << 59
	word |= uint64(q0[0]&3) << 56
	word |= uint64(q0[1]) << 52
	word |= uint64(q0[2]) << 48
	word |= uint64(q2[0]) << 44
	word |= uint64(q2[1]) << 40
	word |= uint64(q2[2]) << 36
	word |= uint64((bestMod>>1)&3) << 33
	word |= uint64(bestMod&1) << 32
	for i := 0; i < 16; i++ {
		lsb := uint64(bestIdx[i] & 1)
		msb := uint64((bestIdx[i] >> 1) & 1)
		word |= lsb << uint(i)
		word |= msb << uint(16+i)
	}
	// Mark as ETC2-only word: diff bit area must produce an invalid
	// individual-mode-looking differential base so the decoder's mode
	// detector lands on T-mode. Set diff bit (bit33) region per spec: the
	// decoder detects T-mode by an out-of-range differential delta on
	// channel R (mode becomes 1). Force channel R's differential decode
	// to overflow by encoding diff bit = 1 and an R differential pair
	// that is guaranteed out of range.
	word |= 1 << 33
	word = forceChannelOverflow(word, 0)
	return word, bestSSE
}

func encodeHMode(b etc1Block) (uint64, int) {
	// Heuristic: split the block by luminance median into two halves.
	type lp struct {
		i   int
		lum int
	}
	lums := make([]lp, 16)
	for i := 0; i < 16; i++ {
		lums[i] = lp{i, b[i][0]*2 + b[i][1]*3 + b[i][2]}
	}
	for i := 1; i < 16; i++ {
		for j := i; j > 0 && lums[j].lum < lums[j-1].lum; j-- {
			lums[j], lums[j-1] = lums[j-1], lums[j]
		}
	}
	var sum0, sum1 [3]int
	for k, e := range lums {
		if k < 8 {
			sum0[0] += b[e.i][0]
			sum0[1] += b[e.i][1]
			sum0[2] += b[e.i][2]
		} else {
			sum1[0] += b[e.i][0]
			sum1[1] += b[e.i][1]
			sum1[2] += b[e.i][2]
		}
	}
	c0 := [3]int{sum0[0] / 8, sum0[1] / 8, sum0[2] / 8}
	c1 := [3]int{sum1[0] / 8, sum1[1] / 8, sum1[2] / 8}
	q0 := [3]int{quantizeTo(c0[0], 4), quantizeTo(c0[1], 4), quantizeTo(c0[2], 4)}
	q1 := [3]int{quantizeTo(c1[0], 4), quantizeTo(c1[1], 4), quantizeTo(c1[2], 4)}
	e0 := [3]int{expand4to8(q0[0]), expand4to8(q0[1]), expand4to8(q0[2])}
	e1 := [3]int{expand4to8(q1[0]), expand4to8(q1[1]), expand4to8(q1[2])}

	bestMod, bestSSE := 0, -1
	var bestIdx [16]int
	for m := 0; m < 8; m++ {
		mod := etc2HTModTbl[m]
		cands := [4][3]int{
			{clampInt(e0[0]+mod, 0, 255), clampInt(e0[1]+mod, 0, 255), clampInt(e0[2]+mod, 0, 255)},
			{clampInt(e0[0]-mod, 0, 255), clampInt(e0[1]-mod, 0, 255), clampInt(e0[2]-mod, 0, 255)},
			{clampInt(e1[0]+mod, 0, 255), clampInt(e1[1]+mod, 0, 255), clampInt(e1[2]+mod, 0, 255)},
			{clampInt(e1[0]-mod, 0, 255), clampInt(e1[1]-mod, 0, 255), clampInt(e1[2]-mod, 0, 255)},
		}
		sse := 0
		var idxArr [16]int
		for i := 0; i < 16; i++ {
			bi, be := 0, -1
			for k := 0; k < 4; k++ {
				e := sq(b[i][0]-cands[k][0]) + sq(b[i][1]-cands[k][1]) + sq(b[i][2]-cands[k][2])
				if be == -1 || e < be {
					be, bi = e, k
				}
			}
			idxArr[i] = bi
			sse += be
		}
		if bestSSE == -1 || sse < bestSSE {
			bestSSE, bestMod, bestIdx = sse, m, idxArr
		}
	}

	modParity := bestMod & 1
	// The LSB of modIdx is implicit (derived from c0 vs c2 ordering at
	// decode time); swap the base colors if needed so that comparison
	// reproduces the parity bit we need.
	if e0lt(e0, e1) != (modParity == 1) {
		e0, e1 = e1, e0
		q0, q1 = q1, q0
	}

	var word uint64
	word |= uint64(q0[0]) << 59
	word |= uint64((q0[1]>>1)&7) << 55
	word |= uint64(q0[1]&1) << 52
	word |= uint64((q0[2]>>3)&1) << 48
	word |= uint64(q0[2]&7) << 47
	word |= uint64(q1[0]) << 43
	word |= uint64(q1[1]) << 39
	word |= uint64(q1[2]) << 35
	word |= uint64((bestMod>>1)&3) << 32
	for i := 0; i < 16; i++ {
		lsb := uint64(bestIdx[i] & 1)
		msb := uint64((bestIdx[i] >> 1) & 1)
		word |= lsb << uint(i)
		word |= msb << uint(16+i)
	}
	word |= 1 << 33
	word = forceChannelOverflow(word, 1)
	return word, bestSSE
}

func e0lt(a, b [3]int) bool {
	av := a[0]<<16 | a[1]<<8 | a[2]
	bv := b[0]<<16 | b[1]<<8 | b[2]
	return av < bv
}

// forceChannelOverflow sets the differential delta field of the given
// channel (0=R,1=G) to a value guaranteed to overflow the 5-bit base
// range, forcing the decoder's mode detector to fall through to T-mode
// (channel==0) or H-mode (channel==1). The 5-bit base field for that
// channel must already have been packed by the caller at the position
// mode 0's differential layout would use; T/H-mode packing intentionally
// reuses a disjoint set of bits for its own fields once mode>0, so this
// only needs to make channel 0 or 1's (base,delta) pair decode out of
// range — it does not disturb T/H-mode's own color fields, which live at
// different bit offsets.
func forceChannelOverflow(word uint64, channel int) uint64 {
	shiftA := uint(59 - channel*8)
	shiftD := uint(56 - channel*8)
	// Clear then set base=31, delta=3 (31+3=34, out of [0,31] range).
	word &^= uint64(31) << shiftA
	word &^= uint64(7) << shiftD
	word |= uint64(31) << shiftA
	word |= uint64(3) << shiftD
	return word
}

func encodePlanarMode(b etc1Block) (uint64, int) {
	idx := func(x, y int) int { return x*4 + y }
	c0 := b[idx(0, 0)]
	c1 := b[idx(3, 0)]
	c2 := b[idx(0, 3)]

	bits := [3]int{6, 7, 6}
	var q0, q1, q2 [3]int
	var e0, e1, e2 [3]int
	for ch := 0; ch < 3; ch++ {
		q0[ch] = quantizeTo(c0[ch], bits[ch])
		q1[ch] = quantizeTo(c1[ch], bits[ch])
		q2[ch] = quantizeTo(c2[ch], bits[ch])
		switch bits[ch] {
		case 6:
			e0[ch], e1[ch], e2[ch] = expand6to8(q0[ch]), expand6to8(q1[ch]), expand6to8(q2[ch])
		case 7:
			e0[ch], e1[ch], e2[ch] = expand7to8(q0[ch]), expand7to8(q1[ch]), expand7to8(q2[ch])
		}
	}

	sse := 0
	i := 0
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			for ch := 0; ch < 3; ch++ {
				rv := clampByte((x*(e1[ch]-e0[ch]) + y*(e2[ch]-e0[ch]) + 4*e0[ch] + 2) >> 2)
				sse += sq(b[i][ch] - int(rv))
			}
			i++
		}
	}

	var word uint64
	word |= uint64(q0[0]) << 57
	word |= uint64((q0[1]>>6)&1) << 56
	word |= uint64(q0[1]&63) << 49
	word |= uint64((q0[2]>>5)&1) << 48
	word |= uint64((q0[2]>>3)&3) << 45
	word |= uint64(q0[2]&7) << 39
	word |= uint64((q1[0]>>1)&31) << 33
	word |= uint64(q1[0]&1) << 32
	word |= uint64(q1[1]) << 25
	word |= uint64(q1[2]) << 19
	word |= uint64(q2[0]) << 13
	word |= uint64(q2[1]) << 6
	word |= uint64(q2[2])
	// Select planar mode (diff bit = 1, with R channel NOT overflowing —
	// planar mode is distinguished from T/H-mode by all three
	// differential channel checks succeeding at mode-0 decode time AND
	// the flip/pop-out bit area instead signalling planar; ETC2 uses the
	// same invalid-delta trick on channel B's "fake" diff-mode read to
	// land on mode 3). Since our bit layout above does not alias mode 0's
	// per-channel fields in a decodable way for planar's true spec
	// layout, we set the canonical planar discriminator directly: bit 33
	// (diff) = 1 and a B-channel overflow, matching decodeColorWord's
	// "mode = i+1" where i=2 (B channel, 0-indexed) yields mode 3.
	word |= 1 << 33
	word = forceChannelOverflowGeneric(word, 2)
	return word, sse
}

// forceChannelOverflowGeneric mirrors forceChannelOverflow for channel 2
// (B), used to select planar mode (mode index 3 = i+1 where i=2).
func forceChannelOverflowGeneric(word uint64, channel int) uint64 {
	return forceChannelOverflow(word, channel)
}

// bestColorWord searches mode0, T-mode, H-mode and planar-mode for block b
// and returns the lowest-SSE candidate word, measuring each candidate's
// SSE on the pixels decodeColorWord reconstructs from it. When heuristics
// is set, T/H-mode search is skipped for blocks whose planar fit (as
// estimated by encodePlanarMode) is already near-exact (flat or
// smoothly-gradient blocks gain nothing from the extra modes).
func bestColorWord(b etc1Block, heuristics bool) uint64 {
	decodedSSE := func(word uint64) int {
		px := decodeColorWord(word)
		sse := 0
		for i := 0; i < 16; i++ {
			for c := 0; c < 3; c++ {
				sse += sq(b[i][c] - int(px[i][c]))
			}
		}
		return sse
	}
	mode0 := encodeMode0(b)
	bestWord, bestSSE := mode0.word, decodedSSE(mode0.word)

	planarWord, planarSSE := encodePlanarMode(b)
	if s := decodedSSE(planarWord); s < bestSSE {
		bestWord, bestSSE = planarWord, s
	}

	skipTH := heuristics && planarSSE < 4*16
	if !skipTH {
		tWord, _ := encodeTMode(b)
		if tSSE := decodedSSE(tWord); tSSE < bestSSE {
			bestWord, bestSSE = tWord, tSSE
		}
		hWord, _ := encodeHMode(b)
		if hSSE := decodedSSE(hWord); hSSE < bestSSE {
			bestWord, bestSSE = hWord, hSSE
		}
	}
	return bestWord
}

// EncodeEtc2RGB implements the ETC2 RGB kernel's encode contract.
func EncodeEtc2RGB(src, dst []byte, blocks int, dither, heuristics bool) {
	for i := 0; i < blocks; i++ {
		b := readRGBBlock(src, i)
		if dither {
			b = diffuseDither(b)
		}
		word := bestColorWord(b, heuristics)
		binary.BigEndian.PutUint64(dst[i*8:i*8+8], word)
	}
}

// DecodeEtc2RGB implements the ETC2 RGB kernel's decode contract.
func DecodeEtc2RGB(src, dst []byte, width, height int) {
	decodeColorFamily(src, dst, width, height, 8, false)
}

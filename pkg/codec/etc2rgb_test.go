package codec

import "testing"

func TestEtc2RGBRoundTripSolid(t *testing.T) {
	src := solidBlockSrc(10, 200, 90)
	word := make([]byte, 8)
	EncodeEtc2RGB(src, word, 1, false, false)

	dst := make([]byte, 4*4*4)
	DecodeEtc2RGB(word, dst, 4, 4)

	for i := 0; i < 16; i++ {
		o := i * 4
		if diff(dst[o], 10) > 6 || diff(dst[o+1], 200) > 6 || diff(dst[o+2], 90) > 6 {
			t.Fatalf("pixel %d: got (%d,%d,%d)", i, dst[o], dst[o+1], dst[o+2])
		}
	}
}

func TestEtc2RGBPlanarGradient(t *testing.T) {
	// A smooth two-axis gradient should be picked up well by planar mode.
	buf := make([]byte, 48)
	idx := func(x, y int) int { return x*4 + y }
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			i := idx(x, y)
			buf[i*3] = byte(x * 60)
			buf[i*3+1] = byte(y * 60)
			buf[i*3+2] = 128
		}
	}
	word := make([]byte, 8)
	EncodeEtc2RGB(buf, word, 1, false, false)
	dst := make([]byte, 4*4*4)
	DecodeEtc2RGB(word, dst, 4, 4)

	sse := 0
	i := 0
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			o := (y*4 + x) * 4
			sse += sq(int(dst[o]) - x*60)
			sse += sq(int(dst[o+1]) - y*60)
			i++
		}
	}
	if sse > 16*3*30*30 {
		t.Fatalf("planar gradient SSE too high: %d", sse)
	}
}

func TestEtc2RGBHeuristicsMatchesFullSearch(t *testing.T) {
	// On a flat block, heuristics should pick the same (near-exact) word
	// as full search since T/H-mode search is skipped but planar/mode0
	// already converge.
	src := solidBlockSrc(50, 50, 50)
	full := make([]byte, 8)
	heur := make([]byte, 8)
	EncodeEtc2RGB(src, full, 1, false, false)
	EncodeEtc2RGB(src, heur, 1, false, true)

	dstFull := make([]byte, 4*4*4)
	dstHeur := make([]byte, 4*4*4)
	DecodeEtc2RGB(full, dstFull, 4, 4)
	DecodeEtc2RGB(heur, dstHeur, 4, 4)
	for i := range dstFull {
		if diff(dstFull[i], dstHeur[i]) > 4 {
			t.Fatalf("heuristic output diverged at byte %d: %d vs %d", i, dstFull[i], dstHeur[i])
		}
	}
}

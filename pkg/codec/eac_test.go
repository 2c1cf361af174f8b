package codec

import "testing"

func solidAlphaSrc(v byte) []byte {
	buf := make([]byte, 16)
	for i := range buf {
		buf[i] = v
	}
	return buf
}

func TestEtc2R11RoundTrip(t *testing.T) {
	src := solidAlphaSrc(180)
	dst := make([]byte, 8)
	EncodeEtc2R11(src, dst, 1)

	out := make([]byte, 4*4*4)
	DecodeEtc2R11(dst, out, 4, 4)

	for i := 0; i < 16; i++ {
		o := i * 4
		if diff(out[o], 180) > 6 {
			t.Fatalf("pixel %d: got %d, want approx 180", i, out[o])
		}
		if out[o] != out[o+1] || out[o+1] != out[o+2] {
			t.Fatalf("pixel %d: channels not mirrored: (%d,%d,%d)", i, out[o], out[o+1], out[o+2])
		}
	}
}

func TestEtc2RG11RoundTrip(t *testing.T) {
	rSrc := solidAlphaSrc(50)
	gSrc := solidAlphaSrc(220)
	dst := make([]byte, 16)
	EncodeEtc2RG11(rSrc, gSrc, dst, 1)

	out := make([]byte, 4*4*4)
	DecodeEtc2RG11(dst, out, 4, 4)

	for i := 0; i < 16; i++ {
		o := i * 4
		if diff(out[o], 50) > 6 {
			t.Fatalf("pixel %d R: got %d", i, out[o])
		}
		if diff(out[o+1], 220) > 6 {
			t.Fatalf("pixel %d G: got %d", i, out[o+1])
		}
	}
}

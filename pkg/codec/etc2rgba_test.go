package codec

import "testing"

func TestEtc2RGBARoundTrip(t *testing.T) {
	rgbSrc := solidBlockSrc(30, 60, 90)
	// EncodeEtc2RGBA's alphaSrc is block-scan coverage-inverted input (the
	// form blocklayout.ToBlockScan produces); DecodeEtc2RGBA un-inverts it
	// back to real alpha, so a desired decoded alpha of 200 is fed in as
	// 255-200.
	const wantAlpha = 200
	alphaSrc := make([]byte, 16)
	for i := range alphaSrc {
		alphaSrc[i] = 255 - wantAlpha
	}

	dst := make([]byte, 16)
	EncodeEtc2RGBA(rgbSrc, alphaSrc, dst, 1, false, false)

	out := make([]byte, 4*4*4)
	DecodeEtc2RGBA(dst, out, 4, 4)

	for i := 0; i < 16; i++ {
		o := i * 4
		if diff(out[o], 30) > 6 || diff(out[o+1], 60) > 6 || diff(out[o+2], 90) > 6 {
			t.Fatalf("pixel %d color mismatch: got (%d,%d,%d)", i, out[o], out[o+1], out[o+2])
		}
		if diff(out[o+3], wantAlpha) > 10 {
			t.Fatalf("pixel %d alpha mismatch: got %d", i, out[o+3])
		}
	}
}

func TestEtc2RGBAAlphaWordOrder(t *testing.T) {
	// Per the container word layout, the alpha word must precede the
	// color word in the 16-byte block.
	rgbSrc := solidBlockSrc(1, 2, 3)
	alphaSrc := make([]byte, 16)
	dst := make([]byte, 16)
	EncodeEtc2RGBA(rgbSrc, alphaSrc, dst, 1, false, false)

	alphaWord := decodeAlphaWord(beUint64(dst[0:8]))
	for _, v := range alphaWord {
		if v != 0 {
			t.Fatalf("expected zero alpha, got %d", v)
		}
	}
}

func beUint64(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

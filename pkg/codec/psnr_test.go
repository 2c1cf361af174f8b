package codec

import (
	"math"
	"testing"

	"github.com/echovr-tools/texelpack/internal/testimage"
	"github.com/echovr-tools/texelpack/pkg/blocklayout"
	"github.com/echovr-tools/texelpack/pkg/pixel"
)

// psnr returns the peak signal-to-noise ratio in dB between two equal-length
// RGBA pixel buffers, comparing RGB channels only (spec.md §8's corpus law
// is stated in terms of RGB reconstruction quality).
func psnr(a, b []byte, width, height int) float64 {
	var sum float64
	n := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			o := (y*width + x) * 4
			for c := 0; c < 3; c++ {
				d := float64(a[o+c]) - float64(b[o+c])
				sum += d * d
				n++
			}
		}
	}
	mse := sum / float64(n)
	if mse == 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(255*255/mse)
}

func TestEtc1PSNROnTestCorpus(t *testing.T) {
	images := []struct {
		name string
		buf  *pixel.Buffer
	}{
		{"HorizontalRamp", testimage.HorizontalRamp(64, 64)},
		{"Checkerboard", testimage.Checkerboard(64, 64, 8, [4]byte{20, 30, 40, 255}, [4]byte{220, 210, 200, 255})},
	}
	var total float64
	for _, img := range images {
		w, h := img.buf.Size()
		src, err := blocklayout.ToBlockScan(img.buf, pixel.RGB)
		if err != nil {
			t.Fatalf("%s: ToBlockScan: %v", img.name, err)
		}
		blocks := blocklayout.BlockCount(w, h)
		dst := make([]byte, blocks*8)
		EncodeEtc1(src, dst, blocks, false)
		out := make([]byte, w*h*4)
		DecodeEtc1(dst, out, w, h)

		orig := make([]byte, w*h*4)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, b, a := img.buf.At(x, y)
				o := (y*w + x) * 4
				orig[o], orig[o+1], orig[o+2], orig[o+3] = r, g, b, a
			}
		}
		db := psnr(orig, out, w, h)
		t.Logf("%s: %.1f dB", img.name, db)
		total += db
	}
	mean := total / float64(len(images))
	if mean < 34 {
		t.Fatalf("Etc1 mean PSNR %.1f dB, want >= 34 dB (spec.md §8)", mean)
	}
}

func TestDxt1PSNROnTestCorpus(t *testing.T) {
	buf := testimage.HorizontalRamp(64, 64)
	w, h := buf.Size()
	src, err := blocklayout.ToBlockScan(buf, pixel.RGB)
	if err != nil {
		t.Fatalf("ToBlockScan: %v", err)
	}
	blocks := blocklayout.BlockCount(w, h)
	dst := make([]byte, blocks*8)
	EncodeDxt1(src, dst, blocks, false)
	out := make([]byte, w*h*4)
	DecodeDxt1(dst, out, w, h)

	orig := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := buf.At(x, y)
			o := (y*w + x) * 4
			orig[o], orig[o+1], orig[o+2], orig[o+3] = r, g, b, a
		}
	}
	db := psnr(orig, out, w, h)
	if db < 33 {
		t.Fatalf("Dxt1 PSNR %.1f dB, want >= 33 dB (spec.md §8)", db)
	}
}

func TestEtc2RGBPSNROnTestCorpus(t *testing.T) {
	buf := testimage.Checkerboard(64, 64, 16, [4]byte{10, 10, 10, 255}, [4]byte{245, 245, 245, 255})
	w, h := buf.Size()
	src, err := blocklayout.ToBlockScan(buf, pixel.RGB)
	if err != nil {
		t.Fatalf("ToBlockScan: %v", err)
	}
	blocks := blocklayout.BlockCount(w, h)
	dst := make([]byte, blocks*8)
	EncodeEtc2RGB(src, dst, blocks, false, false)
	out := make([]byte, w*h*4)
	DecodeEtc2RGB(dst, out, w, h)

	orig := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := buf.At(x, y)
			o := (y*w + x) * 4
			orig[o], orig[o+1], orig[o+2], orig[o+3] = r, g, b, a
		}
	}
	db := psnr(orig, out, w, h)
	if db < 36 {
		t.Fatalf("Etc2_RGB PSNR %.1f dB, want >= 36 dB (spec.md §8)", db)
	}
}

func TestPseudoRandomRGBARoundTripsThroughEtc2RGBA(t *testing.T) {
	// Exercises scenario 5 of spec.md §8: an 8x8 random RGBA image through
	// Etc2_RGBA, checking RGB PSNR and the alpha-inversion round trip.
	buf := testimage.PseudoRandomRGBA(8, 8, 12345)
	w, h := buf.Size()
	rgbSrc, err := blocklayout.ToBlockScan(buf, pixel.RGB)
	if err != nil {
		t.Fatalf("ToBlockScan RGB: %v", err)
	}
	alphaSrc, err := blocklayout.ToBlockScan(buf, pixel.Alpha)
	if err != nil {
		t.Fatalf("ToBlockScan Alpha: %v", err)
	}
	blocks := blocklayout.BlockCount(w, h)
	dst := make([]byte, blocks*16)
	EncodeEtc2RGBA(rgbSrc, alphaSrc, dst, blocks, false, false)
	out := make([]byte, w*h*4)
	DecodeEtc2RGBA(dst, out, w, h)

	orig := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := buf.At(x, y)
			o := (y*w + x) * 4
			orig[o], orig[o+1], orig[o+2], orig[o+3] = r, g, b, a
		}
	}
	db := psnr(orig, out, w, h)
	if db < 30 {
		t.Fatalf("Etc2_RGBA RGB PSNR %.1f dB, want >= 30 dB (spec.md §8 scenario 5)", db)
	}
	for i := 0; i < w*h; i++ {
		wantA := int(orig[i*4+3])
		gotA := int(out[i*4+3])
		if d := wantA - gotA; d > 40 || d < -40 {
			t.Fatalf("pixel %d alpha %d reconstructed as %d, error exceeds format-bounded tolerance", i, wantA, gotA)
		}
	}
}

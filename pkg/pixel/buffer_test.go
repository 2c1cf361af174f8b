package pixel

import "testing"

func TestNewFromRGBASizeMismatch(t *testing.T) {
	_, err := NewFromRGBA(4, 4, make([]byte, 10))
	if err == nil {
		t.Fatal("expected error for mismatched buffer size")
	}
}

func TestSetAt(t *testing.T) {
	buf := New(4, 4)
	buf.Set(2, 1, 10, 20, 30, 40)
	r, g, b, a := buf.At(2, 1)
	if r != 10 || g != 20 || b != 30 || a != 40 {
		t.Fatalf("got (%d,%d,%d,%d), want (10,20,30,40)", r, g, b, a)
	}
}

func TestDivisibleBy4(t *testing.T) {
	if !New(8, 4).DivisibleBy4() {
		t.Error("8x4 should be divisible by 4")
	}
	if New(5, 4).DivisibleBy4() {
		t.Error("5x4 should not be divisible by 4")
	}
}

func TestBox2x2Solid(t *testing.T) {
	buf := New(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			buf.Set(x, y, 100, 150, 200, 255)
		}
	}
	down := buf.Box2x2()
	w, h := down.Size()
	if w != 2 || h != 2 {
		t.Fatalf("got %dx%d, want 2x2", w, h)
	}
	r, g, b, a := down.At(0, 0)
	if r != 100 || g != 150 || b != 200 || a != 255 {
		t.Fatalf("downsample of a solid block should be identical, got (%d,%d,%d,%d)", r, g, b, a)
	}
}

func TestBox2x2OddSize(t *testing.T) {
	buf := New(1, 1)
	buf.Set(0, 0, 5, 5, 5, 5)
	down := buf.Box2x2()
	w, h := down.Size()
	if w != 1 || h != 1 {
		t.Fatalf("got %dx%d, want 1x1 (floor, min 1)", w, h)
	}
}

func TestChannelBytesPerPixel(t *testing.T) {
	if RGB.BytesPerPixel() != 3 {
		t.Errorf("RGB.BytesPerPixel() = %d, want 3", RGB.BytesPerPixel())
	}
	if Alpha.BytesPerPixel() != 1 {
		t.Errorf("Alpha.BytesPerPixel() = %d, want 1", Alpha.BytesPerPixel())
	}
}

package dispatch

import (
	"testing"

	"github.com/echovr-tools/texelpack/pkg/codec"
	"github.com/echovr-tools/texelpack/pkg/payload"
)

func solidSrc(blocks int, r, g, b byte) []byte {
	out := make([]byte, blocks*48)
	for i := 0; i < blocks*16; i++ {
		out[i*3], out[i*3+1], out[i*3+2] = r, g, b
	}
	return out
}

func TestEncodeSplitPlaneWritesAllShards(t *testing.T) {
	const blocks = 20
	src := solidSrc(blocks, 40, 80, 120)
	data := make([]byte, blocks*8)
	p := payload.New(data, 0, codec.Etc1, 20*4, 4, 1)

	if err := EncodeSplitPlane(p, src, blocks, 0, 80, codec.RGB, false, false, 4); err != nil {
		t.Fatalf("EncodeSplitPlane: %v", err)
	}

	for i := 0; i < len(data); i += 8 {
		allZero := true
		for _, b := range data[i : i+8] {
			if b != 0 {
				allZero = false
			}
		}
		if allZero {
			t.Fatalf("block at byte %d was never written", i)
		}
	}
}

func TestEncodeSplitPlaneDisjointShards(t *testing.T) {
	const blocks = 8
	src := make([]byte, blocks*48)
	for b := 0; b < blocks; b++ {
		v := byte(b * 16)
		for i := 0; i < 16; i++ {
			o := (b*16 + i) * 3
			src[o], src[o+1], src[o+2] = v, v, v
		}
	}
	data := make([]byte, blocks*8)
	p := payload.New(data, 0, codec.Etc1, blocks*4, 4, 1)

	if err := EncodeSplitPlane(p, src, blocks, 0, blocks*4, codec.RGB, false, false, 2); err != nil {
		t.Fatalf("EncodeSplitPlane: %v", err)
	}

	var direct []byte = make([]byte, blocks*8)
	codec.EncodeEtc1(src, direct, blocks, false)
	for i := range direct {
		if data[i] != direct[i] {
			t.Fatalf("byte %d: sharded=%#x direct=%#x", i, data[i], direct[i])
		}
	}
}

func TestEncodeSplitPlaneBaseOffsetShiftsWrites(t *testing.T) {
	const blocks = 4
	src := solidSrc(blocks, 1, 2, 3)
	data := make([]byte, (blocks+2)*8)
	p := payload.New(data, 0, codec.Etc1, blocks*4, 4, 1)

	if err := EncodeSplitPlane(p, src, blocks, 2, blocks*4, codec.RGB, false, false, 2); err != nil {
		t.Fatalf("EncodeSplitPlane: %v", err)
	}

	for _, b := range data[:16] {
		if b != 0 {
			t.Fatal("bytes before baseOffset should be untouched")
		}
	}
}

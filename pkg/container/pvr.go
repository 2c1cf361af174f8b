package container

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/echovr-tools/texelpack/pkg/blocklayout"
	"github.com/echovr-tools/texelpack/pkg/codec"
	"github.com/echovr-tools/texelpack/pkg/payload"
)

// PVR v3 magic and fixed 13-word (52-byte) header layout (spec.md §4.4).
const (
	pvrMagic      = 0x03525650
	pvrHeaderSize = 52
)

var pvrFormatCodes = map[uint32]codec.Format{
	6:  codec.Etc1,
	7:  codec.Dxt1,
	11: codec.Dxt5,
	12: codec.Bc4,
	13: codec.Bc5,
	22: codec.Etc2RGB,
	23: codec.Etc2RGBA,
	25: codec.Etc2R11,
	26: codec.Etc2RG11,
}

var pvrFormatCodesReverse = invert(pvrFormatCodes)

func invert(m map[uint32]codec.Format) map[codec.Format]uint32 {
	out := make(map[codec.Format]uint32, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// ErrUnrecognizedContainer and friends name spec.md §7's fatal-at-open
// error kinds.
var (
	ErrUnrecognizedContainer = errors.New("container: magic word matches neither PVR v3 nor KTX")
	ErrUnsupportedFormat     = errors.New("container: format code not in the supported set")
	ErrGeometry              = errors.New("container: width or height not a multiple of 4")
)

// OpenPVR reads a PVR v3 file's header, memory-maps it read-only, and
// returns a Payload over its compressed data plus the Storage owning the
// mapping (the caller closes it when done).
func OpenPVR(path string) (*payload.Payload, *Storage, error) {
	st, err := OpenReadOnly(path)
	if err != nil {
		return nil, nil, err
	}
	data := st.Bytes()
	if len(data) < pvrHeaderSize {
		st.Close()
		return nil, nil, fmt.Errorf("container: %s too small for a PVR header", path)
	}
	if binary.LittleEndian.Uint32(data[0:4]) != pvrMagic {
		st.Close()
		return nil, nil, ErrUnrecognizedContainer
	}

	formatCode := binary.LittleEndian.Uint32(data[8:12])
	format, ok := pvrFormatCodes[formatCode]
	if !ok {
		st.Close()
		return nil, nil, fmt.Errorf("%w: pvr format code %d", ErrUnsupportedFormat, formatCode)
	}

	height := binary.LittleEndian.Uint32(data[24:28])
	width := binary.LittleEndian.Uint32(data[28:32])
	mipmapCount := binary.LittleEndian.Uint32(data[44:48])
	metadataSize := binary.LittleEndian.Uint32(data[48:52])

	headerSize := pvrHeaderSize + int(metadataSize)
	levels := int(mipmapCount)
	if levels < 1 {
		levels = 1
	}
	p := payload.New(data, headerSize, format, int(width), int(height), levels)
	return p, st, nil
}

// CreatePVR materializes a PVR v3 header for a fresh write-open payload:
// zeroed flags, the format's PVR code, the given (width,height), depth=1,
// surfs=1, faces=1, the requested mipmap count, metadata-size=0. The file
// is extended to the full payload length and memory-mapped writable.
func CreatePVR(path string, format codec.Format, width, height int, mipmaps bool) (*payload.Payload, *Storage, error) {
	if width%4 != 0 || height%4 != 0 {
		return nil, nil, ErrGeometry
	}
	code, ok := pvrFormatCodesReverse[format]
	if !ok {
		return nil, nil, fmt.Errorf("%w: format %s has no PVR code", ErrUnsupportedFormat, format)
	}

	levels := 1
	if mipmaps {
		levels = blocklayout.MipLevelCount(width, height)
	}
	wordSize := format.Descriptor().WordSize
	payloadSize := blocklayout.PayloadSize(width, height, wordSize, levels)
	total := pvrHeaderSize + payloadSize

	st, err := CreateWritable(path, total)
	if err != nil {
		return nil, nil, err
	}
	data := st.Bytes()

	binary.LittleEndian.PutUint32(data[0:4], pvrMagic)
	binary.LittleEndian.PutUint32(data[4:8], 0) // flags
	binary.LittleEndian.PutUint32(data[8:12], code)
	binary.LittleEndian.PutUint32(data[12:16], 0) // color space
	binary.LittleEndian.PutUint32(data[16:20], 0) // channel type
	binary.LittleEndian.PutUint32(data[24:28], uint32(height))
	binary.LittleEndian.PutUint32(data[28:32], uint32(width))
	binary.LittleEndian.PutUint32(data[32:36], 1) // depth
	binary.LittleEndian.PutUint32(data[36:40], 1) // num surfaces
	binary.LittleEndian.PutUint32(data[40:44], 1) // num faces
	binary.LittleEndian.PutUint32(data[44:48], uint32(levels))
	binary.LittleEndian.PutUint32(data[48:52], 0) // metadata size

	p := payload.New(data, pvrHeaderSize, format, width, height, levels)
	return p, st, nil
}

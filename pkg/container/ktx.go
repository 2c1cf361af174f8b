package container

import (
	"encoding/binary"
	"fmt"

	"github.com/echovr-tools/texelpack/pkg/blocklayout"
	"github.com/echovr-tools/texelpack/pkg/codec"
	"github.com/echovr-tools/texelpack/pkg/payload"
)

// KTX's 12-byte file identifier; its first four bytes (0xAB, 'K', 'T', 'X')
// are the 0xAB4B5458 magic spec.md §4.4 refers to, and the remaining eight
// bytes plus the endianness word at byte 12 complete the prefix.
var ktxIdentifier = [12]byte{0xAB, 0x4B, 0x54, 0x58, 0x20, 0x31, 0x31, 0xBB, 0x0D, 0x0A, 0x1A, 0x0A}

// ktxHeaderSize is the payload start offset spec.md §4.4 names directly
// ("byte 68 + key-value-data-size"). Individual header fields are still
// addressed as word_index*4 from byte 0 (the same convention pvr.go uses),
// not word_index*4 plus the 12-byte identifier — the identifier's own
// bytes occupy words 0-2 of that word numbering.
const ktxHeaderSize = 68

var ktxFormatCodes = map[uint32]codec.Format{
	0x9274: codec.Etc2RGB,
	0x9278: codec.Etc2RGBA,
	0x9270: codec.Etc2R11,
	0x9272: codec.Etc2RG11,
}

var ktxFormatCodesReverse = invert(ktxFormatCodes)

// OpenKTX reads a KTX file's header, memory-maps it read-only, and returns
// a Payload over its compressed data. Only the ETC2/EAC GL-format subset
// is recognized on read (spec.md §9's documented read-path asymmetry).
func OpenKTX(path string) (*payload.Payload, *Storage, error) {
	st, err := OpenReadOnly(path)
	if err != nil {
		return nil, nil, err
	}
	data := st.Bytes()
	if len(data) < ktxHeaderSize {
		st.Close()
		return nil, nil, fmt.Errorf("container: %s too small for a KTX header", path)
	}
	for i, b := range ktxIdentifier {
		if data[i] != b {
			st.Close()
			return nil, nil, ErrUnrecognizedContainer
		}
	}

	formatCode := binary.LittleEndian.Uint32(data[28:32])
	format, ok := ktxFormatCodes[formatCode]
	if !ok {
		st.Close()
		return nil, nil, fmt.Errorf("%w: ktx internal format 0x%x", ErrUnsupportedFormat, formatCode)
	}

	width := binary.LittleEndian.Uint32(data[36:40])
	height := binary.LittleEndian.Uint32(data[40:44])
	keyValueDataSize := binary.LittleEndian.Uint32(data[60:64])

	headerSize := ktxHeaderSize + int(keyValueDataSize)
	p := payload.New(data, headerSize, format, int(width), int(height), 1)
	return p, st, nil
}

// CreateKTX writes a KTX container for an ETC2/EAC-family format. DXT
// formats are PVR-only on write as well as read (spec.md §9).
func CreateKTX(path string, format codec.Format, width, height int, mipmaps bool) (*payload.Payload, *Storage, error) {
	if width%4 != 0 || height%4 != 0 {
		return nil, nil, ErrGeometry
	}
	code, ok := ktxFormatCodesReverse[format]
	if !ok {
		return nil, nil, fmt.Errorf("%w: format %s has no KTX code", ErrUnsupportedFormat, format)
	}

	levels := 1
	if mipmaps {
		levels = blocklayout.MipLevelCount(width, height)
	}
	wordSize := format.Descriptor().WordSize
	payloadSize := blocklayout.PayloadSize(width, height, wordSize, levels)
	total := ktxHeaderSize + payloadSize

	st, err := CreateWritable(path, total)
	if err != nil {
		return nil, nil, err
	}
	data := st.Bytes()

	copy(data[0:12], ktxIdentifier[:])
	binary.LittleEndian.PutUint32(data[12:16], 0x04030201) // endianness
	binary.LittleEndian.PutUint32(data[24:28], code)       // glFormat
	binary.LittleEndian.PutUint32(data[28:32], code)       // glInternalFormat
	binary.LittleEndian.PutUint32(data[32:36], code)       // glBaseInternalFormat
	binary.LittleEndian.PutUint32(data[36:40], uint32(width))
	binary.LittleEndian.PutUint32(data[40:44], uint32(height))
	binary.LittleEndian.PutUint32(data[44:48], 1) // pixel depth
	binary.LittleEndian.PutUint32(data[48:52], 0) // array elements
	binary.LittleEndian.PutUint32(data[52:56], 1) // faces
	binary.LittleEndian.PutUint32(data[56:60], uint32(levels))
	binary.LittleEndian.PutUint32(data[60:64], 0) // key-value data size

	p := payload.New(data, ktxHeaderSize, format, width, height, levels)
	return p, st, nil
}

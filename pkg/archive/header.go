// Package archive bundles a set of encoded texture containers into one
// zstd-compressed file for distribution, adapted from the teacher's
// single-blob zstd archive format into a multi-entry bundle: the header
// additionally carries an entry count and a per-entry (name, offset,
// length) table describing the concatenated, then zstd-compressed,
// contents.
package archive

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Magic bytes identifying a texelpack bundle.
var Magic = [4]byte{'T', 'P', 'K', 'Z'}

// Entry describes one bundled file's span within the bundle's
// decompressed byte stream.
type Entry struct {
	Name   string
	Offset uint64
	Length uint64
}

// Header represents the header of a bundle file: a fixed preamble
// (Magic, HeaderLength) followed by HeaderLength bytes of
// (Length, CompressedLength, EntryCount, Entries...).
type Header struct {
	Magic            [4]byte
	HeaderLength     uint32
	Length           uint64 // uncompressed size of the concatenated entries
	CompressedLength uint64
	Entries          []Entry
}

// PreambleSize is the fixed-size portion of the header read before the
// variable-length remainder can be sized.
const PreambleSize = 8 // Magic (4) + HeaderLength (4)

// Validate checks the header for internal consistency.
func (h *Header) Validate() error {
	if h.Magic != Magic {
		return fmt.Errorf("invalid magic: expected %x, got %x", Magic, h.Magic)
	}
	if h.Length == 0 {
		return fmt.Errorf("uncompressed size is zero")
	}
	if h.CompressedLength == 0 {
		return fmt.Errorf("compressed size is zero")
	}
	if len(h.Entries) == 0 {
		return fmt.Errorf("bundle has no entries")
	}
	return nil
}

// marshalRemainder encodes everything after the fixed preamble.
func (h *Header) marshalRemainder() []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, h.Length)
	binary.Write(buf, binary.LittleEndian, h.CompressedLength)
	binary.Write(buf, binary.LittleEndian, uint32(len(h.Entries)))
	for _, e := range h.Entries {
		name := []byte(e.Name)
		binary.Write(buf, binary.LittleEndian, uint32(len(name)))
		buf.Write(name)
		binary.Write(buf, binary.LittleEndian, e.Offset)
		binary.Write(buf, binary.LittleEndian, e.Length)
	}
	return buf.Bytes()
}

// MarshalBinary encodes the full header (preamble + remainder).
func (h *Header) MarshalBinary() ([]byte, error) {
	remainder := h.marshalRemainder()
	h.HeaderLength = uint32(len(remainder))

	buf := new(bytes.Buffer)
	buf.Write(h.Magic[:])
	binary.Write(buf, binary.LittleEndian, h.HeaderLength)
	buf.Write(remainder)
	return buf.Bytes(), nil
}

// UnmarshalPreamble decodes the fixed 8-byte preamble, returning the
// number of remainder bytes still to be read.
func (h *Header) UnmarshalPreamble(data []byte) (remainderLen int, err error) {
	if len(data) < PreambleSize {
		return 0, fmt.Errorf("unmarshal preamble: need %d bytes, got %d", PreambleSize, len(data))
	}
	copy(h.Magic[:], data[0:4])
	h.HeaderLength = binary.LittleEndian.Uint32(data[4:8])
	return int(h.HeaderLength), nil
}

// UnmarshalRemainder decodes the variable-length remainder following the
// preamble and validates the result.
func (h *Header) UnmarshalRemainder(data []byte) error {
	r := bytes.NewReader(data)
	if err := binary.Read(r, binary.LittleEndian, &h.Length); err != nil {
		return fmt.Errorf("unmarshal header: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &h.CompressedLength); err != nil {
		return fmt.Errorf("unmarshal header: %w", err)
	}
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("unmarshal header: %w", err)
	}
	h.Entries = make([]Entry, count)
	for i := range h.Entries {
		var nameLen uint32
		if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
			return fmt.Errorf("unmarshal entry %d: %w", i, err)
		}
		name := make([]byte, nameLen)
		if _, err := r.Read(name); err != nil {
			return fmt.Errorf("unmarshal entry %d name: %w", i, err)
		}
		var offset, length uint64
		if err := binary.Read(r, binary.LittleEndian, &offset); err != nil {
			return fmt.Errorf("unmarshal entry %d: %w", i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			return fmt.Errorf("unmarshal entry %d: %w", i, err)
		}
		h.Entries[i] = Entry{Name: string(name), Offset: offset, Length: length}
	}
	return h.Validate()
}

// NewHeader builds a header describing entries concatenated in the given
// order, computing each entry's Offset from the preceding entries' Length.
func NewHeader(files []Entry, compressedSize uint64) *Header {
	var total uint64
	entries := make([]Entry, len(files))
	for i, f := range files {
		entries[i] = Entry{Name: f.Name, Offset: total, Length: f.Length}
		total += f.Length
	}
	return &Header{
		Magic:            Magic,
		Length:           total,
		CompressedLength: compressedSize,
		Entries:          entries,
	}
}

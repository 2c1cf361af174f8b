package archive

import (
	"fmt"
	"io"

	"github.com/DataDog/zstd"
)

// Reader wraps an io.ReadSeeker to provide decompression of bundle data.
type Reader struct {
	header  *Header
	zReader io.ReadCloser
}

// NewReader creates a new bundle reader from the given source. It reads
// and validates the header, then returns a reader for the decompressed
// content that follows.
func NewReader(r io.ReadSeeker) (*Reader, error) {
	reader := &Reader{header: &Header{}}

	preamble := make([]byte, PreambleSize)
	if _, err := io.ReadFull(r, preamble); err != nil {
		return nil, fmt.Errorf("read header preamble: %w", err)
	}
	remainderLen, err := reader.header.UnmarshalPreamble(preamble)
	if err != nil {
		return nil, fmt.Errorf("parse header preamble: %w", err)
	}

	remainder := make([]byte, remainderLen)
	if _, err := io.ReadFull(r, remainder); err != nil {
		return nil, fmt.Errorf("read header body: %w", err)
	}
	if err := reader.header.UnmarshalRemainder(remainder); err != nil {
		return nil, fmt.Errorf("parse header body: %w", err)
	}

	reader.zReader = zstd.NewReader(r)
	return reader, nil
}

// Header returns the bundle header.
func (r *Reader) Header() *Header {
	return r.header
}

// Read reads decompressed data into p.
func (r *Reader) Read(p []byte) (n int, err error) {
	return r.zReader.Read(p)
}

// Close closes the reader.
func (r *Reader) Close() error {
	return r.zReader.Close()
}

// Length returns the uncompressed data length.
func (r *Reader) Length() int {
	return int(r.header.Length)
}

// CompressedLength returns the compressed data length.
func (r *Reader) CompressedLength() int {
	return int(r.header.CompressedLength)
}

// ReadAll reads the entire decompressed content from a bundle.
func ReadAll(r io.ReadSeeker) ([]byte, error) {
	reader, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data := make([]byte, reader.Length())
	n, err := io.ReadFull(reader, data)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	if n != reader.Length() {
		return nil, fmt.Errorf("incomplete read: expected %d, got %d", reader.Length(), n)
	}

	return data, nil
}

// ReadBundle decodes a bundle into its named entries.
func ReadBundle(r io.ReadSeeker) (map[string][]byte, error) {
	reader, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	blob := make([]byte, reader.Length())
	if _, err := io.ReadFull(reader, blob); err != nil {
		return nil, fmt.Errorf("read bundle content: %w", err)
	}

	out := make(map[string][]byte, len(reader.header.Entries))
	for _, e := range reader.header.Entries {
		if e.Offset+e.Length > uint64(len(blob)) {
			return nil, fmt.Errorf("entry %q out of range: offset %d length %d blob %d", e.Name, e.Offset, e.Length, len(blob))
		}
		out[e.Name] = blob[e.Offset : e.Offset+e.Length]
	}
	return out, nil
}

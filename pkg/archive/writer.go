package archive

import (
	"fmt"
	"io"

	"github.com/DataDog/zstd"
)

// DefaultCompressionLevel is the default compression level for encoding.
const DefaultCompressionLevel = zstd.BestSpeed

// Writer wraps an io.WriteSeeker to provide compression of bundle data.
// Entries must be known up front so the header's encoded length is fixed
// between the placeholder write and the final rewrite in Close.
type Writer struct {
	dst     io.WriteSeeker
	zWriter *zstd.Writer
	header  *Header
	level   int
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithCompressionLevel sets the compression level for the writer.
func WithCompressionLevel(level int) WriterOption {
	return func(w *Writer) {
		w.level = level
	}
}

// NewWriter creates a new bundle writer that writes to dst. header
// describes each file that will be written, in the order Write calls
// will supply their bytes; the Offset/Length of header's Entries are
// taken verbatim, so callers should build it with NewHeader.
func NewWriter(dst io.WriteSeeker, header *Header, opts ...WriterOption) (*Writer, error) {
	w := &Writer{
		dst:    dst,
		level:  DefaultCompressionLevel,
		header: header,
	}

	for _, opt := range opts {
		opt(w)
	}

	headerBytes, err := w.header.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal header: %w", err)
	}
	if _, err := dst.Write(headerBytes); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	w.zWriter = zstd.NewWriterLevel(dst, w.level)
	return w, nil
}

// Write writes compressed data; callers should write each entry's bytes
// in the order described by the header's Entries.
func (w *Writer) Write(p []byte) (n int, err error) {
	return w.zWriter.Write(p)
}

// Close finalizes the bundle by updating the header with the compressed size.
func (w *Writer) Close() error {
	if err := w.zWriter.Close(); err != nil {
		return fmt.Errorf("close compressor: %w", err)
	}

	pos, err := w.dst.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("get position: %w", err)
	}

	headerSize := int64(PreambleSize) + int64(w.header.HeaderLength)
	w.header.CompressedLength = uint64(pos) - uint64(headerSize)

	if _, err := w.dst.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek to start: %w", err)
	}

	headerBytes, err := w.header.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal header: %w", err)
	}
	if int64(len(headerBytes)) != headerSize {
		return fmt.Errorf("header size changed between writes: %d != %d", len(headerBytes), headerSize)
	}

	if _, err := w.dst.Write(headerBytes); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	if _, err := w.dst.Seek(pos, io.SeekStart); err != nil {
		return fmt.Errorf("seek to end: %w", err)
	}

	return nil
}

// WriteBundle packs files (in order) into dst as a single zstd-compressed
// bundle, grounded on the teacher's Encode convenience function.
func WriteBundle(dst io.WriteSeeker, names []string, files [][]byte, opts ...WriterOption) error {
	if len(names) != len(files) {
		return fmt.Errorf("names/files length mismatch: %d != %d", len(names), len(files))
	}
	entries := make([]Entry, len(names))
	for i, name := range names {
		entries[i] = Entry{Name: name, Length: uint64(len(files[i]))}
	}
	header := NewHeader(entries, 0)

	w, err := NewWriter(dst, header, opts...)
	if err != nil {
		return err
	}
	for i, data := range files {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("write entry %q: %w", names[i], err)
		}
	}
	return w.Close()
}

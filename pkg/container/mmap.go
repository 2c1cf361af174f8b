// Package container reads and writes the PVR v3 and KTX texture container
// formats and owns the memory-mapped (or heap) backing storage a Payload
// views, mirroring the tagged-variant resource design notes of spec.md §9.
package container

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// Storage owns exactly one of {writable mapping+file, read-only
// mapping+file, heap buffer} for its lifetime, per spec.md §3's payload
// lifecycle and §9's "manual resource discipline" design note.
type Storage struct {
	file   *os.File
	region mmap.MMap
	heap   []byte
}

// OpenReadOnly memory-maps the whole file at path for reading.
func OpenReadOnly(path string) (*Storage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("container: open %s: %w", path, err)
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("container: mmap %s: %w", path, err)
	}
	return &Storage{file: f, region: m}, nil
}

// CreateWritable extends (or creates) the file at path to exactly size
// bytes by writing a single zero byte at size-1, then memory-maps it
// writable so kernels emit directly into the page cache.
func CreateWritable(path string, size int) (*Storage, error) {
	if size <= 0 {
		return nil, fmt.Errorf("container: invalid size %d for %s", size, path)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("container: create %s: %w", path, err)
	}
	if _, err := f.WriteAt([]byte{0}, int64(size-1)); err != nil {
		f.Close()
		return nil, fmt.Errorf("container: extend %s to %d bytes: %w", path, size, err)
	}
	m, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("container: mmap %s writable: %w", path, err)
	}
	return &Storage{file: f, region: m}, nil
}

// NewHeap allocates an in-memory payload (no backing file) of size bytes.
func NewHeap(size int) *Storage {
	return &Storage{heap: make([]byte, size)}
}

// Bytes returns the storage's backing byte slice, whichever variant it is.
func (s *Storage) Bytes() []byte {
	if s.heap != nil {
		return s.heap
	}
	return s.region
}

// Close unmaps and closes the file (mapped variants) or is a no-op (heap).
func (s *Storage) Close() error {
	if s.heap != nil {
		return nil
	}
	if err := s.region.Unmap(); err != nil {
		s.file.Close()
		return fmt.Errorf("container: unmap: %w", err)
	}
	return s.file.Close()
}

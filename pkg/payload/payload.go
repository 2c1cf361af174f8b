// Package payload owns the compressed byte region of a texture and routes
// block ranges to the codec kernel selected by (format, channel, dither),
// mirroring the Process/ProcessRGBA/Decode entry points of BlockData.cpp.
package payload

import (
	"fmt"

	"github.com/echovr-tools/texelpack/pkg/blocklayout"
	"github.com/echovr-tools/texelpack/pkg/codec"
	"github.com/echovr-tools/texelpack/pkg/pixel"
)

// Payload is a view over a container's backing storage (a writable mmap,
// a read-only mmap, or a plain heap buffer — pkg/container owns which):
// Data holds the full region starting at the container header; HeaderSize
// bytes precede the compressed payload itself.
type Payload struct {
	Data       []byte
	HeaderSize int
	Format     codec.Format
	Width      int
	Height     int
	Levels     int
}

// New wraps data as a Payload for the given logical geometry. It does not
// validate that len(data) matches the expected payload size — callers that
// allocate the backing storage (pkg/container) are responsible for sizing
// it via blocklayout.PayloadSize.
func New(data []byte, headerSize int, format codec.Format, width, height, levels int) *Payload {
	return &Payload{Data: data, HeaderSize: headerSize, Format: format, Width: width, Height: height, Levels: levels}
}

func (p *Payload) dst(offset int) []byte {
	wordSize := p.Format.Descriptor().WordSize
	start := p.HeaderSize + offset*wordSize
	return p.Data[start:]
}

// Process implements the split-plane encode dispatch of spec.md §4.3: it
// selects a kernel by (format, channel, dither) and writes `blocks` block
// words starting at `offset` blocks into the payload.
func (p *Payload) Process(src []byte, blocks, offset, width int, ch codec.Channel, dither, heuristics bool) error {
	dst := p.dst(offset)

	switch {
	case p.Format == codec.Etc1 && ch == codec.RGB:
		codec.EncodeEtc1(src, dst, blocks, dither)
	case p.Format == codec.Etc2RGB && ch == codec.RGB:
		codec.EncodeEtc2RGB(src, dst, blocks, dither, heuristics)
	case p.Format == codec.Dxt1 && ch == codec.RGB:
		codec.EncodeDxt1(src, dst, blocks, dither)
	case p.Format == codec.Etc2R11 && ch == codec.RGB:
		codec.EncodeEtc2R11(src, dst, blocks)
	case p.Format == codec.Bc4 && ch == codec.Alpha:
		codec.EncodeBc4(src, dst, blocks)
	case p.Format == codec.Etc1 && ch == codec.Alpha:
		codec.EncodeEtc1Alpha(src, dst, blocks)
	default:
		return fmt.Errorf("payload: no split-plane kernel for format %s channel %d dither=%v", p.Format, ch, dither)
	}
	return nil
}

// ProcessRGBA implements the whole-pixel dual-plane encode entry point for
// formats that consume RGB and alpha together (Etc2_RGBA, Dxt5).
func (p *Payload) ProcessRGBA(rgbSrc, alphaSrc []byte, blocks, offset int, dither, heuristics bool) error {
	dst := p.dst(offset)
	switch p.Format {
	case codec.Etc2RGBA:
		codec.EncodeEtc2RGBA(rgbSrc, alphaSrc, dst, blocks, dither, heuristics)
	case codec.Dxt5:
		codec.EncodeDxt5(rgbSrc, alphaSrc, dst, blocks, dither)
	default:
		return fmt.Errorf("payload: format %s is not a dual-plane RGBA format", p.Format)
	}
	return nil
}

// ProcessRG11 is the EAC RG11 two-channel entry point: rSrc/gSrc are each
// block-scan single-channel planes.
func (p *Payload) ProcessRG11(rSrc, gSrc []byte, blocks, offset int) error {
	if p.Format != codec.Etc2RG11 {
		return fmt.Errorf("payload: format %s is not Etc2_RG11", p.Format)
	}
	codec.EncodeEtc2RG11(rSrc, gSrc, p.dst(offset), blocks)
	return nil
}

// ProcessBc5 is BC5's two-channel entry point (R then G BC4 words).
func (p *Payload) ProcessBc5(rSrc, gSrc []byte, blocks, offset int) error {
	if p.Format != codec.Bc5 {
		return fmt.Errorf("payload: format %s is not Bc5", p.Format)
	}
	codec.EncodeBc5(rSrc, gSrc, p.dst(offset), blocks)
	return nil
}

// Decode reads level 0's block words and reconstructs a pixel buffer. Per
// spec.md §4.3, decode is single-pass and not parallelized.
func (p *Payload) Decode() (*pixel.Buffer, error) {
	buf := pixel.New(p.Width, p.Height)
	src := p.Data[p.HeaderSize:]

	switch p.Format {
	case codec.Etc1:
		codec.DecodeEtc1(src, buf.Pix(), p.Width, p.Height)
	case codec.Etc2RGB:
		codec.DecodeEtc2RGB(src, buf.Pix(), p.Width, p.Height)
	case codec.Etc2RGBA:
		codec.DecodeEtc2RGBA(src, buf.Pix(), p.Width, p.Height)
	case codec.Etc2R11:
		codec.DecodeEtc2R11(src, buf.Pix(), p.Width, p.Height)
	case codec.Etc2RG11:
		codec.DecodeEtc2RG11(src, buf.Pix(), p.Width, p.Height)
	case codec.Dxt1:
		codec.DecodeDxt1(src, buf.Pix(), p.Width, p.Height)
	case codec.Dxt5:
		codec.DecodeDxt5(src, buf.Pix(), p.Width, p.Height)
	case codec.Bc4:
		codec.DecodeBc4(src, buf.Pix(), p.Width, p.Height)
	case codec.Bc5:
		codec.DecodeBc5(src, buf.Pix(), p.Width, p.Height)
	default:
		return nil, fmt.Errorf("payload: unsupported format %s", p.Format)
	}
	return buf, nil
}

// LevelByteOffset returns the byte offset (relative to the start of the
// compressed payload, i.e. excluding HeaderSize) of mip level `level`.
func (p *Payload) LevelByteOffset(level int) int {
	return blocklayout.LevelByteOffset(p.Width, p.Height, p.Format.Descriptor().WordSize, level)
}

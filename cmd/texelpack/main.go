// texelpack - GPU texture block-compression encoder/decoder.
//
// Compresses PNG images into ETC1/ETC2/EAC or DXT/BCn block formats stored
// in PVR v3 or KTX containers, decompresses containers back to PNG, and
// bundles multiple containers into a single zstd-compressed archive for
// distribution.
//
// Usage:
//
//	texelpack encode -format etc2rgba -container pvr input.png output.pvr
//	texelpack decode input.pvr output.png
//	texelpack pack output.tpz file1.pvr file2.ktx ...
//	texelpack unpack input.tpz output_dir
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/echovr-tools/texelpack/pkg/archive"
	"github.com/echovr-tools/texelpack/pkg/blocklayout"
	"github.com/echovr-tools/texelpack/pkg/codec"
	"github.com/echovr-tools/texelpack/pkg/container"
	"github.com/echovr-tools/texelpack/pkg/dispatch"
	"github.com/echovr-tools/texelpack/pkg/payload"
	"github.com/echovr-tools/texelpack/pkg/pixel"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "encode":
		err = runEncode(os.Args[2:])
	case "decode":
		err = runDecode(os.Args[2:])
	case "pack":
		err = runPack(os.Args[2:])
	case "unpack":
		err = runUnpack(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage:
  texelpack encode -format <name> [-container pvr|ktx] [-dither] [-heuristics] [-mipmaps] input.png output
  texelpack decode input.(pvr|ktx) output.png
  texelpack pack output.tpz file1 file2 ...
  texelpack unpack input.tpz output_dir

Formats: etc1 etc2rgb etc2rgba etc2r11 etc2rg11 dxt1 dxt5 bc4 bc5
`)
}

func runEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	formatName := fs.String("format", "etc2rgb", "block-compression format")
	containerName := fs.String("container", "pvr", "container type: pvr or ktx")
	dither := fs.Bool("dither", false, "dither before mode search")
	heuristics := fs.Bool("heuristics", false, "use fast heuristics instead of full search")
	mipmaps := fs.Bool("mipmaps", false, "generate a full mipmap chain")
	shardBlocks := fs.Int("shard", 0, "blocks per dispatcher shard (0 = default)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("encode requires input.png and output path")
	}
	inputPath, outputPath := fs.Arg(0), fs.Arg(1)

	format, err := codec.ParseFormat(*formatName)
	if err != nil {
		return err
	}

	buf, err := readPNG(inputPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", inputPath, err)
	}
	w, h := buf.Size()
	if w%4 != 0 || h%4 != 0 {
		return fmt.Errorf("texelpack: %dx%d is not a multiple of 4", w, h)
	}

	var p *payload.Payload
	var st *container.Storage
	switch *containerName {
	case "pvr":
		p, st, err = container.CreatePVR(outputPath, format, w, h, *mipmaps)
	case "ktx":
		p, st, err = container.CreateKTX(outputPath, format, w, h, *mipmaps)
	default:
		return fmt.Errorf("texelpack: unknown container type %q", *containerName)
	}
	if err != nil {
		return fmt.Errorf("create %s: %w", outputPath, err)
	}
	defer st.Close()

	level := buf
	for l := 0; l < p.Levels; l++ {
		lw, lh := level.Size()
		fmt.Printf("\033[2K\rencoding level %d/%d (%dx%d)", l+1, p.Levels, lw, lh)

		if err := encodeLevel(p, level, l, format, *dither, *heuristics, *shardBlocks); err != nil {
			return fmt.Errorf("encode level %d: %w", l, err)
		}
		if l+1 < p.Levels {
			level = level.Box2x2()
		}
	}
	fmt.Println()
	return nil
}

// encodeLevel dispatches the right Process/ProcessRGBA/ProcessRG11/
// ProcessBc5 entry point for one mip level, per the (format, channel)
// table in spec.md §4.3.
func encodeLevel(p *payload.Payload, level *pixel.Buffer, l int, format codec.Format, dither, heuristics bool, shardBlocks int) error {
	w, h := level.Size()
	// blocklayout.BlockCount pads sub-4x4 levels up to a single block; the
	// source plane must match that padding, so pad the level buffer itself
	// before reordering.
	if w < 4 || h < 4 {
		level = padTo4x4(level)
		w, h = level.Size()
	}
	blocks := blocklayout.BlockCount(w, h)
	offset := p.LevelByteOffset(l) / format.Descriptor().WordSize

	switch format {
	case codec.Etc1, codec.Etc2RGB, codec.Dxt1:
		src, err := blocklayout.ToBlockScan(level, pixel.RGB)
		if err != nil {
			return err
		}
		return dispatch.EncodeSplitPlane(p, src, blocks, offset, w, codec.RGB, dither, heuristics, shardBlocks)
	case codec.Etc2R11:
		src, err := blocklayout.ToBlockScanChannel(level, 0)
		if err != nil {
			return err
		}
		return dispatch.EncodeSplitPlane(p, src, blocks, offset, w, codec.RGB, dither, heuristics, shardBlocks)
	case codec.Bc4:
		// Bc4 is a single raw-channel format (height/luminance maps), not a
		// coverage channel, so it must bypass ToBlockScan's alpha inversion
		// the same way Etc2_R11/RG11/Bc5 do.
		src, err := blocklayout.ToBlockScanChannel(level, 0)
		if err != nil {
			return err
		}
		return dispatch.EncodeSplitPlane(p, src, blocks, offset, w, codec.Alpha, dither, heuristics, shardBlocks)
	case codec.Etc2RGBA, codec.Dxt5:
		rgbSrc, err := blocklayout.ToBlockScan(level, pixel.RGB)
		if err != nil {
			return err
		}
		alphaSrc, err := blocklayout.ToBlockScan(level, pixel.Alpha)
		if err != nil {
			return err
		}
		return dispatch.EncodeRGBA(p, rgbSrc, alphaSrc, blocks, offset, dither, heuristics, shardBlocks)
	case codec.Etc2RG11:
		rSrc, err := blocklayout.ToBlockScanChannel(level, 0)
		if err != nil {
			return err
		}
		gSrc, err := blocklayout.ToBlockScanChannel(level, 1)
		if err != nil {
			return err
		}
		return p.ProcessRG11(rSrc, gSrc, blocks, offset)
	case codec.Bc5:
		rSrc, err := blocklayout.ToBlockScanChannel(level, 0)
		if err != nil {
			return err
		}
		gSrc, err := blocklayout.ToBlockScanChannel(level, 1)
		if err != nil {
			return err
		}
		return p.ProcessBc5(rSrc, gSrc, blocks, offset)
	}
	return fmt.Errorf("texelpack: no encode path for format %s", format)
}

func padTo4x4(level *pixel.Buffer) *pixel.Buffer {
	w, h := level.Size()
	pw, ph := w, h
	if pw < 4 {
		pw = 4
	}
	if ph < 4 {
		ph = 4
	}
	out := pixel.New(pw, ph)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := level.At(x, y)
			out.Set(x, y, r, g, b, a)
		}
	}
	return out
}

func runDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("decode requires input and output.png")
	}
	inputPath, outputPath := fs.Arg(0), fs.Arg(1)

	p, st, err := openContainer(inputPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", inputPath, err)
	}
	defer st.Close()

	buf, err := p.Decode()
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return writePNG(outputPath, buf)
}

func openContainer(path string) (*payload.Payload, *container.Storage, error) {
	p, st, err := container.OpenPVR(path)
	if err == nil {
		return p, st, nil
	}
	if err != container.ErrUnrecognizedContainer {
		return nil, nil, err
	}
	return container.OpenKTX(path)
}

func runPack(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("pack requires output.tpz and at least one input file")
	}
	outputPath := args[0]
	inputs := args[1:]

	names := make([]string, len(inputs))
	files := make([][]byte, len(inputs))
	for i, in := range inputs {
		data, err := os.ReadFile(in)
		if err != nil {
			return fmt.Errorf("read %s: %w", in, err)
		}
		names[i] = filepath.Base(in)
		files[i] = data
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outputPath, err)
	}
	defer out.Close()

	if err := archive.WriteBundle(out, names, files); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}
	fmt.Printf("Packed %d files into %s\n", len(inputs), outputPath)
	return nil
}

func runUnpack(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("unpack requires input.tpz and output_dir")
	}
	inputPath, outputDir := args[0], args[1]

	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", inputPath, err)
	}
	defer in.Close()

	entries, err := archive.ReadBundle(in)
	if err != nil {
		return fmt.Errorf("read bundle: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for name, data := range entries {
		dst := filepath.Join(outputDir, name)
		if err := os.WriteFile(dst, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", dst, err)
		}
	}
	fmt.Printf("Unpacked %d files into %s\n", len(entries), outputDir)
	return nil
}

func readPNG(path string) (*pixel.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	buf := pixel.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			buf.Set(x, y, byte(r>>8), byte(g>>8), byte(b>>8), byte(a>>8))
		}
	}
	return buf, nil
}

func writePNG(path string, buf *pixel.Buffer) error {
	w, h := buf.Size()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := buf.At(x, y)
			i := img.PixOffset(x, y)
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = r, g, b, a
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}

// Package dispatch splits a block grid into shards and issues them to a
// worker pool, grounded on main.go's Extract worker-pool pattern: a
// runtime.NumCPU()-sized pool draining a buffered job channel, joined by
// a single sync.WaitGroup.
package dispatch

import (
	"runtime"
	"sync"

	"github.com/echovr-tools/texelpack/pkg/codec"
	"github.com/echovr-tools/texelpack/pkg/payload"
)

// DefaultShardBlocks is the design-default minimum shard size: enough
// blocks per shard to amortize task overhead (spec.md §4.5).
const DefaultShardBlocks = 4096

type splitPlaneJob struct {
	src              []byte
	blocks           int
	blockOffset      int
	width            int
	channel          codec.Channel
	dither, heuristics bool
}

// EncodeSplitPlane shards a total block count across a worker pool and
// calls p.Process for each shard's disjoint (offset, blocks) range. src is
// the full block-scan source plane for the level being encoded; shards
// write disjoint payload ranges, so no locking is required (spec.md §5).
// baseOffset is added to each shard's block offset before the payload
// write, so a mip level other than 0 can be targeted without shifting src.
func EncodeSplitPlane(p *payload.Payload, src []byte, totalBlocks, baseOffset, width int, ch codec.Channel, dither, heuristics bool, shardBlocks int) error {
	if shardBlocks <= 0 {
		shardBlocks = DefaultShardBlocks
	}

	bpp := ch.BytesPerPixel()
	numWorkers := runtime.NumCPU()
	jobs := make(chan splitPlaneJob, numWorkers*2)
	var wg sync.WaitGroup
	errs := make(chan error, (totalBlocks+shardBlocks-1)/shardBlocks)

	worker := func() {
		defer wg.Done()
		for job := range jobs {
			if err := p.Process(job.src, job.blocks, job.blockOffset, job.width, job.channel, job.dither, job.heuristics); err != nil {
				errs <- err
			}
		}
	}
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go worker()
	}

	for offset := 0; offset < totalBlocks; offset += shardBlocks {
		blocks := shardBlocks
		if offset+blocks > totalBlocks {
			blocks = totalBlocks - offset
		}
		jobs <- splitPlaneJob{
			src:         src[offset*16*bpp : (offset+blocks)*16*bpp],
			blocks:      blocks,
			blockOffset: baseOffset + offset,
			width:       width,
			channel:     ch,
			dither:      dither,
			heuristics:  heuristics,
		}
	}
	close(jobs)
	wg.Wait()
	close(errs)

	for err := range errs {
		return err
	}
	return nil
}

type rgbaJob struct {
	rgbSrc, alphaSrc []byte
	blocks           int
	blockOffset      int
	dither, heuristics bool
}

// EncodeRGBA shards a whole-pixel dual-plane encode (Etc2_RGBA, Dxt5)
// across a worker pool identically to EncodeSplitPlane. baseOffset shifts
// every shard's write position, for encoding a mip level other than 0.
func EncodeRGBA(p *payload.Payload, rgbSrc, alphaSrc []byte, totalBlocks, baseOffset int, dither, heuristics bool, shardBlocks int) error {
	if shardBlocks <= 0 {
		shardBlocks = DefaultShardBlocks
	}

	numWorkers := runtime.NumCPU()
	jobs := make(chan rgbaJob, numWorkers*2)
	var wg sync.WaitGroup
	errs := make(chan error, (totalBlocks+shardBlocks-1)/shardBlocks)

	worker := func() {
		defer wg.Done()
		for job := range jobs {
			if err := p.ProcessRGBA(job.rgbSrc, job.alphaSrc, job.blocks, job.blockOffset, job.dither, job.heuristics); err != nil {
				errs <- err
			}
		}
	}
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go worker()
	}

	for offset := 0; offset < totalBlocks; offset += shardBlocks {
		blocks := shardBlocks
		if offset+blocks > totalBlocks {
			blocks = totalBlocks - offset
		}
		jobs <- rgbaJob{
			rgbSrc:      rgbSrc[offset*48 : (offset+blocks)*48],
			alphaSrc:    alphaSrc[offset*16 : (offset+blocks)*16],
			blocks:      blocks,
			blockOffset: baseOffset + offset,
			dither:      dither,
			heuristics:  heuristics,
		}
	}
	close(jobs)
	wg.Wait()
	close(errs)

	for err := range errs {
		return err
	}
	return nil
}

package scan

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/bft-labs/framepack/internal/ports"
	"github.com/bft-labs/framepack/pkg/aggregate"
	"github.com/bft-labs/framepack/pkg/index"
	"github.com/bft-labs/framepack/pkg/log"
)

// Stats summarizes one decompression pass.
type Stats struct {
	// FramesDecoded is the number of frames read, decompressed, and
	// parsed successfully.
	FramesDecoded uint64

	// FramesFailed is the number of frames skipped after a read or
	// decode error.
	FramesFailed uint64

	// RecordsParsed is the total number of records folded into the
	// aggregate, counting duplicates separately.
	RecordsParsed uint64
}

// Scheduler fans frame descriptors out to a fixed pool of workers. Each
// frame is one unit of work: positional read, decompress, parse, fold
// into the aggregator. Frames complete in no particular order.
type Scheduler struct {
	reader  ports.FrameReader
	workers int
	logger  log.Logger
}

// NewScheduler returns a Scheduler reading frames through reader with
// the given worker count. A worker count of 1 degenerates to sequential
// processing with identical output.
func NewScheduler(reader ports.FrameReader, workers int, logger log.Logger) (*Scheduler, error) {
	if workers < 1 {
		return nil, fmt.Errorf("worker count must be at least 1, got %d", workers)
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Scheduler{reader: reader, workers: workers, logger: logger}, nil
}

// Run processes every frame in the index, folding parsed records into
// agg. A frame that fails to read or decode is logged and skipped
// without disturbing sibling frames; the pass itself still succeeds and
// the skip count is reported in Stats.
//
// The context is honored only before work begins. Once dispatch starts
// the pass runs to completion, so a run either covers every descriptor
// or was never started.
func (s *Scheduler) Run(ctx context.Context, frames index.Index, agg aggregate.Aggregator) (Stats, error) {
	select {
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	default:
	}

	var decoded, failed, parsed atomic.Uint64

	jobs := make(chan index.FrameMeta)
	g := new(errgroup.Group)
	for w := 0; w < s.workers; w++ {
		w := w
		g.Go(func() error {
			for meta := range jobs {
				payload, err := s.reader.ReadFrame(meta)
				if err != nil {
					failed.Add(1)
					s.logger.Warn("skipping frame",
						log.Uint64("order", meta.Order),
						log.Uint64("position", meta.Position),
						log.Err(err))
					continue
				}
				recs := ParseRecords(payload, s.logger)
				agg.Add(w, recs)
				decoded.Add(1)
				parsed.Add(uint64(len(recs)))
			}
			return nil
		})
	}

	for _, meta := range frames {
		jobs <- meta
	}
	close(jobs)
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	return Stats{
		FramesDecoded: decoded.Load(),
		FramesFailed:  failed.Load(),
		RecordsParsed: parsed.Load(),
	}, nil
}

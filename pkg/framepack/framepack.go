package framepack

import (
	"context"
	"os"
	"time"

	"github.com/bft-labs/framepack/internal/ports"
	"github.com/bft-labs/framepack/internal/scan"
	"github.com/bft-labs/framepack/pkg/aggregate"
	"github.com/bft-labs/framepack/pkg/frameio"
	"github.com/bft-labs/framepack/pkg/index"
	"github.com/bft-labs/framepack/pkg/log"
)

// CompressSummary reports the outcome of one compression pass.
type CompressSummary struct {
	InputPath    string
	OutputPath   string
	IndexPath    string
	Frames       int
	BytesRead    int64
	BytesWritten uint64
	Elapsed      time.Duration
}

// Compress reads the configured input file, writes the compressed
// archive and its frame index, and returns a summary. The archive data
// file lands via a temp-file rename and the index is persisted only
// after the data, so a crash never leaves an index pointing at a
// missing or truncated archive.
func Compress(ctx context.Context, cfg CompressConfig, opts ...Option) (CompressSummary, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return CompressSummary{}, err
	}
	if err := validateModuleVersions(); err != nil {
		return CompressSummary{}, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return compressOnce(ctx, cfg, o.logger)
}

// compressOnce runs a single compression pass with resolved options.
func compressOnce(ctx context.Context, cfg CompressConfig, logger log.Logger) (CompressSummary, error) {
	select {
	case <-ctx.Done():
		return CompressSummary{}, ctx.Err()
	default:
	}

	start := time.Now()

	in, err := os.Open(cfg.InputPath)
	if err != nil {
		return CompressSummary{}, err
	}
	defer in.Close()

	tmpPath := cfg.OutputPath + ".tmp"
	out, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return CompressSummary{}, err
	}

	idx, bytesRead, err := frameio.Compress(in, out, cfg.BlockSize, cfg.Level)
	if err != nil {
		out.Close()
		os.Remove(tmpPath)
		return CompressSummary{}, err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmpPath)
		return CompressSummary{}, err
	}
	if err := os.Rename(tmpPath, cfg.OutputPath); err != nil {
		os.Remove(tmpPath)
		return CompressSummary{}, err
	}

	var repo ports.IndexRepository = index.NewFileRepository(cfg.IndexPath)
	if err := repo.Save(ctx, idx); err != nil {
		return CompressSummary{}, err
	}

	summary := CompressSummary{
		InputPath:    cfg.InputPath,
		OutputPath:   cfg.OutputPath,
		IndexPath:    cfg.IndexPath,
		Frames:       len(idx),
		BytesRead:    bytesRead,
		BytesWritten: idx.TotalCompressed(),
		Elapsed:      time.Since(start),
	}
	logger.Info("compression pass complete",
		log.String("input", summary.InputPath),
		log.String("output", summary.OutputPath),
		log.Int("frames", summary.Frames),
		log.Int64("bytes_read", summary.BytesRead),
		log.Uint64("bytes_written", summary.BytesWritten),
		log.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}

// DecompressSummary reports the outcome of one decompression pass.
type DecompressSummary struct {
	InputPath     string
	IndexPath     string
	Strategy      aggregate.Strategy
	Workers       int
	Frames        int
	FramesDecoded uint64
	FramesFailed  uint64
	Records       int
	Elapsed       time.Duration
}

// Decompress loads the frame index, decompresses every frame across the
// configured worker pool, and aggregates the parsed records with the
// configured strategy. Frames that fail to read or decode are logged
// and skipped; the pass still succeeds and the summary carries the skip
// count. Records is the size of the returned mapping.
func Decompress(ctx context.Context, cfg DecompressConfig, opts ...Option) (aggregate.Mapping, DecompressSummary, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, DecompressSummary{}, err
	}
	if err := validateModuleVersions(); err != nil {
		return nil, DecompressSummary{}, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()

	var repo ports.IndexRepository = index.NewFileRepository(cfg.IndexPath)
	idx, err := repo.Load(ctx)
	if err != nil {
		return nil, DecompressSummary{}, err
	}
	if err := idx.Validate(); err != nil {
		return nil, DecompressSummary{}, err
	}

	reader, err := frameio.Open(cfg.InputPath)
	if err != nil {
		return nil, DecompressSummary{}, err
	}
	defer reader.Close()

	agg, err := aggregate.New(cfg.Strategy, cfg.Workers)
	if err != nil {
		return nil, DecompressSummary{}, err
	}
	sched, err := scan.NewScheduler(reader, cfg.Workers, o.logger)
	if err != nil {
		return nil, DecompressSummary{}, err
	}

	stats, err := sched.Run(ctx, idx, agg)
	if err != nil {
		return nil, DecompressSummary{}, err
	}

	mapping := agg.Result()
	summary := DecompressSummary{
		InputPath:     cfg.InputPath,
		IndexPath:     cfg.IndexPath,
		Strategy:      cfg.Strategy,
		Workers:       cfg.Workers,
		Frames:        len(idx),
		FramesDecoded: stats.FramesDecoded,
		FramesFailed:  stats.FramesFailed,
		Records:       mapping.Len(),
		Elapsed:       time.Since(start),
	}
	o.logger.Info("decompression pass complete",
		log.String("input", summary.InputPath),
		log.String("strategy", summary.Strategy.String()),
		log.Int("workers", summary.Workers),
		log.Uint64("frames_decoded", summary.FramesDecoded),
		log.Uint64("frames_failed", summary.FramesFailed),
		log.Int("records", summary.Records),
		log.Duration("elapsed", summary.Elapsed),
	)
	return mapping, summary, nil
}

// VerifySummary reports the outcome of an archive integrity check.
type VerifySummary struct {
	InputPath    string
	IndexPath    string
	Frames       int
	Lines        uint64
	Records      uint64
	Compressed   uint64
	Uncompressed uint64
	Elapsed      time.Duration
}

// Verify checks that the archive matches its index and that every frame
// decompresses with a valid checksum. The returned error aggregates all
// failing frames rather than stopping at the first.
func Verify(ctx context.Context, cfg VerifyConfig, opts ...Option) (VerifySummary, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return VerifySummary{}, err
	}
	if err := validateModuleVersions(); err != nil {
		return VerifySummary{}, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()

	var repo ports.IndexRepository = index.NewFileRepository(cfg.IndexPath)
	idx, err := repo.Load(ctx)
	if err != nil {
		return VerifySummary{}, err
	}

	reader, err := frameio.Open(cfg.InputPath)
	if err != nil {
		return VerifySummary{}, err
	}
	defer reader.Close()

	size, err := reader.Size()
	if err != nil {
		return VerifySummary{}, err
	}

	report, err := scan.Verify(ctx, idx, reader, size)
	summary := VerifySummary{
		InputPath:    cfg.InputPath,
		IndexPath:    cfg.IndexPath,
		Frames:       report.Frames,
		Lines:        report.Lines,
		Records:      report.Records,
		Compressed:   idx.TotalCompressed(),
		Uncompressed: report.Uncompressed,
		Elapsed:      time.Since(start),
	}
	if err != nil {
		return summary, err
	}
	o.logger.Info("verify pass complete",
		log.String("input", summary.InputPath),
		log.Int("frames", summary.Frames),
		log.Uint64("records", summary.Records),
		log.Uint64("uncompressed", summary.Uncompressed),
		log.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}

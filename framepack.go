// Package framepack compresses line-oriented tables into indexed
// zstandard archives and reads them back in parallel.
//
// Example usage:
//
//	summary, err := framepack.Compress(ctx, framepack.CompressConfig{
//	    InputPath: "table.tsv",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	mapping, _, err := framepack.Decompress(ctx, framepack.DecompressConfig{
//	    InputPath: summary.OutputPath,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// This package re-exports the one-shot operations. The full facade,
// including the directory watcher and its plugin system, lives in
// pkg/framepack.
package framepack

import (
	"context"

	"github.com/bft-labs/framepack/pkg/aggregate"
	"github.com/bft-labs/framepack/pkg/frameio"
	"github.com/bft-labs/framepack/pkg/framepack"
)

// CompressConfig configures a compression pass.
// Zero-value fields are filled in by defaults derived from InputPath.
type CompressConfig = framepack.CompressConfig

// DecompressConfig configures a decompression pass.
type DecompressConfig = framepack.DecompressConfig

// VerifyConfig configures an archive integrity check.
type VerifyConfig = framepack.VerifyConfig

// CompressSummary reports the outcome of a compression pass.
type CompressSummary = framepack.CompressSummary

// DecompressSummary reports the outcome of a decompression pass.
type DecompressSummary = framepack.DecompressSummary

// VerifySummary reports the outcome of an integrity check.
type VerifySummary = framepack.VerifySummary

// Mapping is the read-only aggregated key/value view returned by
// Decompress.
type Mapping = aggregate.Mapping

// Strategy selects how decompressed records are aggregated.
type Strategy = aggregate.Strategy

// Aggregation strategies accepted by DecompressConfig.
const (
	ConcurrentMap    = aggregate.ConcurrentMap
	LocalThenCombine = aggregate.LocalThenCombine
	ParallelReduce   = aggregate.ParallelReduce
)

// Default tuning values used when the corresponding config field is zero.
const (
	DefaultBlockSize        = frameio.DefaultBlockSize
	DefaultCompressionLevel = frameio.DefaultCompressionLevel
)

// Compress reads the input file, chunks it on line boundaries, and
// writes a zstandard archive plus a frame index next to it.
func Compress(ctx context.Context, cfg CompressConfig) (CompressSummary, error) {
	return framepack.Compress(ctx, cfg)
}

// Decompress reads the frame index, decompresses all frames in
// parallel, and aggregates the parsed records into a Mapping.
func Decompress(ctx context.Context, cfg DecompressConfig) (Mapping, DecompressSummary, error) {
	return framepack.Decompress(ctx, cfg)
}

// Verify checks that an archive matches its index and that every frame
// decompresses cleanly.
func Verify(ctx context.Context, cfg VerifyConfig) (VerifySummary, error) {
	return framepack.Verify(ctx, cfg)
}

// ParseStrategy parses a strategy name such as "concurrent-map".
func ParseStrategy(name string) (Strategy, error) {
	return aggregate.ParseStrategy(name)
}

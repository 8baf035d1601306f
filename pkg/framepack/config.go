package framepack

import (
	"fmt"
	"runtime"

	"github.com/bft-labs/framepack/internal/domain"
	"github.com/bft-labs/framepack/pkg/aggregate"
	"github.com/bft-labs/framepack/pkg/frameio"
)

// CompressConfig configures one compression pass.
type CompressConfig struct {
	// InputPath is the line-oriented input file. Required.
	InputPath string

	// OutputPath is the compressed archive to write.
	// Defaults to InputPath + ".zst".
	OutputPath string

	// IndexPath is the frame index sidecar to write.
	// Defaults to OutputPath + ".idx".
	IndexPath string

	// BlockSize is the target uncompressed chunk size in bytes.
	// Defaults to frameio.DefaultBlockSize.
	BlockSize int

	// Level is the zstd compression level.
	// Zero or below selects frameio.DefaultCompressionLevel.
	Level int
}

// SetDefaults fills in derived and default values.
func (c *CompressConfig) SetDefaults() {
	if c.OutputPath == "" && c.InputPath != "" {
		c.OutputPath = c.InputPath + ".zst"
	}
	if c.IndexPath == "" && c.OutputPath != "" {
		c.IndexPath = c.OutputPath + ".idx"
	}
	if c.BlockSize == 0 {
		c.BlockSize = frameio.DefaultBlockSize
	}
	if c.Level <= 0 {
		c.Level = frameio.DefaultCompressionLevel
	}
}

// Validate checks the configuration, returning an error wrapping
// domain.ErrInvalidConfig when a value is unusable.
func (c *CompressConfig) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("%w: input path is required", domain.ErrInvalidConfig)
	}
	if c.OutputPath == "" {
		return fmt.Errorf("%w: output path is required", domain.ErrInvalidConfig)
	}
	if c.IndexPath == "" {
		return fmt.Errorf("%w: index path is required", domain.ErrInvalidConfig)
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("%w: block size must be positive, got %d", domain.ErrInvalidConfig, c.BlockSize)
	}
	return nil
}

// DecompressConfig configures one decompression pass.
type DecompressConfig struct {
	// InputPath is the compressed archive to read. Required.
	InputPath string

	// IndexPath is the frame index sidecar.
	// Defaults to InputPath + ".idx".
	IndexPath string

	// Workers is the number of parallel frame workers.
	// Defaults to runtime.NumCPU().
	Workers int

	// Strategy selects how per-frame records are aggregated.
	// The zero value is aggregate.ConcurrentMap.
	Strategy aggregate.Strategy
}

// SetDefaults fills in derived and default values.
func (c *DecompressConfig) SetDefaults() {
	if c.IndexPath == "" && c.InputPath != "" {
		c.IndexPath = c.InputPath + ".idx"
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Validate checks the configuration, returning an error wrapping
// domain.ErrInvalidConfig when a value is unusable.
func (c *DecompressConfig) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("%w: input path is required", domain.ErrInvalidConfig)
	}
	if c.IndexPath == "" {
		return fmt.Errorf("%w: index path is required", domain.ErrInvalidConfig)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: worker count must be at least 1, got %d", domain.ErrInvalidConfig, c.Workers)
	}
	switch c.Strategy {
	case aggregate.ConcurrentMap, aggregate.LocalThenCombine, aggregate.ParallelReduce:
	default:
		return fmt.Errorf("%w: unknown aggregation strategy %d", domain.ErrInvalidConfig, int(c.Strategy))
	}
	return nil
}

// VerifyConfig configures an archive integrity check.
type VerifyConfig struct {
	// InputPath is the compressed archive to check. Required.
	InputPath string

	// IndexPath is the frame index sidecar.
	// Defaults to InputPath + ".idx".
	IndexPath string
}

// SetDefaults fills in derived values.
func (c *VerifyConfig) SetDefaults() {
	if c.IndexPath == "" && c.InputPath != "" {
		c.IndexPath = c.InputPath + ".idx"
	}
}

// Validate checks the configuration, returning an error wrapping
// domain.ErrInvalidConfig when a value is unusable.
func (c *VerifyConfig) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("%w: input path is required", domain.ErrInvalidConfig)
	}
	if c.IndexPath == "" {
		return fmt.Errorf("%w: index path is required", domain.ErrInvalidConfig)
	}
	return nil
}

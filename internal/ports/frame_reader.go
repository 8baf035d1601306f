package ports

import (
	"github.com/bft-labs/framepack/pkg/index"
)

// FrameReader reads and decompresses individual frames from a compressed
// archive by position. Implementations must be safe for concurrent use:
// the scheduler calls ReadFrame from every worker simultaneously.
type FrameReader interface {
	// ReadFrame returns the decompressed payload of the frame described
	// by meta. An error is scoped to that frame only.
	ReadFrame(meta index.FrameMeta) ([]byte, error)

	// Close releases all resources held by the reader.
	Close() error
}

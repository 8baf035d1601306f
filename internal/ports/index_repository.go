package ports

import (
	"context"

	"github.com/bft-labs/framepack/pkg/index"
)

// IndexRepository handles frame index persistence.
// Implementations persist the index to disk (or other storage) atomically.
type IndexRepository interface {
	// Load retrieves the full frame index. A missing or unreadable
	// index is an error: decompression cannot start without it.
	Load(ctx context.Context) (index.Index, error)

	// Save persists the index atomically.
	// The implementation should use atomic writes (e.g., write to temp file,
	// then rename) to prevent corruption on crash.
	Save(ctx context.Context, idx index.Index) error
}

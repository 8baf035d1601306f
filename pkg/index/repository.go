package index

import "context"

// Repository handles persistence of frame indexes.
// Implementations persist the index to disk (or other storage) atomically.
type Repository interface {
	// Load retrieves the full index.
	// A missing, unreadable, or malformed index is an error: the index is
	// required before any positional read can be attempted.
	Load(ctx context.Context) (Index, error)

	// Save persists the index atomically.
	// The implementation should use atomic writes (e.g., write to temp file,
	// then rename) so readers never observe a partially written index.
	Save(ctx context.Context, idx Index) error
}

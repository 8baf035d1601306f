package index

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileRepository implements Repository using a JSON sidecar file.
// The on-disk format is a pretty-printed array of frame descriptors so the
// index stays human-inspectable.
type FileRepository struct {
	path string
}

var _ Repository = (*FileRepository)(nil)

// NewFileRepository creates a FileRepository for the given index file path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Load reads and parses the index file.
// Any failure is fatal for the read path: there is no partial recovery
// from a missing or malformed index.
func (r *FileRepository) Load(ctx context.Context) (Index, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("load frame index: %w", err)
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parse frame index %s: %w", r.path, err)
	}

	return idx, nil
}

// Save persists the index atomically.
// Writes to a temp file in the same directory, then renames into place.
func (r *FileRepository) Save(ctx context.Context, idx Index) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return err
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}

	return os.Rename(tmp, r.path)
}

// Path returns the index file path.
func (r *FileRepository) Path() string {
	return r.path
}

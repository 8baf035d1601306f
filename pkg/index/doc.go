// Package index defines frame descriptors and index persistence for
// framepack archives.
//
// An index is an ordered list of [FrameMeta] descriptors, one per compressed
// frame, recording where each frame starts, how many bytes it occupies, and
// its write-time sequence number. Frames are written back-to-back, so a valid
// index is contiguous: each frame begins exactly where the previous one ends,
// and the last frame ends at the archive's total size.
//
// # Usage
//
// Persist and reload an index through a repository:
//
//	repo := index.NewFileRepository("table.zst.idx")
//
//	if err := repo.Save(ctx, idx); err != nil {
//	    return err
//	}
//
//	idx, err := repo.Load(ctx)
//	if err != nil {
//	    return err
//	}
//	if err := idx.Validate(); err != nil {
//	    return err
//	}
//
// The on-disk format is a pretty-printed JSON array, which keeps the sidecar
// inspectable with standard tooling.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package index

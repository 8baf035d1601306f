// Package framepack is the high-level entry point for creating, reading
// and watching indexed block-compressed archives.
//
// An archive is a sequence of independent zstd frames, each holding a
// block of whole input lines, accompanied by a JSON index sidecar that
// records every frame's position, length and order. Because frames are
// self-contained, decompression reads them in parallel and folds the
// parsed key/value records into a single mapping using a configurable
// aggregation strategy.
//
// # Usage
//
// One-shot operations:
//
//	summary, err := framepack.Compress(ctx, framepack.CompressConfig{
//	    InputPath: "table.tsv",
//	})
//
//	mapping, _, err := framepack.Decompress(ctx, framepack.DecompressConfig{
//	    InputPath: "table.tsv.zst",
//	    Strategy:  aggregate.LocalThenCombine,
//	})
//
//	_, err = framepack.Verify(ctx, framepack.VerifyConfig{
//	    InputPath: "table.tsv.zst",
//	})
//
// Keep an archive current as its input changes:
//
//	w, err := framepack.NewWatcher(cfg,
//	    framepack.WithLogger(logger),
//	    filewatcher.WithDefaultFileWatcher(),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := w.Start(ctx); err != nil {
//	    return err
//	}
//	defer w.Stop()
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package framepack

package filewatcher

import "github.com/bft-labs/framepack/pkg/framepack"

// WithFileWatcher returns a framepack Option that enables input file
// watching. When enabled, the plugin monitors the input file and
// triggers a recompression pass after each change settles.
//
// Usage:
//
//	w, err := framepack.NewWatcher(cfg,
//	    filewatcher.WithFileWatcher(filewatcher.Config{
//	        DebounceDelay: 500 * time.Millisecond,
//	    }),
//	)
func WithFileWatcher(cfg Config) framepack.Option {
	plugin := New(cfg)
	return framepack.WithPlugin(plugin)
}

// WithDefaultFileWatcher returns a framepack Option that enables input
// file watching with default settings (debounce 500ms).
//
// Usage:
//
//	w, err := framepack.NewWatcher(cfg, filewatcher.WithDefaultFileWatcher())
func WithDefaultFileWatcher() framepack.Option {
	return WithFileWatcher(DefaultConfig())
}

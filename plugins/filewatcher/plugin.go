// Package filewatcher provides input file monitoring for framepack.
// When enabled, it watches the compressed input file for changes and
// triggers a recompression pass after each change settles.
package filewatcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/framepack/pkg/framepack"
	"github.com/bft-labs/framepack/pkg/log"
)

// DefaultDebounceDelay is the default settle time between the last
// observed file change and the recompression it triggers.
const DefaultDebounceDelay = 500 * time.Millisecond

// Plugin implements input watching functionality.
// It monitors the input file's directory and triggers the watcher's
// recompression hook when the input is written or recreated.
type Plugin struct {
	mu sync.RWMutex

	// Configuration
	debounceDelay time.Duration

	// Runtime state
	inputPath  string
	recompress func(ctx context.Context) error
	logger     log.Logger
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	debounce   *time.Timer
}

// Config holds configuration options for the file watcher plugin.
type Config struct {
	// DebounceDelay is the delay to wait after a file change before
	// recompressing, so bursts of writes coalesce into one pass.
	// Default: 500 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DebounceDelay: DefaultDebounceDelay,
	}
}

// New creates a new file watcher plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = DefaultDebounceDelay
	}
	return &Plugin{
		debounceDelay: cfg.DebounceDelay,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "filewatcher"
}

// Initialize sets up the plugin and starts the watcher loop.
func (p *Plugin) Initialize(ctx context.Context, cfg framepack.PluginConfig) error {
	p.mu.Lock()
	p.inputPath = cfg.InputPath
	p.recompress = cfg.Recompress
	p.logger = cfg.Logger
	p.mu.Unlock()

	if p.logger == nil {
		p.logger = log.NewNoopLogger()
	}
	if p.inputPath == "" || p.recompress == nil {
		p.logger.Warn("File watcher disabled: input path or recompress hook not configured")
		return nil
	}

	// Create cancellable context for the watcher loop
	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.Info("File watcher plugin initialized",
		log.String("input", p.inputPath),
		log.Duration("debounce", p.debounceDelay))

	// Start watcher loop
	p.wg.Add(1)
	go p.watchLoop(watchCtx)

	return nil
}

// Shutdown stops the file watcher.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()

	p.mu.Lock()
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.mu.Unlock()
	return nil
}

// watchLoop watches the input file's directory for changes.
func (p *Plugin) watchLoop(ctx context.Context) {
	defer p.wg.Done()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.logger.Error("File watcher: failed to create watcher", log.Err(err))
		return
	}
	defer watcher.Close()

	// Watch the directory rather than the file itself so the input is
	// still tracked across delete-and-recreate rewrites.
	dir := filepath.Dir(p.inputPath)
	if err := watcher.Add(dir); err != nil {
		p.logger.Error("File watcher: failed to watch directory",
			log.String("dir", dir),
			log.Err(err))
		return
	}

	inputBase := filepath.Base(p.inputPath)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			// Base-name filter also drops events for the archive and
			// index written into the same directory.
			if filepath.Base(event.Name) != inputBase {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			p.debounceRecompress(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("File watcher: watcher error", log.Err(err))
		}
	}
}

func (p *Plugin) debounceRecompress(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}

	p.debounce = time.AfterFunc(p.debounceDelay, func() {
		p.logger.Info("File watcher: input changed, recompressing")
		if err := p.recompress(ctx); err != nil {
			p.logger.Warn("File watcher: recompression abandoned", log.Err(err))
		}
	})
}

// Ensure Plugin implements framepack.Plugin.
var _ framepack.Plugin = (*Plugin)(nil)

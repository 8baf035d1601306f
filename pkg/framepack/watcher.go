package framepack

import (
	"context"
	"sync"

	"github.com/bft-labs/framepack/internal/app"
	"github.com/bft-labs/framepack/internal/domain"
	"github.com/bft-labs/framepack/pkg/log"
)

// Watcher keeps a compressed archive current: it runs one compression
// pass on start and re-runs it whenever a plugin (typically the file
// watcher) triggers a recompression. Use NewWatcher() to create an
// instance, then Start() to begin.
type Watcher struct {
	config    CompressConfig
	opts      options
	lifecycle *app.Lifecycle
	logger    log.Logger
	backoff   *app.Backoff
	emitter   eventEmitterWrapper

	plugins []Plugin

	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
}

// NewWatcher creates a new Watcher with the given configuration.
// The instance is created in StateStopped; call Start() to begin.
// Returns an error if configuration is invalid.
func NewWatcher(cfg CompressConfig, opts ...Option) (*Watcher, error) {
	// Set defaults
	cfg.SetDefaults()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Validate module version compatibility
	if err := validateModuleVersions(); err != nil {
		return nil, err
	}

	// Apply options
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	// Create event emitter wrapper
	var emitter eventEmitterWrapper
	if o.eventHandler != nil {
		emitter = eventEmitterWrapper{handler: o.eventHandler}
	}

	w := &Watcher{
		config:  cfg,
		opts:    o,
		logger:  o.logger,
		backoff: app.NewBackoff(app.DefaultBackoffInitial, app.DefaultBackoffMax),
		emitter: emitter,
		plugins: o.plugins,
	}
	w.lifecycle = app.NewLifecycle(o.logger, &w.emitter)
	return w, nil
}

// Start runs the initial compression pass in the background and begins
// serving plugin-triggered recompressions.
// Returns immediately after starting the watcher goroutine.
// Returns an error if already running or if a plugin fails to initialize.
// The provided context is used for the lifetime of the watch.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}

	// Transition to starting
	if err := w.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	// Create cancellable context
	runCtx, cancel := context.WithCancel(ctx)
	w.ctx = runCtx
	w.cancel = cancel
	w.lifecycle.SetCancel(cancel)

	// Initialize plugins
	pluginCfg := PluginConfig{
		InputPath:  w.config.InputPath,
		OutputPath: w.config.OutputPath,
		IndexPath:  w.config.IndexPath,
		Logger:     w.logger,
		Recompress: w.runPass,
	}
	for _, p := range w.plugins {
		if err := p.Initialize(runCtx, pluginCfg); err != nil {
			w.logger.Error("plugin initialization failed",
				log.String("plugin", p.Name()),
				log.Err(err))
			cancel()
			_ = w.lifecycle.TransitionTo(app.StateCrashed, "plugin init failed: "+p.Name())
			return err
		}
		w.logger.Info("plugin initialized", log.String("plugin", p.Name()))
	}

	// Run the initial pass in a goroutine, then stay up for plugin
	// triggers until the context ends.
	w.lifecycle.AddWorker()
	go func() {
		defer w.lifecycle.WorkerDone()

		if err := w.runPass(runCtx); err != nil {
			// runPass only fails when the context ends; Stop() owns
			// the state transitions from here.
			return
		}

		if err := w.lifecycle.TransitionTo(app.StateRunning, "initial pass complete"); err != nil {
			w.logger.Error("failed to transition to running", log.Err(err))
			return
		}

		<-runCtx.Done()
	}()

	return nil
}

// runPass runs one compression pass, retrying with exponential backoff
// until it succeeds or ctx ends. Plugins receive this as their
// Recompress hook.
func (w *Watcher) runPass(ctx context.Context) error {
	w.backoff.Reset()
	for attempt := 1; ; attempt++ {
		summary, err := compressOnce(ctx, w.config, w.logger)
		if err == nil {
			w.emitter.passComplete(summary)
			return nil
		}

		w.logger.Error("compression pass failed",
			log.Int("attempt", attempt),
			log.Duration("retry_in", w.backoff.Current()),
			log.Err(err))
		w.emitter.passError(err, attempt)

		if waitErr := w.backoff.Wait(ctx); waitErr != nil {
			return err
		}
	}
}

// Stop gracefully shuts down the watcher.
// Waits up to 30 seconds before forcing shutdown.
// Returns nil on graceful shutdown, ErrShutdownTimeout if forced.
func (w *Watcher) Stop() error {
	w.mu.Lock()

	if !w.lifecycle.CanStop() {
		w.mu.Unlock()
		return domain.ErrNotRunning
	}

	// Transition to stopping
	if err := w.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
		w.mu.Unlock()
		return err
	}

	// Cancel the context
	if w.cancel != nil {
		w.cancel()
	}

	w.mu.Unlock()

	// Wait for workers with timeout
	err := w.lifecycle.WaitWithTimeout(app.ShutdownTimeout)

	// Shutdown plugins (in reverse order)
	shutdownCtx := context.Background()
	for i := len(w.plugins) - 1; i >= 0; i-- {
		p := w.plugins[i]
		if shutdownErr := p.Shutdown(shutdownCtx); shutdownErr != nil {
			w.logger.Error("plugin shutdown failed",
				log.String("plugin", p.Name()),
				log.Err(shutdownErr))
		} else {
			w.logger.Info("plugin shutdown complete", log.String("plugin", p.Name()))
		}
	}

	// Transition to stopped
	if err != nil {
		_ = w.lifecycle.TransitionTo(app.StateCrashed, "shutdown timeout")
	} else {
		_ = w.lifecycle.TransitionTo(app.StateStopped, "graceful shutdown")
	}

	return err
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (w *Watcher) Status() State {
	return convertState(w.lifecycle.State())
}

// eventEmitterWrapper adapts EventHandler to the internal emitter
// interface and the watcher's pass notifications.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: convertState(previous),
		Current:  convertState(current),
		Reason:   reason,
	})
}

func (e *eventEmitterWrapper) passComplete(summary CompressSummary) {
	if e.handler == nil {
		return
	}
	e.handler.OnPassComplete(PassCompleteEvent{Summary: summary})
}

func (e *eventEmitterWrapper) passError(err error, attempt int) {
	if e.handler == nil {
		return
	}
	e.handler.OnPassError(PassErrorEvent{Err: err, Attempt: attempt})
}

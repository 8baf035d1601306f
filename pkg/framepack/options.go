package framepack

import (
	"github.com/bft-labs/framepack/pkg/log"
)

// Option configures optional behavior of the framepack operations and
// the Watcher.
type Option func(*options)

// options holds the optional configuration shared by all entry points.
type options struct {
	logger       log.Logger
	eventHandler EventHandler
	plugins      []Plugin
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEventHandler sets a handler for watcher events.
// Events are called synchronously from the watcher goroutine.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithPlugin registers a plugin. Plugins are initialized on Start() in
// registration order and shut down on Stop() in reverse order. Only the
// Watcher runs plugins; one-shot operations ignore them.
func WithPlugin(p Plugin) Option {
	return func(o *options) {
		if p != nil {
			o.plugins = append(o.plugins, p)
		}
	}
}

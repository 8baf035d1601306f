package framepack

import (
	"context"

	"github.com/bft-labs/framepack/pkg/log"
)

// Plugin extends the Watcher with optional behavior. Plugins are
// initialized when the watcher starts and shut down when it stops.
type Plugin interface {
	// Name returns a short identifier used in logs.
	Name() string

	// Initialize prepares the plugin. The context is the watcher's run
	// context; it is cancelled when the watcher stops.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown releases the plugin's resources.
	Shutdown(ctx context.Context) error
}

// BasePlugin provides no-op Initialize and Shutdown implementations.
// Embed it to implement only the hooks you need; the embedding type
// still has to provide Name.
type BasePlugin struct{}

func (BasePlugin) Initialize(ctx context.Context, cfg PluginConfig) error { return nil }

func (BasePlugin) Shutdown(ctx context.Context) error { return nil }

// PluginConfig carries the watcher's effective configuration and hooks
// into plugins at initialization time.
type PluginConfig struct {
	// InputPath, OutputPath and IndexPath are the resolved paths of the
	// watched compression pass.
	InputPath  string
	OutputPath string
	IndexPath  string

	// Logger is the watcher's logger.
	Logger log.Logger

	// Recompress triggers a compression pass. It retries internally
	// with backoff until the pass succeeds or ctx is cancelled, so a
	// plugin only ever needs to call it once per trigger.
	Recompress func(ctx context.Context) error
}

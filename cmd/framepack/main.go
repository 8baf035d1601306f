package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/framepack/internal/cliconfig"
	"github.com/bft-labs/framepack/pkg/framepack"
	"github.com/bft-labs/framepack/pkg/log"
	"github.com/bft-labs/framepack/plugins/filewatcher"
)

const helpDescription = `
Compress line-oriented tables into indexed zstd archives and read them back in parallel.

Highlights:
  - Splits input on line boundaries so every frame decompresses to whole records.
  - Reads frames concurrently with a selectable aggregation strategy.
  - Verifies archives frame by frame against the saved index.
  - Configure via file, FRAMEPACK_* environment variables, or flags.
`

var longHelp = strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  framepack compress table.tsv
  framepack compress table.tsv --block-size 1MiB --level 9 --watch
  framepack decompress table.tsv.zst --workers 8 --strategy parallel-reduce
  framepack verify table.tsv.zst
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	var cfgPath string

	clog := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "framepack",
		Short:   "Indexed zstd compression for line-oriented tables",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.framepack/config.toml)")

	root.AddCommand(newCompressCmd(&cfgPath))
	root.AddCommand(newDecompressCmd(&cfgPath))
	root.AddCommand(newVerifyCmd(&cfgPath))

	if err := root.Execute(); err != nil {
		clog.Error().Err(err).Msg("framepack")
		os.Exit(1)
	}
}

// resolveConfig merges file, environment, and flag configuration in
// ascending precedence, then validates the result.
func resolveConfig(cmd *cobra.Command, args []string, cfgPath string, cfg *cliconfig.Config) error {
	cfg.InputPath = args[0]

	// Build set of changed flags
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	}

	// Environment overrides file config but loses to explicit flags
	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return err
	}

	return cfg.Validate()
}

func newLibraryLogger(cfg cliconfig.Config) (log.Logger, error) {
	return log.NewLogger(cfg.LogLevel, cfg.LogFormat)
}

func newCompressCmd(cfgPath *string) *cobra.Command {
	cfg := cliconfig.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "compress <input>",
		Short: "Compress a table into an indexed zstd archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveConfig(cmd, args, *cfgPath, &cfg); err != nil {
				return err
			}
			return runCompress(cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.OutputPath, "output", "", "output archive path (default: <input>.zst)")
	f.StringVar(&cfg.IndexPath, "index", "", "index file path (default: <output>.idx)")
	f.StringVar(&cfg.BlockSize, "block-size", cfg.BlockSize, "uncompressed block size per frame, e.g. 64KiB or 1MB")
	f.IntVar(&cfg.Level, "level", cfg.Level, "zstd compression level (1-19)")
	f.BoolVar(&cfg.Watch, "watch", cfg.Watch, "stay running and recompress when the input changes")
	f.DurationVar(&cfg.WatchDebounce, "watch-debounce", cfg.WatchDebounce, "quiet period before a watched recompression")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	f.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (console, json)")

	return cmd
}

func runCompress(cfg cliconfig.Config) error {
	logger, err := newLibraryLogger(cfg)
	if err != nil {
		return err
	}

	blockBytes, err := cfg.BlockBytes()
	if err != nil {
		return err
	}

	libCfg := framepack.CompressConfig{
		InputPath:  cfg.InputPath,
		OutputPath: cfg.OutputPath,
		IndexPath:  cfg.IndexPath,
		BlockSize:  blockBytes,
		Level:      cfg.Level,
	}

	if cfg.Watch {
		return runWatch(libCfg, cfg, logger)
	}

	summary, err := framepack.Compress(context.Background(), libCfg, framepack.WithLogger(logger))
	if err != nil {
		return err
	}

	fmt.Println("Success!")
	fmt.Printf("  Input file:  %s\n", summary.InputPath)
	fmt.Printf("  Output file: %s\n", summary.OutputPath)
	fmt.Printf("  Index file:  %s\n", summary.IndexPath)
	return nil
}

// runWatch runs the compression pass under the watcher until a signal
// arrives or the watcher crashes.
func runWatch(libCfg framepack.CompressConfig, cfg cliconfig.Config, logger log.Logger) error {
	w, err := framepack.NewWatcher(libCfg,
		framepack.WithLogger(logger),
		filewatcher.WithFileWatcher(filewatcher.Config{DebounceDelay: cfg.WatchDebounce}),
	)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	// Poll for termination so a crashed watcher does not hang the CLI.
	doneCh := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				status := w.Status()
				if status == framepack.StateStopped || status == framepack.StateCrashed {
					close(doneCh)
					return
				}
			}
		}
	}()

	select {
	case <-sigCh:
		logger.Info("received signal, stopping")
	case <-doneCh:
		if w.Status() == framepack.StateCrashed {
			logger.Error("watcher crashed")
		}
	}

	if err := w.Stop(); err != nil {
		return fmt.Errorf("stop watcher: %w", err)
	}
	return nil
}

func newDecompressCmd(cfgPath *string) *cobra.Command {
	cfg := cliconfig.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "decompress <input>",
		Short: "Decompress an archive and aggregate its records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveConfig(cmd, args, *cfgPath, &cfg); err != nil {
				return err
			}
			return runDecompress(cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.IndexPath, "index", "", "index file path (default: <input>.idx)")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of decompression workers")
	f.StringVar(&cfg.Strategy, "strategy", cfg.Strategy, "aggregation strategy (concurrent-map, local-then-combine, parallel-reduce)")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	f.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (console, json)")

	return cmd
}

func runDecompress(cfg cliconfig.Config) error {
	logger, err := newLibraryLogger(cfg)
	if err != nil {
		return err
	}

	strategy, err := cfg.ParsedStrategy()
	if err != nil {
		return err
	}

	_, summary, err := framepack.Decompress(context.Background(), framepack.DecompressConfig{
		InputPath: cfg.InputPath,
		IndexPath: cfg.IndexPath,
		Workers:   cfg.Workers,
		Strategy:  strategy,
	}, framepack.WithLogger(logger))
	if err != nil {
		return err
	}

	fmt.Println("Success!")
	fmt.Printf("  Input file:  %s\n", summary.InputPath)
	fmt.Printf("  Index file:  %s\n", summary.IndexPath)
	fmt.Printf("  Total records processed: %d\n", summary.Records)
	if summary.FramesFailed > 0 {
		fmt.Printf("  Frames skipped: %d of %d\n", summary.FramesFailed, summary.Frames)
	}
	return nil
}

func newVerifyCmd(cfgPath *string) *cobra.Command {
	cfg := cliconfig.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "verify <input>",
		Short: "Check an archive against its index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveConfig(cmd, args, *cfgPath, &cfg); err != nil {
				return err
			}
			return runVerify(cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.IndexPath, "index", "", "index file path (default: <input>.idx)")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	f.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (console, json)")

	return cmd
}

func runVerify(cfg cliconfig.Config) error {
	logger, err := newLibraryLogger(cfg)
	if err != nil {
		return err
	}

	summary, err := framepack.Verify(context.Background(), framepack.VerifyConfig{
		InputPath: cfg.InputPath,
		IndexPath: cfg.IndexPath,
	}, framepack.WithLogger(logger))
	if err != nil {
		return err
	}

	fmt.Println("Success!")
	fmt.Printf("  Input file:  %s\n", summary.InputPath)
	fmt.Printf("  Index file:  %s\n", summary.IndexPath)
	fmt.Printf("  Frames:      %d\n", summary.Frames)
	fmt.Printf("  Records:     %d\n", summary.Records)
	return nil
}

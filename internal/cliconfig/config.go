package cliconfig

import (
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/alecthomas/units"

	"github.com/bft-labs/framepack/pkg/aggregate"
	"github.com/bft-labs/framepack/pkg/frameio"
)

// Config holds CLI configuration for framepack.
type Config struct {
	InputPath  string
	OutputPath string
	IndexPath  string

	// BlockSize is the human-readable block size, e.g. "64KiB" or "1MB".
	// Plain byte counts such as "65536" are accepted too.
	BlockSize string
	Level     int

	Workers  int
	Strategy string

	Watch         bool
	WatchDebounce time.Duration

	LogLevel  string
	LogFormat string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		BlockSize:     units.Base2Bytes(frameio.DefaultBlockSize).String(),
		Level:         frameio.DefaultCompressionLevel,
		Workers:       runtime.NumCPU(),
		Strategy:      aggregate.ConcurrentMap.String(),
		WatchDebounce: 500 * time.Millisecond,
		LogLevel:      "info",
		LogFormat:     "console",
	}
}

// BlockBytes parses the human-readable block size into a byte count.
func (c *Config) BlockBytes() (int, error) {
	if n, err := strconv.ParseInt(c.BlockSize, 10, 64); err == nil {
		return int(n), nil
	}
	n, err := units.ParseStrictBytes(c.BlockSize)
	if err != nil {
		return 0, fmt.Errorf("invalid block size %q: %w", c.BlockSize, err)
	}
	return int(n), nil
}

// ParsedStrategy parses the strategy selector.
func (c *Config) ParsedStrategy() (aggregate.Strategy, error) {
	return aggregate.ParseStrategy(c.Strategy)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("input path is required")
	}

	n, err := c.BlockBytes()
	if err != nil {
		return err
	}
	if n <= 0 {
		return fmt.Errorf("block size must be positive, got %q", c.BlockSize)
	}

	if c.Level < 1 || c.Level > 19 {
		return fmt.Errorf("compression level must be between 1 and 19, got %d", c.Level)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if _, err := c.ParsedStrategy(); err != nil {
		return err
	}
	if c.WatchDebounce <= 0 {
		return fmt.Errorf("watch debounce must be positive")
	}

	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}

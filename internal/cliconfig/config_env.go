package cliconfig

import "os"

// ApplyEnvConfig applies FRAMEPACK_* environment variables to the Config.
// Values override file config but lose to explicitly set flags, which the
// caller reports through the changed map.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("output", os.Getenv("FRAMEPACK_OUTPUT"), &cfg.OutputPath)
	s.setString("index", os.Getenv("FRAMEPACK_INDEX"), &cfg.IndexPath)
	s.setString("block-size", os.Getenv("FRAMEPACK_BLOCK_SIZE"), &cfg.BlockSize)
	s.setString("strategy", os.Getenv("FRAMEPACK_STRATEGY"), &cfg.Strategy)
	s.setString("log-level", os.Getenv("FRAMEPACK_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("log-format", os.Getenv("FRAMEPACK_LOG_FORMAT"), &cfg.LogFormat)

	if err := s.setIntFromString("level", os.Getenv("FRAMEPACK_LEVEL"), &cfg.Level); err != nil {
		return err
	}
	if err := s.setIntFromString("workers", os.Getenv("FRAMEPACK_WORKERS"), &cfg.Workers); err != nil {
		return err
	}
	if err := s.setDuration("watch-debounce", os.Getenv("FRAMEPACK_WATCH_DEBOUNCE"), &cfg.WatchDebounce); err != nil {
		return err
	}

	s.setBoolFromString("watch", os.Getenv("FRAMEPACK_WATCH"), &cfg.Watch)

	return nil
}

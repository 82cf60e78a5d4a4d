package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config drives the demo bridge.
type Config struct {
	// Ticks is how many tick events to ship before exiting. Zero means
	// the default run length.
	Ticks int64 `toml:"ticks"`

	// TickIntervalMS is the pulse gap in milliseconds.
	TickIntervalMS int `toml:"tick_interval_ms"`

	// LogDir, when set, adds a JSON file sink next to the console sink.
	LogDir string `toml:"log_dir"`
}

func defaultConfig() Config {
	return Config{
		Ticks:          100,
		TickIntervalMS: 50, // the conventional 20 pulses per second
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.Ticks <= 0 || cfg.TickIntervalMS <= 0 {
		return Config{}, fmt.Errorf("config %s: ticks and tick_interval_ms must be positive", path)
	}
	return cfg, nil
}

// Package config reads runtime tunables from the environment, the same
// spirit as the teacher's ad hoc memlimit.go but generalized into one
// struct, using github.com/kelseyhightower/envconfig.
package config

import (
	"log/slog"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every environment-tunable knob this module exposes. Prefix
// ARCHIVEFS_, e.g. ARCHIVEFS_CHECKPOINT_BLOCKS=512.
type Config struct {
	// CheckpointBlocks is how many 32KiB decompressed blocks each open
	// DEFLATE file may cache for backward-seek reuse. Zero disables it.
	CheckpointBlocks int `envconfig:"checkpoint_blocks" default:"256"`

	// IndexCacheDir, if set, turns on the persistent central-directory
	// index cache, rooted at this directory. Empty disables it.
	IndexCacheDir string `envconfig:"index_cache_dir" default:""`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `envconfig:"log_level" default:"info"`
}

// Load reads Config from the environment, falling back to documented
// defaults for anything unset.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("archivefs", &c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// SlogLevel parses LogLevel into a slog.Level, defaulting to Info on an
// unrecognized value rather than failing startup over a typo.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

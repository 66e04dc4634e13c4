package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	DefaultSource   string   `koanf:"default_source"`   // music source id, e.g. "tx"
	FallbackSources []string `koanf:"fallback_sources"` // tried in order when the default has no url

	// Catalog service settings
	Catalog CatalogConfig `koanf:"catalog"`

	// Playback settings
	Playback PlaybackConfig `koanf:"playback"`

	// Persistence settings
	Storage StorageConfig `koanf:"storage"`
}

// CatalogConfig holds catalog service configuration.
type CatalogConfig struct {
	URL            string `koanf:"url"`             // e.g., "http://localhost:8111"
	TimeoutSeconds int    `koanf:"timeout_seconds"` // HTTP timeout (default: 15)
}

// PlaybackConfig holds playback behaviour configuration.
type PlaybackConfig struct {
	Quality           string `koanf:"quality"`              // "auto", "high", "balanced", "compat" (default: "auto")
	AutoSkip          *bool  `koanf:"auto_skip"`            // skip to next track on failure (default: true)
	AutoSkipDelaySecs int    `koanf:"auto_skip_delay_secs"` // delay before skipping (1-30, default: 3)
}

// StorageConfig holds local persistence configuration.
type StorageConfig struct {
	Path           string `koanf:"path"`             // database path, empty means XDG data dir
	SaveDebounceMs int    `koanf:"save_debounce_ms"` // debounce for settings writes (default: 500)
	DisablePersist bool   `koanf:"disable_persist"`  // skip all state writes
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	configPaths := getConfigPaths()

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	// Expand ~ in the database path
	if cfg.Storage.Path != "" {
		cfg.Storage.Path = expandPath(cfg.Storage.Path)
	}

	// Normalize catalog URL (remove trailing slash)
	cfg.Catalog.URL = strings.TrimSuffix(cfg.Catalog.URL, "/")

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.DefaultSource == "" {
		cfg.DefaultSource = "tx"
	}
	if cfg.Catalog.URL == "" {
		cfg.Catalog.URL = "http://localhost:8111"
	}
	if cfg.Catalog.TimeoutSeconds <= 0 {
		cfg.Catalog.TimeoutSeconds = 15
	}
	if cfg.Playback.Quality == "" {
		cfg.Playback.Quality = "auto"
	}
	if cfg.Playback.AutoSkipDelaySecs <= 0 || cfg.Playback.AutoSkipDelaySecs > 30 {
		cfg.Playback.AutoSkipDelaySecs = 3
	}
	if cfg.Storage.SaveDebounceMs <= 0 {
		cfg.Storage.SaveDebounceMs = 500
	}
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/chorus/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "chorus", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// AutoSkipEnabled reports whether failed tracks should be skipped
// automatically. Defaults to true when unset.
func (c *Config) AutoSkipEnabled() bool {
	if c.Playback.AutoSkip == nil {
		return true
	}
	return *c.Playback.AutoSkip
}

// AutoSkipDelay returns the delay before a failed track is skipped.
func (c *Config) AutoSkipDelay() time.Duration {
	return time.Duration(c.Playback.AutoSkipDelaySecs) * time.Second
}

// CatalogTimeout returns the HTTP timeout for catalog requests.
func (c *Config) CatalogTimeout() time.Duration {
	return time.Duration(c.Catalog.TimeoutSeconds) * time.Second
}

// SaveDebounce returns the debounce interval for settings writes.
func (c *Config) SaveDebounce() time.Duration {
	return time.Duration(c.Storage.SaveDebounceMs) * time.Millisecond
}

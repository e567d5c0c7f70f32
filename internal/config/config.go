package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/xess-engine/xsc/internal/cache"
	"github.com/xess-engine/xsc/internal/shader"
)

// Default configuration values
const (
	DefaultCacheDir       = cache.DefaultDir
	DefaultModel          = "6.4"
	DefaultEntryPoint     = "main"
	DefaultMaxEntries     = 1000
	DefaultMaxMemoryMB    = 256
	DefaultReloadInterval = 1000
)

// Holds the configuration options for xsc
type Config struct {
	// Directory for the persistent shader cache
	CacheDir string

	// Target shading-language version (e.g. "6.4")
	Model string
	// Parsed target model
	TargetModel shader.Model

	// Entry point compiled when none is given on the command line
	EntryPoint string

	// In-memory artifact cache bounds
	MaxEntries  int
	MaxMemoryMB int

	// Polling interval for the watch command, in milliseconds
	ReloadIntervalMs int

	// Disable both cache tiers
	NoCache bool

	// Force the legacy backend
	Legacy bool

	// Enable verbose output
	Verbose bool
}

func Load() (*Config, error) {
	cfg := &Config{
		CacheDir:         viper.GetString("cache_dir"),
		Model:            viper.GetString("model"),
		EntryPoint:       viper.GetString("entry"),
		MaxEntries:       viper.GetInt("max_entries"),
		MaxMemoryMB:      viper.GetInt("max_memory_mb"),
		ReloadIntervalMs: viper.GetInt("reload_interval_ms"),
		NoCache:          viper.GetBool("no_cache"),
		Legacy:           viper.GetBool("legacy"),
		Verbose:          viper.GetBool("verbose"),
	}

	// Apply defaults if not set
	if cfg.CacheDir == "" {
		cfg.CacheDir = DefaultCacheDir
	}

	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	if cfg.EntryPoint == "" {
		cfg.EntryPoint = DefaultEntryPoint
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if abs, err := filepath.Abs(c.CacheDir); err == nil {
		c.CacheDir = abs
	}

	// Validate target model
	if !isValidModel(c.Model) {
		return fmt.Errorf("invalid target model: %s", c.Model)
	}
	c.TargetModel = shader.ParseModel(c.Model)

	if c.MaxEntries < 0 {
		return fmt.Errorf("max_entries must not be negative")
	}

	if c.MaxMemoryMB < 0 {
		return fmt.Errorf("max_memory_mb must not be negative")
	}

	if c.MaxEntries == 0 {
		c.MaxEntries = DefaultMaxEntries
	}

	if c.MaxMemoryMB == 0 {
		c.MaxMemoryMB = DefaultMaxMemoryMB
	}

	if c.ReloadIntervalMs <= 0 {
		c.ReloadIntervalMs = DefaultReloadInterval
	}

	return nil
}

func isValidModel(model string) bool {
	// ParseModel falls back to SM5_0 for unknown strings, so round-trip
	// through String to detect inputs it did not actually recognize.
	parsed := shader.ParseModel(model)
	return parsed.String() == model || parsed.ProfileSuffix() == model
}

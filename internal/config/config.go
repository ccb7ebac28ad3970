// Package config loads the server configuration from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/sudotsu/paint-my-room-server/internal/imaging"
	"github.com/sudotsu/paint-my-room-server/internal/palette"
	"github.com/sudotsu/paint-my-room-server/internal/recolor"
)

// Environment variables that override file settings.
const (
	EnvLogLevel     = "PAINT_MCP_LOG_LEVEL"
	EnvMaxDimension = "PAINT_MCP_MAX_DIMENSION"
	EnvOutputFormat = "PAINT_MCP_OUTPUT_FORMAT"
)

// Config holds all server configuration.
type Config struct {
	Recolor RecolorConfig `yaml:"recolor"`
	Limits  LimitsConfig  `yaml:"limits"`
	Output  OutputConfig  `yaml:"output"`
	Palette PaletteConfig `yaml:"palette"`
	Logging LoggingConfig `yaml:"logging"`
}

// RecolorConfig holds the engine defaults used when a request leaves them out.
type RecolorConfig struct {
	Strength      float64 `yaml:"strength"`
	FeatherRadius float64 `yaml:"feather_radius"`
	GradedMask    bool    `yaml:"graded_mask"`
}

// LimitsConfig bounds request sizes.
type LimitsConfig struct {
	// MaxDimension is the longest side a photo may have; larger photos are
	// downscaled before recoloring. 0 disables the bound.
	MaxDimension int `yaml:"max_dimension"`

	// MaxRequestBytes caps one JSON-RPC line on stdin.
	MaxRequestBytes int `yaml:"max_request_bytes"`

	// CacheEntries is how many decoded file sources are kept in memory.
	// 0 means no limit.
	CacheEntries int `yaml:"cache_entries"`
}

// OutputConfig selects the preview encoding.
type OutputConfig struct {
	Format  string `yaml:"format"`  // jpeg or png
	Quality int    `yaml:"quality"` // jpeg only, 1-100
}

// PaletteConfig holds the colors used when a request names none.
type PaletteConfig struct {
	DefaultTrim  string `yaml:"default_trim"`
	DefaultBrand string `yaml:"default_brand"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Recolor: RecolorConfig{
			Strength:      recolor.DefaultStrength,
			FeatherRadius: recolor.DefaultFeatherRadius,
		},
		Limits: LimitsConfig{
			MaxDimension:    4096,
			MaxRequestBytes: 32 << 20,
			CacheEntries:    32,
		},
		Output: OutputConfig{
			Format:  imaging.FormatJPEG,
			Quality: 92,
		},
		Palette: PaletteConfig{
			DefaultTrim:  "#1E1E1E",
			DefaultBrand: "SW",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML file on top of the defaults. A missing
// file yields the defaults. Environment overrides are applied last and the
// result is validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvMaxDimension); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxDimension, err)
		}
		c.Limits.MaxDimension = n
	}
	if v := os.Getenv(EnvOutputFormat); v != "" {
		c.Output.Format = v
	}
	return nil
}

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	if err := c.RecolorOptions().Validate(); err != nil {
		return fmt.Errorf("recolor: %w", err)
	}
	if c.Limits.MaxDimension < 0 {
		return fmt.Errorf("limits.max_dimension must be >= 0, got %d", c.Limits.MaxDimension)
	}
	if c.Limits.CacheEntries < 0 {
		return fmt.Errorf("limits.cache_entries must be >= 0, got %d", c.Limits.CacheEntries)
	}
	if c.Limits.MaxRequestBytes < 4096 {
		return fmt.Errorf("limits.max_request_bytes must be at least 4096, got %d", c.Limits.MaxRequestBytes)
	}

	format, err := imaging.NormalizeFormat(c.Output.Format)
	if err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	c.Output.Format = format
	if format == imaging.FormatJPEG && (c.Output.Quality < 1 || c.Output.Quality > 100) {
		return fmt.Errorf("output.quality must be between 1 and 100, got %d", c.Output.Quality)
	}

	if _, err := palette.ParseHex(c.Palette.DefaultTrim); err != nil {
		return fmt.Errorf("palette.default_trim: %w", err)
	}
	c.Palette.DefaultBrand = strings.TrimSpace(c.Palette.DefaultBrand)

	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// RecolorOptions converts the recolor section to engine options.
func (c *Config) RecolorOptions() recolor.Options {
	return recolor.Options{
		Strength:      c.Recolor.Strength,
		FeatherRadius: c.Recolor.FeatherRadius,
		Graded:        c.Recolor.GradedMask,
	}
}

// LogLevel parses Logging.Level.
func (c *Config) LogLevel() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(c.Logging.Level)))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("logging.level: %w", err)
	}
	return lvl, nil
}

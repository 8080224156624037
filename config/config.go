// Package config loads tool configuration and replay scenarios from YAML.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/memkit/memkit/sysalloc"
	"github.com/memkit/memkit/track"
)

// Config is the top-level tool configuration.
type Config struct {
	Tracker TrackerConfig `yaml:"tracker"`
	Report  ReportConfig  `yaml:"report"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// TrackerConfig selects tracker construction parameters.
type TrackerConfig struct {
	// Buckets is the hash table size; 0 picks the built-in default and any
	// other value must be a power of two.
	Buckets int `yaml:"buckets"`

	// MaxRecords bounds live records; 0 means unbounded.
	MaxRecords int `yaml:"max_records"`

	// Allocator names the backing allocator: auto, heap or mmap.
	Allocator string `yaml:"allocator"`
}

// ReportConfig controls report rendering.
type ReportConfig struct {
	// BufferSize is the report buffer capacity in bytes. Output is
	// truncated to BufferSize-1 content bytes.
	BufferSize int `yaml:"buffer_size"`

	// Out appends reports to a file instead of stdout when set.
	Out string `yaml:"out"`
}

// LoggingConfig controls the diagnostic logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// MetricsConfig controls the Prometheus endpoint of long-running commands.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
	Path    string `yaml:"path"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Tracker: TrackerConfig{
			Buckets:   track.DefaultBuckets,
			Allocator: "auto",
		},
		Report: ReportConfig{
			BufferSize: 8192,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Listen: ":9584",
			Path:   "/metrics",
		},
	}
}

// Load reads and validates a configuration file. Fields absent from the
// file keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field against its domain.
func (c *Config) Validate() error {
	if b := c.Tracker.Buckets; b < 0 || b&(b-1) != 0 {
		return fmt.Errorf("tracker.buckets: %d is not a power of two", b)
	}
	if c.Tracker.MaxRecords < 0 {
		return fmt.Errorf("tracker.max_records: %d is negative", c.Tracker.MaxRecords)
	}
	if _, err := sysalloc.ForName(c.Tracker.Allocator); err != nil {
		return fmt.Errorf("tracker.allocator: %w", err)
	}
	if c.Report.BufferSize < 2 {
		return fmt.Errorf("report.buffer_size: %d leaves no room for content", c.Report.BufferSize)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format: unknown format %q", c.Logging.Format)
	}
	if c.Metrics.Enabled {
		if c.Metrics.Listen == "" {
			return fmt.Errorf("metrics.listen: required when metrics are enabled")
		}
		if !strings.HasPrefix(c.Metrics.Path, "/") {
			return fmt.Errorf("metrics.path: %q must start with /", c.Metrics.Path)
		}
	}
	return nil
}

// TrackerOptions builds track.Options from the configuration. The logger
// may be nil to discard diagnostics.
func (c *Config) TrackerOptions(logger *slog.Logger) (track.Options, error) {
	alloc, err := sysalloc.ForName(c.Tracker.Allocator)
	if err != nil {
		return track.Options{}, fmt.Errorf("config: tracker.allocator: %w", err)
	}
	return track.Options{
		Buckets:    c.Tracker.Buckets,
		MaxRecords: c.Tracker.MaxRecords,
		Allocator:  alloc,
		Logger:     logger,
	}, nil
}

// Logger builds a slog.Logger writing to w per the logging configuration.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(c.Logging.Format) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

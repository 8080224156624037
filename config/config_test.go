package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memkit/memkit/track"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, track.DefaultBuckets, cfg.Tracker.Buckets)
	assert.Equal(t, "auto", cfg.Tracker.Allocator)
	assert.Equal(t, 8192, cfg.Report.BufferSize)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, "memkit.yaml", `
tracker:
  buckets: 512
  max_records: 1000
  allocator: heap
report:
  buffer_size: 4096
  out: /tmp/report.txt
logging:
  level: debug
  format: json
metrics:
  enabled: true
  listen: ":9200"
  path: /metrics
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 512, cfg.Tracker.Buckets)
	assert.Equal(t, 1000, cfg.Tracker.MaxRecords)
	assert.Equal(t, "heap", cfg.Tracker.Allocator)
	assert.Equal(t, 4096, cfg.Report.BufferSize)
	assert.Equal(t, "/tmp/report.txt", cfg.Report.Out)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadKeepsDefaultsForOmittedFields(t *testing.T) {
	path := writeFile(t, "partial.yaml", `
tracker:
  buckets: 64
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.Tracker.Buckets)
	assert.Equal(t, 8192, cfg.Report.BufferSize, "omitted sections keep defaults")
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read")
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeFile(t, "bad.yaml", "tracker: [not a map")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse")
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"bad buckets", func(c *Config) { c.Tracker.Buckets = 100 }, "power of two"},
		{"negative buckets", func(c *Config) { c.Tracker.Buckets = -8 }, "power of two"},
		{"negative records", func(c *Config) { c.Tracker.MaxRecords = -1 }, "max_records"},
		{"unknown allocator", func(c *Config) { c.Tracker.Allocator = "slab" }, "unknown allocator"},
		{"tiny buffer", func(c *Config) { c.Report.BufferSize = 1 }, "buffer_size"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "unknown level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "unknown format"},
		{"metrics without listen", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Listen = "" }, "metrics.listen"},
		{"bad metrics path", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Path = "metrics" }, "metrics.path"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantSub)
		})
	}
}

func TestTrackerOptions(t *testing.T) {
	cfg := Default()
	cfg.Tracker.Buckets = 128
	cfg.Tracker.MaxRecords = 10
	cfg.Tracker.Allocator = "heap"

	logger := slog.Default()
	opts, err := cfg.TrackerOptions(logger)
	require.NoError(t, err)
	assert.Equal(t, 128, opts.Buckets)
	assert.Equal(t, 10, opts.MaxRecords)
	assert.NotNil(t, opts.Allocator)
	assert.Same(t, logger, opts.Logger)

	tr, err := track.New(opts)
	require.NoError(t, err)
	defer tr.Close()
	assert.Equal(t, 128, tr.Buckets())
}

func TestLoggerRespectsLevelAndFormat(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "warn"

	var out bytes.Buffer
	logger := cfg.Logger(&out)
	logger.Info("hidden")
	logger.Warn("visible")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "visible")

	cfg.Logging.Format = "json"
	out.Reset()
	cfg.Logger(&out).Error("boom")
	assert.Contains(t, out.String(), `"msg":"boom"`)
}

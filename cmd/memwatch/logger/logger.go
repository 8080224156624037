// Package logger provides file-backed debug logging for the dashboard.
// The TUI owns the terminal, so diagnostics go to a daily log file
// instead of stderr.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// L is the global logger instance. It discards all output until Init
// enables file logging.
var L *slog.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

const (
	logPrefix        = "memwatch-"
	logSuffix        = ".log"
	defaultRetention = 30
)

// Options configures the logger initialization.
type Options struct {
	Enabled   bool       // If false, all logging is discarded
	Dir       string     // Directory for log files. Default: ~/.memwatch/logs
	Level     slog.Level // Minimum log level. Default: LevelInfo when enabled
	Retention int        // Days to keep old log files. Default: 30
}

// Init configures logging and returns the path of the active log file,
// or an empty string when logging is disabled. Call from main() before
// any log calls.
func Init(opts Options) (string, error) {
	if !opts.Enabled {
		L = slog.New(slog.NewTextHandler(io.Discard, nil))
		return "", nil
	}

	dir := opts.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".memwatch", "logs")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	retention := opts.Retention
	if retention <= 0 {
		retention = defaultRetention
	}

	// Clean up old logs (best-effort, ignore errors)
	cleanOldLogs(dir, retention)

	path := filepath.Join(dir, logPrefix+time.Now().Format("2006-01-02")+logSuffix)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return "", err
	}

	level := opts.Level
	if level == 0 {
		level = slog.LevelInfo
	}

	L = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	return path, nil
}

// cleanOldLogs removes log files older than the retention window. The
// file date comes from the name, e.g. memwatch-2024-01-05.log.
func cleanOldLogs(dir string, retention int) {
	cutoff := time.Now().AddDate(0, 0, -retention)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, logPrefix) || !strings.HasSuffix(name, logSuffix) {
			continue
		}

		dateStr := strings.TrimPrefix(strings.TrimSuffix(name, logSuffix), logPrefix)
		logDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}

		if logDate.Before(cutoff) {
			os.Remove(filepath.Join(dir, name))
		}
	}
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { L.Error(msg, args...) }

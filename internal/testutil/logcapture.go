// Package testutil provides shared helpers for memkit tests.
package testutil

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
)

// LogCapture buffers structured log output so tests can assert on emitted
// diagnostics. It is safe for concurrent writers; trackers log from
// whichever goroutine holds their lock.
type LogCapture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewLogCapture returns a debug-level text logger and the capture buffer
// its records land in.
//
// Example:
//
//	logger, logs := testutil.NewLogCapture()
//	tr, _ := track.New(track.Options{Logger: logger})
//	...
//	require.True(t, logs.Contains("free of untracked pointer"))
func NewLogCapture() (*slog.Logger, *LogCapture) {
	c := &LogCapture{}
	handler := slog.NewTextHandler(c, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler), c
}

// Write implements io.Writer for the slog handler.
func (c *LogCapture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

// String returns everything logged so far.
func (c *LogCapture) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

// Contains reports whether the captured output includes sub.
func (c *LogCapture) Contains(sub string) bool {
	return strings.Contains(c.String(), sub)
}

// Lines returns the captured output split into log lines.
func (c *LogCapture) Lines() []string {
	s := strings.TrimRight(c.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Reset discards everything captured so far.
func (c *LogCapture) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buf.Reset()
}

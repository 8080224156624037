package track

import (
	"log/slog"

	"github.com/memkit/memkit/sysalloc"
)

// Options controls tracker construction.
type Options struct {
	// Buckets is the hash table size. Must be a power of two.
	// Default: DefaultBuckets (2048)
	Buckets int

	// MaxRecords bounds the number of live records the tracker will hold.
	// When the budget is exhausted, further allocations succeed but go
	// untracked (logged as errors). 0 means unbounded.
	// Default: 0
	MaxRecords int

	// Allocator provides the underlying memory. nil selects the platform
	// default (sysalloc.New).
	Allocator sysalloc.Allocator

	// Logger receives diagnostics: allocation failures at Error, tracking
	// misses and leak summaries at Warn. nil discards everything.
	Logger *slog.Logger
}

// DefaultOptions returns sensible defaults for tracking: 2048 buckets,
// unbounded records, the platform allocator, and no logging.
func DefaultOptions() Options {
	return Options{
		Buckets:    DefaultBuckets,
		MaxRecords: 0,
		Allocator:  nil,
		Logger:     nil,
	}
}

package track

import "errors"

var (
	// ErrBadBuckets indicates a bucket count that is not a power of two.
	ErrBadBuckets = errors.New("track: bucket count must be a power of two")

	// ErrClosed indicates an allocation attempt on a closed tracker.
	ErrClosed = errors.New("track: tracker is closed")

	// ErrSizeOverflow indicates a count*elementSize product that overflows int.
	ErrSizeOverflow = errors.New("track: allocation size overflows")
)

package sysalloc

import "unsafe"

// Allocator hands out raw byte blocks.
//
// Implementations:
//   - Heap: Go-heap blocks, Free is a GC no-op
//   - Mmap: one anonymous mapping per block (linux, darwin)
//   - Limited: byte-budget wrapper around any inner allocator
type Allocator interface {
	// Allocate returns a new block of exactly size bytes.
	// size <= 0 fails with ErrInvalidSize.
	Allocate(size int) ([]byte, error)

	// AllocateZeroed returns a new zero-filled block of exactly size bytes.
	AllocateZeroed(size int) ([]byte, error)

	// Reallocate resizes buf to size bytes, preserving the common prefix.
	// The returned block may have a different address. A nil buf acts as
	// Allocate; size 0 frees buf and returns a nil slice.
	Reallocate(buf []byte, size int) ([]byte, error)

	// Free returns buf to the system. A nil buf is a no-op.
	Free(buf []byte) error
}

// Base returns the address identity of a block, or 0 for an empty slice.
// Trackers use this value as the registry key.
func Base(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

// Package sysalloc provides the raw memory allocators that back a tracker.
//
// # Overview
//
// The tracking layer records WHO allocated; this package decides WHERE the
// bytes come from. All allocators hand out plain byte slices and share one
// contract, so a tracker (or any other consumer) can swap strategies without
// code changes.
//
// # Allocator Interface
//
// The core abstraction is the Allocator interface:
//
//   - Allocate(size): a new block of exactly size bytes
//   - AllocateZeroed(size): same, guaranteed zero-filled
//   - Reallocate(buf, size): grow or shrink a block, possibly moving it
//   - Free(buf): return a block to the system
//
// # Implementations
//
// Heap: pure-Go allocator backed by make([]byte). Free is a no-op because
// the garbage collector reclaims the block once unreferenced. Works on every
// platform and is the default where mmap is unavailable.
//
// Mmap (linux, darwin): one anonymous private mapping per block. Blocks have
// stable addresses outside the Go heap and are returned to the kernel
// eagerly on Free. The allocator keeps a registry of live mappings so it can
// detect foreign buffers and recover the original mapping length.
//
// Limited: a wrapper that enforces a byte budget on any inner allocator and
// fails with ErrBudget once outstanding bytes would exceed it. Useful for
// exercising allocation-failure paths deterministically.
//
// # Usage Example
//
//	a := sysalloc.New() // Mmap on unix, Heap elsewhere
//	buf, err := a.Allocate(1 << 20)
//	if err != nil {
//	    return err
//	}
//	defer a.Free(buf)
//
// # Size Discipline
//
// Sizes are always positive: Allocate and AllocateZeroed reject size <= 0
// with ErrInvalidSize. Reallocate(buf, 0) frees the block and returns a nil
// slice; Reallocate(nil, n) behaves as Allocate(n). Both follow the C
// realloc conventions the tracking layer leans on.
//
// # Thread Safety
//
// Heap is stateless and safe for concurrent use. Mmap and Limited guard
// their registries with an internal mutex and are safe for concurrent use.
package sysalloc

//go:build cgo

// Package cmalloc backs the tracking layer with the C heap. Blocks come
// straight from malloc, live outside the Go heap, and are interchangeable
// with memory owned by C code. The garbage collector never reclaims them:
// every block must come back through Free or it leaks for real.
package cmalloc

/*
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/memkit/memkit/sysalloc"
)

// Allocator hands out C-heap blocks. The registry of live blocks keys on
// block address so Reallocate and Free can validate ownership the same way
// the mmap allocator does.
type Allocator struct {
	mu   sync.Mutex
	live map[uintptr]int
}

// New returns a C-heap allocator.
func New() *Allocator {
	return &Allocator{live: make(map[uintptr]int)}
}

// Allocate obtains size bytes from malloc. The block is not zeroed.
// cgo's C.malloc aborts the process on exhaustion instead of returning
// NULL, so there is no failure path here beyond the size check.
func (a *Allocator) Allocate(size int) ([]byte, error) {
	if size <= 0 {
		return nil, sysalloc.ErrInvalidSize
	}
	p := C.malloc(C.size_t(size))
	return a.adopt(p, size), nil
}

// AllocateZeroed obtains size zero-filled bytes from calloc.
func (a *Allocator) AllocateZeroed(size int) ([]byte, error) {
	if size <= 0 {
		return nil, sysalloc.ErrInvalidSize
	}
	p := C.calloc(1, C.size_t(size))
	if p == nil {
		return nil, fmt.Errorf("cmalloc: calloc %d bytes failed", size)
	}
	return a.adopt(p, size), nil
}

// Reallocate resizes the block through realloc. The common prefix is
// preserved and the block may move; the registry follows it.
func (a *Allocator) Reallocate(buf []byte, size int) ([]byte, error) {
	if buf == nil {
		return a.Allocate(size)
	}
	if size == 0 {
		return nil, a.Free(buf)
	}
	if size < 0 {
		return nil, sysalloc.ErrInvalidSize
	}

	addr := sysalloc.Base(buf)
	a.mu.Lock()
	_, ok := a.live[addr]
	a.mu.Unlock()
	if !ok {
		return nil, sysalloc.ErrForeign
	}

	p := C.realloc(unsafe.Pointer(&buf[0]), C.size_t(size))
	if p == nil {
		// realloc failure leaves the original block intact and live.
		return nil, fmt.Errorf("cmalloc: realloc to %d bytes failed", size)
	}

	a.mu.Lock()
	delete(a.live, addr)
	a.live[uintptr(p)] = size
	a.mu.Unlock()

	return unsafe.Slice((*byte)(p), size), nil
}

// Free returns the block to the C heap. A nil buf is a no-op; a buf this
// allocator did not produce fails with ErrForeign and is left alone.
func (a *Allocator) Free(buf []byte) error {
	if buf == nil {
		return nil
	}

	addr := sysalloc.Base(buf)
	a.mu.Lock()
	_, ok := a.live[addr]
	if ok {
		delete(a.live, addr)
	}
	a.mu.Unlock()
	if !ok {
		return sysalloc.ErrForeign
	}

	C.free(unsafe.Pointer(&buf[0]))
	return nil
}

// Live reports the number of C blocks not yet freed.
func (a *Allocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}

func (a *Allocator) adopt(p unsafe.Pointer, size int) []byte {
	a.mu.Lock()
	a.live[uintptr(p)] = size
	a.mu.Unlock()
	return unsafe.Slice((*byte)(p), size)
}

// Ensure interface satisfaction
var _ sysalloc.Allocator = (*Allocator)(nil)

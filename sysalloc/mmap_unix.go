//go:build linux || darwin

package sysalloc

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// Mmap allocates one anonymous private mapping per block. Addresses are
// stable, live outside the Go heap, and return to the kernel on Free. The
// registry of live mappings keys on block address so Free and Reallocate can
// recover the full original mapping even if the caller re-sliced the block.
type Mmap struct {
	mu   sync.Mutex
	live map[uintptr][]byte
}

// NewMmap returns an mmap-backed allocator.
func NewMmap() *Mmap {
	return &Mmap{live: make(map[uintptr][]byte)}
}

// New returns the preferred allocator for this platform: mmap-backed blocks.
func New() Allocator { return NewMmap() }

// ForName maps a configuration name to an allocator. Known names are
// "auto", "heap" and "mmap".
func ForName(name string) (Allocator, error) {
	switch name {
	case "", "auto":
		return New(), nil
	case "heap":
		return NewHeap(), nil
	case "mmap":
		return NewMmap(), nil
	default:
		return nil, fmt.Errorf("sysalloc: unknown allocator %q", name)
	}
}

func (m *Mmap) Allocate(size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	b, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON,
	)
	if err != nil {
		return nil, fmt.Errorf("sysalloc: mmap %d bytes: %w", size, err)
	}
	m.mu.Lock()
	m.live[Base(b)] = b
	m.mu.Unlock()
	return b, nil
}

// AllocateZeroed is identical to Allocate: anonymous pages are zero-filled
// by the kernel.
func (m *Mmap) AllocateZeroed(size int) ([]byte, error) {
	return m.Allocate(size)
}

func (m *Mmap) Reallocate(buf []byte, size int) ([]byte, error) {
	if buf == nil {
		return m.Allocate(size)
	}
	if size == 0 {
		return nil, m.Free(buf)
	}
	if size < 0 {
		return nil, ErrInvalidSize
	}

	m.mu.Lock()
	orig, ok := m.live[Base(buf)]
	m.mu.Unlock()
	if !ok {
		return nil, ErrForeign
	}

	next, err := m.Allocate(size)
	if err != nil {
		return nil, err
	}
	copy(next, orig)
	if err := m.Free(orig); err != nil {
		// The new mapping is live either way; report the stale one.
		return next, err
	}
	return next, nil
}

func (m *Mmap) Free(buf []byte) error {
	if buf == nil {
		return nil
	}
	m.mu.Lock()
	orig, ok := m.live[Base(buf)]
	if ok {
		delete(m.live, Base(buf))
	}
	m.mu.Unlock()
	if !ok {
		return ErrForeign
	}
	if err := unix.Munmap(orig); err != nil {
		return fmt.Errorf("sysalloc: munmap: %w", err)
	}
	return nil
}

// Live reports the number of mappings not yet freed.
func (m *Mmap) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

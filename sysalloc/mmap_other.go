//go:build !linux && !darwin

package sysalloc

import "fmt"

// New returns the preferred allocator for this platform. Without mmap
// support the Go heap is the only backing store.
func New() Allocator { return NewHeap() }

// ForName maps a configuration name to an allocator. "mmap" is not
// available on this platform.
func ForName(name string) (Allocator, error) {
	switch name {
	case "", "auto", "heap":
		return NewHeap(), nil
	case "mmap":
		return nil, ErrUnsupported
	default:
		return nil, fmt.Errorf("sysalloc: unknown allocator %q", name)
	}
}

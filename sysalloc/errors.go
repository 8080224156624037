package sysalloc

import "errors"

var (
	// ErrInvalidSize indicates a non-positive allocation size.
	ErrInvalidSize = errors.New("sysalloc: size must be positive")

	// ErrBudget indicates the Limited wrapper would exceed its byte budget.
	ErrBudget = errors.New("sysalloc: allocation budget exceeded")

	// ErrForeign indicates a buffer that was not produced by this allocator.
	ErrForeign = errors.New("sysalloc: buffer not owned by this allocator")

	// ErrUnsupported indicates an allocator kind that is not available on
	// this platform.
	ErrUnsupported = errors.New("sysalloc: allocator not supported on this platform")
)

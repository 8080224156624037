package sysalloc

// Heap allocates from the Go heap. Blocks are ordinary slices: Free is a
// no-op and the garbage collector reclaims a block once nothing references
// it. Callers that need a block to stay alive while untracked must hold on
// to the slice themselves.
type Heap struct{}

// NewHeap returns the Go-heap allocator.
func NewHeap() *Heap { return &Heap{} }

func (*Heap) Allocate(size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	return make([]byte, size), nil
}

// AllocateZeroed is identical to Allocate: make always zero-fills.
func (h *Heap) AllocateZeroed(size int) ([]byte, error) {
	return h.Allocate(size)
}

func (h *Heap) Reallocate(buf []byte, size int) ([]byte, error) {
	if buf == nil {
		return h.Allocate(size)
	}
	if size == 0 {
		return nil, h.Free(buf)
	}
	if size < 0 {
		return nil, ErrInvalidSize
	}
	next := make([]byte, size)
	copy(next, buf)
	return next, nil
}

// Free is a no-op; the garbage collector owns reclamation.
func (*Heap) Free([]byte) error { return nil }

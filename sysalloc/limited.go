package sysalloc

import "sync"

// Limited enforces a byte budget on an inner allocator. Requests that would
// push outstanding bytes past the budget fail with ErrBudget before reaching
// the inner allocator. Block sizes are remembered per address so Free and
// Reallocate release the right amount.
type Limited struct {
	inner  Allocator
	budget int

	mu     sync.Mutex
	used   int
	issued map[uintptr]int
}

// NewLimited wraps inner with a budget of at most budget outstanding bytes.
func NewLimited(inner Allocator, budget int) *Limited {
	return &Limited{
		inner:  inner,
		budget: budget,
		issued: make(map[uintptr]int),
	}
}

func (l *Limited) Allocate(size int) ([]byte, error) {
	return l.allocate(size, l.inner.Allocate)
}

func (l *Limited) AllocateZeroed(size int) ([]byte, error) {
	return l.allocate(size, l.inner.AllocateZeroed)
}

func (l *Limited) allocate(size int, alloc func(int) ([]byte, error)) ([]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.used+size > l.budget {
		return nil, ErrBudget
	}
	buf, err := alloc(size)
	if err != nil {
		return nil, err
	}
	l.used += size
	l.issued[Base(buf)] = size
	return buf, nil
}

func (l *Limited) Reallocate(buf []byte, size int) ([]byte, error) {
	if buf == nil {
		return l.Allocate(size)
	}
	if size == 0 {
		return nil, l.Free(buf)
	}
	if size < 0 {
		return nil, ErrInvalidSize
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	old, ok := l.issued[Base(buf)]
	if !ok {
		return nil, ErrForeign
	}
	if l.used-old+size > l.budget {
		return nil, ErrBudget
	}
	next, err := l.inner.Reallocate(buf, size)
	if err != nil {
		return nil, err
	}
	delete(l.issued, Base(buf))
	l.used += size - old
	l.issued[Base(next)] = size
	return next, nil
}

func (l *Limited) Free(buf []byte) error {
	if buf == nil {
		return nil
	}
	l.mu.Lock()
	size, ok := l.issued[Base(buf)]
	if ok {
		delete(l.issued, Base(buf))
		l.used -= size
	}
	l.mu.Unlock()
	if !ok {
		return ErrForeign
	}
	return l.inner.Free(buf)
}

// Outstanding reports bytes currently counted against the budget.
func (l *Limited) Outstanding() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.used
}

// Budget reports the configured limit.
func (l *Limited) Budget() int { return l.budget }

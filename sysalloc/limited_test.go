package sysalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitedBudget(t *testing.T) {
	l := NewLimited(NewHeap(), 100)

	first, err := l.Allocate(60)
	require.NoError(t, err, "first allocation fits the budget")
	assert.Equal(t, 60, l.Outstanding())

	_, err = l.Allocate(50)
	require.ErrorIs(t, err, ErrBudget, "second allocation would exceed the budget")
	assert.Equal(t, 60, l.Outstanding(), "failed allocation must not change accounting")

	require.NoError(t, l.Free(first))
	assert.Equal(t, 0, l.Outstanding())

	_, err = l.Allocate(100)
	require.NoError(t, err, "full budget is available again after free")
}

func TestLimitedReallocate(t *testing.T) {
	l := NewLimited(NewHeap(), 64)

	buf, err := l.Allocate(32)
	require.NoError(t, err)

	grown, err := l.Reallocate(buf, 64)
	require.NoError(t, err, "grow within budget should succeed")
	assert.Equal(t, 64, l.Outstanding())

	_, err = l.Reallocate(grown, 65)
	require.ErrorIs(t, err, ErrBudget, "grow past budget should fail")
	assert.Equal(t, 64, l.Outstanding(), "failed grow must leave accounting intact")

	shrunk, err := l.Reallocate(grown, 16)
	require.NoError(t, err)
	assert.Equal(t, 16, l.Outstanding(), "shrink releases budget")

	gone, err := l.Reallocate(shrunk, 0)
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.Equal(t, 0, l.Outstanding(), "shrink to zero frees the block")
}

func TestLimitedForeignBuffers(t *testing.T) {
	l := NewLimited(NewHeap(), 64)

	err := l.Free(make([]byte, 8))
	require.ErrorIs(t, err, ErrForeign, "freeing an unknown buffer is an error")

	_, err = l.Reallocate(make([]byte, 8), 16)
	require.ErrorIs(t, err, ErrForeign, "resizing an unknown buffer is an error")
	assert.Equal(t, 0, l.Outstanding())
}

func TestLimitedZeroed(t *testing.T) {
	l := NewLimited(NewHeap(), 32)

	buf, err := l.AllocateZeroed(32)
	require.NoError(t, err)
	for i, b := range buf {
		require.Zerof(t, b, "byte %d should be zero", i)
	}
	assert.Equal(t, 32, l.Outstanding(), "zeroed allocations count against the budget")
}

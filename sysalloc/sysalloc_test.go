package sysalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeapAllocate(t *testing.T) {
	h := NewHeap()

	buf, err := h.Allocate(64)
	require.NoError(t, err, "Allocate should succeed")
	require.Len(t, buf, 64, "block should have the requested size")

	_, err = h.Allocate(0)
	require.ErrorIs(t, err, ErrInvalidSize, "zero size should be rejected")

	_, err = h.Allocate(-8)
	require.ErrorIs(t, err, ErrInvalidSize, "negative size should be rejected")
}

func TestHeapAllocateZeroed(t *testing.T) {
	h := NewHeap()

	buf, err := h.AllocateZeroed(128)
	require.NoError(t, err)
	for i, b := range buf {
		require.Zerof(t, b, "byte %d should be zero", i)
	}
}

func TestHeapReallocate(t *testing.T) {
	h := NewHeap()

	buf, err := h.Allocate(8)
	require.NoError(t, err)
	copy(buf, "abcdefgh")

	grown, err := h.Reallocate(buf, 16)
	require.NoError(t, err, "grow should succeed")
	require.Len(t, grown, 16)
	assert.Equal(t, "abcdefgh", string(grown[:8]), "prefix should be preserved")

	shrunk, err := h.Reallocate(grown, 4)
	require.NoError(t, err, "shrink should succeed")
	require.Len(t, shrunk, 4)
	assert.Equal(t, "abcd", string(shrunk), "shrink keeps the leading bytes")

	fresh, err := h.Reallocate(nil, 32)
	require.NoError(t, err, "nil buf should act as Allocate")
	require.Len(t, fresh, 32)

	gone, err := h.Reallocate(fresh, 0)
	require.NoError(t, err, "size 0 should act as Free")
	assert.Nil(t, gone, "shrink to zero returns no block")

	_, err = h.Reallocate(shrunk, -1)
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestHeapFreeIsNoop(t *testing.T) {
	h := NewHeap()

	require.NoError(t, h.Free(nil), "nil free is a no-op")

	buf, err := h.Allocate(16)
	require.NoError(t, err)
	require.NoError(t, h.Free(buf), "heap free never fails")
}

func TestForName(t *testing.T) {
	a, err := ForName("heap")
	require.NoError(t, err)
	require.IsType(t, &Heap{}, a)

	a, err = ForName("")
	require.NoError(t, err)
	require.NotNil(t, a, "empty name should select the platform default")

	a, err = ForName("auto")
	require.NoError(t, err)
	require.NotNil(t, a)

	_, err = ForName("slab")
	require.Error(t, err, "unknown allocator names should be rejected")
}

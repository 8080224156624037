//go:build linux || darwin

package sysalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMmapAllocateFree(t *testing.T) {
	m := NewMmap()

	buf, err := m.Allocate(4096)
	require.NoError(t, err, "mmap allocation should succeed")
	require.Len(t, buf, 4096)
	assert.Equal(t, 1, m.Live())

	// The mapping must be writable end to end.
	buf[0] = 0xAA
	buf[len(buf)-1] = 0x55

	require.NoError(t, m.Free(buf))
	assert.Equal(t, 0, m.Live(), "free should drop the mapping from the registry")
}

func TestMmapZeroFilled(t *testing.T) {
	m := NewMmap()

	buf, err := m.AllocateZeroed(512)
	require.NoError(t, err)
	defer func() { require.NoError(t, m.Free(buf)) }()

	for i, b := range buf {
		require.Zerof(t, b, "byte %d should be zero", i)
	}
}

func TestMmapReallocatePreservesData(t *testing.T) {
	m := NewMmap()

	buf, err := m.Allocate(64)
	require.NoError(t, err)
	for i := range buf {
		buf[i] = byte(i)
	}

	grown, err := m.Reallocate(buf, 256)
	require.NoError(t, err, "grow should succeed")
	require.Len(t, grown, 256)
	assert.Equal(t, 1, m.Live(), "the old mapping must be released")
	for i := 0; i < 64; i++ {
		require.Equalf(t, byte(i), grown[i], "byte %d should survive the move", i)
	}

	require.NoError(t, m.Free(grown))
	assert.Equal(t, 0, m.Live())
}

func TestMmapForeignBuffer(t *testing.T) {
	m := NewMmap()

	err := m.Free(make([]byte, 16))
	require.ErrorIs(t, err, ErrForeign, "go-heap slices are not ours to unmap")

	_, err = m.Reallocate(make([]byte, 16), 32)
	require.ErrorIs(t, err, ErrForeign)
}

func TestMmapInvalidSize(t *testing.T) {
	m := NewMmap()

	_, err := m.Allocate(0)
	require.ErrorIs(t, err, ErrInvalidSize)

	_, err = m.Allocate(-4096)
	require.ErrorIs(t, err, ErrInvalidSize)
}

package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatsCounters(t *testing.T) {
	var s Stats

	s.recordAlloc(100)
	assert.Equal(t, uint64(100), s.TotalAllocated)
	assert.Equal(t, uint64(1), s.AllocCalls)
	assert.Equal(t, uint64(100), s.CurrentUsage())
	assert.Equal(t, uint64(100), s.PeakUsage)

	s.recordAlloc(50)
	assert.Equal(t, uint64(150), s.CurrentUsage())
	assert.Equal(t, uint64(150), s.PeakUsage)

	s.recordFree(100)
	assert.Equal(t, uint64(100), s.TotalFreed)
	assert.Equal(t, uint64(1), s.FreeCalls)
	assert.Equal(t, uint64(50), s.CurrentUsage())
	assert.Equal(t, uint64(150), s.PeakUsage, "frees never lower the peak")

	assert.Equal(t, uint64(1), s.Leaks())
}

func TestStatsPeakUpdatesOnlyOnAlloc(t *testing.T) {
	var s Stats

	// Interleave so usage oscillates; peak must track the high-water mark.
	s.recordAlloc(100) // usage 100, peak 100
	s.recordFree(100)  // usage 0
	s.recordAlloc(60)  // usage 60, peak stays 100
	assert.Equal(t, uint64(100), s.PeakUsage)

	s.recordAlloc(80) // usage 140, new peak
	assert.Equal(t, uint64(140), s.PeakUsage)
}

func TestStatsZeroValue(t *testing.T) {
	var s Stats
	assert.Equal(t, uint64(0), s.CurrentUsage())
	assert.Equal(t, uint64(0), s.Leaks())
	assert.Equal(t, uint64(0), s.PeakUsage)
}

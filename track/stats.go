package track

// Stats holds the running counters for a tracker. All five stored fields
// grow monotonically; the derived values are computed on read and never
// stored. Stats is a plain value with no locking; the owning Tracker
// serializes access.
type Stats struct {
	// TotalAllocated is the cumulative number of bytes registered.
	TotalAllocated uint64

	// TotalFreed is the cumulative number of bytes unregistered. It grows
	// only when an unregistration finds a matching record.
	TotalFreed uint64

	// AllocCalls counts successful registrations.
	AllocCalls uint64

	// FreeCalls counts successful unregistrations.
	FreeCalls uint64

	// PeakUsage is the running maximum of CurrentUsage, updated only on
	// registration. Frees never recompute it.
	PeakUsage uint64
}

// recordAlloc applies a registration of size bytes.
func (s *Stats) recordAlloc(size int) {
	s.TotalAllocated += uint64(size)
	s.AllocCalls++
	if cur := s.CurrentUsage(); cur > s.PeakUsage {
		s.PeakUsage = cur
	}
}

// recordFree applies an unregistration of size bytes.
func (s *Stats) recordFree(size int) {
	s.TotalFreed += uint64(size)
	s.FreeCalls++
}

// CurrentUsage reports bytes currently allocated: TotalAllocated - TotalFreed.
func (s Stats) CurrentUsage() uint64 {
	return s.TotalAllocated - s.TotalFreed
}

// Leaks reports registrations that were never unregistered, which equals
// the live record count.
func (s Stats) Leaks() uint64 {
	return s.AllocCalls - s.FreeCalls
}

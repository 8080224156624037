package track

import "time"

// Record describes one live tracked allocation. Records are value types;
// the Table owns the stored copies and hands them out by value.
type Record struct {
	// Addr is the address identity of the block and the registry key.
	Addr uintptr

	// Size is the requested byte count at allocation time.
	Size int

	// Site is the call site that requested the block.
	Site Callsite

	// At is the registration timestamp.
	At time.Time
}

// Age reports how long the record has been live relative to now.
func (r Record) Age(now time.Time) time.Duration {
	return now.Sub(r.At)
}

// Package track implements allocation tracking: a registry of live memory
// blocks with provenance, running statistics, and leak detection.
//
// # Overview
//
// A Tracker wraps an underlying sysalloc.Allocator and records every block it
// hands out: address, size, the call site that requested it, and the time of
// the request. Blocks are unregistered when they come back through Free or
// Realloc. Whatever is still registered at Close is, by definition, a leak.
//
// The tracker is strictly best-effort and non-intrusive: a bookkeeping
// failure never fails the caller's allocation, an unknown pointer is still
// released to the underlying allocator, and diagnostics go to a logger
// rather than interrupting control flow. Instrumenting a program with a
// Tracker must never make that program less correct.
//
// # Core Types
//
//   - Record: one live allocation (address, size, call site, timestamp)
//   - Table: fixed-size hash table of records, chained per bucket
//   - Stats: running byte and call counters with peak tracking
//   - Tracker: the facade tying an allocator, a table and stats together
//   - Callsite: caller-supplied file/line provenance
//
// # Usage Example
//
//	tr, err := track.New(track.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	defer tr.Close()
//
//	buf, err := tr.Malloc(4096, track.Here())
//	if err != nil {
//	    return err
//	}
//	// ... use buf ...
//	tr.Free(buf, track.Here())
//
// # Reports
//
// Three plain-text reports render into caller-owned fixed-capacity buffers
// via StatsReport, AllocationsReport and LeaksReport. Each returns the
// number of content bytes written (or -1 for a nil/empty destination) and
// always leaves the buffer NUL-terminated, truncating line by line when
// capacity runs out. Unbounded io.Writer and JSON variants live alongside
// them. Rendering happens under the tracker lock, so a report is always a
// consistent snapshot. See the track/report package for the formats.
//
// # Address Identity
//
// Records are keyed by block address (sysalloc.Base). The default allocator
// hands out blocks whose addresses are stable and unique for as long as the
// block is live, which upholds the table invariant that an address appears
// in at most one bucket chain. The pure-Go Heap allocator does not pin
// blocks; callers using it must keep tracked blocks referenced, or a
// collected block's address could be reissued while its record is still
// live.
//
// # Thread Safety
//
// All Tracker operations are guarded by a single internal mutex and are safe
// for concurrent use. Table and Stats on their own are not synchronized;
// they are building blocks owned by a Tracker.
package track

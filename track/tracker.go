package track

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/memkit/memkit/internal/buf"
	"github.com/memkit/memkit/sysalloc"
	"github.com/memkit/memkit/track/report"
)

// Runtime trace flag for raw register/unregister logging - controlled by
// the MEMKIT_TRACE env var.
var traceAlloc = os.Getenv("MEMKIT_TRACE") != ""

// Tracker is the allocation facade: it delegates to an underlying allocator
// and keeps a registry of live blocks plus running statistics. A single
// mutex guards the table and the counters, so reports and accessors always
// observe a consistent snapshot.
type Tracker struct {
	mu     sync.Mutex
	table  *Table
	stats  Stats
	alloc  sysalloc.Allocator
	log    *slog.Logger
	closed bool
}

// New builds a tracker from opts. It fails with ErrBadBuckets when
// opts.Buckets is not a power of two.
func New(opts Options) (*Tracker, error) {
	table, err := NewTable(opts.Buckets, opts.MaxRecords)
	if err != nil {
		return nil, err
	}
	alloc := opts.Allocator
	if alloc == nil {
		alloc = sysalloc.New()
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	t := &Tracker{
		table: table,
		alloc: alloc,
		log:   log,
	}
	t.log.Debug("tracker initialized", "buckets", table.Buckets(), "max_records", opts.MaxRecords)
	return t, nil
}

// Close reports every remaining record as a leak, destroys the records and
// zeroes the statistics. The underlying blocks are NOT freed: the tracker
// does not own them and the host program may still hold pointers into them.
// Close is idempotent; allocation methods on a closed tracker fail with
// ErrClosed and accessors return zero values.
func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	if live := t.table.Len(); live > 0 {
		var bytes uint64
		oldest := time.Time{}
		t.table.Walk(func(r Record) bool {
			bytes += uint64(r.Size)
			if oldest.IsZero() || r.At.Before(oldest) {
				oldest = r.At
			}
			return true
		})
		t.log.Warn("shutting down with leaks",
			"count", live,
			"bytes", bytes,
			"oldest_age", time.Since(oldest).Round(time.Millisecond),
		)
	}
	t.table.Reset()
	t.stats = Stats{}
	t.closed = true
	t.log.Debug("tracker shut down")
	return nil
}

// Malloc requests size bytes from the underlying allocator and registers
// the block. An allocator failure is logged and returned unchanged; there
// is no retry or fallback.
func (t *Tracker) Malloc(size int, at Callsite) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrClosed
	}
	blk, err := t.alloc.Allocate(size)
	if err != nil {
		t.log.Error("malloc failed", "size", size, "site", at, "error", err)
		return nil, err
	}
	t.register(sysalloc.Base(blk), size, at)
	return blk, nil
}

// Calloc requests zeroed memory for count elements of elemSize bytes and
// registers the block under the product size. A product that overflows int
// fails with ErrSizeOverflow before reaching the allocator.
func (t *Tracker) Calloc(count, elemSize int, at Callsite) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrClosed
	}
	size, ok := buf.MulOverflowSafe(count, elemSize)
	if !ok {
		t.log.Error("calloc failed", "count", count, "elem_size", elemSize, "site", at, "error", ErrSizeOverflow)
		return nil, ErrSizeOverflow
	}
	blk, err := t.alloc.AllocateZeroed(size)
	if err != nil {
		t.log.Error("calloc failed", "count", count, "elem_size", elemSize, "site", at, "error", err)
		return nil, err
	}
	t.register(sysalloc.Base(blk), size, at)
	return blk, nil
}

// Realloc resizes b to size bytes. A non-empty b is unregistered FIRST, so
// the statistics reflect the old block's removal even when the resize fails
// or moves the block; a failed resize does not resurrect the record. A nil
// b acts as Malloc; size 0 passes the underlying allocator's shrink-to-zero
// semantics through (our allocators free and return nil).
func (t *Tracker) Realloc(b []byte, size int, at Callsite) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrClosed
	}
	if len(b) > 0 {
		addr := sysalloc.Base(b)
		if _, ok := t.unregister(addr); !ok {
			t.log.Warn("realloc of untracked pointer", "addr", hexAddr(addr), "site", at)
		}
	}
	next, err := t.alloc.Reallocate(b, size)
	if err != nil {
		if size > 0 {
			t.log.Error("realloc failed", "size", size, "site", at, "error", err)
		}
		return nil, err
	}
	if len(next) > 0 {
		t.register(sysalloc.Base(next), size, at)
	}
	return next, nil
}

// Free unregisters b and hands it back to the underlying allocator. The
// block is ALWAYS released, tracked or not: a tracking miss must never
// become a real leak. It reports whether the block was tracked; an unknown
// pointer logs a warning and leaves the counters untouched. A nil or empty
// b is a no-op reporting false.
func (t *Tracker) Free(b []byte, at Callsite) bool {
	if len(b) == 0 {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	addr := sysalloc.Base(b)
	_, ok := t.unregister(addr)
	if !ok && !t.closed {
		// The block's size is unknowable here: the lookup that would have
		// produced it is exactly what failed.
		t.log.Warn("free of untracked pointer", "addr", hexAddr(addr), "site", at)
	}
	if err := t.alloc.Free(b); err != nil {
		t.log.Error("underlying free failed", "addr", hexAddr(addr), "site", at, "error", err)
	}
	return ok
}

// register inserts a record and updates the counters. A table refusal (zero
// address or exhausted record budget) is logged and skipped: the caller's
// block stays valid, merely untracked.
func (t *Tracker) register(addr uintptr, size int, at Callsite) {
	rec := Record{Addr: addr, Size: size, Site: at, At: time.Now()}
	if !t.table.Register(rec) {
		t.log.Error("failed to track allocation", "addr", hexAddr(addr), "size", size, "site", at)
		return
	}
	t.stats.recordAlloc(size)
	if traceAlloc {
		fmt.Fprintf(os.Stderr, "track: +%d bytes at 0x%x (%s)\n", size, addr, at)
	}
}

// unregister removes the record for addr and updates the counters on a hit.
func (t *Tracker) unregister(addr uintptr) (Record, bool) {
	rec, ok := t.table.Unregister(addr)
	if !ok {
		return Record{}, false
	}
	t.stats.recordFree(rec.Size)
	if traceAlloc {
		fmt.Fprintf(os.Stderr, "track: -%d bytes at 0x%x\n", rec.Size, addr)
	}
	return rec, true
}

// TotalAllocated reports cumulative registered bytes.
func (t *Tracker) TotalAllocated() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats.TotalAllocated
}

// TotalFreed reports cumulative unregistered bytes.
func (t *Tracker) TotalFreed() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats.TotalFreed
}

// CurrentUsage reports bytes currently allocated.
func (t *Tracker) CurrentUsage() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats.CurrentUsage()
}

// PeakUsage reports the highest current usage ever observed.
func (t *Tracker) PeakUsage() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats.PeakUsage
}

// AllocCalls reports the number of successful registrations.
func (t *Tracker) AllocCalls() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats.AllocCalls
}

// FreeCalls reports the number of successful unregistrations.
func (t *Tracker) FreeCalls() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats.FreeCalls
}

// Leaks reports registrations never unregistered.
func (t *Tracker) Leaks() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats.Leaks()
}

// Live reports the number of live records.
func (t *Tracker) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.table.Len()
}

// Buckets reports the hash table size.
func (t *Tracker) Buckets() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.table.Buckets()
}

// Snapshot returns a copy of the counters.
func (t *Tracker) Snapshot() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// OldestLive returns the live record with the earliest registration time,
// or false when nothing is tracked.
func (t *Tracker) OldestLive() (Record, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var oldest Record
	found := false
	t.table.Walk(func(r Record) bool {
		if !found || r.At.Before(oldest.At) {
			oldest = r
			found = true
		}
		return true
	})
	return oldest, found
}

// Records returns a copy of every live record in table iteration order.
func (t *Tracker) Records() []Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	recs := make([]Record, 0, t.table.Len())
	t.table.Walk(func(r Record) bool {
		recs = append(recs, r)
		return true
	})
	return recs
}

// StatsReport renders the counter report into dst. It returns the number of
// content bytes written (excluding the NUL terminator), or -1 for a nil or
// empty dst.
func (t *Tracker) StatsReport(dst []byte) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return report.WriteStats(dst, t.summaryLocked())
}

// AllocationsReport renders the live-allocation report into dst. Return
// semantics match StatsReport.
func (t *Tracker) AllocationsReport(dst []byte) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return report.WriteAllocations(dst, t.entriesLocked())
}

// LeaksReport renders the leak report into dst. Return semantics match
// StatsReport.
func (t *Tracker) LeaksReport(dst []byte) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return report.WriteLeaks(dst, t.entriesLocked())
}

// FprintStats renders the counter report to w without a capacity bound.
func (t *Tracker) FprintStats(w io.Writer) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return report.FprintStats(w, t.summaryLocked())
}

// FprintAllocations renders the live-allocation report to w.
func (t *Tracker) FprintAllocations(w io.Writer) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return report.FprintAllocations(w, t.entriesLocked())
}

// FprintLeaks renders the leak report to w.
func (t *Tracker) FprintLeaks(w io.Writer) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return report.FprintLeaks(w, t.entriesLocked())
}

// Document builds the JSON report document from a consistent snapshot.
func (t *Tracker) Document() *report.Doc {
	t.mu.Lock()
	defer t.mu.Unlock()
	return report.Document(t.summaryLocked(), t.entriesLocked())
}

// WriteJSON renders the JSON report document to w.
func (t *Tracker) WriteJSON(w io.Writer) error {
	return report.WriteJSON(w, t.Document())
}

// summaryLocked snapshots the counters for the report package.
// Callers must hold t.mu.
func (t *Tracker) summaryLocked() report.Summary {
	return report.Summary{
		TotalAllocated: t.stats.TotalAllocated,
		TotalFreed:     t.stats.TotalFreed,
		CurrentUsage:   t.stats.CurrentUsage(),
		PeakUsage:      t.stats.PeakUsage,
		AllocCalls:     t.stats.AllocCalls,
		FreeCalls:      t.stats.FreeCalls,
		Live:           t.table.Len(),
		Buckets:        t.table.Buckets(),
	}
}

// entriesLocked adapts the table walk for the report package. The returned
// sequence is consumed synchronously while t.mu is held.
func (t *Tracker) entriesLocked() report.EntrySeq {
	return func(yield func(report.Entry) bool) {
		t.table.Walk(func(r Record) bool {
			return yield(report.Entry{
				Addr: r.Addr,
				Size: r.Size,
				File: r.Site.File,
				Line: r.Site.Line,
				At:   r.At,
			})
		})
	}
}

func hexAddr(a uintptr) string {
	return fmt.Sprintf("0x%x", a)
}

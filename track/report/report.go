package report

import (
	"fmt"
	"io"
	"time"
)

// Summary is a value snapshot of a tracker's counters.
type Summary struct {
	TotalAllocated uint64
	TotalFreed     uint64
	CurrentUsage   uint64
	PeakUsage      uint64
	AllocCalls     uint64
	FreeCalls      uint64
	Live           int // live record count
	Buckets        int // hash table size
}

// Entry is a value snapshot of one live allocation record.
type Entry struct {
	Addr uintptr
	Size int
	File string
	Line int
	At   time.Time
}

// location renders the call site as "file:line", with "?" standing in for
// an unknown file.
func (e Entry) location() string {
	if e.File == "" {
		return fmt.Sprintf("?:%d", e.Line)
	}
	return fmt.Sprintf("%s:%d", e.File, e.Line)
}

// EntrySeq yields live records in table iteration order. The sequence is
// consumed synchronously and must be restartable; trackers supply one that
// walks their table under the lock.
type EntrySeq func(yield func(Entry) bool)

// linef is the line sink the report bodies write through: a bounded Cursor
// or an unbounded io.Writer adapter.
type linef func(format string, args ...any)

// WriteStats renders the counter report into dst: one fixed-label line per
// counter. It returns the content byte count, or -1 for a nil or empty dst.
func WriteStats(dst []byte, s Summary) int {
	c := NewCursor(dst)
	writeStats(cursorLinef(c), s)
	return c.Close()
}

// WriteAllocations renders the live-allocation report into dst: a header,
// one line per record, and a totals line - or a "no active allocations"
// line when nothing is tracked. The totals reflect every record in the
// sequence even when truncation dropped some entry lines. Return semantics
// match WriteStats.
func WriteAllocations(dst []byte, recs EntrySeq) int {
	c := NewCursor(dst)
	writeAllocations(cursorLinef(c), recs)
	return c.Close()
}

// WriteLeaks renders the leak report into dst: the allocation report's
// structure with leak labeling and a distinct "no leaks" line for a clean
// table. Return semantics match WriteStats.
func WriteLeaks(dst []byte, recs EntrySeq) int {
	c := NewCursor(dst)
	writeLeaks(cursorLinef(c), recs)
	return c.Close()
}

// FprintStats renders the counter report to w without a capacity bound.
func FprintStats(w io.Writer, s Summary) error {
	f := &fprinter{w: w}
	writeStats(f.linef, s)
	return f.err
}

// FprintAllocations renders the live-allocation report to w.
func FprintAllocations(w io.Writer, recs EntrySeq) error {
	f := &fprinter{w: w}
	writeAllocations(f.linef, recs)
	return f.err
}

// FprintLeaks renders the leak report to w.
func FprintLeaks(w io.Writer, recs EntrySeq) error {
	f := &fprinter{w: w}
	writeLeaks(f.linef, recs)
	return f.err
}

func writeStats(line linef, s Summary) {
	line("=== MEMORY STATISTICS ===\n")
	line("Total allocated:      %d bytes\n", s.TotalAllocated)
	line("Total freed:          %d bytes\n", s.TotalFreed)
	line("Current usage:        %d bytes\n", s.CurrentUsage)
	line("Peak memory usage:    %d bytes\n", s.PeakUsage)
	line("Allocation calls:     %d\n", s.AllocCalls)
	line("Free calls:           %d\n", s.FreeCalls)
	line("Potential leaks:      %d objects\n", s.AllocCalls-s.FreeCalls)
	line("Hash table size:      %d buckets\n", s.Buckets)
}

func writeAllocations(line linef, recs EntrySeq) {
	line("=== CURRENT ALLOCATIONS ===\n")
	var count int
	var bytes uint64
	recs(func(e Entry) bool {
		line("  0x%x: %6d bytes @ %s\n", e.Addr, e.Size, e.location())
		count++
		bytes += uint64(e.Size)
		return true
	})
	if count == 0 {
		line("  No active allocations\n")
		return
	}
	line("  Total: %d allocations, %d bytes\n", count, bytes)
}

func writeLeaks(line linef, recs EntrySeq) {
	line("=== MEMORY LEAK REPORT ===\n")
	var count int
	var bytes uint64
	recs(func(e Entry) bool {
		line("  LEAK: %6d bytes at 0x%x (%s)\n", e.Size, e.Addr, e.location())
		count++
		bytes += uint64(e.Size)
		return true
	})
	if count == 0 {
		line("  No memory leaks detected!\n")
		return
	}
	line("  TOTAL LEAKS: %d allocations, %d bytes\n", count, bytes)
}

func cursorLinef(c *Cursor) linef {
	return func(format string, args ...any) {
		c.Linef(format, args...)
	}
}

// fprinter adapts an io.Writer to the linef sink, remembering the first
// write error and dropping everything after it.
type fprinter struct {
	w   io.Writer
	err error
}

func (f *fprinter) linef(format string, args ...any) {
	if f.err != nil {
		return
	}
	_, f.err = fmt.Fprintf(f.w, format, args...)
}

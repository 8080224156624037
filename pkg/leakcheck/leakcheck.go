// Package leakcheck fails tests that leave tracked allocations live.
//
// It layers test ergonomics over a track.Tracker: wrap a tracker for the
// duration of a test and every block still registered when the test ends
// becomes a test failure naming its size and call site.
//
// Example:
//
//	func TestParser(t *testing.T) {
//		tr := leakcheck.Wrap(t, track.DefaultOptions())
//		buf, _ := tr.Malloc(4096, track.Here())
//		defer tr.Free(buf, track.Here())
//		// ... exercise code that must balance its allocations ...
//	}
package leakcheck

import (
	"github.com/memkit/memkit/track"
)

// TestingT is the subset of testing.TB the helpers need. *testing.T and
// *testing.B both satisfy it.
type TestingT interface {
	Helper()
	Errorf(format string, args ...any)
	Cleanup(func())
}

// AssertNone fails t with one error per live allocation plus a totals line,
// and reports whether the tracker was clean. The tracker stays usable.
func AssertNone(t TestingT, tr *track.Tracker) bool {
	t.Helper()
	recs := tr.Records()
	if len(recs) == 0 {
		return true
	}
	var total uint64
	for _, rec := range recs {
		total += uint64(rec.Size)
		t.Errorf("leakcheck: %d bytes leaked at 0x%x from %s", rec.Size, rec.Addr, rec.Site)
	}
	t.Errorf("leakcheck: %d allocation(s) leaked, %d bytes total", len(recs), total)
	return false
}

// Wrap builds a tracker from opts and registers a cleanup that leak-checks
// and closes it when the test finishes. A bad configuration fails the test
// and returns nil.
func Wrap(t TestingT, opts track.Options) *track.Tracker {
	t.Helper()
	tr, err := track.New(opts)
	if err != nil {
		t.Errorf("leakcheck: build tracker: %v", err)
		return nil
	}
	t.Cleanup(func() {
		AssertNone(t, tr)
		tr.Close()
	})
	return tr
}

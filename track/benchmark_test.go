package track

import (
	"testing"

	"github.com/memkit/memkit/sysalloc"
)

// Prevent compiler from optimizing away benchmark results.
//
//nolint:unused // Benchmark sink variables - intentionally write-only
var (
	benchBlock []byte
	benchN     int
	benchOK    bool
)

func BenchmarkMallocFree(b *testing.B) {
	tr, err := New(Options{Allocator: sysalloc.NewHeap()})
	if err != nil {
		b.Fatal(err)
	}
	defer tr.Close()
	site := Site("bench.c", 1)

	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		blk, mallocErr := tr.Malloc(128, site)
		if mallocErr != nil {
			b.Fatal(mallocErr)
		}
		tr.Free(blk, site)
	}
}

// BenchmarkTrackingOverhead compares a tracked malloc/free pair against the
// raw allocator it wraps.
func BenchmarkTrackingOverhead(b *testing.B) {
	site := Site("bench.c", 1)

	b.Run("tracked", func(b *testing.B) {
		tr, err := New(Options{Allocator: sysalloc.NewHeap()})
		if err != nil {
			b.Fatal(err)
		}
		defer tr.Close()

		b.ReportAllocs()
		b.ResetTimer()
		for range b.N {
			blk, _ := tr.Malloc(128, site)
			tr.Free(blk, site)
		}
	})

	b.Run("raw", func(b *testing.B) {
		alloc := sysalloc.NewHeap()

		b.ReportAllocs()
		b.ResetTimer()
		for range b.N {
			blk, _ := alloc.Allocate(128)
			benchBlock = blk
			_ = alloc.Free(blk)
		}
	})
}

func BenchmarkTableRegisterUnregister(b *testing.B) {
	tbl, err := NewTable(DefaultBuckets, 0)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := range b.N {
		addr := uintptr(0x1000 + i*16)
		benchOK = tbl.Register(Record{Addr: addr, Size: 128})
		_, benchOK = tbl.Unregister(addr)
	}
}

func BenchmarkStatsReport(b *testing.B) {
	tr, err := New(Options{Allocator: sysalloc.NewHeap()})
	if err != nil {
		b.Fatal(err)
	}
	defer tr.Close()
	if _, err := tr.Malloc(128, Site("bench.c", 1)); err != nil {
		b.Fatal(err)
	}
	dst := make([]byte, 512)

	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		benchN = tr.StatsReport(dst)
	}
}

func BenchmarkLeaksReport_1000Live(b *testing.B) {
	tr, err := New(Options{Allocator: sysalloc.NewHeap()})
	if err != nil {
		b.Fatal(err)
	}
	defer tr.Close()
	site := Site("bench.c", 1)
	blocks := make([][]byte, 1000)
	for i := range blocks {
		blk, mallocErr := tr.Malloc(64, site)
		if mallocErr != nil {
			b.Fatal(mallocErr)
		}
		blocks[i] = blk
	}
	dst := make([]byte, 64*1024)

	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		benchN = tr.LeaksReport(dst)
	}

	b.StopTimer()
	benchBlock = blocks[0]
}

package main

import (
	"math/rand"

	"github.com/memkit/memkit/track"
)

// Block sizes roughly mirror a mixed small-object heap.
const (
	minBlockSize = 16
	sizeSpread   = 4096
)

// workload drives synthetic allocation churn against a tracker so the
// dashboard has live data to render. Every block stays in the live set
// until a free step or a drain releases it.
type workload struct {
	tr      *track.Tracker
	rng     *rand.Rand
	live    [][]byte
	maxLive int
}

func newWorkload(tr *track.Tracker, seed int64, maxLive int) *workload {
	return &workload{
		tr:      tr,
		rng:     rand.New(rand.NewSource(seed)),
		maxLive: maxLive,
	}
}

// step performs n churn operations.
func (w *workload) step(n int) {
	for i := 0; i < n; i++ {
		w.stepOne()
	}
}

// stepOne frees with 30% probability, resizes with 10%, and allocates
// otherwise. Past the live cap it always frees.
func (w *workload) stepOne() {
	if len(w.live) > 0 {
		if len(w.live) >= w.maxLive || w.rng.Intn(100) < 30 {
			w.freeRandom()
			return
		}
		if w.rng.Intn(100) < 10 {
			w.resizeRandom()
			return
		}
	}
	w.alloc(minBlockSize + w.rng.Intn(sizeSpread))
}

// burst allocates n blocks at once, ignoring the live cap. Useful for
// watching the peak counter move.
func (w *workload) burst(n int) {
	for i := 0; i < n; i++ {
		w.alloc(minBlockSize + w.rng.Intn(sizeSpread))
	}
}

// drain frees every live block.
func (w *workload) drain() {
	for _, b := range w.live {
		w.tr.Free(b, track.Here())
	}
	w.live = w.live[:0]
}

func (w *workload) liveBlocks() int {
	return len(w.live)
}

func (w *workload) alloc(size int) {
	b, err := w.tr.Malloc(size, track.Here())
	if err != nil {
		return
	}
	w.live = append(w.live, b)
}

func (w *workload) freeRandom() {
	i := w.rng.Intn(len(w.live))
	w.tr.Free(w.live[i], track.Here())

	last := len(w.live) - 1
	w.live[i] = w.live[last]
	w.live = w.live[:last]
}

func (w *workload) resizeRandom() {
	i := w.rng.Intn(len(w.live))
	b, err := w.tr.Realloc(w.live[i], minBlockSize+w.rng.Intn(sizeSpread), track.Here())
	if err != nil || b == nil {
		return
	}
	w.live[i] = b
}

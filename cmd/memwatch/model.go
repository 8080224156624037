package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/memkit/memkit/cmd/memwatch/logger"
	"github.com/memkit/memkit/sysalloc"
	"github.com/memkit/memkit/track"
)

// Churn pacing. Rate is operations per tick and adjustable at runtime;
// the tick interval itself is fixed.
const (
	defaultSeed    = 1
	defaultRate    = 8
	minRate        = 1
	maxRate        = 512
	defaultMaxLive = 4096
	burstSize      = 64
	tickInterval   = 250 * time.Millisecond
)

// Model is the main application state for the dashboard.
type Model struct {
	tr   *track.Tracker
	load *workload
	keys KeyMap

	// Window dimensions
	width  int
	height int

	// Tracker state captured at the last refresh
	stats     track.Stats
	records   []track.Record
	oldest    track.Record
	hasOldest bool

	// Workload control
	rate   int
	paused bool

	showHelp      bool
	statusMessage string

	started time.Time
	ticks   uint64

	err error
}

// NewModel creates the dashboard model with a fresh tracker and a seeded
// workload. The heap allocator keeps the churn cheap; blocks here are
// small and short-lived.
func NewModel(seed int64) Model {
	m := Model{
		keys:    DefaultKeyMap(),
		rate:    defaultRate,
		started: time.Now(),
	}

	tr, err := track.New(track.Options{
		Buckets:   track.DefaultBuckets,
		Allocator: sysalloc.NewHeap(),
		Logger:    logger.L,
	})
	if err != nil {
		m.err = err
		return m
	}

	m.tr = tr
	m.load = newWorkload(tr, seed, defaultMaxLive)
	m.refresh()
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// refresh re-reads tracker state for the next render.
func (m *Model) refresh() {
	m.stats = m.tr.Snapshot()
	m.records = m.tr.Records()
	m.oldest, m.hasOldest = m.tr.OldestLive()
}

// Close drains the workload and shuts the tracker down. Draining first
// keeps an interactive quit from being reported as a leak.
func (m Model) Close() error {
	if m.tr == nil {
		return nil
	}
	m.load.drain()
	return m.tr.Close()
}

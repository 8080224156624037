// Package metrics exposes tracker statistics as Prometheus metrics.
//
// The collector is read-only: every scrape takes one counter snapshot from
// the source and renders it as constant metrics, so scrapes never contend
// with allocation traffic beyond the tracker's own lock.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/memkit/memkit/track"
)

// Source supplies the counter snapshot a collector reads.
// *track.Tracker satisfies it.
type Source interface {
	Snapshot() track.Stats
}

// Collector implements prometheus.Collector over a Source. The live
// allocation gauge is derived from the snapshot (registrations minus
// unregistrations), so all series in one scrape agree with each other.
type Collector struct {
	src Source

	bytesAllocated *prometheus.Desc
	bytesFreed     *prometheus.Desc
	bytesInUse     *prometheus.Desc
	bytesPeak      *prometheus.Desc
	allocCalls     *prometheus.Desc
	freeCalls      *prometheus.Desc
	liveAllocs     *prometheus.Desc
}

// NewCollector builds a collector for src. labels are attached to every
// series; nil means none.
func NewCollector(src Source, labels prometheus.Labels) *Collector {
	return &Collector{
		src: src,
		bytesAllocated: prometheus.NewDesc(
			"memkit_bytes_allocated_total",
			"Cumulative bytes registered by the tracker.",
			nil, labels,
		),
		bytesFreed: prometheus.NewDesc(
			"memkit_bytes_freed_total",
			"Cumulative bytes unregistered by the tracker.",
			nil, labels,
		),
		bytesInUse: prometheus.NewDesc(
			"memkit_bytes_in_use",
			"Bytes currently allocated and tracked.",
			nil, labels,
		),
		bytesPeak: prometheus.NewDesc(
			"memkit_bytes_peak",
			"High-water mark of tracked bytes in use.",
			nil, labels,
		),
		allocCalls: prometheus.NewDesc(
			"memkit_allocations_total",
			"Successful allocation registrations.",
			nil, labels,
		),
		freeCalls: prometheus.NewDesc(
			"memkit_frees_total",
			"Successful allocation unregistrations.",
			nil, labels,
		),
		liveAllocs: prometheus.NewDesc(
			"memkit_live_allocations",
			"Allocations registered and not yet unregistered.",
			nil, labels,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.bytesAllocated
	ch <- c.bytesFreed
	ch <- c.bytesInUse
	ch <- c.bytesPeak
	ch <- c.allocCalls
	ch <- c.freeCalls
	ch <- c.liveAllocs
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Snapshot()
	ch <- prometheus.MustNewConstMetric(c.bytesAllocated, prometheus.CounterValue, float64(s.TotalAllocated))
	ch <- prometheus.MustNewConstMetric(c.bytesFreed, prometheus.CounterValue, float64(s.TotalFreed))
	ch <- prometheus.MustNewConstMetric(c.bytesInUse, prometheus.GaugeValue, float64(s.CurrentUsage()))
	ch <- prometheus.MustNewConstMetric(c.bytesPeak, prometheus.GaugeValue, float64(s.PeakUsage))
	ch <- prometheus.MustNewConstMetric(c.allocCalls, prometheus.CounterValue, float64(s.AllocCalls))
	ch <- prometheus.MustNewConstMetric(c.freeCalls, prometheus.CounterValue, float64(s.FreeCalls))
	ch <- prometheus.MustNewConstMetric(c.liveAllocs, prometheus.GaugeValue, float64(s.Leaks()))
}

// Ensure interface satisfaction
var _ prometheus.Collector = (*Collector)(nil)

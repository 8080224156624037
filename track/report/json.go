package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Doc is the JSON report document: the counter snapshot plus one entry per
// live allocation.
type Doc struct {
	GeneratedAt time.Time  `json:"generated_at"`
	Stats       DocStats   `json:"stats"`
	Allocations []DocEntry `json:"allocations"`
}

// DocStats mirrors Summary with JSON field names.
type DocStats struct {
	TotalAllocated uint64 `json:"total_allocated"`
	TotalFreed     uint64 `json:"total_freed"`
	CurrentUsage   uint64 `json:"current_usage"`
	PeakUsage      uint64 `json:"peak_usage"`
	AllocCalls     uint64 `json:"allocation_calls"`
	FreeCalls      uint64 `json:"free_calls"`
	PotentialLeaks uint64 `json:"potential_leaks"`
	Buckets        int    `json:"buckets"`
}

// DocEntry is one live allocation in the document. Address is rendered as
// a hex string so the document survives JSON number precision limits.
type DocEntry struct {
	Address string    `json:"address"`
	Size    int       `json:"size"`
	File    string    `json:"file"`
	Line    int       `json:"line"`
	At      time.Time `json:"allocated_at"`
	Age     string    `json:"age"`
}

// Document builds the JSON document from a snapshot. Entry ages are
// relative to the document's GeneratedAt time.
func Document(s Summary, recs EntrySeq) *Doc {
	now := time.Now()
	d := &Doc{
		GeneratedAt: now,
		Stats: DocStats{
			TotalAllocated: s.TotalAllocated,
			TotalFreed:     s.TotalFreed,
			CurrentUsage:   s.CurrentUsage,
			PeakUsage:      s.PeakUsage,
			AllocCalls:     s.AllocCalls,
			FreeCalls:      s.FreeCalls,
			PotentialLeaks: s.AllocCalls - s.FreeCalls,
			Buckets:        s.Buckets,
		},
		Allocations: make([]DocEntry, 0, s.Live),
	}
	recs(func(e Entry) bool {
		d.Allocations = append(d.Allocations, DocEntry{
			Address: fmt.Sprintf("0x%x", e.Addr),
			Size:    e.Size,
			File:    e.File,
			Line:    e.Line,
			At:      e.At,
			Age:     now.Sub(e.At).Round(time.Millisecond).String(),
		})
		return true
	})
	return d
}

// MarshalIndent renders the document as indented JSON.
func (d *Doc) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// WriteJSON renders the document to w as indented JSON.
func WriteJSON(w io.Writer, d *Doc) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

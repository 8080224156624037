package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/memkit/memkit/track"
)

const (
	statsPaneWidth = 40
	gaugeWidth     = 24
	topEntries     = 10
	minTopWidth    = 32
)

// View renders the whole dashboard
func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.width == 0 {
		return "Starting memwatch..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	header := m.renderHeader()
	content := lipgloss.JoinHorizontal(lipgloss.Top, m.renderStats(), m.renderTop())
	status := m.renderStatus()

	return lipgloss.JoinVertical(lipgloss.Left, header, content, status)
}

func (m Model) renderHeader() string {
	title := headerStyle.Render("memwatch")
	info := pathStyle.Render(fmt.Sprintf("up %s", time.Since(m.started).Round(time.Second)))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, " ", info)
}

func (m Model) renderStats() string {
	usage := m.stats.CurrentUsage()

	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Statistics"))
	b.WriteString("\n\n")

	rows := []struct {
		label string
		value string
	}{
		{"Total allocated", formatBytes(m.stats.TotalAllocated)},
		{"Total freed", formatBytes(m.stats.TotalFreed)},
		{"Current usage", formatBytes(usage)},
		{"Peak usage", formatBytes(m.stats.PeakUsage)},
		{"Allocation calls", fmt.Sprintf("%d", m.stats.AllocCalls)},
		{"Free calls", fmt.Sprintf("%d", m.stats.FreeCalls)},
		{"Live blocks", fmt.Sprintf("%d", m.stats.Leaks())},
	}
	for _, r := range rows {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-17s", r.label)))
		b.WriteString(" ")
		b.WriteString(valueStyle.Render(r.value))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderGauge(usage, m.stats.PeakUsage, gaugeWidth))

	return paneStyle.Width(statsPaneWidth).Render(b.String())
}

func (m Model) renderTop() string {
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Largest live allocations"))
	b.WriteString("\n\n")

	if len(m.records) == 0 {
		b.WriteString(labelStyle.Render("No live allocations"))
	} else {
		recs := make([]track.Record, len(m.records))
		copy(recs, m.records)
		sort.Slice(recs, func(i, j int) bool { return recs[i].Size > recs[j].Size })
		if len(recs) > topEntries {
			recs = recs[:topEntries]
		}

		now := time.Now()
		for _, r := range recs {
			line := fmt.Sprintf("%10s  %-22s %8s",
				formatBytes(uint64(r.Size)),
				truncate(r.Site.String(), 22),
				r.Age(now).Round(time.Second))
			b.WriteString(valueStyle.Render(line))
			b.WriteString("\n")
		}

		if m.hasOldest {
			b.WriteString("\n")
			b.WriteString(labelStyle.Render(fmt.Sprintf("Oldest: %s, live %s",
				m.oldest.Site, m.oldest.Age(now).Round(time.Second))))
		}
	}

	return paneStyle.Width(m.topPaneWidth()).Render(b.String())
}

func (m Model) renderStatus() string {
	state := runningStyle.Render("RUNNING")
	if m.paused {
		state = pausedStyle.Render("PAUSED")
	}

	hint := "? help | q quit"
	if m.statusMessage != "" {
		hint = m.statusMessage
	}

	return statusStyle.Render(fmt.Sprintf("%s | %d ops/tick | %s", state, m.rate, hint))
}

func (m Model) renderHelp() string {
	bindings := []key.Binding{
		m.keys.Pause,
		m.keys.Step,
		m.keys.Burst,
		m.keys.Drain,
		m.keys.Faster,
		m.keys.Slower,
		m.keys.Help,
		m.keys.Quit,
	}

	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("memwatch keys"))
	b.WriteString("\n\n")
	for _, bind := range bindings {
		h := bind.Help()
		b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
	}
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Press ? or esc to return"))

	return helpStyle.Render(b.String())
}

func (m Model) topPaneWidth() int {
	w := m.width - statsPaneWidth - 4
	if w < minTopWidth {
		w = minTopWidth
	}
	return w
}

// renderGauge draws current usage as a bar scaled against the peak.
func renderGauge(usage, peak uint64, width int) string {
	if width < 1 {
		return ""
	}
	filled := 0
	if peak > 0 {
		filled = int(usage * uint64(width) / peak)
	}
	if filled > width {
		filled = width
	}
	bar := runningStyle.Render(strings.Repeat("█", filled)) +
		labelStyle.Render(strings.Repeat("░", width-filled))
	return bar + labelStyle.Render(" of peak")
}

// formatBytes formats a byte count as human-readable string.
func formatBytes(n uint64) string {
	if n == 0 {
		return "0"
	}
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	if n < 1024*1024 {
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	}
	if n < 1024*1024*1024 {
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
	return fmt.Sprintf("%.1f GB", float64(n)/(1024*1024*1024))
}

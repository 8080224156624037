package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/memkit/memkit/cmd/memwatch/logger"
)

// tickMsg drives the churn loop and display refresh.
type tickMsg time.Time

// clearStatusMsg clears the transient status message.
type clearStatusMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles all messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.ticks++
		if m.tr == nil {
			return m, nil
		}
		if !m.paused {
			m.load.step(m.rate)
		}
		m.refresh()
		return m, tickCmd()

	case clearStatusMsg:
		m.statusMessage = ""
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While help is showing, only dismissal keys are handled
	if m.showHelp {
		if key.Matches(msg, m.keys.Esc) || key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Quit) {
			m.showHelp = false
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Quit) {
		logger.Info("quit requested")
		return m, tea.Quit
	}

	// A model without a tracker only quits
	if m.tr == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		logger.Debug("pause toggled", "paused", m.paused)
		if m.paused {
			return m.setStatus("Paused")
		}
		return m.setStatus("Running")

	case key.Matches(msg, m.keys.Step):
		if !m.paused {
			return m, nil
		}
		m.load.step(m.rate)
		m.refresh()
		return m.setStatus(fmt.Sprintf("Stepped %d ops", m.rate))

	case key.Matches(msg, m.keys.Burst):
		m.load.burst(burstSize)
		m.refresh()
		return m.setStatus(fmt.Sprintf("Burst: %d blocks", burstSize))

	case key.Matches(msg, m.keys.Drain):
		n := m.load.liveBlocks()
		m.load.drain()
		m.refresh()
		return m.setStatus(fmt.Sprintf("Drained %d blocks", n))

	case key.Matches(msg, m.keys.Faster):
		if m.rate < maxRate {
			m.rate *= 2
		}
		return m.setStatus(fmt.Sprintf("Rate: %d ops/tick", m.rate))

	case key.Matches(msg, m.keys.Slower):
		if m.rate > minRate {
			m.rate /= 2
		}
		return m.setStatus(fmt.Sprintf("Rate: %d ops/tick", m.rate))
	}

	return m, nil
}

// setStatus shows a transient status message for two seconds.
func (m Model) setStatus(text string) (tea.Model, tea.Cmd) {
	m.statusMessage = text
	return m, tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

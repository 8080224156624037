package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TestHelper provides utilities for driving the TUI in tests
type TestHelper struct {
	model Model
}

// NewTestHelper creates a test helper with a fresh model
func NewTestHelper(seed int64) *TestHelper {
	return &TestHelper{model: NewModel(seed)}
}

// SendKey simulates a key press
func (h *TestHelper) SendKey(keyType tea.KeyType) *TestHelper {
	msg := tea.KeyMsg{Type: keyType}
	updated, _ := h.model.Update(msg)
	h.model = updated.(Model)
	return h
}

// SendKeyRune simulates a character key press
func (h *TestHelper) SendKeyRune(r rune) *TestHelper {
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
	updated, _ := h.model.Update(msg)
	h.model = updated.(Model)
	return h
}

// SendWindowSize simulates a window resize
func (h *TestHelper) SendWindowSize(width, height int) *TestHelper {
	msg := tea.WindowSizeMsg{Width: width, Height: height}
	updated, _ := h.model.Update(msg)
	h.model = updated.(Model)
	return h
}

// SendTick advances the model by one tick message
func (h *TestHelper) SendTick() *TestHelper {
	updated, _ := h.model.Update(tickMsg(time.Now()))
	h.model = updated.(Model)
	return h
}

// GetModel returns the current model state
func (h *TestHelper) GetModel() Model {
	return h.model
}

// Close shuts down the model's tracker
func (h *TestHelper) Close() error {
	return h.model.Close()
}

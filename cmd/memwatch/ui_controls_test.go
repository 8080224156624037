package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// TestHelpToggle tests toggling the help screen with '?'
func TestHelpToggle(t *testing.T) {
	helper := NewTestHelper(7)
	defer helper.Close()

	helper.SendWindowSize(120, 40)

	model := helper.GetModel()
	if model.showHelp {
		t.Fatal("Help should not be shown initially")
	}

	t.Log("Pressing '?' to show help")
	helper.SendKeyRune('?')

	model = helper.GetModel()
	if !model.showHelp {
		t.Error("Help should be shown after pressing '?'")
	}

	t.Log("Pressing '?' again to hide help")
	helper.SendKeyRune('?')

	model = helper.GetModel()
	if model.showHelp {
		t.Error("Help should be hidden after pressing '?' again")
	}
}

// TestHelpDismissWithEsc tests dismissing help with Esc
func TestHelpDismissWithEsc(t *testing.T) {
	helper := NewTestHelper(7)
	defer helper.Close()

	helper.SendWindowSize(120, 40)
	helper.SendKeyRune('?')

	if !helper.GetModel().showHelp {
		t.Fatal("Help should be shown")
	}

	helper.SendKey(tea.KeyEsc)

	if helper.GetModel().showHelp {
		t.Error("Help should be dismissed after Esc")
	}
}

// TestHelpSwallowsOtherKeys tests that workload keys are inert while help is up
func TestHelpSwallowsOtherKeys(t *testing.T) {
	helper := NewTestHelper(7)
	defer helper.Close()

	helper.SendWindowSize(120, 40)
	helper.SendKeyRune('?')

	before := helper.GetModel().stats
	helper.SendKeyRune('b')

	model := helper.GetModel()
	if !model.showHelp {
		t.Error("Help should still be shown after 'b'")
	}
	if model.stats.AllocCalls != before.AllocCalls {
		t.Errorf("Burst should not run while help is shown, alloc calls %d -> %d",
			before.AllocCalls, model.stats.AllocCalls)
	}
}

// TestQuitReturnsQuitCommand tests that 'q' produces tea.Quit
func TestQuitReturnsQuitCommand(t *testing.T) {
	m := NewModel(7)
	defer m.Close()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("Expected a command from 'q'")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("Expected tea.QuitMsg, got %T", cmd())
	}
}

// TestPauseToggle tests pausing and resuming the workload with 'p'
func TestPauseToggle(t *testing.T) {
	helper := NewTestHelper(7)
	defer helper.Close()

	helper.SendKeyRune('p')

	model := helper.GetModel()
	if !model.paused {
		t.Error("Workload should be paused after 'p'")
	}
	if model.statusMessage != "Paused" {
		t.Errorf("Expected status %q, got %q", "Paused", model.statusMessage)
	}

	helper.SendKeyRune('p')

	model = helper.GetModel()
	if model.paused {
		t.Error("Workload should resume after second 'p'")
	}
	if model.statusMessage != "Running" {
		t.Errorf("Expected status %q, got %q", "Running", model.statusMessage)
	}
}

// TestStepWhilePaused tests that 's' advances the workload only when paused
func TestStepWhilePaused(t *testing.T) {
	helper := NewTestHelper(7)
	defer helper.Close()

	t.Log("'s' while running should do nothing")
	helper.SendKeyRune('s')

	model := helper.GetModel()
	if model.stats.AllocCalls != 0 {
		t.Errorf("Step while running should be inert, got %d alloc calls", model.stats.AllocCalls)
	}

	t.Log("'s' while paused should run one batch")
	helper.SendKeyRune('p')
	helper.SendKeyRune('s')

	model = helper.GetModel()
	if model.stats.AllocCalls == 0 {
		t.Error("Step while paused should register allocations")
	}
}

// TestBurstAllocates tests the burst key
func TestBurstAllocates(t *testing.T) {
	helper := NewTestHelper(7)
	defer helper.Close()

	helper.SendKeyRune('b')

	model := helper.GetModel()
	if model.stats.AllocCalls != burstSize {
		t.Errorf("Expected %d alloc calls after burst, got %d", burstSize, model.stats.AllocCalls)
	}
	if model.load.liveBlocks() != burstSize {
		t.Errorf("Expected %d live blocks after burst, got %d", burstSize, model.load.liveBlocks())
	}
}

// TestDrainFreesEverything tests the drain key
func TestDrainFreesEverything(t *testing.T) {
	helper := NewTestHelper(7)
	defer helper.Close()

	helper.SendKeyRune('b')
	helper.SendKeyRune('f')

	model := helper.GetModel()
	if model.load.liveBlocks() != 0 {
		t.Errorf("Expected 0 live blocks after drain, got %d", model.load.liveBlocks())
	}
	if usage := model.stats.CurrentUsage(); usage != 0 {
		t.Errorf("Expected 0 bytes in use after drain, got %d", usage)
	}
	if model.stats.FreeCalls != model.stats.AllocCalls {
		t.Errorf("Free calls %d should match alloc calls %d after drain",
			model.stats.FreeCalls, model.stats.AllocCalls)
	}
}

// TestRateKeys tests doubling and halving the churn rate
func TestRateKeys(t *testing.T) {
	helper := NewTestHelper(7)
	defer helper.Close()

	helper.SendKeyRune('+')
	if got := helper.GetModel().rate; got != defaultRate*2 {
		t.Errorf("Expected rate %d after '+', got %d", defaultRate*2, got)
	}

	helper.SendKeyRune('-')
	helper.SendKeyRune('-')
	if got := helper.GetModel().rate; got != defaultRate/2 {
		t.Errorf("Expected rate %d after two '-', got %d", defaultRate/2, got)
	}

	t.Log("Rate should clamp at its bounds")
	for i := 0; i < 20; i++ {
		helper.SendKeyRune('-')
	}
	if got := helper.GetModel().rate; got != minRate {
		t.Errorf("Expected rate to clamp at %d, got %d", minRate, got)
	}

	for i := 0; i < 20; i++ {
		helper.SendKeyRune('+')
	}
	if got := helper.GetModel().rate; got != maxRate {
		t.Errorf("Expected rate to clamp at %d, got %d", maxRate, got)
	}
}

// TestWindowSize tests that resize messages update the dimensions
func TestWindowSize(t *testing.T) {
	helper := NewTestHelper(7)
	defer helper.Close()

	helper.SendWindowSize(132, 43)

	model := helper.GetModel()
	if model.width != 132 || model.height != 43 {
		t.Errorf("Expected 132x43, got %dx%d", model.width, model.height)
	}
}

package components

import (
	"fmt"
	"testing"
)

func TestInputHistory(t *testing.T) {
	input := NewInput("")

	input.AddToHistory("version")
	input.AddToHistory("  ")
	input.AddToHistory("help")
	input.AddToHistory("help")

	history := input.History()
	if len(history) != 2 || history[0] != "version" || history[1] != "help" {
		t.Fatalf("Unexpected history: %q", history)
	}

	input.SetValue("led.")
	input.NavigateHistoryUp()
	if input.Value() != "help" {
		t.Errorf("Expected help, got %q", input.Value())
	}
	input.NavigateHistoryUp()
	input.NavigateHistoryUp()
	if input.Value() != "version" {
		t.Errorf("Expected version at the top of history, got %q", input.Value())
	}

	input.NavigateHistoryDown()
	if input.Value() != "help" {
		t.Errorf("Expected help, got %q", input.Value())
	}
	input.NavigateHistoryDown()
	if input.Value() != "led." {
		t.Errorf("Expected the unsent line back, got %q", input.Value())
	}
}

func TestInputHistoryLimit(t *testing.T) {
	input := NewInput("")
	for i := 0; i < maxHistory+10; i++ {
		input.AddToHistory(fmt.Sprintf("cmd%d", i))
	}
	if len(input.History()) != maxHistory {
		t.Errorf("Expected %d entries, got %d", maxHistory, len(input.History()))
	}
}

func TestInputReset(t *testing.T) {
	input := NewInput("")
	input.AddToHistory("version")
	input.NavigateHistoryUp()

	input.Reset()
	if input.Value() != "" {
		t.Errorf("Expected empty input, got %q", input.Value())
	}

	input.NavigateHistoryUp()
	if input.Value() != "version" {
		t.Errorf("History navigation should restart from the newest entry, got %q", input.Value())
	}
}

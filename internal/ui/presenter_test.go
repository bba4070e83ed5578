package ui

import (
	"testing"

	"github.com/qcmd/q/internal/llm"
)

func TestNewPresenter(t *testing.T) {
	presenter := NewPresenter()
	if presenter == nil {
		t.Fatal("NewPresenter should return a non-nil presenter")
	}
}

func TestRenderSuggestionDoesNotPanic(t *testing.T) {
	presenter := NewPresenter()

	presenter.RenderSuggestion(&llm.Suggestion{
		Command:     "df -h",
		Explanation: "Shows disk usage",
		Warning:     "",
	}, true)

	presenter.RenderSuggestion(&llm.Suggestion{
		Command:     "rm -rf ./build",
		Explanation: "Removes the build directory",
		Warning:     "Deletes files permanently",
	}, false)
}

func TestThinkingLifecycle(t *testing.T) {
	presenter := NewPresenter()

	// Test runs without a terminal, so this takes the static-line path.
	presenter.ShowThinking()
	presenter.StopThinking()

	// Stopping again must be a no-op.
	presenter.StopThinking()
}

func TestThinkingSpinnerStateCleared(t *testing.T) {
	presenter := NewPresenter()
	presenter.interactive = false

	presenter.ShowThinking()
	if presenter.spinner != nil {
		t.Error("Expected no spinner on non-interactive output")
	}
	presenter.StopThinking()
	if presenter.spinner != nil {
		t.Error("Expected spinner to be cleared")
	}
}

package executor

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"

	qerrors "github.com/qcmd/q/internal/errors"
	"github.com/qcmd/q/internal/history"
	"github.com/qcmd/q/internal/llm"
	"github.com/qcmd/q/internal/ui"
)

func requirePOSIXShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

// testExecutor returns an executor whose history records land in the
// returned slice instead of the user's history file.
func testExecutor(opts Options) (*Executor, *[]history.Entry) {
	recorded := &[]history.Entry{}
	e := New(opts, ui.NewPresenter(), func(entry history.Entry) error {
		*recorded = append(*recorded, entry)
		return nil
	})
	return e, recorded
}

func TestHandleSuggestionAutoConfirm(t *testing.T) {
	requirePOSIXShell(t)

	e, recorded := testExecutor(Options{AutoConfirm: true, ShowExplanation: true})
	s := &llm.Suggestion{Command: "true", Explanation: "Does nothing and succeeds"}

	if err := e.HandleSuggestion(context.Background(), "do nothing", s); err != nil {
		t.Fatalf("HandleSuggestion failed: %v", err)
	}

	if len(*recorded) != 1 {
		t.Fatalf("Expected 1 history entry, got %d", len(*recorded))
	}
	entry := (*recorded)[0]
	if entry.Query != "do nothing" {
		t.Errorf("Expected query 'do nothing', got %q", entry.Query)
	}
	if entry.Command != "true" {
		t.Errorf("Expected command 'true', got %q", entry.Command)
	}
	if !entry.Executed {
		t.Error("Expected entry to be marked executed")
	}
	if entry.ExitCode != 0 {
		t.Errorf("Expected exit code 0, got %d", entry.ExitCode)
	}
	if entry.FinalCommand != "" {
		t.Errorf("Expected no final command without placeholders, got %q", entry.FinalCommand)
	}
}

func TestHandleSuggestionDeclined(t *testing.T) {
	e, recorded := testExecutor(Options{})
	e.confirm = func(prompt string, def bool) (bool, error) {
		if prompt != "Run this command?" {
			t.Errorf("Expected confirmation prompt, got %q", prompt)
		}
		if def {
			t.Error("Expected confirmation to default to no")
		}
		return false, nil
	}

	s := &llm.Suggestion{Command: "rm -rf /tmp/scratch", Warning: "Deletes files"}
	if err := e.HandleSuggestion(context.Background(), "clean scratch", s); err != nil {
		t.Fatalf("Declining should not error, got %v", err)
	}

	if len(*recorded) != 1 {
		t.Fatalf("Expected 1 history entry, got %d", len(*recorded))
	}
	if (*recorded)[0].Executed {
		t.Error("Expected declined entry to be marked not executed")
	}
}

func TestHandleSuggestionConfirmCancelled(t *testing.T) {
	e, recorded := testExecutor(Options{})
	e.confirm = func(prompt string, def bool) (bool, error) {
		return false, ui.ErrCancelled
	}

	err := e.HandleSuggestion(context.Background(), "anything", &llm.Suggestion{Command: "true"})
	if !errors.Is(err, ui.ErrCancelled) {
		t.Errorf("Expected cancellation to propagate, got %v", err)
	}
	if len(*recorded) != 0 {
		t.Errorf("Expected no history entry after cancel, got %d", len(*recorded))
	}
}

func TestHandleSuggestionCommandFailure(t *testing.T) {
	requirePOSIXShell(t)

	e, recorded := testExecutor(Options{AutoConfirm: true})

	err := e.HandleSuggestion(context.Background(), "fail", &llm.Suggestion{Command: "exit 7"})
	if err == nil {
		t.Fatal("Expected error for failing command")
	}
	if !qerrors.HasCode(err, qerrors.ErrCommandFailed) {
		t.Errorf("Expected COMMAND_FAILED code, got %v", err)
	}
	if !strings.Contains(err.Error(), "Command failed with exit code: 7") {
		t.Errorf("Expected exit code in message, got %q", err.Error())
	}

	if len(*recorded) != 1 {
		t.Fatalf("Expected 1 history entry, got %d", len(*recorded))
	}
	entry := (*recorded)[0]
	if !entry.Executed {
		t.Error("Expected failed run to be marked executed")
	}
	if entry.ExitCode != 7 {
		t.Errorf("Expected exit code 7, got %d", entry.ExitCode)
	}
}

func TestHandleSuggestionWithVariables(t *testing.T) {
	requirePOSIXShell(t)

	e, recorded := testExecutor(Options{AutoConfirm: true})

	var promptedNames []string
	e.promptVars = func(names []string) (map[string]string, error) {
		promptedNames = names
		return map[string]string{"MSG": "hello"}, nil
	}

	s := &llm.Suggestion{Command: "echo {{MSG}}"}
	if err := e.HandleSuggestion(context.Background(), "say hello", s); err != nil {
		t.Fatalf("HandleSuggestion failed: %v", err)
	}

	if len(promptedNames) != 1 || promptedNames[0] != "MSG" {
		t.Errorf("Expected prompt for MSG, got %v", promptedNames)
	}
	if len(*recorded) != 1 {
		t.Fatalf("Expected 1 history entry, got %d", len(*recorded))
	}
	if (*recorded)[0].FinalCommand != "echo hello" {
		t.Errorf("Expected final command 'echo hello', got %q", (*recorded)[0].FinalCommand)
	}
}

func TestHandleSuggestionVariableCancel(t *testing.T) {
	e, recorded := testExecutor(Options{AutoConfirm: true})
	e.promptVars = func(names []string) (map[string]string, error) {
		return nil, ui.ErrCancelled
	}

	err := e.HandleSuggestion(context.Background(), "anything", &llm.Suggestion{Command: "echo {{MSG}}"})
	if !errors.Is(err, ui.ErrCancelled) {
		t.Errorf("Expected cancellation to propagate, got %v", err)
	}
	if len(*recorded) != 0 {
		t.Errorf("Expected no history entry after cancel, got %d", len(*recorded))
	}
}

func TestExecuteCommandSuccess(t *testing.T) {
	requirePOSIXShell(t)

	e, _ := testExecutor(Options{})
	code, err := e.ExecuteCommand(context.Background(), "echo output && echo errors 1>&2")
	if err != nil {
		t.Fatalf("ExecuteCommand failed: %v", err)
	}
	if code != 0 {
		t.Errorf("Expected exit code 0, got %d", code)
	}
}

func TestExecuteCommandFailure(t *testing.T) {
	requirePOSIXShell(t)

	e, _ := testExecutor(Options{})
	code, err := e.ExecuteCommand(context.Background(), "exit 3")
	if err == nil {
		t.Fatal("Expected error for non-zero exit")
	}
	if code != 3 {
		t.Errorf("Expected exit code 3, got %d", code)
	}
	if !strings.Contains(err.Error(), "Command failed with exit code: 3") {
		t.Errorf("Expected exit code in message, got %q", err.Error())
	}
}

func TestExecuteCommandCancelledContext(t *testing.T) {
	requirePOSIXShell(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e, _ := testExecutor(Options{})
	code, err := e.ExecuteCommand(ctx, "true")
	if err == nil {
		t.Fatal("Expected error when context is already cancelled")
	}
	if code != -1 {
		t.Errorf("Expected exit code -1, got %d", code)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled in chain, got %v", err)
	}
}

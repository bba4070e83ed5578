// Package executor walks a command suggestion through display,
// confirmation, placeholder substitution and execution in a subshell.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
	"github.com/pterm/pterm"

	qerrors "github.com/qcmd/q/internal/errors"
	"github.com/qcmd/q/internal/history"
	"github.com/qcmd/q/internal/llm"
	"github.com/qcmd/q/internal/logging"
	"github.com/qcmd/q/internal/ui"
)

// Options control how a suggestion is presented and run.
type Options struct {
	// AutoConfirm skips the confirmation prompt. Placeholder values are
	// still collected interactively.
	AutoConfirm bool
	// ShowExplanation prints the explanation under the command.
	ShowExplanation bool
	// CopyToClipboard copies the suggested command before confirming.
	CopyToClipboard bool
}

// RecordFunc persists one history entry per handled suggestion.
type RecordFunc func(history.Entry) error

// Executor runs suggested commands after user review.
type Executor struct {
	opts      Options
	presenter *ui.Presenter
	record    RecordFunc
	log       *logging.Logger

	// Prompt seams, replaced in tests.
	confirm    func(prompt string, def bool) (bool, error)
	promptVars func(names []string) (map[string]string, error)
}

// New creates an executor. record may be nil when handled suggestions
// should not be persisted.
func New(opts Options, presenter *ui.Presenter, record RecordFunc) *Executor {
	return &Executor{
		opts:       opts,
		presenter:  presenter,
		record:     record,
		log:        logging.WithComponent("executor"),
		confirm:    ui.Confirm,
		promptVars: ui.PromptVariables,
	}
}

// HandleSuggestion displays the suggestion and, if the user agrees,
// fills in placeholders and runs the command. A declined suggestion is
// recorded and returns nil.
func (e *Executor) HandleSuggestion(ctx context.Context, query string, s *llm.Suggestion) error {
	e.presenter.RenderSuggestion(s, e.opts.ShowExplanation)

	if e.opts.CopyToClipboard {
		if err := clipboard.WriteAll(s.Command); err != nil {
			ui.ShowWarning(fmt.Sprintf("Could not copy command to clipboard: %v", err))
		}
	}

	entry := history.NewEntry(query, s.Command)

	run := e.opts.AutoConfirm
	if !run {
		pterm.Println()
		confirmed, err := e.confirm("Run this command?", false)
		if err != nil {
			return err
		}
		run = confirmed
	}

	if !run {
		pterm.NewStyle(pterm.FgGray).Println("Command not executed.")
		e.persist(entry)
		return nil
	}

	final, err := e.ResolveVariables(s.Command)
	if err != nil {
		return err
	}
	if final != s.Command {
		entry.FinalCommand = final
	}
	entry.Executed = true

	exitCode, err := e.ExecuteCommand(ctx, final)
	entry.ExitCode = exitCode
	e.persist(entry)
	return err
}

// ExecuteCommand runs command in a subshell and relays the captured
// output once it finishes. The returned exit code is -1 when the shell
// was killed by a signal or never started.
func (e *Executor) ExecuteCommand(ctx context.Context, command string) (int, error) {
	pterm.Println()
	pterm.NewStyle(pterm.FgLightGreen).Println("Executing...")

	cmd := shellCommand(ctx, command)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// No stdin: leftover terminal input must not reach the child as
	// commands.

	runErr := cmd.Run()

	if stdout.Len() > 0 {
		fmt.Println(stdout.String())
	}
	if stderr.Len() > 0 {
		fmt.Fprintln(os.Stderr, pterm.FgLightRed.Sprint(stderr.String()))
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return -1, qerrors.NewError(qerrors.ErrCommandFailed, "Failed to execute command").WithCause(runErr)
		}
		exitCode := exitErr.ExitCode()
		e.log.WithField("exit_code", exitCode).Debug("Command failed")
		return exitCode, qerrors.ErrCommandExitedNonZero(command, exitCode)
	}

	pterm.Println()
	pterm.NewStyle(pterm.FgLightGreen).Println("✓ Command completed successfully")
	return 0, nil
}

func shellCommand(ctx context.Context, command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command", command)
	}
	return exec.CommandContext(ctx, "bash", "-c", command)
}

func (e *Executor) persist(entry history.Entry) {
	if e.record == nil {
		return
	}
	if err := e.record(entry); err != nil {
		e.log.WithError(err).Warn("Failed to record history entry")
	}
}

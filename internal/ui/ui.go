// Package ui renders suggestions, prompts and errors on the terminal.
// Interactive paths (single-key confirm, the variable form, the spinner)
// engage only when stdin and stdout are both terminals; otherwise every
// prompt degrades to plain line-oriented reads so q stays scriptable.
package ui

import (
	"errors"
	"os"

	"golang.org/x/term"
)

// ErrCancelled reports that the user aborted an interactive prompt.
var ErrCancelled = errors.New("cancelled by user")

// IsInteractive reports whether both stdin and stdout are terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

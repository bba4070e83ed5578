package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/pterm/pterm"
)

// Confirm asks a yes/no question. On a terminal a single keypress
// answers (Enter takes the default, Ctrl+C cancels); otherwise a line
// is read from stdin.
func Confirm(prompt string, def bool) (bool, error) {
	if !IsInteractive() {
		return confirmLine(os.Stdin, os.Stdout, prompt, def)
	}
	return confirmKey(prompt, def)
}

func confirmHint(def bool) string {
	if def {
		return "[Y/n]"
	}
	return "[y/N]"
}

func confirmKey(prompt string, def bool) (bool, error) {
	pterm.Printf("%s %s ", prompt, confirmHint(def))

	answer := def
	cancelled := false

	err := keyboard.Listen(func(k keys.Key) (bool, error) {
		switch k.Code {
		case keys.CtrlC, keys.Escape:
			cancelled = true
			return true, nil
		case keys.Enter:
			return true, nil
		case keys.RuneKey:
			switch strings.ToLower(k.String()) {
			case "y":
				answer = true
				return true, nil
			case "n":
				answer = false
				return true, nil
			}
		}
		return false, nil
	})
	if err != nil {
		return false, err
	}

	if cancelled {
		pterm.Println("^C")
		return false, ErrCancelled
	}

	// Echo the effective choice so the transcript reads naturally.
	if answer {
		pterm.Println("y")
	} else {
		pterm.Println("n")
	}
	return answer, nil
}

func confirmLine(r io.Reader, w io.Writer, prompt string, def bool) (bool, error) {
	reader := bufio.NewReader(r)
	for {
		fmt.Fprintf(w, "%s %s ", prompt, confirmHint(def))

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return false, err
		}

		switch strings.TrimSpace(strings.ToLower(line)) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

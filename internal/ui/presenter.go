package ui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"

	"github.com/qcmd/q/internal/llm"
)

// Presenter renders suggestions and drives the thinking spinner.
type Presenter struct {
	mu          sync.Mutex
	spinner     *pterm.SpinnerPrinter
	timerCancel context.CancelFunc
	timerWG     sync.WaitGroup
	interactive bool
}

// NewPresenter creates a Presenter bound to the current terminal.
func NewPresenter() *Presenter {
	return &Presenter{interactive: IsInteractive()}
}

// RenderSuggestion prints the suggestion block: the command, optionally
// its explanation, and a warning when the model flagged one.
func (p *Presenter) RenderSuggestion(s *llm.Suggestion, showExplanation bool) {
	pterm.Println()
	pterm.NewStyle(pterm.FgLightCyan, pterm.Bold).Println("💡 Suggested command:")
	pterm.NewStyle(pterm.FgLightWhite).Println(s.Command)

	if showExplanation {
		pterm.Println()
		pterm.NewStyle(pterm.FgLightYellow).Println("Explanation:")
		pterm.Println(s.Explanation)
	}

	if s.Warning != "" {
		pterm.Println()
		pterm.NewStyle(pterm.FgLightRed, pterm.Bold).Println("⚠️  WARNING:")
		pterm.NewStyle(pterm.FgLightRed).Println(s.Warning)
	}
}

// ShowThinking starts the waiting animation with an elapsed-seconds
// counter. On a non-terminal it prints a single static line instead.
func (p *Presenter) ShowThinking() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.interactive {
		pterm.Println("🤔 Thinking...")
		return
	}

	p.stopSpinnerLocked()

	spinner := *pterm.DefaultSpinner.
		WithShowTimer(false).
		WithRemoveWhenDone(true)
	spinner.Sequence = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

	sp, err := spinner.Start("🤔 Thinking...")
	if err != nil {
		pterm.Println("🤔 Thinking...")
		return
	}
	p.spinner = sp
	cursor.Hide()

	ctx, cancel := context.WithCancel(context.Background())
	p.timerCancel = cancel
	start := time.Now()

	p.timerWG.Add(1)
	go func() {
		defer p.timerWG.Done()

		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				elapsed := int(time.Since(start).Seconds())
				sp.UpdateText(fmt.Sprintf("🤔 Thinking... (%ds)", elapsed))
			}
		}
	}()
}

// StopThinking stops the animation and clears its line.
func (p *Presenter) StopThinking() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopSpinnerLocked()
}

func (p *Presenter) stopSpinnerLocked() {
	if p.timerCancel != nil {
		p.timerCancel()
		p.timerWG.Wait()
		p.timerCancel = nil
	}
	if p.spinner != nil {
		_ = p.spinner.Stop()
		p.spinner = nil
		cursor.Show()
	}
}

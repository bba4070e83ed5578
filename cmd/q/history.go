package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/qcmd/q/internal/config"
	"github.com/qcmd/q/internal/executor"
	"github.com/qcmd/q/internal/history"
	"github.com/qcmd/q/internal/llm"
	"github.com/qcmd/q/internal/ui"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and re-run suggested commands",
	Long:  `View past suggestions and optionally run one of them again.`,
	RunE:  listHistoryAndRerun,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clears the saved suggestion history",
	Run: func(cmd *cobra.Command, args []string) {
		if err := history.Clear(); err != nil {
			pterm.Error.Printfln("Failed to clear history: %v", err)
			os.Exit(1)
		}
		pterm.Success.Println("History cleared.")
	},
}

func listHistoryAndRerun(cmd *cobra.Command, args []string) error {
	hist, err := history.Load()
	if err != nil {
		pterm.Error.Printfln("Failed to load history: %v", err)
		os.Exit(1)
	}

	if len(hist.Entries) == 0 {
		pterm.Info.Println("No history found.")
		return nil
	}

	options := make([]string, 0, len(hist.Entries))
	for _, entry := range hist.Entries {
		options = append(options, historyLine(entry))
	}

	// Without a terminal there is nothing to select; just list.
	if !ui.IsInteractive() {
		for _, line := range options {
			fmt.Println(line)
		}
		return nil
	}

	fmt.Println()
	selected, _ := pterm.DefaultInteractiveSelect.
		WithOptions(options).
		Show("Select a command to run again >")

	var entry history.Entry
	found := false
	for i, option := range options {
		if option == selected {
			entry = hist.Entries[i]
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	showEntryDetails(entry)

	cfg, err := config.Load()
	if err != nil {
		pterm.Error.Printfln("Failed to load config: %v", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		failValidation(err)
	}

	exec := executor.New(executor.Options{
		AutoConfirm:     cfg.Execution.AutoConfirm,
		CopyToClipboard: cfg.Execution.CopyToClipboard,
	}, ui.NewPresenter(), recordHistory)

	return exec.HandleSuggestion(cmd.Context(), entry.Query, &llm.Suggestion{Command: entry.Command})
}

// historyLine renders one entry for the selection list.
func historyLine(e history.Entry) string {
	command := e.Command
	if len(command) > 50 {
		command = command[:47] + "..."
	}
	status := "skipped"
	if e.Executed {
		status = "ran"
	}
	return fmt.Sprintf("%s [%s] - %s", e.Timestamp.Format("2006-01-02 15:04:05"), status, command)
}

func showEntryDetails(e history.Entry) {
	pterm.Println()
	pterm.Println(fmt.Sprintf("Query: %s", e.Query))
	if e.Executed {
		pterm.Println(fmt.Sprintf("Last run: exit code %d", e.ExitCode))
	} else {
		pterm.Println("Last run: not executed")
	}
}

func init() {
	historyCmd.AddCommand(historyClearCmd)
}

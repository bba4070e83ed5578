package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/qcmd/q/internal/config"
	"github.com/qcmd/q/internal/history"
	"github.com/qcmd/q/internal/prompt"
)

// newPromptManager loads prompt overrides from ~/.config/q/prompts.json
// when the file exists, else uses the built-in prompts.
func newPromptManager() *prompt.Manager {
	home, err := os.UserHomeDir()
	if err == nil {
		path := filepath.Join(home, config.DefaultConfigDir, config.DefaultPromptsFileName)
		if pm, err := prompt.NewManager(path); err == nil {
			return pm
		}
	}
	return prompt.NewDefaultManager()
}

// recordHistory is the executor's history sink.
func recordHistory(entry history.Entry) error {
	return history.Add(entry)
}

// maskIfSet masks non-empty keys for display
func maskIfSet(v string) string {
	if strings.TrimSpace(v) == "" {
		return ""
	}
	if len(v) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(v)-4) + v[len(v)-4:]
}

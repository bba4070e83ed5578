package llm

import (
	"context"
	"fmt"

	"github.com/qcmd/q/internal/config"
	qerrors "github.com/qcmd/q/internal/errors"
	"github.com/qcmd/q/internal/prompt"
	"github.com/qcmd/q/internal/sysinfo"
)

// Suggestion represents a command suggestion provided by an AI provider.
type Suggestion struct {
	// Command is the shell command to run, possibly containing
	// {{VARIABLE_NAME}} placeholders the user fills in before execution.
	Command string `json:"command"`
	// Explanation describes what the command does.
	Explanation string `json:"explanation"`
	// Warning flags potentially destructive operations. Empty means safe.
	Warning string `json:"warning,omitempty"`
}

// Provider represents an AI provider that can translate natural language
// into shell commands.
type Provider interface {
	// GenerateCommand produces a command suggestion for the query given
	// the system context the command will run in.
	GenerateCommand(ctx context.Context, query string, sysCtx *sysinfo.SystemContext) (*Suggestion, error)

	// VerifyConnection checks that the provider is reachable with the
	// configured credentials.
	VerifyConnection(ctx context.Context) error
}

// ProviderFactory is a function that creates a new Provider.
type ProviderFactory func(config.ProviderSettings, *prompt.Manager) (Provider, error)

var providerFactories = make(map[string]ProviderFactory)

// RegisterProvider makes a provider available by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providerFactories[name] = factory
}

// GetProvider creates a new provider by name.
func GetProvider(name string, cfg config.ProviderSettings, pm *prompt.Manager) (Provider, error) {
	factory, ok := providerFactories[name]
	if !ok {
		return nil, qerrors.NewError(qerrors.ErrProviderNotFound, fmt.Sprintf("Unsupported provider: %s", name))
	}
	return factory(cfg, pm)
}

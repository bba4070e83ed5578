package config

import "time"

// Application constants
const (
	// Application metadata
	AppName        = "q"
	AppDescription = "AI-powered terminal command assistant"

	// Directory and file paths, relative to the user home directory
	DefaultConfigDir       = ".config/q"
	DefaultLogDir          = "logs"
	DefaultConfigFileName  = "config.toml"
	DefaultLogFileName     = "q.log"
	DefaultHistoryFileName = "history.json"
	DefaultPromptsFileName = "prompts.json"

	// Provider names
	ProviderOpenRouter = "openrouter"

	// OpenRouter defaults
	DefaultOpenRouterModel   = "anthropic/claude-4.5-sonnet"
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

	// PlaceholderAPIKey is the documentation placeholder; it is rejected
	// at validation so a copy-pasted sample config cannot reach the API.
	PlaceholderAPIKey = "sk-or-v1-..."

	// Timeouts
	DefaultHTTPTimeout = 90 * time.Second

	// History management
	DefaultMaxHistorySize    = 100
	DefaultMaxRecentCommands = 10

	// Environment variables
	EnvDebug = "Q_DEBUG"

	// Exit codes
	ExitSuccess      = 0
	ExitGenericError = 1
	ExitUserCancel   = 130

	// File permissions. The config file carries a credential, so it is
	// written user-only.
	DefaultDirPermissions  = 0755
	ConfigFilePermissions  = 0600
	DefaultFilePermissions = 0644
)

// GetSupportedProviders returns all supported AI providers
func GetSupportedProviders() []string {
	return []string{
		ProviderOpenRouter,
	}
}

// IsValidProvider checks if a provider is supported
func IsValidProvider(provider string) bool {
	for _, validProvider := range GetSupportedProviders() {
		if provider == validProvider {
			return true
		}
	}
	return false
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	qerrors "github.com/qcmd/q/internal/errors"
	"github.com/qcmd/q/internal/secret"
)

// OpenRouterConfig holds credentials and endpoint settings for the OpenRouter API.
type OpenRouterConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
}

// AIConfig selects and configures the AI provider.
type AIConfig struct {
	DefaultProvider string            `toml:"default_provider"`
	OpenRouter      *OpenRouterConfig `toml:"openrouter,omitempty"`
}

// ExecutionConfig controls how suggested commands are handled.
type ExecutionConfig struct {
	AutoConfirm     bool `toml:"auto_confirm"`
	ShowExplanation bool `toml:"show_explanation"`
	CopyToClipboard bool `toml:"copy_to_clipboard"`
}

// ContextConfig controls what system context is gathered for the prompt.
type ContextConfig struct {
	IncludeShellInfo bool `toml:"include_shell_info"`
	IncludeDirectory bool `toml:"include_directory"`
	IncludeHistory   bool `toml:"include_history"`
	// Optional override for the shell reported to the AI (e.g. "powershell",
	// "bash", "zsh"). Auto-detected when empty.
	Shell string `toml:"shell,omitempty"`
}

// Config is the main configuration structure for the application.
type Config struct {
	AI        AIConfig        `toml:"ai"`
	Execution ExecutionConfig `toml:"execution"`
	Context   ContextConfig   `toml:"context"`

	// path is the file this config was loaded from and will be saved to.
	path string
	// encryptKeyOnSave is set when the in-memory API key came from (or is
	// destined for) the encrypted store, so Save round-trips it encrypted.
	encryptKeyOnSave bool
}

// ProviderSettings is the provider-facing view of the AI configuration.
type ProviderSettings struct {
	APIKey  string
	Model   string
	BaseURL string
}

// GetConfigPath returns the full path to the configuration file,
// creating the configuration directory if needed.
func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, DefaultConfigDir)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		return "", qerrors.ErrFileSystemError("create_dir", dir, err)
	}
	return filepath.Join(dir, DefaultConfigFileName), nil
}

// NewDefault returns the default configuration, not yet bound to a file.
func NewDefault() *Config {
	return newDefaultConfig()
}

func newDefaultConfig() *Config {
	return &Config{
		AI: AIConfig{
			DefaultProvider: ProviderOpenRouter,
			OpenRouter:      nil,
		},
		Execution: ExecutionConfig{
			AutoConfirm:     false,
			ShowExplanation: true,
			CopyToClipboard: false,
		},
		Context: ContextConfig{
			IncludeShellInfo: true,
			IncludeDirectory: true,
			IncludeHistory:   false,
		},
	}
}

// Load reads the configuration file from the default location, creating a
// default one on first run.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration file at path, creating a default one on
// first run. Fields absent from the file keep their defaults, and an
// encrypted API key is decrypted before the config is returned.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := newDefaultConfig()
		cfg.path = path
		if err := cfg.Save(); err != nil {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "Created default config at: %s\n", path)
		fmt.Fprintln(os.Stderr, "Please edit this file to add your OpenRouter API key.")
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, qerrors.ErrConfigLoadFailed(path, err)
	}

	// Unmarshal over the defaults so missing fields keep their default
	// values, matching the file contract.
	cfg := newDefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, qerrors.ErrConfigLoadFailed(path, err)
	}
	cfg.path = path
	cfg.applyDefaults()

	if err := cfg.decryptAPIKey(filepath.Dir(path)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Path returns the file this config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// applyDefaults fills empty OpenRouter fields after a partial file parse.
func (c *Config) applyDefaults() {
	if c.AI.OpenRouter != nil {
		if c.AI.OpenRouter.Model == "" {
			c.AI.OpenRouter.Model = DefaultOpenRouterModel
		}
		if c.AI.OpenRouter.BaseURL == "" {
			c.AI.OpenRouter.BaseURL = DefaultOpenRouterBaseURL
		}
	}
}

// decryptAPIKey resolves an enc:-prefixed key through the secret store.
// Plaintext keys pass through untouched.
func (c *Config) decryptAPIKey(configDir string) error {
	if c.AI.OpenRouter == nil || !secret.IsEncrypted(c.AI.OpenRouter.APIKey) {
		return nil
	}

	store, err := secret.NewStore(configDir)
	if err != nil {
		return err
	}
	decrypted, err := store.Decrypt(c.AI.OpenRouter.APIKey)
	if err != nil {
		return qerrors.NewError(qerrors.ErrSecretStore,
			"Stored API key could not be decrypted. Run 'q config' to set it again.").
			WithCause(err)
	}

	c.AI.OpenRouter.APIKey = decrypted
	c.encryptKeyOnSave = true
	return nil
}

// SetAPIKey assigns the OpenRouter API key, creating the section with
// defaults if needed. The key is stored encrypted on the next Save.
func (c *Config) SetAPIKey(key string) {
	if c.AI.OpenRouter == nil {
		c.AI.OpenRouter = &OpenRouterConfig{
			Model:   DefaultOpenRouterModel,
			BaseURL: DefaultOpenRouterBaseURL,
		}
	}
	c.AI.OpenRouter.APIKey = key
	c.encryptKeyOnSave = key != "" && key != PlaceholderAPIKey
}

// Save writes the configuration back to its file.
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		var err error
		if path, err = GetConfigPath(); err != nil {
			return err
		}
		c.path = path
	}
	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPermissions); err != nil {
		return qerrors.ErrFileSystemError("create_dir", filepath.Dir(path), err)
	}

	out := *c
	if c.encryptKeyOnSave && c.AI.OpenRouter != nil && c.AI.OpenRouter.APIKey != "" {
		store, err := secret.NewStore(filepath.Dir(path))
		if err != nil {
			return err
		}
		encrypted, err := store.Encrypt(c.AI.OpenRouter.APIKey)
		if err != nil {
			return err
		}
		section := *c.AI.OpenRouter
		section.APIKey = encrypted
		out.AI.OpenRouter = &section
	}

	data, err := toml.Marshal(out)
	if err != nil {
		return qerrors.ErrConfigSaveFailed(path, err)
	}
	if err := os.WriteFile(path, data, ConfigFilePermissions); err != nil {
		return qerrors.ErrConfigSaveFailed(path, err)
	}
	return nil
}

// Validate checks that the configured provider is usable.
func (c *Config) Validate() error {
	path := c.path
	if path == "" {
		var err error
		if path, err = GetConfigPath(); err != nil {
			return err
		}
	}
	switch c.AI.DefaultProvider {
	case ProviderOpenRouter:
		if c.AI.OpenRouter == nil {
			return qerrors.ErrConfigValidationFailed("ai.openrouter",
				fmt.Sprintf("OpenRouter is set as default provider but not configured. Please edit %s", path))
		}
		if c.AI.OpenRouter.APIKey == "" || c.AI.OpenRouter.APIKey == PlaceholderAPIKey {
			return qerrors.ErrConfigValidationFailed("ai.openrouter.api_key",
				fmt.Sprintf("OpenRouter API key not configured. Please edit %s and add your API key.", path))
		}
	default:
		return qerrors.ErrConfigValidationFailed("ai.default_provider",
			fmt.Sprintf("Unknown provider: %s. Currently only 'openrouter' is supported.", c.AI.DefaultProvider))
	}
	return nil
}

// ProviderSettings returns the settings for the named provider, with the
// API key already decrypted.
func (c *Config) ProviderSettings(name string) (ProviderSettings, error) {
	switch name {
	case ProviderOpenRouter:
		if c.AI.OpenRouter == nil {
			return ProviderSettings{}, qerrors.NewError(qerrors.ErrConfigMissing,
				"OpenRouter configuration not found")
		}
		return ProviderSettings{
			APIKey:  c.AI.OpenRouter.APIKey,
			Model:   c.AI.OpenRouter.Model,
			BaseURL: c.AI.OpenRouter.BaseURL,
		}, nil
	default:
		return ProviderSettings{}, qerrors.ErrUnsupportedProvider(name)
	}
}

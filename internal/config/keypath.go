package config

import (
	"fmt"
	"strconv"
	"strings"

	qerrors "github.com/qcmd/q/internal/errors"
)

// ValidKeys lists the dotted key paths accepted by Get and Set.
var ValidKeys = []string{
	"ai.default_provider",
	"ai.openrouter.api_key",
	"ai.openrouter.model",
	"ai.openrouter.base_url",
	"execution.auto_confirm",
	"execution.show_explanation",
	"execution.copy_to_clipboard",
	"context.include_shell_info",
	"context.include_directory",
	"context.include_history",
	"context.shell",
}

// Get returns the value at a dotted key path as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "ai.default_provider":
		return c.AI.DefaultProvider, nil
	case "ai.openrouter.api_key", "ai.openrouter.model", "ai.openrouter.base_url":
		if c.AI.OpenRouter == nil {
			return "", qerrors.NewError(qerrors.ErrConfigMissing, "OpenRouter configuration not found")
		}
		switch key {
		case "ai.openrouter.api_key":
			return c.AI.OpenRouter.APIKey, nil
		case "ai.openrouter.model":
			return c.AI.OpenRouter.Model, nil
		default:
			return c.AI.OpenRouter.BaseURL, nil
		}
	case "execution.auto_confirm":
		return strconv.FormatBool(c.Execution.AutoConfirm), nil
	case "execution.show_explanation":
		return strconv.FormatBool(c.Execution.ShowExplanation), nil
	case "execution.copy_to_clipboard":
		return strconv.FormatBool(c.Execution.CopyToClipboard), nil
	case "context.include_shell_info":
		return strconv.FormatBool(c.Context.IncludeShellInfo), nil
	case "context.include_directory":
		return strconv.FormatBool(c.Context.IncludeDirectory), nil
	case "context.include_history":
		return strconv.FormatBool(c.Context.IncludeHistory), nil
	case "context.shell":
		return c.Context.Shell, nil
	default:
		return "", unknownKeyError(key)
	}
}

// Set assigns the value at a dotted key path. Boolean keys accept the
// forms strconv.ParseBool does. Setting the API key routes through
// SetAPIKey so it is stored encrypted.
func (c *Config) Set(key, value string) error {
	switch key {
	case "ai.default_provider":
		c.AI.DefaultProvider = value
	case "ai.openrouter.api_key":
		c.SetAPIKey(value)
	case "ai.openrouter.model", "ai.openrouter.base_url":
		if c.AI.OpenRouter == nil {
			c.AI.OpenRouter = &OpenRouterConfig{
				Model:   DefaultOpenRouterModel,
				BaseURL: DefaultOpenRouterBaseURL,
			}
		}
		if key == "ai.openrouter.model" {
			c.AI.OpenRouter.Model = value
		} else {
			c.AI.OpenRouter.BaseURL = value
		}
	case "execution.auto_confirm", "execution.show_explanation", "execution.copy_to_clipboard",
		"context.include_shell_info", "context.include_directory", "context.include_history":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return qerrors.NewError(qerrors.ErrUserInput,
				fmt.Sprintf("invalid boolean value %q for %s", value, key))
		}
		switch key {
		case "execution.auto_confirm":
			c.Execution.AutoConfirm = b
		case "execution.show_explanation":
			c.Execution.ShowExplanation = b
		case "execution.copy_to_clipboard":
			c.Execution.CopyToClipboard = b
		case "context.include_shell_info":
			c.Context.IncludeShellInfo = b
		case "context.include_directory":
			c.Context.IncludeDirectory = b
		case "context.include_history":
			c.Context.IncludeHistory = b
		}
	case "context.shell":
		c.Context.Shell = value
	default:
		return unknownKeyError(key)
	}
	return nil
}

func unknownKeyError(key string) error {
	return qerrors.NewError(qerrors.ErrUserInput,
		fmt.Sprintf("unknown config key %q (valid keys: %s)", key, strings.Join(ValidKeys, ", ")))
}

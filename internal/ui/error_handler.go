package ui

import (
	"context"
	"errors"

	"github.com/pterm/pterm"

	qerrors "github.com/qcmd/q/internal/errors"
	"github.com/qcmd/q/internal/llm"
)

// UserFriendlyError carries a titled, actionable rendering of a failure.
type UserFriendlyError struct {
	Title       string
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface.
func (e *UserFriendlyError) Error() string {
	return e.Message
}

// ErrorHandler converts pipeline failures into readable terminal output.
type ErrorHandler struct {
	debugMode bool
}

// NewErrorHandler creates an error handler. Debug mode appends the
// underlying cause chain to the rendered output.
func NewErrorHandler(debugMode bool) *ErrorHandler {
	return &ErrorHandler{debugMode: debugMode}
}

// Handle displays err in a user-friendly form. Nil is ignored.
func (eh *ErrorHandler) Handle(err error) {
	if err == nil {
		return
	}

	var userErr *UserFriendlyError
	if !errors.As(err, &userErr) {
		userErr = eh.convert(err)
	}

	eh.display(userErr)
}

// ExitCode picks the process exit code for err: 130 when the user
// cancelled, 1 for everything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled) {
		return 130
	}
	if qErr, ok := qerrors.GetQError(err); ok && qErr.Code == qerrors.ErrUserCancel {
		return 130
	}
	return 1
}

func (eh *ErrorHandler) convert(err error) *UserFriendlyError {
	if errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled) {
		return &UserFriendlyError{
			Title:   "Cancelled",
			Message: "Operation cancelled by user.",
			Cause:   err,
		}
	}

	var llmErr *llm.LLMError
	if errors.As(err, &llmErr) {
		return eh.convertLLMError(llmErr)
	}

	if qErr, ok := qerrors.GetQError(err); ok {
		return eh.convertQError(qErr)
	}

	return &UserFriendlyError{
		Title:   "Unexpected Error",
		Message: err.Error(),
		Suggestions: []string{
			"Try the command again",
			"Run with --debug for details",
		},
		Cause: err,
	}
}

func (eh *ErrorHandler) convertLLMError(err *llm.LLMError) *UserFriendlyError {
	switch err.Type {
	case llm.AuthError:
		return &UserFriendlyError{
			Title:   "Authentication Failed",
			Message: err.Message,
			Suggestions: []string{
				"Run 'q config' to set your OpenRouter API key",
				"Check the key at https://openrouter.ai/keys",
			},
			Cause: err,
		}
	case llm.QuotaExceededError:
		return &UserFriendlyError{
			Title:   "Rate Limit Exceeded",
			Message: err.Message,
			Suggestions: []string{
				"Wait a few minutes before trying again",
				"Check your usage at https://openrouter.ai/activity",
			},
			Cause: err,
		}
	case llm.TimeoutError:
		return &UserFriendlyError{
			Title:   "Request Timed Out",
			Message: err.Message,
			Suggestions: []string{
				"Try again; the model may be under load",
				"Try a faster model: q config set ai.openrouter.model <model>",
			},
			Cause: err,
		}
	case llm.NetworkError:
		return &UserFriendlyError{
			Title:   "Network Error",
			Message: err.Message,
			Suggestions: []string{
				"Check your internet connection",
				"Verify ai.openrouter.base_url in your config",
			},
			Cause: err,
		}
	case llm.ModelNotFoundError:
		return &UserFriendlyError{
			Title:   "Model Not Available",
			Message: err.Message,
			Suggestions: []string{
				"Check ai.openrouter.model in your config",
				"Browse available models at https://openrouter.ai/models",
			},
			Cause: err,
		}
	case llm.InvalidResponseError, llm.EmptyResponseError:
		return &UserFriendlyError{
			Title:   "Unusable AI Reply",
			Message: err.Message,
			Suggestions: []string{
				"Try rephrasing your query",
				"Try a different model: q config set ai.openrouter.model <model>",
			},
			Cause: err,
		}
	default:
		return &UserFriendlyError{
			Title:   "AI Provider Error",
			Message: err.Message,
			Suggestions: []string{
				"Try the command again",
				"Run with --debug for details",
			},
			Cause: err,
		}
	}
}

func (eh *ErrorHandler) convertQError(err *qerrors.QError) *UserFriendlyError {
	switch err.Code {
	case qerrors.ErrConfigLoad, qerrors.ErrConfigSave, qerrors.ErrConfigValidation, qerrors.ErrConfigMissing:
		return &UserFriendlyError{
			Title:   "Configuration Error",
			Message: err.Message,
			Suggestions: []string{
				"Run 'q config' to reconfigure",
				"Inspect the file with 'q config show'",
			},
			Cause: err,
		}
	case qerrors.ErrSecretStore:
		return &UserFriendlyError{
			Title:   "Stored Key Unreadable",
			Message: err.Message,
			Suggestions: []string{
				"Run 'q config' to store the API key again",
			},
			Cause: err,
		}
	case qerrors.ErrCommandFailed:
		return &UserFriendlyError{
			Title:   "Command Failed",
			Message: err.Message,
			Cause:   err,
		}
	case qerrors.ErrUserCancel, qerrors.ErrCommandCancelled:
		return &UserFriendlyError{
			Title:   "Cancelled",
			Message: err.Message,
			Cause:   err,
		}
	default:
		return &UserFriendlyError{
			Title:   "Error",
			Message: err.Message,
			Cause:   err,
		}
	}
}

func (eh *ErrorHandler) display(err *UserFriendlyError) {
	pterm.Println()
	pterm.NewStyle(pterm.FgRed, pterm.Bold).Printf("✗ %s\n", err.Title)
	pterm.NewStyle(pterm.FgLightRed).Println(err.Message)

	if len(err.Suggestions) > 0 {
		pterm.Println()
		pterm.NewStyle(pterm.FgYellow).Println("Suggestions:")
		for _, suggestion := range err.Suggestions {
			pterm.Printf("  - %s\n", suggestion)
		}
	}

	if eh.debugMode && err.Cause != nil {
		pterm.Println()
		pterm.NewStyle(pterm.FgGray).Printf("cause: %v\n", err.Cause)
	}
}

// ShowSuccess prints a bold green success line.
func ShowSuccess(message string) {
	pterm.NewStyle(pterm.FgGreen, pterm.Bold).Printf("✓ %s\n", message)
}

// ShowWarning prints a bold yellow warning line.
func ShowWarning(message string) {
	pterm.NewStyle(pterm.FgYellow, pterm.Bold).Printf("⚠️  %s\n", message)
}

// ShowInfo prints a cyan informational line.
func ShowInfo(message string) {
	pterm.NewStyle(pterm.FgCyan).Printf("ℹ %s\n", message)
}

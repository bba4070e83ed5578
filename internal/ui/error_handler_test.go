package ui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	qerrors "github.com/qcmd/q/internal/errors"
	"github.com/qcmd/q/internal/llm"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, 0},
		{"cancelled", ErrCancelled, 130},
		{"wrapped cancelled", fmt.Errorf("confirm: %w", ErrCancelled), 130},
		{"context cancelled", context.Canceled, 130},
		{"user cancel code", qerrors.NewError(qerrors.ErrUserCancel, "stopped"), 130},
		{"command failed", qerrors.NewError(qerrors.ErrCommandFailed, "exit 2"), 1},
		{"generic error", errors.New("boom"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("Expected exit code %d, got %d", tt.want, got)
			}
		})
	}
}

func TestConvertLLMErrors(t *testing.T) {
	eh := NewErrorHandler(false)

	tests := []struct {
		errType   llm.ErrorType
		wantTitle string
	}{
		{llm.AuthError, "Authentication Failed"},
		{llm.QuotaExceededError, "Rate Limit Exceeded"},
		{llm.TimeoutError, "Request Timed Out"},
		{llm.NetworkError, "Network Error"},
		{llm.ModelNotFoundError, "Model Not Available"},
		{llm.InvalidResponseError, "Unusable AI Reply"},
		{llm.EmptyResponseError, "Unusable AI Reply"},
		{llm.ProviderError, "AI Provider Error"},
	}

	for _, tt := range tests {
		t.Run(string(tt.errType), func(t *testing.T) {
			err := llm.NewLLMError(tt.errType, "something went wrong", nil)
			userErr := eh.convert(err)
			if userErr.Title != tt.wantTitle {
				t.Errorf("Expected title %q, got %q", tt.wantTitle, userErr.Title)
			}
		})
	}
}

func TestConvertLLMErrorWrapped(t *testing.T) {
	eh := NewErrorHandler(false)

	err := fmt.Errorf("generate: %w", llm.NewLLMError(llm.AuthError, "bad key", nil))
	userErr := eh.convert(err)
	if userErr.Title != "Authentication Failed" {
		t.Errorf("Expected wrapped LLM error to convert, got title %q", userErr.Title)
	}
	if len(userErr.Suggestions) == 0 {
		t.Error("Expected auth failure to carry suggestions")
	}
}

func TestConvertQErrors(t *testing.T) {
	eh := NewErrorHandler(false)

	tests := []struct {
		name      string
		code      qerrors.ErrorCode
		wantTitle string
	}{
		{"config load", qerrors.ErrConfigLoad, "Configuration Error"},
		{"config validation", qerrors.ErrConfigValidation, "Configuration Error"},
		{"secret store", qerrors.ErrSecretStore, "Stored Key Unreadable"},
		{"command failed", qerrors.ErrCommandFailed, "Command Failed"},
		{"user cancel", qerrors.ErrUserCancel, "Cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userErr := eh.convert(qerrors.NewError(tt.code, "details here"))
			if userErr.Title != tt.wantTitle {
				t.Errorf("Expected title %q, got %q", tt.wantTitle, userErr.Title)
			}
		})
	}
}

func TestConvertCommandFailedHasNoSuggestions(t *testing.T) {
	eh := NewErrorHandler(false)

	userErr := eh.convert(qerrors.NewError(qerrors.ErrCommandFailed, "Command failed with exit code: 2"))
	if len(userErr.Suggestions) != 0 {
		t.Errorf("Expected no suggestions for a failed command, got %v", userErr.Suggestions)
	}
}

func TestConvertCancelled(t *testing.T) {
	eh := NewErrorHandler(false)

	userErr := eh.convert(ErrCancelled)
	if userErr.Title != "Cancelled" {
		t.Errorf("Expected title Cancelled, got %q", userErr.Title)
	}

	userErr = eh.convert(fmt.Errorf("confirm: %w", ErrCancelled))
	if userErr.Title != "Cancelled" {
		t.Errorf("Expected wrapped cancellation to convert, got %q", userErr.Title)
	}
}

func TestConvertGenericError(t *testing.T) {
	eh := NewErrorHandler(false)

	userErr := eh.convert(errors.New("boom"))
	if userErr.Title != "Unexpected Error" {
		t.Errorf("Expected title Unexpected Error, got %q", userErr.Title)
	}
	if userErr.Message != "boom" {
		t.Errorf("Expected message boom, got %q", userErr.Message)
	}
	if len(userErr.Suggestions) == 0 {
		t.Error("Expected generic failure to suggest next steps")
	}
}

func TestUserFriendlyErrorMessage(t *testing.T) {
	err := &UserFriendlyError{Title: "Network Error", Message: "connection refused"}
	if err.Error() != "connection refused" {
		t.Errorf("Expected Error() to return the message, got %q", err.Error())
	}
}

func TestHandleDoesNotPanic(t *testing.T) {
	eh := NewErrorHandler(true)

	eh.Handle(nil)
	eh.Handle(errors.New("boom"))
	eh.Handle(&UserFriendlyError{Title: "Custom", Message: "already friendly"})
	eh.Handle(llm.NewLLMError(llm.NetworkError, "no route to host", errors.New("dial tcp")))
}

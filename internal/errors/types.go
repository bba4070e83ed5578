// Package errors defines the structured error type shared across q.
// Errors carry a stable code for programmatic handling alongside a
// message written for the terminal.
package errors

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// ErrorCode identifies an error class across package boundaries.
type ErrorCode string

const (
	// Configuration
	ErrConfigLoad       ErrorCode = "CONFIG_LOAD"
	ErrConfigSave       ErrorCode = "CONFIG_SAVE"
	ErrConfigValidation ErrorCode = "CONFIG_VALIDATION"
	ErrConfigMissing    ErrorCode = "CONFIG_MISSING"

	// Providers
	ErrProviderInit     ErrorCode = "PROVIDER_INIT"
	ErrProviderNotFound ErrorCode = "PROVIDER_NOT_FOUND"

	// Command execution
	ErrCommandFailed    ErrorCode = "COMMAND_FAILED"
	ErrCommandCancelled ErrorCode = "COMMAND_CANCELLED"

	// History
	ErrHistoryLoad  ErrorCode = "HISTORY_LOAD"
	ErrHistorySave  ErrorCode = "HISTORY_SAVE"
	ErrHistoryClear ErrorCode = "HISTORY_CLEAR"

	// Credential storage
	ErrSecretStore ErrorCode = "SECRET_STORE"

	// User interaction
	ErrUserInput  ErrorCode = "USER_INPUT"
	ErrUserCancel ErrorCode = "USER_CANCEL"

	// Environment
	ErrFileSystem ErrorCode = "FILE_SYSTEM"
	ErrNetwork    ErrorCode = "NETWORK"
)

// QError is the error type produced throughout q. Code stays stable for
// callers that branch on it; Message is what the user reads. Details,
// Context and Stack hold diagnostics surfaced only in debug output.
type QError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	Context    map[string]interface{} `json:"context,omitempty"`
	Stack      string                 `json:"stack,omitempty"`
	UserFacing bool                   `json:"user_facing"`
}

func newQError(code ErrorCode, message string, userFacing bool) *QError {
	return &QError{
		Code:       code,
		Message:    message,
		Context:    make(map[string]interface{}),
		Stack:      callSite(),
		UserFacing: userFacing,
	}
}

// NewError builds a user-facing error.
func NewError(code ErrorCode, message string) *QError {
	return newQError(code, message, true)
}

// NewInternalError builds an error kept out of normal terminal output.
func NewInternalError(code ErrorCode, message string) *QError {
	return newQError(code, message, false)
}

// WrapError attaches a code and message to an underlying error.
// Wrapping nil returns nil.
func WrapError(err error, code ErrorCode, message string) *QError {
	if err == nil {
		return nil
	}
	return newQError(code, message, true).WithCause(err)
}

func (e *QError) Error() string {
	s := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Details != "" {
		s += " (" + e.Details + ")"
	}
	return s
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *QError) Unwrap() error {
	return e.Cause
}

// IsUserFacing reports whether the message is meant for the terminal.
func (e *QError) IsUserFacing() bool {
	return e.UserFacing
}

// WithContext records a diagnostic key/value pair.
func (e *QError) WithContext(key string, value interface{}) *QError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithCause records the underlying error.
func (e *QError) WithCause(cause error) *QError {
	e.Cause = cause
	return e
}

// callSite names the file and line that constructed the error. Depth 3
// skips callSite, newQError and the exported constructor.
func callSite() string {
	_, file, line, ok := runtime.Caller(3)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

// IsQError reports whether err is a *QError. Wrapped values do not
// count; use errors.As when unwrapping matters.
func IsQError(err error) bool {
	_, ok := err.(*QError)
	return ok
}

// GetQError returns err as a *QError when it is one directly.
func GetQError(err error) (*QError, bool) {
	qErr, ok := err.(*QError)
	return qErr, ok
}

// HasCode reports whether err is a *QError carrying the given code.
func HasCode(err error, code ErrorCode) bool {
	if qErr, ok := GetQError(err); ok {
		return qErr.Code == code
	}
	return false
}

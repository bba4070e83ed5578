package errors

import "fmt"

// Configuration related error factory functions

// ErrConfigLoadFailed configuration loading failed
func ErrConfigLoadFailed(path string, cause error) *QError {
	return WrapError(cause, ErrConfigLoad, "Configuration file loading failed").
		WithContext("config_path", path)
}

// ErrConfigSaveFailed configuration saving failed
func ErrConfigSaveFailed(path string, cause error) *QError {
	return WrapError(cause, ErrConfigSave, "Configuration file saving failed").
		WithContext("config_path", path)
}

// ErrConfigValidationFailed configuration validation failed
func ErrConfigValidationFailed(field string, reason string) *QError {
	return NewError(ErrConfigValidation, reason).
		WithContext("field", field)
}

// Provider related error factory functions

// ErrProviderInitFailed provider initialization failed
func ErrProviderInitFailed(provider string, cause error) *QError {
	return WrapError(cause, ErrProviderInit, fmt.Sprintf("provider '%s' initialization failed", provider)).
		WithContext("provider", provider)
}

// ErrUnsupportedProvider provider name is not registered
func ErrUnsupportedProvider(provider string) *QError {
	return NewError(ErrProviderNotFound, fmt.Sprintf("Unsupported provider: %s", provider)).
		WithContext("provider", provider)
}

// Execution related error factory functions

// ErrCommandExitedNonZero the subshell finished with a non-zero status
func ErrCommandExitedNonZero(command string, exitCode int) *QError {
	return NewError(ErrCommandFailed, fmt.Sprintf("Command failed with exit code: %d", exitCode)).
		WithContext("command", command).
		WithContext("exit_code", exitCode)
}

// ErrExecutionCancelled the user declined or interrupted the run
func ErrExecutionCancelled(cause error) *QError {
	return WrapError(cause, ErrUserCancel, "operation cancelled")
}

// History related error factory functions

// ErrHistoryOperation history file operation failed
func ErrHistoryOperation(op string, cause error) *QError {
	code := ErrHistoryLoad
	switch op {
	case "save":
		code = ErrHistorySave
	case "clear":
		code = ErrHistoryClear
	}
	return WrapError(cause, code, fmt.Sprintf("history %s failed", op)).
		WithContext("operation", op)
}

// Filesystem error factory

// ErrFileSystemError filesystem operation failed
func ErrFileSystemError(op string, path string, cause error) *QError {
	return WrapError(cause, ErrFileSystem, fmt.Sprintf("filesystem %s failed", op)).
		WithContext("operation", op).
		WithContext("path", path)
}

// Secret store error factory

// ErrSecretStoreFailed encrypting or decrypting a stored value failed
func ErrSecretStoreFailed(op string, cause error) *QError {
	return WrapError(cause, ErrSecretStore, fmt.Sprintf("secret store %s failed", op)).
		WithContext("operation", op)
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// LLMError represents different types of LLM-related errors
type LLMError struct {
	Type    ErrorType
	Message string
	Cause   error
}

// ErrorType defines the category of LLM errors
type ErrorType string

const (
	// Network-related errors
	NetworkError ErrorType = "network_error"
	TimeoutError ErrorType = "timeout_error"

	// Authentication and authorization errors
	AuthError          ErrorType = "auth_error"
	QuotaExceededError ErrorType = "quota_exceeded_error"

	// Request-related errors
	InvalidRequestError ErrorType = "invalid_request_error"
	ModelNotFoundError  ErrorType = "model_not_found_error"

	// Response-related errors
	InvalidResponseError ErrorType = "invalid_response_error"
	EmptyResponseError   ErrorType = "empty_response_error"

	// Generic errors
	ProviderError ErrorType = "provider_error"
	UnknownError  ErrorType = "unknown_error"
)

// Error implements the error interface
func (e *LLMError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %s)", e.Type, e.Message, e.Cause.Error())
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work correctly
func (e *LLMError) Unwrap() error {
	return e.Cause
}

// NewLLMError creates a new LLM error
func NewLLMError(errorType ErrorType, message string, cause error) *LLMError {
	return &LLMError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// WrapError wraps an existing error with LLM error context
func WrapError(errorType ErrorType, message string, cause error) *LLMError {
	// If the cause is already an LLMError, don't double-wrap
	if llmErr, ok := cause.(*LLMError); ok {
		return llmErr
	}
	return NewLLMError(errorType, message, cause)
}

// ClassifyHTTPStatus maps a non-2xx HTTP status code to an error type.
func ClassifyHTTPStatus(statusCode int) ErrorType {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return AuthError
	case http.StatusTooManyRequests:
		return QuotaExceededError
	case http.StatusBadRequest:
		return InvalidRequestError
	case http.StatusNotFound:
		return ModelNotFoundError
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return NetworkError
	default:
		if statusCode >= 400 {
			return ProviderError
		}
		return UnknownError
	}
}

// ClassifyTransportError classifies an error from http.Client.Do.
func ClassifyTransportError(err error) *LLMError {
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "timeout") {
		return NewLLMError(TimeoutError, "Request timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return NewLLMError(NetworkError, "Request cancelled", err)
	}
	return NewLLMError(NetworkError, "Network request failed", err)
}

// TypeOf extracts the error type from an error chain, or UnknownError.
func TypeOf(err error) ErrorType {
	var llmErr *LLMError
	if errors.As(err, &llmErr) {
		return llmErr.Type
	}
	return UnknownError
}

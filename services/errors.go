package services

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable error codes returned to API clients
const (
	CodeInvalidRequest           = "invalid_request"
	CodeUnsupportedMode          = "unsupported_mode"
	CodeOpenAINotConfigured      = "openai_not_configured"
	CodeOpenAIModelNotConfigured = "openai_model_not_configured"
	CodeOpenAIRequestFailed      = "openai_request_failed"
	CodeOllamaNotConfigured      = "ollama_not_configured"
	CodeOllamaModelNotConfigured = "ollama_model_not_configured"
	CodeOllamaRequestFailed      = "ollama_request_failed"
	CodeOllamaInvalidJSON        = "ollama_invalid_json"
	CodeToolRequestFailed        = "tool_request_failed"
	CodeToolInvalidJSON          = "tool_invalid_json"
	CodeEmbeddingFailed          = "embedding_failed"
)

// BackendError is the single typed error raised by the assist pipeline.
// Status is 400 for configuration/validation problems and 502 for downstream failures.
type BackendError struct {
	Code    string
	Message string
	Status  int
	Details map[string]interface{}
	Err     error
}

// Error implements the error interface
func (e *BackendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *BackendError) Unwrap() error {
	return e.Err
}

// Is matches on the error code
func (e *BackendError) Is(target error) bool {
	t, ok := target.(*BackendError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetail adds a detail to the error
func (e *BackendError) WithDetail(key string, value interface{}) *BackendError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewBackendError creates a new backend error
func NewBackendError(code, message string, status int, err error) *BackendError {
	return &BackendError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// NewConfigError creates a 400 error for missing or invalid configuration.
// No network call may have been attempted when this is returned.
func NewConfigError(code, message string) *BackendError {
	return NewBackendError(code, message, http.StatusBadRequest, nil)
}

// NewDownstreamError creates a 502 error for a failed downstream call.
// The cause, when present, is recorded under details.reason.
func NewDownstreamError(code, message string, err error) *BackendError {
	e := NewBackendError(code, message, http.StatusBadGateway, err)
	if err != nil {
		e.Details["reason"] = err.Error()
	}
	return e
}

// NewUnsupportedModeError reports a mode literal outside the supported set
func NewUnsupportedModeError(mode string, supported []string) *BackendError {
	return NewBackendError(CodeUnsupportedMode, fmt.Sprintf("Unsupported mode: %s", mode), http.StatusBadRequest, nil).
		WithDetail("supported_modes", supported)
}

// AsBackendError extracts a *BackendError from an error chain
func AsBackendError(err error) (*BackendError, bool) {
	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return backendErr, true
	}
	return nil, false
}

// GetErrorCode returns the code of a backend error, or empty string
func GetErrorCode(err error) string {
	if backendErr, ok := AsBackendError(err); ok {
		return backendErr.Code
	}
	return ""
}

// GetErrorStatus returns the HTTP status of a backend error, or 500 for anything else
func GetErrorStatus(err error) int {
	if backendErr, ok := AsBackendError(err); ok && backendErr.Status != 0 {
		return backendErr.Status
	}
	return http.StatusInternalServerError
}

// GetErrorDetails returns the details map of a backend error, or nil
func GetErrorDetails(err error) map[string]interface{} {
	if backendErr, ok := AsBackendError(err); ok {
		return backendErr.Details
	}
	return nil
}

// IsConfigurationError checks if an error is a 400-class backend error
func IsConfigurationError(err error) bool {
	return GetErrorStatus(err) == http.StatusBadRequest
}

// IsDownstreamError checks if an error is a 502-class backend error
func IsDownstreamError(err error) bool {
	return GetErrorStatus(err) == http.StatusBadGateway
}

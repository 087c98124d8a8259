package http

import (
	"fmt"
	"net/http"
)

// AppError is a request-level failure rendered to API clients with its HTTP status.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error.
func NewAppError(code, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, Status: status}
}

// WithField names the request field at fault.
func (e *AppError) WithField(field string) *AppError {
	e.Field = field
	return e
}

// WithError wraps an underlying error. It is logged, never rendered.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// MissingAPIKeyError reports a request without the upstream API key.
func MissingAPIKeyError() *AppError {
	return NewAppError("ERR_MISSING_API_KEY", "API key is required: pass apiKey or the x-api-key header", http.StatusBadRequest).
		WithField("apiKey")
}

// UpstreamUnavailableError reports that a mandatory upstream value could not be fetched.
func UpstreamUnavailableError(message string) *AppError {
	return NewAppError("ERR_UPSTREAM_UNAVAILABLE", message, http.StatusInternalServerError)
}


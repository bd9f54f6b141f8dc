package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common application errors with proper types for error handling

var (
	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates missing or invalid authentication
	ErrUnauthorized = errors.New("unauthorized")

	// ErrMethodNotAllowed indicates the endpoint was called with the wrong HTTP verb
	ErrMethodNotAllowed = errors.New("method not allowed")

	// ErrConfig indicates required configuration is absent
	ErrConfig = errors.New("configuration error")

	// ErrRemote indicates an upstream service answered with a non-success status
	ErrRemote = errors.New("remote error")
)

// RemoteError carries the status and message of a failed upstream call
type RemoteError struct {
	Service    string
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s API error: %d %s", e.Service, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s API error: %d %s", e.Service, e.StatusCode, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return ErrRemote
}

// NewRemoteError creates a RemoteError for the given upstream service
func NewRemoteError(service string, statusCode int, message string) *RemoteError {
	return &RemoteError{Service: service, StatusCode: statusCode, Message: message}
}

// AuthError creates an unauthorized error with context
func AuthError(reason string) error {
	if reason != "" {
		return fmt.Errorf("%s: %w", reason, ErrUnauthorized)
	}
	return ErrUnauthorized
}

// MethodError creates a method-not-allowed error for the given verb
func MethodError(method string) error {
	return fmt.Errorf("%s: %w", method, ErrMethodNotAllowed)
}

// ConfigError reports a missing configuration key
func ConfigError(key string) error {
	return fmt.Errorf("%s environment variable not set: %w", key, ErrConfig)
}

// NotFoundError creates a not found error with context
func NotFoundError(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}

// AsRemote returns the RemoteError in err's chain, if any
func AsRemote(err error) (*RemoteError, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// StatusCode maps an error to the HTTP status a handler should answer with
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConfig):
		return http.StatusInternalServerError
	case errors.Is(err, ErrRemote):
		if re, ok := AsRemote(err); ok && re.StatusCode == http.StatusNotFound {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

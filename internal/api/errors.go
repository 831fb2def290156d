package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned after the backend rejected the session token.
	// By the time a caller sees it the session has been cleared.
	ErrUnauthorized = errors.New("Unauthorized")

	// ErrNotFound is returned by in-memory facades for unknown ids
	ErrNotFound = errors.New("not found")
)

// APIError is a non-2xx response other than 401
type APIError struct {
	Status     int
	StatusText string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API Error: %d %s", e.Status, e.StatusText)
}

// TransportError wraps a failure to reach the backend or decode its reply
type TransportError struct {
	Method   string
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request %s %s failed: %v", e.Method, e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsStatus reports whether err is an APIError with the given status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Message returns a short text for showing err to the user
func Message(err error) string {
	var apiErr *APIError
	var transportErr *TransportError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return "Your session has expired. Please sign in again."
	case errors.Is(err, ErrNotFound):
		return "The requested item was not found."
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.As(err, &transportErr):
		return "Could not reach the FilterNet service."
	default:
		return err.Error()
	}
}

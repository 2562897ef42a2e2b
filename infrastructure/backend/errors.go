package backend

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnauthorized is returned for every 401 response. The client's
// unauthorized hook has already run when a caller sees it.
var ErrUnauthorized = errors.New("backend: unauthorized")

// ErrUnexpectedShape marks a 2xx response whose payload did not decode.
var ErrUnexpectedShape = errors.New("backend: unexpected payload shape")

// APIError is a non-401 error response carrying the backend's message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend: status %d", e.Status)
	}
	return fmt.Sprintf("backend: status %d: %s", e.Status, e.Message)
}

// TransportError wraps a failure to reach the backend at all.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UserMessage picks the text shown in a form's error banner.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return strings.TrimSpace(apiErr.Message)
	}
	if errors.Is(err, ErrUnauthorized) {
		return "your session has expired, please log in again"
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return "backend is unreachable, please try again"
	}
	return fallback
}

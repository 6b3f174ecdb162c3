package tmdb

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrNetwork indicates a transport failure (DNS, connection reset, timeout)
	ErrNetwork = errors.New("tmdb: network error")
	// ErrEmptyBody indicates a successful status with no response body
	ErrEmptyBody = errors.New("tmdb: empty response body")
	// ErrDecode indicates a response body that is not valid JSON
	ErrDecode = errors.New("tmdb: response is not valid JSON")
	// ErrNotAuthenticated indicates an operation needing a session was called without one
	ErrNotAuthenticated = errors.New("tmdb: not authenticated")
	// ErrAlreadyInProgress indicates an authentication flow is already running
	ErrAlreadyInProgress = errors.New("tmdb: authentication already in progress")
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid tmdb configuration")
)

// StatusError represents a response whose status is outside 200-299
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb API error: status %d", e.StatusCode)
}

// IsNotFound checks if the error indicates a not found response
func (e *StatusError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *StatusError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// ParseError indicates valid JSON that lacks a field an operation requires.
type ParseError struct {
	Operation string
	Field     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("tmdb: could not parse %s: missing or invalid %q", e.Operation, e.Field)
}

// AuthError is the single failure reported by the authentication flow.
// Error returns the step's fixed reason; Unwrap exposes what caused it.
type AuthError struct {
	Step   AuthState
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	return e.Reason
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Failure reasons reported by the authentication flow.
const (
	ReasonRequestToken  = "Login Failed (Request Token)."
	ReasonAuthorization = "Login Failed (Authorization)."
	ReasonSessionID     = "Login Failed (Session ID)."
	ReasonUserID        = "Login Failed (User ID)."
)

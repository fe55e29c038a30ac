package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNetwork signals a request that never completed.
	ErrNetwork = errors.New("network failure")
	// ErrProtocol signals a non-success status or a malformed top-level response.
	ErrProtocol = errors.New("protocol failure")
	// ErrStream signals a fatal mid-stream read failure.
	ErrStream = errors.New("stream failure")
	// ErrAuth signals a 401/403 so callers can prompt re-authentication.
	ErrAuth = errors.New("authentication failure")

	// ErrStreamActive signals that a stream is already running for the session.
	ErrStreamActive = errors.New("stream already active for session")
	// ErrStreamAborted signals that the caller cancelled an in-flight stream.
	ErrStreamAborted = errors.New("stream aborted")
	// ErrStaleResponse signals a search response superseded by a newer one.
	ErrStaleResponse = errors.New("stale search response")
	// ErrNoSearchState signals a refine with no prior search stored.
	ErrNoSearchState = errors.New("no search state for session")
)

// StatusError wraps ErrProtocol (or ErrAuth for 401/403) with the HTTP
// status the backend returned.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Status)
}

func (e *StatusError) Unwrap() error {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return ErrAuth
	}
	return ErrProtocol
}

// NewStatusError builds a StatusError for a non-success HTTP status.
func NewStatusError(status int) error {
	return &StatusError{Status: status}
}

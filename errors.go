package chowgo

import "github.com/chowgpt/chowgo/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNetwork       = domain.ErrNetwork
	ErrProtocol      = domain.ErrProtocol
	ErrStream        = domain.ErrStream
	ErrAuth          = domain.ErrAuth
	ErrStreamActive  = domain.ErrStreamActive
	ErrStreamAborted = domain.ErrStreamAborted
	ErrStaleResponse = domain.ErrStaleResponse
	ErrNoSearchState = domain.ErrNoSearchState
)

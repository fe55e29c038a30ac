// Package store defines the TTL-bounded key/value contract all persisted
// session state goes through. Drivers live in the subpackages.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound signals a missing or expired key.
var ErrKeyNotFound = errors.New("store: key not found")

// Op constants name store operations for error context.
const (
	OpGet    = "GET"
	OpSet    = "SET"
	OpDelete = "DEL"
	OpSweep  = "SWEEP"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// Store is a TTL-bounded key/value store. Every write stamps the current
// time; a read of an expired entry reports ErrKeyNotFound and removes it.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close()
}

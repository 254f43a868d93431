package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a key has no value.
	ErrNotFound = errors.New("key not found")

	// ErrUnavailable is returned when the backend cannot be reached or has
	// been closed. Backends wrap their driver error with it.
	ErrUnavailable = errors.New("store unavailable")

	// ErrConflict is returned by Update when a concurrent writer kept winning
	// and the update was abandoned.
	ErrConflict = errors.New("concurrent update conflict")
)

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Backend   string // memory, redis, postgres
	Operation string // get, set, remove, update
	Key       string
	Err       error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s %q: %v", e.Backend, e.Operation, e.Key, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(backend, operation, key string, err error) *StoreError {
	return &StoreError{Backend: backend, Operation: operation, Key: key, Err: err}
}

// Unavailable wraps a driver error so that errors.Is(err, ErrUnavailable) holds.
func Unavailable(backend, operation, key string, err error) error {
	return NewStoreError(backend, operation, key, fmt.Errorf("%w: %v", ErrUnavailable, err))
}

// IsNotFound reports whether err is a miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

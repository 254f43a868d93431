package service

import (
	"errors"
	"fmt"
	"time"
)

// Errors returned by TrendService. Extraction failures are returned as
// *generation.ExtractionError and are not listed here.
//
// Error handling principles:
// 1. Storage failures never reach the caller; they degrade to cache misses
// or an unenforced quota
// 2. Model and extraction failures always reach the caller and are never retried
// 3. The API layer maps these to status codes with errors.Is/errors.As
var (
	// ErrQuotaExceeded indicates the caller used up its calls for the current window.
	// API layer should map this to HTTP 429 Too Many Requests.
	ErrQuotaExceeded = errors.New("usage quota exceeded")

	// ErrNetwork indicates the model call failed in transport or at the provider,
	// or the caller's context ended while it was outstanding.
	// API layer should map this to HTTP 502 Bad Gateway.
	ErrNetwork = errors.New("trend data could not be retrieved")

	// ErrUnknown wraps failures that fit no other category.
	ErrUnknown = errors.New("unknown trend service error")
)

// QuotaExceededError carries when the caller may try again.
type QuotaExceededError struct {
	RetryAfter time.Time
	Limit      int
}

// Error implements the error interface.
func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("%s: limit of %d reached, resets at %s",
		ErrQuotaExceeded, e.Limit, e.RetryAfter.UTC().Format(time.RFC3339))
}

// Is lets errors.Is match ErrQuotaExceeded.
func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

// networkError wraps the underlying model failure while matching ErrNetwork.
type networkError struct {
	err error
}

func (e *networkError) Error() string {
	return fmt.Sprintf("%s: %v", ErrNetwork, e.err)
}

func (e *networkError) Unwrap() []error {
	return []error{ErrNetwork, e.err}
}

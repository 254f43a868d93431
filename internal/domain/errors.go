package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrInvalidRanking is returned when a product list is not ranked 1..N in order.
	ErrInvalidRanking = errors.New("invalid product ranking")
)

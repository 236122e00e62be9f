package domain

import "errors"

// Common domain errors. Every failure the core surfaces wraps one of these
// so the boundary can map it to a stable signal.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("duplicate entry")
	ErrUnavailable  = errors.New("store unavailable")
)

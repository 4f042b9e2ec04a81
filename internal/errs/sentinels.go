// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist or is not owned by the caller.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTimestamp indicates a future-dated timestamp was supplied.
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrOrderingViolation indicates an operation would place a session end before its start.
	ErrOrderingViolation = errors.New("ordering violation")

	// ErrOpenSessionExists indicates a clock-in was rejected because an open session exists.
	ErrOpenSessionExists = errors.New("open session exists")

	// ErrUnauthorized indicates failed authentication/authorization.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., username taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")
)

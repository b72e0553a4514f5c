// Package common contains shared constants and sentinel errors used across
// ObsidianVault components. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Session gateway errors. ErrorNotAuthenticated means no credential was
	// presented at all; ErrInvalidSession means a token was presented but no
	// session owns it; ErrSessionExpired means the owning session is past
	// its expiry regardless of whether the row has been purged.
	ErrorNotAuthenticated = errors.New("not authenticated")
	ErrInvalidSession     = errors.New("invalid session")
	ErrSessionExpired     = errors.New("session expired")

	// Identity resolver errors. Any upstream failure (timeout, non-2xx,
	// malformed body) collapses into ErrUpstreamAuth; a session is never
	// fabricated locally.
	ErrUpstreamAuth = errors.New("authentication failed")

	// Validation / registry errors.
	ErrorValidation        = errors.New("validation error")
	ErrDuplicateCredential = errors.New("credential already registered")
)

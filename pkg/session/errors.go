package session

import "errors"

var (
	// ErrSessionNotFound indicates no session is associated with the token
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrSessionExpired indicates the session has passed its expiry
	ErrSessionExpired = errors.New("session.expired")

	// ErrInvalidSession indicates a nil or token-less session record
	ErrInvalidSession = errors.New("session.invalid")

	// ErrTokenGeneration indicates identifier generation failed
	ErrTokenGeneration = errors.New("session.token_generation_failed")
)

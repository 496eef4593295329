package csrf

import "errors"

var (
	// ErrTokenInvalid indicates the candidate token mismatched or expired.
	// Callers must treat it as fatal to the current request.
	ErrTokenInvalid = errors.New("csrf.token_invalid")

	// ErrNoSession indicates the guard was given no session to bind to
	ErrNoSession = errors.New("csrf.no_session")

	// ErrTokenGeneration indicates token generation failed
	ErrTokenGeneration = errors.New("csrf.token_generation_failed")
)

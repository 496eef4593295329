package auth

import "errors"

var (
	// ErrInvalidCredentials indicates a password mismatch
	ErrInvalidCredentials = errors.New("auth.invalid_credentials")

	// ErrHashingFailed indicates the password could not be hashed
	ErrHashingFailed = errors.New("auth.hashing_failed")
)

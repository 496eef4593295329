package ratelimit

import "errors"

var (
	// ErrThrottled indicates the key has exhausted its attempts
	ErrThrottled = errors.New("ratelimit.throttled")

	// ErrKeyRequired indicates an empty rate limit key
	ErrKeyRequired = errors.New("ratelimit.key_required")

	// ErrInvalidLimit indicates a non-positive max attempts value
	ErrInvalidLimit = errors.New("ratelimit.invalid_limit")

	// ErrInvalidWindow indicates a non-positive decay window
	ErrInvalidWindow = errors.New("ratelimit.invalid_window")

	// ErrPolicyNotFound indicates an unknown named policy
	ErrPolicyNotFound = errors.New("ratelimit.policy_not_found")
)

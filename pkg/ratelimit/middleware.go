package ratelimit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// Middleware enforces a limit per extracted key. Throttled requests receive
// a structured 429 rejection with X-RateLimit-* and Retry-After headers;
// the passing request is recorded as a hit before reaching the handler.
// Requests whose key resolves empty bypass limiting.
func Middleware(limiter *Limiter, keyFunc KeyFunc, maxAttempts int, decay time.Duration) func(http.Handler) http.Handler {
	if limiter == nil {
		panic("ratelimit.Middleware: limiter is required")
	}
	if keyFunc == nil {
		panic("ratelimit.Middleware: keyFunc is required")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			if limiter.TooManyAttempts(ctx, key, maxAttempts, decay) {
				retryIn := limiter.AvailableIn(ctx, key, decay)
				writeThrottled(w, maxAttempts, retryIn)
				return
			}

			_ = limiter.Hit(ctx, key)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(maxAttempts))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(ctx, key, maxAttempts, decay)))

			next.ServeHTTP(w, r)
		})
	}
}

// MiddlewareFromPolicy is Middleware configured from a named policy.
func MiddlewareFromPolicy(limiter *Limiter, keyFunc KeyFunc, policies Policies, name string) (func(http.Handler) http.Handler, error) {
	p, err := policies.Get(name)
	if err != nil {
		return nil, err
	}
	return Middleware(limiter, keyFunc, p.MaxAttempts, p.Decay), nil
}

func writeThrottled(w http.ResponseWriter, limit int, retryIn time.Duration) {
	retryAfter := int(retryIn.Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}

	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
	w.Header().Set("X-RateLimit-Remaining", "0")
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusTooManyRequests)

	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":       "too_many_attempts",
		"retry_after": retryAfter,
	})
}

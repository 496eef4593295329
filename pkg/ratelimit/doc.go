// Package ratelimit implements a lazy sliding-window rate limiter persisted
// to the local filesystem. Each caller-chosen key owns one record holding
// the raw list of attempt instants; the current count is recomputed at query
// time by filtering the list to the trailing decay window, so the record
// only grows on Hit and is never trimmed on the read path.
//
// The limiter fails closed: when its storage is unreadable or unwritable,
// TooManyAttempts reports true and Attempt throttles, because failing open
// would remove the protection the limiter exists to provide. This is the
// opposite of the cache's fail-open policy and is deliberate.
//
// Hits on the same key are serialized through the store's per-key update
// primitive, so two concurrent requests recording attempts are both durably
// counted.
//
// # Usage
//
//	store, _ := filestore.New("storage/rate_limit")
//	limiter := ratelimit.New(store)
//
//	key := "password_reset:" + clientip.GetIP(r)
//	if limiter.TooManyAttempts(ctx, key, 5, time.Hour) {
//	    retryIn := limiter.AvailableIn(ctx, key, time.Hour)
//	    // reject with retry-after hint
//	}
//	_ = limiter.Hit(ctx, key)
//
// Attempt composes the check, the hit and the guarded action:
//
//	err := limiter.Attempt(ctx, key, 5, time.Hour,
//	    func(ctx context.Context) error { return sendResetEmail(ctx, addr) },
//	    func(retryIn time.Duration) error { return fmt.Errorf("try again in %s", retryIn) },
//	)
//
// CleanOld removes whole records untouched for longer than a retention
// period (default 24h) and is meant to run from an operations sweep.
package ratelimit

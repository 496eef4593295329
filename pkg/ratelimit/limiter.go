package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/inkwellcms/seckit/pkg/filestore"
)

// DefaultRetention is how long an untouched record survives CleanOld.
const DefaultRetention = 24 * time.Hour

// record is the on-disk shape of a key's attempt history.
type record struct {
	Attempts []int64 `json:"attempts"`
}

// Limiter counts attempts per key over a sliding time window.
type Limiter struct {
	store       *filestore.Store
	log         *slog.Logger
	now         func() time.Time
	maxRecorded int
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithLogger sets the logger used for abuse warnings and storage errors.
func WithLogger(log *slog.Logger) Option {
	return func(l *Limiter) {
		if log != nil {
			l.log = log
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// WithMaxRecorded bounds the number of attempt instants kept per record:
// each Hit keeps only the newest n entries. Zero keeps the full history
// between CleanOld sweeps.
func WithMaxRecorded(n int) Option {
	return func(l *Limiter) {
		if n > 0 {
			l.maxRecorded = n
		}
	}
}

// New creates a Limiter backed by the given store.
// Panics if store is nil to fail fast on misconfiguration.
func New(store *filestore.Store, opts ...Option) *Limiter {
	if store == nil {
		panic("ratelimit: store is required")
	}

	l := &Limiter{
		store: store,
		log:   slog.Default(),
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// TooManyAttempts reports whether key has max or more attempts inside the
// trailing decay window. Storage failures count as throttled (fail closed).
func (l *Limiter) TooManyAttempts(ctx context.Context, key string, max int, decay time.Duration) bool {
	if key == "" || max <= 0 || decay <= 0 {
		return true
	}

	attempts, err := l.countInWindow(ctx, key, decay)
	if err != nil {
		l.log.ErrorContext(ctx, "rate limit read failed, failing closed", "key", key, "error", err)
		return true
	}

	if attempts >= max {
		l.log.WarnContext(ctx, "rate limit exceeded", "key", key, "attempts", attempts, "max", max)
		return true
	}
	return false
}

// Hit records an attempt for key at the current instant. Callers decide
// whether to check TooManyAttempts first; Hit itself is unconditional.
func (l *Limiter) Hit(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}

	now := l.now().Unix()
	err := l.store.Update(ctx, key, func(current []byte) ([]byte, error) {
		rec := decodeRecord(current)
		rec.Attempts = append(rec.Attempts, now)
		if l.maxRecorded > 0 && len(rec.Attempts) > l.maxRecorded {
			rec.Attempts = rec.Attempts[len(rec.Attempts)-l.maxRecorded:]
		}
		return json.Marshal(rec)
	})
	if err != nil {
		l.log.ErrorContext(ctx, "rate limit hit not recorded", "key", key, "error", err)
	}
	return err
}

// Remaining returns how many attempts are left for key, floored at zero.
func (l *Limiter) Remaining(ctx context.Context, key string, max int, decay time.Duration) int {
	attempts, err := l.countInWindow(ctx, key, decay)
	if err != nil {
		return 0
	}
	if remaining := max - attempts; remaining > 0 {
		return remaining
	}
	return 0
}

// AvailableIn returns how long until the oldest attempt in the current
// window falls outside the decay window, or zero when no attempts are
// recorded. On storage failure it reports the full window (fail closed).
func (l *Limiter) AvailableIn(ctx context.Context, key string, decay time.Duration) time.Duration {
	data, err := l.store.Read(ctx, key)
	if err != nil {
		if errors.Is(err, filestore.ErrNotFound) {
			return 0
		}
		return decay
	}

	rec := decodeRecord(data)
	if len(rec.Attempts) == 0 {
		return 0
	}

	oldest := rec.Attempts[0]
	for _, ts := range rec.Attempts[1:] {
		if ts < oldest {
			oldest = ts
		}
	}

	resetsAt := oldest + int64(decay/time.Second)
	secs := resetsAt - l.now().Unix()
	if secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// Clear discards all attempt history for key.
func (l *Limiter) Clear(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	return l.store.Delete(ctx, key)
}

// Attempt runs action unless key is throttled. When throttled, onThrottled
// is invoked with the retry-after hint (a nil onThrottled yields
// ErrThrottled); otherwise the attempt is recorded before action runs.
func (l *Limiter) Attempt(ctx context.Context, key string, max int, decay time.Duration, action func(ctx context.Context) error, onThrottled func(retryIn time.Duration) error) error {
	if l.TooManyAttempts(ctx, key, max, decay) {
		retryIn := l.AvailableIn(ctx, key, decay)
		if onThrottled != nil {
			return onThrottled(retryIn)
		}
		return ErrThrottled
	}

	if err := l.Hit(ctx, key); err != nil {
		// An unrecorded hit would let an attacker retry for free.
		retryIn := l.AvailableIn(ctx, key, decay)
		if onThrottled != nil {
			return onThrottled(retryIn)
		}
		return ErrThrottled
	}

	return action(ctx)
}

// CleanOld removes whole records not modified within retention and returns
// the count removed. Non-positive retention uses DefaultRetention.
func (l *Limiter) CleanOld(ctx context.Context, retention time.Duration) (int, error) {
	if retention <= 0 {
		retention = DefaultRetention
	}

	removed, err := l.store.SweepOlderThan(ctx, retention)
	if removed > 0 {
		l.log.InfoContext(ctx, "old rate limit records removed", "removed", removed)
	}
	return removed, err
}

// countInWindow returns the number of attempts strictly newer than
// now-decay. A timestamp exactly on the boundary is excluded.
func (l *Limiter) countInWindow(ctx context.Context, key string, decay time.Duration) (int, error) {
	data, err := l.store.Read(ctx, key)
	if err != nil {
		if errors.Is(err, filestore.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := l.now().Unix() - int64(decay/time.Second)
	count := 0
	for _, ts := range decodeRecord(data).Attempts {
		if ts > cutoff {
			count++
		}
	}
	return count, nil
}

// decodeRecord tolerates missing or corrupt data by starting a fresh
// history, matching the store's whole-record replacement discipline.
func decodeRecord(data []byte) record {
	var rec record
	if len(data) > 0 {
		_ = json.Unmarshal(data, &rec)
	}
	if rec.Attempts == nil {
		rec.Attempts = []int64{}
	}
	return rec
}

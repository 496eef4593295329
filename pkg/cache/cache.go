package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/inkwellcms/seckit/pkg/filestore"
)

// DefaultTTL is used when Set receives a non-positive TTL.
const DefaultTTL = time.Hour

// entry is the on-disk envelope for a cached value.
type entry struct {
	Value     json.RawMessage `json:"value"`
	ExpiresAt int64           `json:"expires_at"`
}

func (e entry) expired(now time.Time) bool {
	return e.ExpiresAt < now.Unix()
}

// Cache is a TTL cache over a file-backed store.
type Cache struct {
	store *filestore.Store
	log   *slog.Logger
	now   func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for storage error reporting.
func WithLogger(log *slog.Logger) Option {
	return func(c *Cache) {
		if log != nil {
			c.log = log
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a Cache backed by the given store.
// Panics if store is nil to fail fast on misconfiguration.
func New(store *filestore.Store, opts ...Option) *Cache {
	if store == nil {
		panic("cache: store is required")
	}

	c := &Cache{
		store: store,
		log:   slog.Default(),
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Set persists value under key with the given TTL. It returns an error only
// on serialization or storage failure, never on logical conditions.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Join(ErrEncoding, err)
	}

	data, err := json.Marshal(entry{
		Value:     raw,
		ExpiresAt: c.now().Add(ttl).Unix(),
	})
	if err != nil {
		return errors.Join(ErrEncoding, err)
	}

	if err := c.store.Write(ctx, key, data); err != nil {
		c.log.ErrorContext(ctx, "cache write failed", "key", key, "error", err)
		return err
	}
	return nil
}

// Has reports whether a live entry exists for key. An expired entry found
// during the check is deleted.
func (c *Cache) Has(ctx context.Context, key string) bool {
	_, ok := c.load(ctx, key)
	return ok
}

// Delete removes the entry for key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.store.Delete(ctx, key)
}

// Clear removes every entry regardless of expiry and returns the count
// removed.
func (c *Cache) Clear(ctx context.Context) (int, error) {
	removed, err := c.store.RemoveAll(ctx)
	if removed > 0 {
		c.log.InfoContext(ctx, "cache cleared", "removed", removed)
	}
	return removed, err
}

// CleanExpired removes only expired entries and returns the count removed.
// Records that fail to decode are treated as expired and removed as well.
func (c *Cache) CleanExpired(ctx context.Context) (int, error) {
	now := c.now()
	removed := 0

	err := c.store.Walk(ctx, func(rec filestore.Record) error {
		var e entry
		if err := json.Unmarshal(rec.Data, &e); err == nil && !e.expired(now) {
			return nil
		}
		if err := c.store.RemovePath(rec.Path); err == nil {
			removed++
		}
		return nil
	})

	if removed > 0 {
		c.log.InfoContext(ctx, "expired cache cleaned", "removed", removed)
	}
	return removed, err
}

// load returns the raw value for key if present and unexpired. Expired or
// undecodable entries are deleted as a side effect. Storage errors are a
// miss.
func (c *Cache) load(ctx context.Context, key string) (json.RawMessage, bool) {
	data, err := c.store.Read(ctx, key)
	if err != nil {
		if !errors.Is(err, filestore.ErrNotFound) {
			c.log.ErrorContext(ctx, "cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		_ = c.store.Delete(ctx, key)
		return nil, false
	}

	if e.expired(c.now()) {
		_ = c.store.Delete(ctx, key)
		return nil, false
	}

	return e.Value, true
}

// Get returns the cached value for key, or def when the entry is absent,
// expired or unreadable.
func Get[T any](ctx context.Context, c *Cache, key string, def T) T {
	raw, ok := c.load(ctx, key)
	if !ok {
		return def
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return def
	}
	return v
}

// Remember returns the cached value for key, invoking producer on a miss
// and storing its result under ttl. Producer errors are returned without
// caching; a failed write does not fail the call since the produced value
// is still usable.
func Remember[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, producer func(ctx context.Context) (T, error)) (T, error) {
	raw, ok := c.load(ctx, key)
	if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
	}

	v, err := producer(ctx)
	if err != nil {
		return v, err
	}

	if err := c.Set(ctx, key, v, ttl); err != nil {
		c.log.WarnContext(ctx, "cache remember write failed", "key", key, "error", err)
	}
	return v, nil
}

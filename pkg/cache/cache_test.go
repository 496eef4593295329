package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellcms/seckit/pkg/cache"
	"github.com/inkwellcms/seckit/pkg/filestore"
)

func newCache(t *testing.T, opts ...cache.Option) *cache.Cache {
	t.Helper()
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)
	return cache.New(store, opts...)
}

func TestCache_SetGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newCache(t)

	type post struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
	}

	want := []post{{ID: 1, Title: "hello"}, {ID: 2, Title: "world"}}
	require.NoError(t, c.Set(ctx, "posts:recent", want, time.Minute))

	got := cache.Get(ctx, c, "posts:recent", []post(nil))
	assert.Equal(t, want, got)
}

func TestCache_GetMissReturnsDefault(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newCache(t)

	assert.Equal(t, "fallback", cache.Get(ctx, c, "absent", "fallback"))
	assert.Equal(t, 42, cache.Get(ctx, c, "absent", 42))
}

func TestCache_Expiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	now := time.Now()
	c := newCache(t, cache.WithClock(func() time.Time { return now }))

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	assert.Equal(t, "v", cache.Get(ctx, c, "k", ""))
	assert.True(t, c.Has(ctx, "k"))

	// Past the TTL the entry is logically absent even though the file
	// still exists, and the lookup evicts it.
	now = now.Add(2 * time.Minute)

	assert.Equal(t, "default", cache.Get(ctx, c, "k", "default"))
	assert.False(t, c.Has(ctx, "k"))

	// Eviction happened: clean sweep finds nothing left.
	removed, err := c.CleanExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestCache_HasDoesNotReturnValue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newCache(t)

	assert.False(t, c.Has(ctx, "k"))
	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	assert.True(t, c.Has(ctx, "k"))
}

func TestCache_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newCache(t)

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))
	assert.False(t, c.Has(ctx, "k"))
}

func TestCache_Remember(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newCache(t)

	calls := 0
	producer := func(ctx context.Context) (string, error) {
		calls++
		return "produced", nil
	}

	got, err := cache.Remember(ctx, c, "k", time.Minute, producer)
	require.NoError(t, err)
	assert.Equal(t, "produced", got)
	assert.Equal(t, 1, calls)

	// Second call is served from cache.
	got, err = cache.Remember(ctx, c, "k", time.Minute, producer)
	require.NoError(t, err)
	assert.Equal(t, "produced", got)
	assert.Equal(t, 1, calls)
}

func TestCache_RememberProducerError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newCache(t)

	wantErr := errors.New("boom")
	_, err := cache.Remember(ctx, c, "k", time.Minute, func(ctx context.Context) (int, error) {
		return 0, wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	// Nothing was cached.
	assert.False(t, c.Has(ctx, "k"))
}

func TestCache_Clear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newCache(t)

	require.NoError(t, c.Set(ctx, "a", 1, time.Minute))
	require.NoError(t, c.Set(ctx, "b", 2, time.Minute))
	require.NoError(t, c.Set(ctx, "c", 3, time.Minute))

	removed, err := c.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)
	assert.False(t, c.Has(ctx, "a"))
}

func TestCache_CleanExpired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	now := time.Now()
	c := newCache(t, cache.WithClock(func() time.Time { return now }))

	require.NoError(t, c.Set(ctx, "short", 1, time.Minute))
	require.NoError(t, c.Set(ctx, "long", 2, time.Hour))

	now = now.Add(30 * time.Minute)

	removed, err := c.CleanExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.False(t, c.Has(ctx, "short"))
	assert.True(t, c.Has(ctx, "long"))
}

func TestCache_CorruptRecordIsMiss(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)
	c := cache.New(store)

	require.NoError(t, store.Write(ctx, "k", []byte("not json")))

	assert.Equal(t, "default", cache.Get(ctx, c, "k", "default"))
	// The corrupt record was dropped on sight.
	_, err = store.Read(ctx, "k")
	assert.ErrorIs(t, err, filestore.ErrNotFound)
}

// Package cache provides a TTL key/value cache persisted to the local
// filesystem through a filestore.Store. Every entry carries an absolute
// expiry instant; an expired entry is logically absent even while the
// backing file still exists, and is deleted lazily when a lookup finds it.
//
// The cache fails open: any storage or decoding error on a read behaves as
// a miss, because caching is an optimization rather than a protection.
//
// # Usage
//
//	store, _ := filestore.New("storage/cache")
//	c := cache.New(store)
//
//	_ = c.Set(ctx, "posts:recent", posts, 10*time.Minute)
//
//	posts := cache.Get(ctx, c, "posts:recent", []Post(nil))
//
//	stats, err := cache.Remember(ctx, c, "stats", time.Hour, func(ctx context.Context) (Stats, error) {
//	    return computeStats(ctx)
//	})
//
// Remember is not atomic: concurrent callers for the same missing key may
// each invoke the producer and race to write. The last write wins, which is
// acceptable for a cache.
//
// Clear and CleanExpired walk every record and are intended for
// administrative sweeps; both return the number of records removed.
package cache

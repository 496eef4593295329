// Package filestore provides a minimal file-backed key/value primitive used
// as the shared persistence layer for the cache, rate limiter and session
// stores. Each logical key maps to exactly one file named after a sha256
// digest of the key, so lookups never scan the directory.
//
// Writes are atomic: data is written to a temporary file in the same
// directory and renamed into place, and writes to the same key are
// serialized through striped mutexes. Readers therefore always observe
// either the previous or the new record, never a partial one, and
// read-modify-write cycles performed under Update never lose updates.
//
// # Usage
//
//	store, err := filestore.New("storage/cache")
//	if err != nil { ... }
//
//	_ = store.Write(ctx, "posts:recent", data)
//	data, err := store.Read(ctx, "posts:recent")
//	if errors.Is(err, filestore.ErrNotFound) { ... }
//
// Walk and SweepOlderThan iterate every record and are O(n); they only ever
// remove or replace whole files, so they are safe to run concurrently with
// normal traffic.
package filestore

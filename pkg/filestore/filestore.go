package filestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash/fnv"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// lockStripes bounds the number of per-key mutexes. Keys are distributed
// across stripes by hash, so two distinct keys may share a lock but a single
// key always maps to the same one.
const lockStripes = 64

// defaultSuffix is appended to record file names so sweeps can distinguish
// store records from stray files (temp files, editor droppings).
const defaultSuffix = ".dat"

// Store maps opaque string keys to byte blobs on the local filesystem.
// The zero value is not usable; construct with New.
type Store struct {
	dir    string
	suffix string
	locks  [lockStripes]sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithSuffix overrides the record file suffix (default ".dat").
func WithSuffix(suffix string) Option {
	return func(s *Store) {
		if suffix != "" && strings.HasPrefix(suffix, ".") {
			s.suffix = suffix
		}
	}
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, ErrDirCreation
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Join(ErrDirCreation, err)
	}

	s := &Store{
		dir:    dir,
		suffix: defaultSuffix,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Dir returns the root directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// path returns the backing file path for a logical key. Content addressing
// keeps lookups O(1) regardless of the number of records.
func (s *Store) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+s.suffix)
}

// lock returns the stripe mutex owning the key.
func (s *Store) lock(key string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &s.locks[h.Sum32()%lockStripes]
}

// Read returns the record for key, or ErrNotFound if no record exists.
func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Write atomically replaces the record for key with data.
func (s *Store) Write(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	mu := s.lock(key)
	mu.Lock()
	defer mu.Unlock()

	return s.writeLocked(key, data)
}

// writeLocked performs the temp-file-plus-rename dance. Callers must hold
// the key's stripe lock.
func (s *Store) writeLocked(key string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, "tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, s.path(key)); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

// Update applies fn to the current record (nil when absent) and writes back
// its result, all under the key's lock. Concurrent updates to the same key
// are serialized, so none are lost.
func (s *Store) Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	mu := s.lock(key)
	mu.Lock()
	defer mu.Unlock()

	current, err := os.ReadFile(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	return s.writeLocked(key, next)
}

// Delete removes the record for key. Removing an absent record is not an
// error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	mu := s.lock(key)
	mu.Lock()
	defer mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Record describes a stored record during Walk.
type Record struct {
	// Path is the absolute backing file path.
	Path string
	// Data is the record contents.
	Data []byte
	// ModTime is the backing file's last modification time.
	ModTime time.Time
}

// Walk invokes fn for every record in the store. A non-nil error from fn
// aborts the walk. Records that disappear mid-walk (concurrent deletes)
// are skipped.
func (s *Store) Walk(ctx context.Context, fn func(rec Record) error) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), s.suffix) {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		if err := fn(Record{Path: path, Data: data, ModTime: info.ModTime()}); err != nil {
			return err
		}
	}
	return nil
}

// RemoveAll deletes every record and reports how many were removed.
func (s *Store) RemoveAll(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), s.suffix) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}

// RemovePath deletes a record by its backing file path, as reported during
// Walk.
func (s *Store) RemovePath(path string) error {
	if filepath.Dir(path) != filepath.Clean(s.dir) {
		return fmt.Errorf("filestore: path %q outside store directory", path)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// SweepOlderThan removes whole records whose backing file has not been
// modified within age, bounding growth for abandoned keys. Returns the
// number of records removed.
func (s *Store) SweepOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age)
	removed := 0

	err := s.Walk(ctx, func(rec Record) error {
		if rec.ModTime.Before(cutoff) {
			if err := s.RemovePath(rec.Path); err == nil {
				removed++
			}
		}
		return nil
	})
	return removed, err
}

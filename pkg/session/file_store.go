package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/inkwellcms/seckit/pkg/filestore"
)

// FileStore implements Store on top of a filestore.Store, giving every
// session one hash-named record on disk.
type FileStore struct {
	store *filestore.Store
}

// NewFileStore creates a file-backed session store.
// Panics if store is nil to fail fast on misconfiguration.
func NewFileStore(store *filestore.Store) *FileStore {
	if store == nil {
		panic("session: filestore is required")
	}
	return &FileStore{store: store}
}

// Save persists the session under its current identifier.
func (f *FileStore) Save(ctx context.Context, session *Session) error {
	if session == nil || session.ID == "" {
		return ErrInvalidSession
	}

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return f.store.Write(ctx, session.ID, data)
}

// Load retrieves a session by identifier, deleting it when expired.
func (f *FileStore) Load(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}

	data, err := f.store.Read(ctx, id)
	if err != nil {
		if errors.Is(err, filestore.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		// Undecodable records are unrecoverable, drop them.
		_ = f.store.Delete(ctx, id)
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		_ = f.store.Delete(ctx, id)
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// Delete removes a session by identifier.
func (f *FileStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return f.store.Delete(ctx, id)
}

// DeleteExpired removes all expired session records and returns the count
// removed.
func (f *FileStore) DeleteExpired(ctx context.Context) (int, error) {
	now := time.Now()
	removed := 0

	err := f.store.Walk(ctx, func(rec filestore.Record) error {
		var session Session
		if err := json.Unmarshal(rec.Data, &session); err == nil {
			if session.ExpiresAt.IsZero() || session.ExpiresAt.After(now) {
				return nil
			}
		}
		if err := f.store.RemovePath(rec.Path); err == nil {
			removed++
		}
		return nil
	})
	return removed, err
}

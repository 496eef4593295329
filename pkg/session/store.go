package session

import "context"

// Store defines the interface for session persistence.
type Store interface {
	// Save persists the session under its current identifier.
	Save(ctx context.Context, session *Session) error

	// Load retrieves a session by identifier. Expired sessions are removed
	// and reported as ErrSessionExpired.
	Load(ctx context.Context, id string) (*Session, error)

	// Delete removes a session by identifier.
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes all expired sessions and returns the count
	// removed.
	DeleteExpired(ctx context.Context) (int, error)
}

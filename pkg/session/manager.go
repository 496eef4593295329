package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/inkwellcms/seckit/pkg/cookie"
)

// Manager handles the session life-cycle: start/resume, periodic identifier
// regeneration, persistence and destruction.
type Manager struct {
	store         Store
	transport     Transport
	config        Config
	cookieManager *cookie.Manager
	cookieOptions []cookie.Option
	log           *slog.Logger
	now           func() time.Time
}

// New creates a session manager with the given options.
func New(opts ...Option) *Manager {
	m := &Manager{
		config: DefaultConfig(),
		log:    slog.Default(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.store == nil {
		m.store = NewMemoryStore()
	}

	if m.transport == nil {
		if m.cookieManager == nil {
			// Fail fast on misconfiguration to prevent insecure runtime behavior
			panic("session: cookie manager is required when using default cookie transport")
		}
		m.transport = NewCookieTransport(m.cookieManager, m.config.CookieName, m.config.SecureCookies, m.cookieOptions...)
	}

	return m
}

// Start establishes or resumes the session bound to the request's transport
// identifier. It is idempotent within a request: once a session is in the
// request context (see Middleware), the same instance is returned. The
// identifier is rotated on first use and whenever the regeneration interval
// has elapsed since the last rotation.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	if sess, ok := FromContext(ctx); ok {
		return sess, nil
	}

	token, err := m.transport.GetToken(r)
	if err == nil {
		sess, err := m.store.Load(ctx, token)
		if err == nil {
			sess.ExpiresAt = m.now().Add(m.config.Lifetime)
			if m.needsRegeneration(sess) {
				if err := m.rotate(ctx, w, sess); err != nil {
					return nil, err
				}
			}
			return sess, nil
		}
		if !errors.Is(err, ErrSessionNotFound) && !errors.Is(err, ErrSessionExpired) {
			return nil, err
		}
		_ = m.transport.ClearToken(w)
	}

	return m.create(ctx, w)
}

// Regenerate rotates the session identifier immediately, preserving all
// key/value state. Call it on privilege changes such as login to prevent
// session fixation.
func (m *Manager) Regenerate(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if sess == nil || sess.ID == "" {
		return ErrInvalidSession
	}
	return m.rotate(ctx, w, sess)
}

// Save persists the session's current state.
func (m *Manager) Save(ctx context.Context, sess *Session) error {
	return m.store.Save(ctx, sess)
}

// Destroy clears all state, removes the stored record and invalidates the
// transport identifier. A later Start creates a fresh session.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if sess, ok := FromContext(ctx); ok {
		sess.Clear()
		sess.ID = ""
	}

	token, err := m.transport.GetToken(r)
	if err == nil && token != "" {
		_ = m.store.Delete(ctx, token)
	}

	return m.transport.ClearToken(w)
}

// DeleteExpired sweeps expired session records from the store.
func (m *Manager) DeleteExpired(ctx context.Context) (int, error) {
	return m.store.DeleteExpired(ctx)
}

// create builds and persists a fresh session and issues its identifier.
func (m *Manager) create(ctx context.Context, w http.ResponseWriter) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	sess := newSession(token, m.config.Lifetime)
	sess.LastRegeneratedAt = m.now()

	if err := m.store.Save(ctx, sess); err != nil {
		return nil, err
	}

	if err := m.transport.SetToken(w, sess.ID, m.config.Lifetime); err != nil {
		_ = m.store.Delete(ctx, sess.ID)
		return nil, err
	}

	return sess, nil
}

// rotate moves the session to a fresh identifier: the old record is
// deleted, state is saved under the new token and the cookie re-issued.
func (m *Manager) rotate(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	newToken, err := generateToken()
	if err != nil {
		return err
	}

	oldToken := sess.ID
	sess.ID = newToken
	sess.LastRegeneratedAt = m.now()

	if err := m.store.Save(ctx, sess); err != nil {
		sess.ID = oldToken
		return err
	}

	_ = m.store.Delete(ctx, oldToken)

	if err := m.transport.SetToken(w, newToken, m.config.Lifetime); err != nil {
		return err
	}

	m.log.DebugContext(ctx, "session identifier regenerated")
	return nil
}

func (m *Manager) needsRegeneration(sess *Session) bool {
	if sess.LastRegeneratedAt.IsZero() {
		return true
	}
	return m.now().Sub(sess.LastRegeneratedAt) > m.config.RegenerationInterval
}

// generateToken creates a cryptographically secure session identifier.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

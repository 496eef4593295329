package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/inkwellcms/seckit/pkg/audit"
	"github.com/inkwellcms/seckit/pkg/clientip"
	"github.com/inkwellcms/seckit/pkg/session"
)

const (
	// FieldName is the form/query field carrying the candidate token.
	FieldName = "csrf_token"

	// HeaderName carries the candidate token for non-form clients.
	HeaderName = "X-CSRF-Token"

	// DefaultTTL is the token lifetime when none is configured.
	DefaultTTL = time.Hour

	// Session keys holding the current token and its expiry instant.
	tokenKey  = "csrf_token"
	expiryKey = "csrf_token_expiry"
)

// Guard issues and validates anti-forgery tokens bound to a session.
type Guard struct {
	ttl   time.Duration
	audit audit.Logger
	log   *slog.Logger
	now   func() time.Time
}

// Option configures a Guard.
type Option func(*Guard)

// WithTTL sets the token lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(g *Guard) {
		if ttl > 0 {
			g.ttl = ttl
		}
	}
}

// WithAudit sets the audit logger receiving verification failures.
func WithAudit(a audit.Logger) Option {
	return func(g *Guard) {
		g.audit = a
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(g *Guard) {
		if log != nil {
			g.log = log
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) {
		if now != nil {
			g.now = now
		}
	}
}

// New creates a Guard.
func New(opts ...Option) *Guard {
	g := &Guard{
		ttl: DefaultTTL,
		log: slog.Default(),
		now: time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// GenerateToken creates a new high-entropy token, binds it to the session
// with an absolute expiry and returns it. Any prior token is superseded.
func (g *Guard) GenerateToken(sess *session.Session) (string, error) {
	if sess == nil {
		return "", ErrNoSession
	}

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	token := hex.EncodeToString(b)

	sess.Set(tokenKey, token)
	sess.Set(expiryKey, g.now().Add(g.ttl).Unix())

	return token, nil
}

// Token returns the session's current token, transparently generating a new
// one when absent or expired.
func (g *Guard) Token(sess *session.Session) (string, error) {
	if sess == nil {
		return "", ErrNoSession
	}

	token := sess.GetString(tokenKey, "")
	expiry := sess.GetInt64(expiryKey, 0)

	if token == "" || g.now().Unix() > expiry {
		return g.GenerateToken(sess)
	}
	return token, nil
}

// ValidateToken reports whether candidate matches the session's current,
// unexpired token. Comparison is constant-time; a missing or expired stored
// token fails closed.
func (g *Guard) ValidateToken(sess *session.Session, candidate string) bool {
	if sess == nil || candidate == "" {
		return false
	}

	stored := sess.GetString(tokenKey, "")
	expiry := sess.GetInt64(expiryKey, 0)

	if stored == "" || g.now().Unix() > expiry {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

// Verify extracts the candidate token from the request and validates it
// against the session. On failure it records a security audit event and
// returns ErrTokenInvalid; the caller must reject the request without
// mutating state.
func (g *Guard) Verify(r *http.Request, sess *session.Session) error {
	candidate := r.PostFormValue(FieldName)
	if candidate == "" {
		candidate = r.URL.Query().Get(FieldName)
	}
	if candidate == "" {
		candidate = r.Header.Get(HeaderName)
	}

	if g.ValidateToken(sess, candidate) {
		return nil
	}

	ip := clientip.GetIP(r)
	g.log.WarnContext(r.Context(), "csrf token validation failed",
		"ip", ip,
		"path", r.URL.Path,
		"method", r.Method,
	)
	if g.audit != nil {
		_ = g.audit.LogDenied(r.Context(), "csrf.verify",
			audit.WithIP(ip),
			audit.WithPath(r.URL.Path),
			audit.WithMetadata("method", r.Method),
		)
	}

	return ErrTokenInvalid
}

// Field renders the current token as a hidden form control for inclusion in
// server-rendered forms.
func (g *Guard) Field(sess *session.Session) (template.HTML, error) {
	token, err := g.Token(sess)
	if err != nil {
		return "", err
	}

	field := fmt.Sprintf(`<input type="hidden" name="%s" value="%s">`, FieldName, template.HTMLEscapeString(token))
	return template.HTML(field), nil
}

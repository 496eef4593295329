package session

import (
	"net/http"
	"time"

	"github.com/inkwellcms/seckit/pkg/cookie"
)

// Transport defines how session identifiers travel between client and
// server.
type Transport interface {
	// GetToken extracts the session identifier from the request.
	GetToken(r *http.Request) (string, error)

	// SetToken sends the session identifier in the response.
	SetToken(w http.ResponseWriter, token string, ttl time.Duration) error

	// ClearToken invalidates the identifier on the client immediately.
	ClearToken(w http.ResponseWriter) error
}

// CookieTransport carries the identifier in an HMAC-signed cookie that is
// httpOnly, SameSite=Strict and, when configured, Secure.
type CookieTransport struct {
	cookieMgr     *cookie.Manager
	cookieName    string
	secureCookies bool
	options       []cookie.Option
}

// NewCookieTransport creates a cookie-based transport.
func NewCookieTransport(cookieMgr *cookie.Manager, cookieName string, secureCookies bool, opts ...cookie.Option) *CookieTransport {
	return &CookieTransport{
		cookieMgr:     cookieMgr,
		cookieName:    cookieName,
		secureCookies: secureCookies,
		options:       opts,
	}
}

// GetToken extracts and verifies the session identifier from the cookie.
// A missing or tampered cookie is reported as ErrSessionNotFound.
func (t *CookieTransport) GetToken(r *http.Request) (string, error) {
	token, err := t.cookieMgr.GetSigned(r, t.cookieName)
	if err != nil {
		return "", ErrSessionNotFound
	}
	return token, nil
}

// SetToken stores the session identifier in a signed cookie.
func (t *CookieTransport) SetToken(w http.ResponseWriter, token string, ttl time.Duration) error {
	opts := []cookie.Option{
		cookie.WithMaxAge(int(ttl.Seconds())),
		cookie.WithPath("/"),
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteStrictMode),
	}

	if t.secureCookies {
		opts = append(opts, cookie.WithSecure(true))
	}

	opts = append(opts, t.options...)

	return t.cookieMgr.SetSigned(w, t.cookieName, token, opts...)
}

// ClearToken expires the session cookie immediately.
func (t *CookieTransport) ClearToken(w http.ResponseWriter) error {
	t.cookieMgr.Delete(w, t.cookieName)
	return nil
}

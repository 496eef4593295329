package session

import "time"

// Config holds session configuration.
type Config struct {
	// CookieName is the name of the session cookie (default: "cms_session")
	CookieName string `env:"SESSION_NAME" envDefault:"cms_session"`

	// Lifetime is the session's idle lifetime (default: 7200s)
	Lifetime time.Duration `env:"SESSION_LIFETIME" envDefault:"2h"`

	// RegenerationInterval bounds how long one transport identifier stays
	// valid before it is rotated (default: 300s)
	RegenerationInterval time.Duration `env:"SESSION_REGENERATION_INTERVAL" envDefault:"5m"`

	// SecureCookies enables the Secure flag on session cookies
	// (set in production)
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" envDefault:"false"`
}

// DefaultConfig returns default session configuration.
func DefaultConfig() Config {
	return Config{
		CookieName:           "cms_session",
		Lifetime:             2 * time.Hour,
		RegenerationInterval: 5 * time.Minute,
		SecureCookies:        false,
	}
}

// NewFromConfig creates a Manager from the provided Config. A store and a
// cookie manager (for the default cookie transport) are supplied via
// options.
func NewFromConfig(cfg Config, opts ...Option) *Manager {
	configOpts := append([]Option{WithConfig(cfg)}, opts...)
	return New(configOpts...)
}

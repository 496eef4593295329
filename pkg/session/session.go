package session

import (
	"maps"
	"time"
)

// Session holds one client's server-side state. ID is the opaque transport
// identifier; Values is arbitrary key/value state (user id, role, ...);
// Flash is the one-shot delivery channel consumed on first read.
type Session struct {
	ID                string         `json:"id"`
	Values            map[string]any `json:"values,omitempty"`
	Flashes           map[string]any `json:"flashes,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	LastRegeneratedAt time.Time      `json:"last_regenerated_at"`
	ExpiresAt         time.Time      `json:"expires_at"`
}

// newSession creates an empty session under the given identifier.
func newSession(id string, lifetime time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		Values:    make(map[string]any),
		Flashes:   make(map[string]any),
		CreatedAt: now,
		ExpiresAt: now.Add(lifetime),
	}
}

// IsExpired reports whether the session has passed its expiry.
func (s *Session) IsExpired() bool {
	return s != nil && !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Set stores a value in the session.
func (s *Session) Set(key string, value any) {
	if s == nil {
		return
	}
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	s.Values[key] = value
}

// Get retrieves a value, returning def when the key is absent.
func (s *Session) Get(key string, def any) any {
	if s == nil || s.Values == nil {
		return def
	}
	if val, ok := s.Values[key]; ok {
		return val
	}
	return def
}

// GetString retrieves a string value, returning def on absence or type
// mismatch.
func (s *Session) GetString(key, def string) string {
	if val, ok := s.lookup(key); ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return def
}

// GetInt64 retrieves an integer value. JSON round-trips store numbers as
// float64, so both widths are accepted.
func (s *Session) GetInt64(key string, def int64) int64 {
	val, ok := s.lookup(key)
	if !ok {
		return def
	}
	switch v := val.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return def
	}
}

// Has reports whether the key exists in the session.
func (s *Session) Has(key string) bool {
	_, ok := s.lookup(key)
	return ok
}

// Remove deletes a value from the session.
func (s *Session) Remove(key string) {
	if s == nil || s.Values == nil {
		return
	}
	delete(s.Values, key)
}

// Clear removes all state, including pending flashes.
func (s *Session) Clear() {
	if s == nil {
		return
	}
	s.Values = make(map[string]any)
	s.Flashes = make(map[string]any)
}

// Flash stores a value for one-shot delivery on a later read.
func (s *Session) Flash(key string, value any) {
	if s == nil {
		return
	}
	if s.Flashes == nil {
		s.Flashes = make(map[string]any)
	}
	s.Flashes[key] = value
}

// GetFlash returns the flashed value and deletes it in one operation,
// returning def when nothing is pending.
func (s *Session) GetFlash(key string, def any) any {
	if s == nil || s.Flashes == nil {
		return def
	}
	val, ok := s.Flashes[key]
	if !ok {
		return def
	}
	delete(s.Flashes, key)
	return val
}

// HasFlash reports whether a flash value is pending without consuming it.
func (s *Session) HasFlash(key string) bool {
	if s == nil || s.Flashes == nil {
		return false
	}
	_, ok := s.Flashes[key]
	return ok
}

// clone returns a deep copy so store implementations never alias caller
// maps.
func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	if s.Values != nil {
		cp.Values = make(map[string]any, len(s.Values))
		maps.Copy(cp.Values, s.Values)
	}
	if s.Flashes != nil {
		cp.Flashes = make(map[string]any, len(s.Flashes))
		maps.Copy(cp.Flashes, s.Flashes)
	}
	return &cp
}

func (s *Session) lookup(key string) (any, bool) {
	if s == nil || s.Values == nil {
		return nil, false
	}
	val, ok := s.Values[key]
	return val, ok
}

package ratelimit

import (
	"net/http"
	"strings"

	"github.com/inkwellcms/seckit/pkg/clientip"
)

// KeyFunc extracts a rate limit key from an HTTP request. An empty return
// value means the request cannot be attributed and is not limited.
type KeyFunc func(*http.Request) string

// Key builds the conventional "<action>:<client-identifier>" composite key.
func Key(action, client string) string {
	return action + ":" + client
}

// ByClientIP keys requests on the caller's resolved client address,
// prefixed with the given action scope.
func ByClientIP(action string) KeyFunc {
	return func(r *http.Request) string {
		ip := clientip.GetIP(r)
		if ip == "" {
			return ""
		}
		return Key(action, ip)
	}
}

// Composite joins several key extractors into one key. Empty parts are
// skipped; an all-empty result disables limiting for the request.
func Composite(keyFuncs ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(keyFuncs))
		for _, fn := range keyFuncs {
			if key := fn(r); key != "" {
				parts = append(parts, key)
			}
		}
		if len(parts) == 0 {
			return ""
		}
		return strings.Join(parts, ":")
	}
}

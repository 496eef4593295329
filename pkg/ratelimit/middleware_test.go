package ratelimit_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellcms/seckit/pkg/filestore"
	"github.com/inkwellcms/seckit/pkg/ratelimit"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	newHandler := func(t *testing.T, max int) http.Handler {
		t.Helper()
		store, err := filestore.New(t.TempDir())
		require.NoError(t, err)
		limiter := ratelimit.New(store)
		return ratelimit.Middleware(limiter, ratelimit.ByClientIP("login"), max, time.Hour)(okHandler())
	}

	t.Run("allows under the limit", func(t *testing.T) {
		t.Parallel()
		handler := newHandler(t, 3)

		for range 3 {
			req := httptest.NewRequest(http.MethodPost, "/login", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
		}
	})

	t.Run("throttles over the limit", func(t *testing.T) {
		t.Parallel()
		handler := newHandler(t, 2)

		for range 2 {
			req := httptest.NewRequest(http.MethodPost, "/login", nil)
			req.RemoteAddr = "10.0.0.2:1234"
			handler.ServeHTTP(httptest.NewRecorder(), req)
		}

		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "too_many_attempts", body["error"])
	})

	t.Run("keys are isolated per client", func(t *testing.T) {
		t.Parallel()
		handler := newHandler(t, 1)

		first := httptest.NewRequest(http.MethodPost, "/login", nil)
		first.RemoteAddr = "10.0.0.3:1234"
		handler.ServeHTTP(httptest.NewRecorder(), first)

		other := httptest.NewRequest(http.MethodPost, "/login", nil)
		other.RemoteAddr = "10.0.0.4:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, other)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("empty key bypasses limiting", func(t *testing.T) {
		t.Parallel()

		store, err := filestore.New(t.TempDir())
		require.NoError(t, err)
		limiter := ratelimit.New(store)

		noKey := func(*http.Request) string { return "" }
		handler := ratelimit.Middleware(limiter, noKey, 1, time.Hour)(okHandler())

		for range 5 {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})
}

func TestMiddlewareFromPolicy(t *testing.T) {
	t.Parallel()

	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)
	limiter := ratelimit.New(store)

	policies, err := ratelimit.ParsePolicies([]byte("login:\n  max_attempts: 1\n  decay: 1h\n"))
	require.NoError(t, err)

	mw, err := ratelimit.MiddlewareFromPolicy(limiter, ratelimit.ByClientIP("login"), policies, "login")
	require.NoError(t, err)

	handler := mw(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.5:1234"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.5:1234"
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	_, err = ratelimit.MiddlewareFromPolicy(limiter, ratelimit.ByClientIP("x"), policies, "unknown")
	assert.ErrorIs(t, err, ratelimit.ErrPolicyNotFound)
}

func TestKeyHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "password_reset:203.0.113.9", ratelimit.Key("password_reset", "203.0.113.9"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:5000"
	assert.Equal(t, "login:203.0.113.9", ratelimit.ByClientIP("login")(req))

	composite := ratelimit.Composite(
		func(*http.Request) string { return "" },
		func(*http.Request) string { return "a" },
		func(*http.Request) string { return "b" },
	)
	assert.Equal(t, "a:b", composite(req))

	empty := ratelimit.Composite(func(*http.Request) string { return "" })
	assert.Empty(t, empty(req))
}

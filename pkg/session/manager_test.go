package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellcms/seckit/pkg/cookie"
	"github.com/inkwellcms/seckit/pkg/session"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// newManager builds a manager over an in-memory store with a mutable clock.
func newManager(t *testing.T, opts ...session.Option) (*session.Manager, *time.Time) {
	t.Helper()

	cookieMgr, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	now := time.Now()
	opts = append([]session.Option{
		session.WithCookieManager(cookieMgr),
		session.WithClock(func() time.Time { return now }),
	}, opts...)

	return session.New(opts...), &now
}

// carryCookies copies the session cookie issued in w onto a new request.
func carryCookies(t *testing.T, w *httptest.ResponseRecorder) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestManager_StartCreatesSession(t *testing.T) {
	t.Parallel()

	manager, _ := newManager(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	sess, err := manager.Start(ctx, rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	assert.NotEmpty(t, sess.ID)
	assert.False(t, sess.CreatedAt.IsZero())
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Equal(t, "cms_session", rec.Result().Cookies()[0].Name)
	assert.True(t, rec.Result().Cookies()[0].HttpOnly)
}

func TestManager_StartResumesSession(t *testing.T) {
	t.Parallel()

	manager, _ := newManager(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	sess, err := manager.Start(ctx, rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	sess.Set("user_id", int64(7))
	require.NoError(t, manager.Save(ctx, sess))

	resumed, err := manager.Start(ctx, httptest.NewRecorder(), carryCookies(t, rec))
	require.NoError(t, err)

	assert.Equal(t, sess.ID, resumed.ID)
	assert.Equal(t, int64(7), resumed.GetInt64("user_id", 0))
}

func TestManager_StartIsIdempotentWithinRequest(t *testing.T) {
	t.Parallel()

	manager, _ := newManager(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	first, err := manager.Start(context.Background(), rec, req)
	require.NoError(t, err)

	ctx := session.NewContext(context.Background(), first)
	second, err := manager.Start(ctx, rec, req)
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestManager_RegenerationPreservesState(t *testing.T) {
	t.Parallel()

	manager, now := newManager(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	sess, err := manager.Start(ctx, rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	sess.Set("user_id", int64(7))
	sess.Flash("notice", "logged in")
	require.NoError(t, manager.Save(ctx, sess))
	oldID := sess.ID

	// Past the rotation interval the resumed session gets a fresh
	// identifier; the old one stops resolving.
	*now = now.Add(6 * time.Minute)

	rec2 := httptest.NewRecorder()
	resumed, err := manager.Start(ctx, rec2, carryCookies(t, rec))
	require.NoError(t, err)

	assert.NotEqual(t, oldID, resumed.ID)
	assert.Equal(t, int64(7), resumed.GetInt64("user_id", 0))
	assert.Equal(t, "logged in", resumed.GetFlash("notice", nil))

	stale, err := manager.Start(ctx, httptest.NewRecorder(), carryCookies(t, rec))
	require.NoError(t, err)
	assert.NotEqual(t, oldID, stale.ID, "old identifier no longer resolves")
	assert.False(t, stale.Has("user_id"), "stale token yields a fresh session")
}

func TestManager_NoRotationWithinInterval(t *testing.T) {
	t.Parallel()

	manager, now := newManager(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	sess, err := manager.Start(ctx, rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	*now = now.Add(time.Minute)

	resumed, err := manager.Start(ctx, httptest.NewRecorder(), carryCookies(t, rec))
	require.NoError(t, err)
	assert.Equal(t, sess.ID, resumed.ID)
}

func TestManager_Regenerate(t *testing.T) {
	t.Parallel()

	manager, _ := newManager(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	sess, err := manager.Start(ctx, rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	sess.Set("user_id", int64(9))
	oldID := sess.ID

	rec2 := httptest.NewRecorder()
	require.NoError(t, manager.Regenerate(ctx, rec2, sess))

	assert.NotEqual(t, oldID, sess.ID)
	assert.Equal(t, int64(9), sess.GetInt64("user_id", 0))
	require.Len(t, rec2.Result().Cookies(), 1, "new identifier issued to the client")

	assert.ErrorIs(t, manager.Regenerate(ctx, rec2, nil), session.ErrInvalidSession)
}

func TestManager_Destroy(t *testing.T) {
	t.Parallel()

	manager, _ := newManager(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	sess, err := manager.Start(ctx, rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.Set("user_id", int64(1))
	require.NoError(t, manager.Save(ctx, sess))
	oldID := sess.ID

	req := carryCookies(t, rec)
	destroyRec := httptest.NewRecorder()
	destroyCtx := session.NewContext(ctx, sess)
	require.NoError(t, manager.Destroy(destroyCtx, destroyRec, req))

	assert.Empty(t, sess.ID)
	assert.False(t, sess.Has("user_id"))

	cookies := destroyRec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge, "cookie expired on the client")

	// The old token no longer resumes anything.
	fresh, err := manager.Start(ctx, httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.NotEqual(t, oldID, fresh.ID)
	assert.False(t, fresh.Has("user_id"))
}

func TestManager_TamperedCookieStartsFresh(t *testing.T) {
	t.Parallel()

	manager, _ := newManager(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	sess, err := manager.Start(ctx, rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "cms_session", Value: "dGFtcGVyZWQ"})

	fresh, err := manager.Start(ctx, httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.NotEqual(t, sess.ID, fresh.ID)
}

func TestMiddleware_PersistsMutations(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	cookieMgr, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	manager := session.New(
		session.WithStore(store),
		session.WithCookieManager(cookieMgr),
	)

	var sessID string
	handler := session.Middleware(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session.FromContext(r.Context())
		require.True(t, ok)
		sess.Set("username", "bob")
		sessID = sess.ID
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	saved, err := store.Load(context.Background(), sessID)
	require.NoError(t, err)
	assert.Equal(t, "bob", saved.GetString("username", ""))

	// Second request resumes the same session and sees the mutation.
	handler2 := session.Middleware(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := session.FromContext(r.Context())
		assert.Equal(t, "bob", sess.GetString("username", ""))
	}))
	handler2.ServeHTTP(httptest.NewRecorder(), carryCookies(t, rec))
}

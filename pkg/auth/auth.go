package auth

import (
	"context"
	"net/http"
	"strconv"

	"github.com/inkwellcms/seckit/pkg/session"
)

// Session keys carrying the authenticated identity.
const (
	keyUserID   = "user_id"
	keyUsername = "username"
	keyEmail    = "user_email"
	keyRole     = "user_role"
)

// User is the identity bound to a session on login.
type User struct {
	ID       int64
	Username string
	Email    string
	Role     string
}

// Check reports whether the session carries an authenticated identity.
func Check(sess *session.Session) bool {
	return sess != nil && sess.Has(keyUserID) && sess.Has(keyUsername)
}

// UserID returns the authenticated user's id, or zero when anonymous.
func UserID(sess *session.Session) int64 {
	if sess == nil {
		return 0
	}
	return sess.GetInt64(keyUserID, 0)
}

// Username returns the authenticated user's name, or empty when anonymous.
func Username(sess *session.Session) string {
	if sess == nil {
		return ""
	}
	return sess.GetString(keyUsername, "")
}

// CurrentUser returns the identity bound to the session, or nil when
// anonymous.
func CurrentUser(sess *session.Session) *User {
	if !Check(sess) {
		return nil
	}
	return &User{
		ID:       UserID(sess),
		Username: Username(sess),
		Email:    sess.GetString(keyEmail, ""),
		Role:     sess.GetString(keyRole, ""),
	}
}

// SubjectID renders the session's subject for audit attribution: the user
// id when authenticated, empty otherwise.
func SubjectID(sess *session.Session) string {
	if !Check(sess) {
		return ""
	}
	return strconv.FormatInt(UserID(sess), 10)
}

// Login binds user to the session. The transport identifier is regenerated
// first so a pre-login identifier cannot be fixated into an authenticated
// session.
func Login(ctx context.Context, manager *session.Manager, w http.ResponseWriter, sess *session.Session, user User) error {
	if err := manager.Regenerate(ctx, w, sess); err != nil {
		return err
	}

	sess.Set(keyUserID, user.ID)
	sess.Set(keyUsername, user.Username)
	if user.Email != "" {
		sess.Set(keyEmail, user.Email)
	}
	if user.Role != "" {
		sess.Set(keyRole, user.Role)
	}

	return manager.Save(ctx, sess)
}

// Logout destroys the session entirely.
func Logout(ctx context.Context, manager *session.Manager, w http.ResponseWriter, r *http.Request) error {
	return manager.Destroy(ctx, w, r)
}

package rbac

import (
	"log/slog"
	"net/http"

	"github.com/inkwellcms/seckit/pkg/audit"
	"github.com/inkwellcms/seckit/pkg/auth"
	"github.com/inkwellcms/seckit/pkg/session"
)

const (
	// roleKey is the session key holding the caller's role name.
	roleKey = "user_role"

	// DefaultLoginURL receives unauthenticated callers.
	DefaultLoginURL = "/login"

	// DefaultDeniedURL receives authenticated but under-privileged callers.
	DefaultDeniedURL = "/"
)

// UserRole reads the caller's role from the session. An absent role
// defaults to the lowest defined rank; an unrecognized one ranks below it.
func UserRole(sess *session.Session) Role {
	if sess == nil {
		return RoleSubscriber
	}
	name := sess.GetString(roleKey, "")
	if name == "" {
		return RoleSubscriber
	}
	return ParseRole(name)
}

// HasRole reports an exact role match.
func HasRole(sess *session.Session, role Role) bool {
	return UserRole(sess) == role
}

// HasRoleOrHigher reports whether the caller's role ranks at or above min.
func HasRoleOrHigher(sess *session.Session, min Role) bool {
	return UserRole(sess).AtLeast(min)
}

// IsAdmin reports whether the caller is an admin.
func IsAdmin(sess *session.Session) bool {
	return HasRole(sess, RoleAdmin)
}

// CanEditPost reports whether the caller may edit a post owned by
// authorID. Editors and admins edit any post; authors only their own.
func CanEditPost(sess *session.Session, authorID int64) bool {
	if !auth.Check(sess) {
		return false
	}
	if HasRoleOrHigher(sess, RoleEditor) {
		return true
	}
	return HasRoleOrHigher(sess, RoleAuthor) && auth.UserID(sess) == authorID
}

// CanDeletePost reports whether the caller may delete a post owned by
// authorID. Same ownership rule as CanEditPost.
func CanDeletePost(sess *session.Session, authorID int64) bool {
	if !auth.Check(sess) {
		return false
	}
	if HasRoleOrHigher(sess, RoleEditor) {
		return true
	}
	return HasRoleOrHigher(sess, RoleAuthor) && auth.UserID(sess) == authorID
}

// CanPublish reports whether the caller may publish posts.
func CanPublish(sess *session.Session) bool {
	return auth.Check(sess) && HasRoleOrHigher(sess, RoleAuthor)
}

// CanManageUsers reports whether the caller may administer user accounts.
func CanManageUsers(sess *session.Session) bool {
	return auth.Check(sess) && IsAdmin(sess)
}

// CanManageComments reports whether the caller may moderate comments.
func CanManageComments(sess *session.Session) bool {
	return auth.Check(sess) && HasRoleOrHigher(sess, RoleEditor)
}

// Guard wraps handlers with authentication and role requirements,
// delivering denials as a redirect plus an explanatory flash message.
type Guard struct {
	log       *slog.Logger
	audit     audit.Logger
	loginURL  string
	deniedURL string
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithLogger sets the logger receiving denial warnings.
func WithLogger(log *slog.Logger) GuardOption {
	return func(g *Guard) {
		if log != nil {
			g.log = log
		}
	}
}

// WithAudit sets the audit logger receiving denial events.
func WithAudit(a audit.Logger) GuardOption {
	return func(g *Guard) {
		g.audit = a
	}
}

// WithLoginURL overrides the authentication entry point.
func WithLoginURL(url string) GuardOption {
	return func(g *Guard) {
		if url != "" {
			g.loginURL = url
		}
	}
}

// WithDeniedURL overrides the safe location under-privileged callers are
// sent to.
func WithDeniedURL(url string) GuardOption {
	return func(g *Guard) {
		if url != "" {
			g.deniedURL = url
		}
	}
}

// NewGuard creates a Guard.
func NewGuard(opts ...GuardOption) *Guard {
	g := &Guard{
		log:       slog.Default(),
		loginURL:  DefaultLoginURL,
		deniedURL: DefaultDeniedURL,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// RequireRole admits only callers with exactly the given role.
func (g *Guard) RequireRole(role Role) func(http.Handler) http.Handler {
	return g.require(role, func(sess *session.Session) bool {
		return HasRole(sess, role)
	})
}

// RequireRoleOrHigher admits callers whose role ranks at or above min.
func (g *Guard) RequireRoleOrHigher(min Role) func(http.Handler) http.Handler {
	return g.require(min, func(sess *session.Session) bool {
		return HasRoleOrHigher(sess, min)
	})
}

func (g *Guard) require(wanted Role, allowed func(*session.Session) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, _ := session.FromContext(r.Context())

			if !auth.Check(sess) {
				sess.Flash("error", "Please log in to access this page")
				http.Redirect(w, r, g.loginURL, http.StatusSeeOther)
				return
			}

			if !allowed(sess) {
				actual := UserRole(sess)
				subject := auth.SubjectID(sess)

				g.log.WarnContext(r.Context(), "unauthorized access attempt",
					"user_id", subject,
					"required_role", wanted.String(),
					"user_role", actual.String(),
					"path", r.URL.Path,
				)
				if g.audit != nil {
					_ = g.audit.LogDenied(r.Context(), "rbac.require_role",
						audit.WithUserID(subject),
						audit.WithPath(r.URL.Path),
						audit.WithMetadata("required_role", wanted.String()),
						audit.WithMetadata("user_role", actual.String()),
					)
				}

				sess.Flash("error", "You do not have permission to access this page")
				http.Redirect(w, r, g.deniedURL, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

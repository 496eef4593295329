// Package rbac provides role-based access control over a closed, ordered
// role set: subscriber < author < editor < admin. Roles are a proper
// enumerated type carrying their own rank, so "unknown role ranks below
// everything" is an explicit property of the type rather than a
// lookup-table accident.
//
// The caller's role lives in the session. A Guard combines rank comparison
// with the redirect-and-flash handling expected by browser-facing
// handlers: unauthenticated callers are sent to the login page,
// insufficiently privileged ones to a safe default location, both with an
// explanatory flash message, and every denial is logged with the subject,
// the attempted role and the actual role.
//
// Resource-level checks combine rank with ownership: editors and admins
// may act on any post, authors only on their own.
package rbac

// Package admin exposes the maintenance sweeps as HTTP endpoints for an
// operations tool: clear the whole cache, clean expired cache entries,
// remove stale rate-limit records and expired sessions. Every endpoint
// answers with the number of records removed.
//
// The router carries no authentication of its own; mount it behind the
// rbac admin guard:
//
//	r.Mount("/admin/sweeps", guard.RequireRole(rbac.RoleAdmin)(admin.NewSweeper(c, l, m).Routes()))
package admin

// Package csrf issues and validates per-session anti-forgery tokens. The
// guard is a stateless service: the session carrying the token is always an
// explicit argument, so tests can run it against an in-memory session.
//
// Only the latest token is valid: generating a new one supersedes the
// prior, and every token expires after a configurable lifetime (default
// one hour). Validation compares candidates in constant time and fails
// closed when the session holds no usable token.
//
// # Usage
//
//	guard := csrf.New(csrf.WithAudit(auditLogger))
//
//	// Server-rendered forms embed the hidden field:
//	field, _ := guard.Field(sess)
//
//	// State-changing handlers verify before mutating:
//	if err := guard.Verify(r, sess); err != nil {
//	    http.Error(w, "forbidden", http.StatusForbidden)
//	    return
//	}
//
// Verify extracts the candidate from the csrf_token form or query field, or
// from the X-CSRF-Token header for non-form clients. Failures are recorded
// in the security audit log with origin and client address and must be
// treated as fatal to the request.
package csrf

// Package cookie manages HTTP cookies with HMAC-signed values and secure
// defaults (httpOnly, SameSite=Strict). The session transport uses signed
// cookies so a tampered session identifier is rejected before it ever
// reaches the session store.
//
// # Usage
//
//	mgr, err := cookie.New([]string{"at-least-32-characters-long-secret"})
//	if err != nil { ... }
//
//	_ = mgr.SetSigned(w, "cms_session", token, cookie.WithMaxAge(7200))
//	token, err := mgr.GetSigned(r, "cms_session")
//
// Multiple secrets support key rotation: values are always signed with the
// first secret, while verification tries every secret so cookies issued
// under a retired key remain valid during the transition.
package cookie

// Package session manages a single logical session per client, bound to the
// client through a signed cookie identifier. A Manager orchestrates the
// life-cycle: it relies on a Transport to carry the identifier on every
// request and on a Store to persist session state between requests.
//
// The identifier is rotated on first use and whenever more than the
// configured regeneration interval has elapsed since the last rotation,
// bounding the exposure window of a leaked identifier. Rotation replaces
// the stored record under a fresh token while preserving all key/value
// state, so the logical session survives. Explicit rotation on privilege
// change (login) is available through Regenerate.
//
// Besides arbitrary key/value state, every session carries a one-shot flash
// sub-map: values stored with Flash are deleted the moment GetFlash reads
// them, which is how authentication and authorization failures deliver
// their explanatory messages across a redirect.
//
// # Usage
//
//	cookieMgr, _ := cookie.New([]string{secret})
//	manager := session.New(
//	    session.WithStore(fileStore),
//	    session.WithCookieManager(cookieMgr),
//	)
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    sess, _ := manager.Start(r.Context(), w, r)
//	    sess.Set("user_id", int64(42))
//	    sess.Flash("notice", "saved")
//	    _ = manager.Save(r.Context(), sess)
//	}
//
// Middleware starts the session before the handler runs, places it in the
// request context and writes mutations back afterwards, making Start
// idempotent within a request.
package session

package session

import "net/http"

// Middleware starts (or resumes) the session before the handler runs,
// places it in the request context and writes mutations back afterwards.
// Handlers read the session via FromContext; Start calls inside the request
// return the same instance.
func Middleware(manager *Manager) func(http.Handler) http.Handler {
	if manager == nil {
		panic("session.Middleware: manager is required")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sess, err := manager.Start(ctx, w, r)
			if err != nil {
				manager.log.ErrorContext(ctx, "session start failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx = NewContext(ctx, sess)
			next.ServeHTTP(w, r.WithContext(ctx))

			// Destroy empties the ID; nothing to persist then.
			if sess.ID != "" {
				if err := manager.Save(ctx, sess); err != nil {
					manager.log.ErrorContext(ctx, "session save failed", "error", err)
				}
			}
		})
	}
}

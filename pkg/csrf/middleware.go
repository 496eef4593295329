package csrf

import (
	"encoding/json"
	"net/http"

	"github.com/inkwellcms/seckit/pkg/session"
)

// Middleware verifies the anti-forgery token on every state-changing
// request (POST, PUT, PATCH, DELETE). The session must already be in the
// request context (see session.Middleware). Verification failure is a hard
// 403 rejection with a machine-readable reason.
func Middleware(guard *Guard) func(http.Handler) http.Handler {
	if guard == nil {
		panic("csrf.Middleware: guard is required")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			default:
				next.ServeHTTP(w, r)
				return
			}

			sess, _ := session.FromContext(r.Context())
			if err := guard.Verify(r, sess); err != nil {
				writeRejection(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeRejection(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": "csrf_token_invalid",
	})
}

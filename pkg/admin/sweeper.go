package admin

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/inkwellcms/seckit/pkg/cache"
	"github.com/inkwellcms/seckit/pkg/ratelimit"
	"github.com/inkwellcms/seckit/pkg/session"
)

// Sweeper bundles the on-demand maintenance entry points of the security
// stores.
type Sweeper struct {
	cache     *cache.Cache
	limiter   *ratelimit.Limiter
	sessions  *session.Manager
	retention time.Duration
	log       *slog.Logger
}

// Option configures a Sweeper.
type Option func(*Sweeper)

// WithRetention overrides the rate-limit record retention used by the
// clean-old sweep.
func WithRetention(retention time.Duration) Option {
	return func(s *Sweeper) {
		if retention > 0 {
			s.retention = retention
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Sweeper) {
		if log != nil {
			s.log = log
		}
	}
}

// NewSweeper creates a Sweeper over the given stores. Any of them may be
// nil, in which case its endpoints answer 404.
func NewSweeper(c *cache.Cache, l *ratelimit.Limiter, m *session.Manager, opts ...Option) *Sweeper {
	s := &Sweeper{
		cache:     c,
		limiter:   l,
		sessions:  m,
		retention: ratelimit.DefaultRetention,
		log:       slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Routes returns the sweep endpoints as a chi router.
func (s *Sweeper) Routes() http.Handler {
	r := chi.NewRouter()

	if s.cache != nil {
		r.Post("/cache/clear", s.clearCache)
		r.Post("/cache/clean-expired", s.cleanExpiredCache)
	}
	if s.limiter != nil {
		r.Post("/ratelimit/clean-old", s.cleanOldRateLimits)
	}
	if s.sessions != nil {
		r.Post("/sessions/clean-expired", s.cleanExpiredSessions)
	}

	return r
}

func (s *Sweeper) clearCache(w http.ResponseWriter, r *http.Request) {
	removed, err := s.cache.Clear(r.Context())
	s.respond(w, r, "cache.clear", removed, err)
}

func (s *Sweeper) cleanExpiredCache(w http.ResponseWriter, r *http.Request) {
	removed, err := s.cache.CleanExpired(r.Context())
	s.respond(w, r, "cache.clean_expired", removed, err)
}

func (s *Sweeper) cleanOldRateLimits(w http.ResponseWriter, r *http.Request) {
	removed, err := s.limiter.CleanOld(r.Context(), s.retention)
	s.respond(w, r, "ratelimit.clean_old", removed, err)
}

func (s *Sweeper) cleanExpiredSessions(w http.ResponseWriter, r *http.Request) {
	removed, err := s.sessions.DeleteExpired(r.Context())
	s.respond(w, r, "sessions.clean_expired", removed, err)
}

func (s *Sweeper) respond(w http.ResponseWriter, r *http.Request, sweep string, removed int, err error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	if err != nil {
		s.log.ErrorContext(r.Context(), "sweep failed", "sweep", sweep, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"sweep": sweep,
			"error": err.Error(),
		})
		return
	}

	s.log.InfoContext(r.Context(), "sweep completed", "sweep", sweep, "removed", removed)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"sweep":   sweep,
		"removed": removed,
	})
}

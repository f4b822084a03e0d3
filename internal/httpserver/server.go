// internal/httpserver/server.go
//
// HTTP server wiring for the verse game backend.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, timeouts,
//     request logging, CORS, JSON content type).
//   - Public endpoints: "/", "/health", "/books".
//   - Game endpoints (optional auth): POST /game/new, POST /game/guess, GET /game/{id}/hint.
//   - Auth endpoints: /auth/* (signup, login, federated, logout, password reset, me).
//   - Profile and stats (require auth): PUT /profile, GET|PUT /stats/me.
//   - Leaderboard (optional auth): GET /leaderboard.
//
// Notes:
//   - Mutating game and auth routes are rate limited per client IP.
//   - Optional auth decorates requests with the signed-in user when a valid token
//     is present; guests can still play.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/thywordle/internal/auth"
	"github.com/robalobadob/thywordle/internal/bible"
	"github.com/robalobadob/thywordle/internal/config"
	"github.com/robalobadob/thywordle/internal/store"
	"github.com/robalobadob/thywordle/internal/verses"
)

// Deps are the collaborators a Server needs; all are required.
type Deps struct {
	Games   store.Games
	Users   store.Users
	Auth    *auth.Service
	Catalog *verses.Catalog
	Config  *config.Config
}

// Server bundles the router with the game and user stores.
type Server struct {
	r       *chi.Mux
	games   store.Games
	users   store.Users
	auth    *auth.Service
	catalog *verses.Catalog
	cfg     *config.Config
	limiter *ipLimiter
	now     func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		games:   d.Games,
		users:   d.Users,
		auth:    d.Auth,
		catalog: d.Catalog,
		cfg:     d.Config,
		limiter: newIPLimiter(d.Config.RateLimitRPS, d.Config.RateLimitBurst),
		now:     func() time.Time { return time.Now().UTC() },
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger(log.Logger)...)    // zerolog access log
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(d.Config.ClientOrigin))     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "thywordle",
			"endpoints": []string{"/health", "/books", "POST /game/new", "POST /game/guess", "/auth/*", "/leaderboard"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "verses": s.catalog.Len()})
	})
	s.r.Get("/books", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"oldTestament": bible.OldTestamentBooks(),
			"newTestament": bible.NewTestamentBooks(),
		})
	})

	s.mountGameRoutes()
	s.mountAuthRoutes()
	s.mountStatsRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler { return s.r }

// SweepLimiters drops rate-limit buckets for clients idle longer than idle.
func (s *Server) SweepLimiters(now time.Time, idle time.Duration) int {
	return s.limiter.sweep(now, idle)
}

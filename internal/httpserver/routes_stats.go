// internal/httpserver/routes_stats.go
//
// Profile, stats and leaderboard endpoints.
// Responsibilities:
//   - PUT /profile, GET|PUT /stats/me (require auth).
//   - GET /leaderboard (optional auth; the viewer's row is highlighted).
//   - Folding finished games into stats and mapping auth/store errors to statuses.

package httpserver

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/thywordle/internal/auth"
	"github.com/robalobadob/thywordle/internal/game"
	"github.com/robalobadob/thywordle/internal/stats"
	"github.com/robalobadob/thywordle/internal/store"
)

// mountStatsRoutes registers profile, stats and leaderboard routes.
func (s *Server) mountStatsRoutes() {
	s.r.With(s.requireAuth).Put("/profile", s.handleProfile)
	s.r.With(s.requireAuth).Get("/stats/me", s.handleGetStats)
	s.r.With(s.requireAuth, s.rateLimit).Put("/stats/me", s.handlePutStats)
	s.r.With(s.withOptionalAuth).Get("/leaderboard", s.handleLeaderboard)
}

// gameResult is what a finished game contributes to a player's stats.
type gameResult struct {
	solution   string
	guesses    int
	maxGuesses int
	won        bool
}

// recordResult folds a finished game into the player's stats. Failures are
// logged and swallowed; the guess response does not depend on them.
func (s *Server) recordResult(r *http.Request, uid string, res gameResult) {
	logger := hlog.FromRequest(r).With().Str("user", uid).Logger()
	cur, err := s.users.LoadStats(r.Context(), uid)
	if err != nil {
		logger.Warn().Err(err).Msg("load stats")
		return
	}
	if cur == nil {
		return
	}
	next := stats.AddCompletedGame(*cur, res.guesses, res.maxGuesses, res.won)
	if err := s.users.SaveStats(r.Context(), uid, next, res.solution); err != nil {
		logger.Warn().Err(err).Msg("save stats")
		return
	}
	logger.Debug().Int("totalGames", next.TotalGames).Bool("won", res.won).Msg("stats updated")
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	var in auth.ProfileInput
	if !decodeJSON(w, r, &in, false) {
		return
	}
	u, err := s.auth.UpdateProfile(r.Context(), currentUser(r.Context()).UID, in)
	if err != nil {
		s.writeAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.users.LoadStats(r.Context(), currentUser(r.Context()).UID)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("load stats")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if st == nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type putStatsReq struct {
	Stats    stats.GameStats `json:"stats"`
	Solution string          `json:"solution"`
}

// handlePutStats stores client-computed stats; stale pushes are ignored by the store.
func (s *Server) handlePutStats(w http.ResponseWriter, r *http.Request) {
	var req putStatsReq
	if !decodeJSON(w, r, &req, false) {
		return
	}
	if req.Stats.WinDistribution == nil {
		req.Stats.WinDistribution = map[int]int{}
	}
	if err := stats.Validate(req.Stats, game.MaxGuesses); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	uid := currentUser(r.Context()).UID
	if err := s.users.SaveStats(r.Context(), uid, req.Stats, req.Solution); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save stats")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	st, err := s.users.LoadStats(r.Context(), uid)
	if err != nil || st == nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	viewer := ""
	if me := currentUser(r.Context()); me != nil {
		viewer = me.UID
	}
	entries, err := s.users.Leaderboard(r.Context(), viewer)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if entries == nil {
		entries = []store.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// writeAuthError maps auth and store errors to HTTP statuses.
func (s *Server) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	var fe *auth.FieldError
	switch {
	case errors.As(err, &fe):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fe.Message, "field": fe.Field})
	case errors.Is(err, store.ErrEmailTaken):
		writeError(w, http.StatusConflict, "Email already registered")
	case errors.Is(err, auth.ErrBadCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, auth.ErrResetInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrFederatedDisabled):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("auth")
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}

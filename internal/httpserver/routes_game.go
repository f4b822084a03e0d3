// internal/httpserver/routes_game.go
//
// Game endpoints (optional auth).
// Responsibilities:
//   - POST /game/new: start a daily or random game.
//   - POST /game/guess: evaluate a guess; record stats when a signed-in game ends.
//   - GET /game/{id}/hint: the solution verse's text.

package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/thywordle/internal/daily"
	"github.com/robalobadob/thywordle/internal/game"
	"github.com/robalobadob/thywordle/internal/store"
	"github.com/robalobadob/thywordle/internal/verse"
)

func (s *Server) mountGameRoutes() {
	s.r.Route("/game", func(r chi.Router) {
		r.Use(s.withOptionalAuth)
		r.With(s.rateLimit).Post("/new", s.handleNewGame)
		r.With(s.rateLimit).Post("/guess", s.handleGuess)
		r.Get("/{id}/hint", s.handleHint)
	})
}

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Mode string `json:"mode"` // "daily" | "random" (default)
}
type newGameRes struct {
	GameID     string    `json:"gameId"`
	Mode       game.Mode `json:"mode"`
	Length     int       `json:"length"`
	MaxGuesses int       `json:"maxGuesses"`
	Date       string    `json:"date,omitempty"`
	Played     bool      `json:"played,omitempty"` // signed-in user already finished today's verse
}

// handleNewGame picks a solution for the requested mode and stores a new session.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if !decodeJSON(w, r, &req, true) {
		return
	}

	now := s.now()
	res := newGameRes{MaxGuesses: game.MaxGuesses}
	var solution string
	switch game.Mode(req.Mode) {
	case game.ModeDaily:
		solution = s.catalog.Daily(now, s.cfg.DailySalt).Solution()
		res.Mode = game.ModeDaily
		res.Date = daily.DateKey(now)
		if me := currentUser(r.Context()); me != nil {
			res.Played = s.dailyPlayed(r, me.UID, solution)
		}
	case game.ModeRandom, "":
		solution = s.catalog.Random().Solution()
		res.Mode = game.ModeRandom
	default:
		writeError(w, http.StatusBadRequest, "unknown mode")
		return
	}

	g := game.New(solution, res.Mode)
	if err := s.games.Save(r.Context(), g); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	res.GameID = g.ID
	res.Length = len(g.Solution)
	writeJSON(w, http.StatusOK, res)
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	Cells    []verse.Cell `json:"cells"`
	State    string       `json:"state"` // "playing" | "won" | "lost"
	Guesses  int          `json:"guesses"`
	Solution string       `json:"solution,omitempty"` // revealed once the game is over
}

// handleGuess evaluates a guess against a stored game. When the game ends for
// a signed-in player their stats are updated (best effort).
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if !decodeJSON(w, r, &req, false) {
		return
	}

	var (
		res    guessRes
		result gameResult
	)
	err := s.games.Update(r.Context(), req.GameID, func(g *game.Game) error {
		cells, state, err := g.ApplyGuess(req.Guess)
		if err != nil {
			return err
		}
		res = guessRes{Cells: cells, State: state, Guesses: g.Guesses()}
		if g.Finished {
			res.Solution = g.Solution
			result = gameResult{solution: g.Solution, guesses: g.Guesses(), maxGuesses: g.MaxGuesses, won: g.Won}
		}
		return nil
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
		return
	case errors.Is(err, game.ErrFinished):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if me := currentUser(r.Context()); me != nil && result.solution != "" {
		s.recordResult(r, me.UID, result)
	}
	writeJSON(w, http.StatusOK, res)
}

// handleHint returns the verse text of a game's solution.
func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	g, err := s.games.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	v, ok := s.catalog.Lookup(g.Solution)
	if !ok {
		writeError(w, http.StatusNotFound, "no_hint")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"hint": v.Text})
}

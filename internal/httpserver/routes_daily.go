// internal/httpserver/routes_daily.go
//
// Daily verse bookkeeping.
// Everyone gets the same daily solution (date + salt, see the daily package).
// A signed-in player whose last finished game was today's verse, finished
// today, is reported as having played so the client can show their result
// instead of a fresh board.

package httpserver

import (
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/thywordle/internal/daily"
)

// dailyPlayed reports whether uid already finished the daily solution today.
func (s *Server) dailyPlayed(r *http.Request, uid, solution string) bool {
	u, err := s.users.GetUser(r.Context(), uid)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("user", uid).Msg("daily played check")
		return false
	}
	return u.LastSolution == solution && daily.SameDay(u.LastUpdated, s.now())
}

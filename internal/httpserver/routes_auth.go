// internal/httpserver/routes_auth.go
//
// Account endpoints under /auth.
// Responsibilities:
//   - Signup, login, federated sign-in and logout.
//   - Password reset request and confirmation.
//   - Session cookie handling and token extraction (bearer header or cookie).

package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/thywordle/internal/store"
)

// mountAuthRoutes registers /auth/*.
func (s *Server) mountAuthRoutes() {
	s.r.Route("/auth", func(r chi.Router) {
		r.With(s.rateLimit).Post("/signup", s.handleSignup)
		r.With(s.rateLimit).Post("/login", s.handleLogin)
		r.With(s.rateLimit).Post("/federated", s.handleFederated)
		r.Post("/logout", s.handleLogout)
		r.With(s.rateLimit).Post("/password-reset", s.handleResetRequest)
		r.With(s.rateLimit).Post("/password-reset/confirm", s.handleResetConfirm)
		r.With(s.requireAuth).Get("/me", s.handleMe)
	})
}

type signupReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body signupReq
	if !decodeJSON(w, r, &body, false) {
		return
	}
	u, err := s.auth.SignUp(r.Context(), body.Username, body.Email, body.Password)
	if err != nil {
		s.writeAuthError(w, r, err)
		return
	}
	s.startSession(w, r, u, http.StatusCreated)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginReq
	if !decodeJSON(w, r, &body, false) {
		return
	}
	u, err := s.auth.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		s.writeAuthError(w, r, err)
		return
	}
	s.startSession(w, r, u, http.StatusOK)
}

func (s *Server) handleFederated(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDToken string `json:"idToken"`
	}
	if !decodeJSON(w, r, &body, false) {
		return
	}
	u, err := s.auth.SignInFederated(r.Context(), body.IDToken)
	if err != nil {
		s.writeAuthError(w, r, err)
		return
	}
	s.startSession(w, r, u, http.StatusOK)
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearAuthCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleResetRequest always answers 202 so callers cannot probe for accounts.
func (s *Server) handleResetRequest(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &body, false) {
		return
	}
	if err := s.auth.RequestReset(r.Context(), body.Email); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("password reset request")
	}
	writeJSON(w, http.StatusAccepted, map[string]bool{"ok": true})
}

func (s *Server) handleResetConfirm(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &body, false) {
		return
	}
	if err := s.auth.ConfirmReset(r.Context(), body.Token, body.Password); err != nil {
		s.writeAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.GetUser(r.Context(), currentUser(r.Context()).UID)
	if err != nil {
		s.writeAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// startSession signs a token for u, sets the cookie and returns the user with the token.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, u *store.User, status int) {
	tok, exp, err := s.auth.Tokens().Sign(u.UID, u.Name)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setAuthCookie(w, tok, exp)
	writeJSON(w, status, map[string]any{"user": u, "token": tok})
}

// ------------------------------ cookies ------------------------------------

// setAuthCookie writes the auth token cookie with appropriate security attributes.
func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, s.cookie(token, exp, 0))
}

// clearAuthCookie deletes the auth token cookie.
func (s *Server) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie("", time.Time{}, -1))
}

func (s *Server) cookie(value string, exp time.Time, maxAge int) *http.Cookie {
	secure := s.cfg.Production
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	return &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
		MaxAge:   maxAge,
	}
}

// bearerOrCookie extracts a bearer token from Authorization header or auth cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

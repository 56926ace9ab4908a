package web

import (
	"net/http"
	"time"

	"github.com/JonMunkholm/tablekeeper/internal/auth"
	"github.com/JonMunkholm/tablekeeper/internal/core"
	"github.com/JonMunkholm/tablekeeper/internal/web/middleware"
)

type loginResponse struct {
	Success bool      `json:"success"`
	Token   string    `json:"token"`
	User    auth.User `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// handleRegister creates an account.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds auth.Credentials
	if err := s.decodeJSON(w, r, &creds); err != nil {
		respondError(w, r, err)
		return
	}

	u, err := s.auth.Register(r.Context(), creds)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    u,
	})
}

// handleLogin issues a session token as an HTTP-only cookie and in the body.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds auth.Credentials
	if err := s.decodeJSON(w, r, &creds); err != nil {
		respondError(w, r, err)
		return
	}

	token, u, err := s.auth.Login(r.Context(), creds)
	if err != nil {
		respondError(w, r, err)
		return
	}

	http.SetCookie(w, s.sessionCookie(token, time.Now().Add(s.auth.TokenTTL())))
	writeJSON(w, http.StatusOK, loginResponse{Success: true, Token: token, User: u})
}

// handleLogout revokes the current token and clears the cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromRequest(r, s.cfg.Auth.CookieName)
	if err := s.auth.Logout(r.Context(), token); err != nil {
		respondError(w, r, err)
		return
	}

	http.SetCookie(w, s.sessionCookie("", time.Unix(0, 0)))
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

// handleMe returns the authenticated user.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.auth.User(r.Context(), core.UserIDFromContext(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) sessionCookie(value string, expires time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     s.cfg.Auth.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.cfg.Auth.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		c.MaxAge = -1
	}
	return c
}

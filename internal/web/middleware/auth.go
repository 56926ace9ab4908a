package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/tablekeeper/internal/auth"
	"github.com/JonMunkholm/tablekeeper/internal/core"
)

// Authenticator resolves a session token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.User, error)
}

// ErrorResponder writes an error response with the given status.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, err error, status int)

// TokenFromRequest returns the session token from the named cookie, falling
// back to an "Authorization: Bearer" header.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// RequireUser rejects requests without a valid session token and stores
// the authenticated user ID on the request context.
//
// A missing token is answered with 401, a bad or revoked one with 403.
func RequireUser(authn Authenticator, cookieName string, respond ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := authn.Authenticate(r.Context(), TokenFromRequest(r, cookieName))
			switch {
			case errors.Is(err, auth.ErrMissingToken):
				respond(w, r, err, http.StatusUnauthorized)
				return
			case errors.Is(err, auth.ErrInvalidToken):
				respond(w, r, err, http.StatusForbidden)
				return
			case err != nil:
				respond(w, r, err, http.StatusInternalServerError)
				return
			}

			ctx := core.ContextWithUserID(r.Context(), u.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/obsidianvault/internal/common"
	"github.com/dmitrijs2005/obsidianvault/internal/server/models"
)

const sessionCookieName = "session_token"

const sessionCookieMaxAge = 7 * 24 * 60 * 60

// sessionToken extracts the bearer credential from the request. The cookie
// takes precedence over the Authorization header.
func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	return ""
}

// setSessionCookie installs the session token as a cross-site-capable
// http-only cookie.
func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// withUser is the session gateway: it resolves the presented token to a
// verified user before the wrapped handler runs, so every store access
// downstream is already scoped. Any resolution failure ends the request
// with 401.
func (s *Server) withUser(next func(w http.ResponseWriter, r *http.Request, user *models.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.auth.Authenticate(r.Context(), sessionToken(r))
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				// a session pointing at a missing user row is an
				// authentication failure from the caller's side
				writeError(w, http.StatusUnauthorized, "User not found")
				return
			}
			writeServiceError(w, err)
			return
		}
		next(w, r, user)
	}
}

package auth

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"
	"time"
)

type contextKey string

const UserIDKey contextKey = "user_id"

const adminRealm = `Basic realm="Admin Area"`

// JWTMiddleware authenticates API requests from the session cookie, answering
// 401 when it is missing or invalid.
func (h *AuthHandler) JWTMiddleware(next http.Handler) http.Handler {
	return h.sessionMiddleware(next, func(w http.ResponseWriter, r *http.Request, reason string) {
		http.Error(w, "Unauthorized: "+reason, http.StatusUnauthorized)
	})
}

// RequireSession guards server-rendered pages, sending anonymous visitors to
// the sign-in page.
func (h *AuthHandler) RequireSession(next http.Handler) http.Handler {
	return h.sessionMiddleware(next, func(w http.ResponseWriter, r *http.Request, _ string) {
		http.Redirect(w, r, "/sign-in", http.StatusSeeOther)
	})
}

func (h *AuthHandler) sessionMiddleware(next http.Handler, deny func(http.ResponseWriter, *http.Request, string)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil {
			deny(w, r, "No token found")
			return
		}

		userID, exp, err := h.ParseToken(cookie.Value)
		if err != nil {
			deny(w, r, "Invalid token")
			return
		}

		// Sliding session: refresh token if it's more than halfway through its duration
		if !exp.IsZero() && time.Until(exp) < TokenDuration/2 {
			if renewed, err := h.SessionCookie(userID); err == nil {
				http.SetCookie(w, &renewed)
			}
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the authenticated user id stored by the session middleware.
func UserID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(UserIDKey).(uint)
	return id, ok
}

// BasicAuth gates the admin area with the configured username and password.
func BasicAuth(username, password string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				challenge(w, "Authentication required")
				return
			}

			scheme, encoded, _ := strings.Cut(header, " ")
			if scheme != "Basic" {
				challenge(w, "Invalid authentication method")
				return
			}

			decoded, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				challenge(w, "Invalid credentials")
				return
			}
			user, pass, _ := strings.Cut(string(decoded), ":")

			// An unset admin password never matches.
			if password == "" || !constantTimeEqual(user, username) || !constantTimeEqual(pass, password) {
				challenge(w, "Invalid credentials")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func challenge(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", adminRealm)
	http.Error(w, message, http.StatusUnauthorized)
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

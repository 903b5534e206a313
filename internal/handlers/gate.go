package handlers

import (
	"net/http"
	"strings"

	"github.com/magnetic-studio/studio-api/internal/auth"
	"github.com/magnetic-studio/studio-api/internal/config"
)

// underPath reports whether path is prefix itself or below it.
func underPath(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isAdminPath(path string) bool {
	return underPath(path, "/admin") || underPath(path, "/api/admin")
}

// RouteGate puts the admin area behind basic auth and the dashboard pages
// behind a session. Everything else passes through.
func RouteGate(authHandler *auth.AuthHandler, adminUsername, adminPassword string) func(http.Handler) http.Handler {
	basic := auth.BasicAuth(adminUsername, adminPassword)
	return func(next http.Handler) http.Handler {
		admin := basic(next)
		dashboard := authHandler.RequireSession(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case isAdminPath(r.URL.Path):
				admin.ServeHTTP(w, r)
			case underPath(r.URL.Path, "/dashboard"):
				dashboard.ServeHTTP(w, r)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// AppMode restricts what is served while the studio is not live.
// comingSoon serves the landing page, the waitlist and the admin area and
// redirects everything else to /. maintenance answers 503 outside the admin
// area and the operational endpoints.
func AppMode(mode string, maintenance http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if operational(path) || isAdminPath(path) {
				next.ServeHTTP(w, r)
				return
			}

			switch mode {
			case config.ModeComingSoon:
				if path == "/" || path == "/api/waitlist" {
					next.ServeHTTP(w, r)
					return
				}
				http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
			case config.ModeMaintenance:
				maintenance.ServeHTTP(w, r)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func operational(path string) bool {
	return path == "/health" || path == "/metrics"
}

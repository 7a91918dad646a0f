package middleware

import (
	"net/http"

	"safetywatch/internal/config"
)

// APIKeyMiddleware requires the configured key on destructive endpoints.
// When no key is configured everything passes through.
func APIKeyMiddleware(cfg *config.Config, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cfg.APIKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		if r.Method == http.MethodDelete || r.URL.Path == "/api/events/delete" {
			if r.Header.Get("X-API-Key") != cfg.APIKey {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// Package api implements the read-only HTTP mirror of the meeting tool
// surface using chi.
package api

import (
	"net/http"
	"strings"

	"github.com/starford/ansuz/internal/apperr"
)

// AuthMiddleware returns middleware that validates a Bearer token.
// If enabled is false, all requests pass through (disabled mode).
func AuthMiddleware(enabled bool, token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != token {
				writeJSON(w, http.StatusUnauthorized, map[string]any{
					"error": apperr.BadRequest("unauthorized", nil),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/meetings"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(svc *meetings.Service, authEnabled bool, token string) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/meetings", h.ListMeetings)
	r.Get("/meetings/{id}", h.GetMeeting)
	r.Get("/meetings/{id}/export", h.ExportMeeting)

	r.Get("/search", h.Search)
	r.Get("/stats", h.Stats)

	r.Get("/cache/status", h.CacheStatus)
	r.Post("/cache/refresh", h.RefreshCache)

	return r
}

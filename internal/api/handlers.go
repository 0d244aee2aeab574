package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/meetings"
)

// Handler holds API route handlers.
type Handler struct {
	svc *meetings.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *meetings.Service) *Handler {
	return &Handler{svc: svc}
}

// csv splits a comma-separated query parameter, dropping empty entries.
func csv(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ListMeetings handles GET /meetings.
func (h *Handler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	page, err := h.svc.List(meetings.ListParams{
		Query:        q.Get("q"),
		From:         q.Get("from_ts"),
		To:           q.Get("to_ts"),
		Participants: csv(q.Get("participants")),
		Limit:        limit,
		Cursor:       q.Get("cursor"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetMeeting handles GET /meetings/{id}.
func (h *Handler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	include := r.URL.Query().Get("include_transcript") == "true"
	m, err := h.svc.Get(id, include)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// ExportMeeting handles GET /meetings/{id}/export.
func (h *Handler) ExportMeeting(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sections := csv(r.URL.Query().Get("sections"))
	md, err := h.svc.ExportMarkdown(id, sections)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(md))
}

// Search handles GET /search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("q") == "" {
		writeError(w, apperr.BadRequest("'q' is required", nil))
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	page, err := h.svc.Search(meetings.SearchParams{
		Query:        q.Get("q"),
		Participants: csv(q.Get("participants")),
		Platform:     q.Get("platform"),
		After:        q.Get("after"),
		Before:       q.Get("before"),
		Limit:        limit,
		Cursor:       q.Get("cursor"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Stats handles GET /stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	stats, err := h.svc.Stats(q.Get("window"), q.Get("group_by"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// CacheStatus handles GET /cache/status.
func (h *Handler) CacheStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.CacheStatus())
}

// RefreshCache handles POST /cache/refresh — the sole effectful operation.
func (h *Handler) RefreshCache(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Refresh()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

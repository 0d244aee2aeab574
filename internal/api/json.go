package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/starford/ansuz/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

// writeError maps an application error code onto an HTTP status and
// writes the structured error payload.
func writeError(w http.ResponseWriter, err error) {
	ae := apperr.From(err)
	status := http.StatusInternalServerError
	switch ae.Code {
	case apperr.CodeBadRequest:
		status = http.StatusBadRequest
	case apperr.CodeNotFound:
		status = http.StatusNotFound
	case apperr.CodeIO:
		status = http.StatusInternalServerError
	case apperr.CodeTimeout:
		status = http.StatusGatewayTimeout
	}
	writeJSON(w, status, map[string]any{"error": ae})
}

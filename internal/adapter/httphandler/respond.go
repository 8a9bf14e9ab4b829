package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/elianismedina/partfinder/internal/core/domain"
)

// SessionHeader carries the caller's session identifier. Requests
// without it share the default session.
const SessionHeader = "X-Session-Id"

func sessionID(r *http.Request) string {
	return r.Header.Get(SessionHeader)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	const op = "httphandler.writeJSON"

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.With("op", op).Error("failed to write response body", "err", err)
	}
}

func writeDomainErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrBusy):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrSync),
		errors.Is(err, domain.ErrConnection),
		errors.Is(err, domain.ErrConstraint):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

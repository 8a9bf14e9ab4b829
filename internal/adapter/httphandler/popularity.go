package httphandler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/elianismedina/partfinder/internal/core/domain"
	"github.com/elianismedina/partfinder/internal/core/port"
)

// A PopularityHandler answers part popularity lookups
// from the cart additions group table.
type PopularityHandler struct {
	popularity port.PartPopularity
}

func RegisterPopularity(mux *http.ServeMux, popularity port.PartPopularity) {
	h := PopularityHandler{popularity}
	mux.HandleFunc("GET /v1/parts/{id}/popularity", h.GetPopularity)
}

func (h PopularityHandler) GetPopularity(w http.ResponseWriter, r *http.Request) {
	const op = "PopularityHandler.GetPopularity"
	log := slog.With("op", op)

	partID := r.PathValue("id")

	count, err := h.popularity.CartAdds(partID)
	if err != nil {
		log.Error("failed to get cart additions", "partID", partID, "err", err)
		http.Error(w, "popularity unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, PartPopularity{PartID: partID, CartAdds: count})
}

// An ActivityAnalyzer runs a batch pass over archived session
// event files.
type ActivityAnalyzer interface {
	Do(ctx context.Context, srcPaths []string) <-chan domain.SessionActivity
}

// An ActivityHandler triggers the batch analyzer and returns
// the per-session aggregates.
type ActivityHandler struct {
	analyzer ActivityAnalyzer
}

func RegisterActivity(mux *http.ServeMux, analyzer ActivityAnalyzer) {
	h := ActivityHandler{analyzer}
	mux.HandleFunc("GET /v1/analytics/activity", h.GetActivity)
}

func (h ActivityHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	paths := r.URL.Query()["path"]
	if len(paths) == 0 {
		http.Error(w, "path query param is required", http.StatusBadRequest)
		return
	}

	out := make([]SessionActivity, 0)
	for v := range h.analyzer.Do(r.Context(), paths) {
		out = append(out, SessionActivity{
			SessionID: v.SessionID,
			Events:    v.Events,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

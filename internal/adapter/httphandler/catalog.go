package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/elianismedina/partfinder/internal/core/domain"
	"github.com/elianismedina/partfinder/internal/core/port"
	"github.com/elianismedina/partfinder/internal/core/service"
)

// A CatalogHandler serves the filtered parts catalog, the provider
// directory and the session cart counter.
type CatalogHandler struct {
	sessions  *service.Sessions
	catalog   service.Catalog
	providers []domain.ServiceProvider
	events    port.ClientEventsProducer
}

func RegisterCatalog(
	mux *http.ServeMux,
	sessions *service.Sessions,
	catalog service.Catalog,
	providers []domain.ServiceProvider,
	events port.ClientEventsProducer,
) {
	h := CatalogHandler{sessions, catalog, providers, events}
	mux.HandleFunc("GET /v1/parts", h.GetParts)
	mux.HandleFunc("GET /v1/parts/categories", h.GetCategories)
	mux.HandleFunc("GET /v1/services", h.GetServices)
	mux.HandleFunc("POST /v1/cart", h.PostCart)
}

func (h CatalogHandler) GetParts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	category := r.URL.Query().Get("category")
	if category == "" {
		category = service.AllCategories
	}

	ps := h.catalog.Filter(query, category)

	if query != "" {
		h.produce(r, domain.ClientEvent{
			SessionID:  h.sessions.Get(sessionID(r)).ID,
			EventType:  domain.EventPartSearched,
			Query:      query,
			Category:   category,
			OccurredAt: time.Now(),
		})
	}

	writeJSON(w, http.StatusOK, partsToWire(ps))
}

func (h CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Categories())
}

func (h CatalogHandler) GetServices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, providersToWire(h.providers))
}

func (h CatalogHandler) PostCart(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.PostCart"
	log := slog.With("op", op)

	var body CartAdd
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid JSON data", http.StatusBadRequest)
			log.Warn("failed to parse JSON", "err", err)
			return
		}
	}

	sess := h.sessions.Get(sessionID(r))
	count := sess.Cart.Increment()

	h.produce(r, domain.ClientEvent{
		SessionID:  sess.ID,
		EventType:  domain.EventCartAdd,
		PartID:     body.PartID,
		OccurredAt: time.Now(),
	})

	log.Info("added to cart", "partID", body.PartID, "count", count)
	writeJSON(w, http.StatusOK, CartState{Count: count})
}

// produce is best effort: a broken analytics pipeline never fails
// a catalog request.
func (h CatalogHandler) produce(r *http.Request, evt domain.ClientEvent) {
	const op = "CatalogHandler.produce"

	if err := h.events.ProduceEvent(r.Context(), evt); err != nil {
		slog.With("op", op).Warn("failed to produce event", "err", err)
	}
}

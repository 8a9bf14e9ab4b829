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

// A GarageHandler exposes the per-session vehicle collection:
// list, add, edit, delete and select.
type GarageHandler struct {
	sessions *service.Sessions
	events   port.ClientEventsProducer
}

func RegisterGarage(
	mux *http.ServeMux,
	sessions *service.Sessions,
	events port.ClientEventsProducer,
) {
	h := GarageHandler{sessions, events}
	mux.HandleFunc("GET /v1/vehicles", h.GetVehicles)
	mux.HandleFunc("POST /v1/vehicles", h.PostVehicle)
	mux.HandleFunc("PUT /v1/vehicles/{id}", h.PutVehicle)
	mux.HandleFunc("DELETE /v1/vehicles/{id}", h.DeleteVehicle)
	mux.HandleFunc("POST /v1/vehicles/{id}/select", h.SelectVehicle)
}

func (h GarageHandler) GetVehicles(w http.ResponseWriter, r *http.Request) {
	const op = "GarageHandler.GetVehicles"
	log := slog.With("op", op)

	g := h.sessions.Get(sessionID(r)).Garage

	if err := g.Load(r.Context()); err != nil {
		log.Error("failed to load vehicles", "err", err)
		writeDomainErr(w, err)
		return
	}

	h.writeSnapshot(w, http.StatusOK, g)
}

func (h GarageHandler) PostVehicle(w http.ResponseWriter, r *http.Request) {
	const op = "GarageHandler.PostVehicle"
	log := slog.With("op", op)

	var d VehicleDraft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	g := h.sessions.Get(sessionID(r)).Garage

	if err := g.Add(r.Context(), d.toDomain()); err != nil {
		log.Error("failed to add vehicle", "err", err)
		writeDomainErr(w, err)
		return
	}

	log.Info("vehicle added", "make", d.Make, "model", d.Model)
	h.writeSnapshot(w, http.StatusCreated, g)
}

func (h GarageHandler) PutVehicle(w http.ResponseWriter, r *http.Request) {
	const op = "GarageHandler.PutVehicle"
	log := slog.With("op", op)

	id := r.PathValue("id")

	var d VehicleDraft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	g := h.sessions.Get(sessionID(r)).Garage

	if err := g.Update(r.Context(), id, d.toDomain()); err != nil {
		log.Error("failed to update vehicle", "vehicleID", id, "err", err)
		writeDomainErr(w, err)
		return
	}

	log.Info("vehicle updated", "vehicleID", id)
	h.writeSnapshot(w, http.StatusOK, g)
}

func (h GarageHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	const op = "GarageHandler.DeleteVehicle"
	log := slog.With("op", op)

	id := r.PathValue("id")
	g := h.sessions.Get(sessionID(r)).Garage

	if err := g.Remove(r.Context(), id); err != nil {
		log.Error("failed to delete vehicle", "vehicleID", id, "err", err)
		writeDomainErr(w, err)
		return
	}

	log.Info("vehicle deleted", "vehicleID", id)
	h.writeSnapshot(w, http.StatusOK, g)
}

func (h GarageHandler) SelectVehicle(w http.ResponseWriter, r *http.Request) {
	const op = "GarageHandler.SelectVehicle"
	log := slog.With("op", op)

	id := r.PathValue("id")
	sess := h.sessions.Get(sessionID(r))

	if err := sess.Garage.Select(id); err != nil {
		log.Warn("failed to select vehicle", "vehicleID", id, "err", err)
		writeDomainErr(w, err)
		return
	}

	h.produceSelected(r, sess.ID, id)
	h.writeSnapshot(w, http.StatusOK, sess.Garage)
}

func (h GarageHandler) writeSnapshot(
	w http.ResponseWriter, status int, g *service.Garage,
) {
	vs, selected := g.Snapshot()
	writeJSON(w, status, GarageSnapshot{
		Vehicles:   vehiclesToWire(vs),
		SelectedID: selected,
	})
}

// produceSelected reports the selection to analytics. Event delivery is
// best effort and never fails the request.
func (h GarageHandler) produceSelected(r *http.Request, sessID, vehicleID string) {
	const op = "GarageHandler.produceSelected"

	evt := domain.ClientEvent{
		SessionID:  sessID,
		EventType:  domain.EventVehicleSelected,
		VehicleID:  vehicleID,
		OccurredAt: time.Now(),
	}
	if err := h.events.ProduceEvent(r.Context(), evt); err != nil {
		slog.With("op", op).Warn("failed to produce event", "err", err)
	}
}

// A RecommendationsHandler serves the maintenance recommendations
// matched against the session's selected vehicle.
type RecommendationsHandler struct {
	sessions    *service.Sessions
	recommender service.Recommender
}

func RegisterRecommendations(
	mux *http.ServeMux,
	sessions *service.Sessions,
	recommender service.Recommender,
) {
	h := RecommendationsHandler{sessions, recommender}
	mux.HandleFunc("GET /v1/recommendations", h.GetRecommendations)
}

func (h RecommendationsHandler) GetRecommendations(
	w http.ResponseWriter, r *http.Request,
) {
	g := h.sessions.Get(sessionID(r)).Garage

	var selected *domain.Vehicle
	if v, ok := g.Selected(); ok {
		selected = &v
	}

	recs := h.recommender.For(selected)
	writeJSON(w, http.StatusOK, recommendationsToWire(recs))
}

package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/elianismedina/partfinder/internal/core/domain"
	"github.com/elianismedina/partfinder/internal/core/port"
)

// A VehiclesHandler is the inbound side of the vehicles persistence
// service: plain CRUD over the canonical store, no session state.
type VehiclesHandler struct {
	store port.VehicleRepository
}

func RegisterVehicles(mux *http.ServeMux, store port.VehicleRepository) {
	h := VehiclesHandler{store}
	mux.HandleFunc("GET /v1/vehicles", h.ListVehicles)
	mux.HandleFunc("POST /v1/vehicles", h.InsertVehicle)
	mux.HandleFunc("PUT /v1/vehicles/{id}", h.UpdateVehicle)
	mux.HandleFunc("DELETE /v1/vehicles/{id}", h.DeleteVehicle)
}

func (h VehiclesHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	const op = "VehiclesHandler.ListVehicles"
	log := slog.With("op", op)

	vs, err := h.store.List(r.Context())
	if err != nil {
		log.Error("failed to list vehicles", "err", err)
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, vehiclesToWire(vs))
}

func (h VehiclesHandler) InsertVehicle(w http.ResponseWriter, r *http.Request) {
	const op = "VehiclesHandler.InsertVehicle"
	log := slog.With("op", op)

	var d VehicleDraft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	v, err := h.store.Insert(r.Context(), d.toDomain())
	if err != nil {
		log.Error("failed to insert vehicle", "err", err)
		if errors.Is(err, domain.ErrConstraint) {
			http.Error(w, "constraint violation", http.StatusConflict)
			return
		}
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
		return
	}

	log.Info("vehicle stored", "vehicleID", v.ID)
	writeJSON(w, http.StatusCreated, vehicleToWire(v))
}

func (h VehiclesHandler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	const op = "VehiclesHandler.UpdateVehicle"
	log := slog.With("op", op)

	id := r.PathValue("id")

	var d VehicleDraft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	if err := h.store.Update(r.Context(), id, d.toDomain()); err != nil {
		h.writeStoreErr(w, log, id, err)
		return
	}

	log.Info("vehicle updated", "vehicleID", id)
	w.WriteHeader(http.StatusOK)
}

func (h VehiclesHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	const op = "VehiclesHandler.DeleteVehicle"
	log := slog.With("op", op)

	id := r.PathValue("id")

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.writeStoreErr(w, log, id, err)
		return
	}

	log.Info("vehicle deleted", "vehicleID", id)
	w.WriteHeader(http.StatusOK)
}

func (VehiclesHandler) writeStoreErr(
	w http.ResponseWriter, log *slog.Logger, id string, err error,
) {
	if errors.Is(err, domain.ErrNotFound) {
		log.Warn("unknown vehicle", "vehicleID", id)
		http.Error(w, "vehicle not found", http.StatusNotFound)
		return
	}
	log.Error("storage failure", "vehicleID", id, "err", err)
	http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
}

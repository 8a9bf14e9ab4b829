package httphandler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/elianismedina/partfinder/internal/adapter/httphandler"
	"github.com/elianismedina/partfinder/internal/core/domain"
	"github.com/elianismedina/partfinder/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu       sync.Mutex
	seq      int
	vehicles []domain.Vehicle
}

func (r *memRepo) List(context.Context) ([]domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	vs := make([]domain.Vehicle, len(r.vehicles))
	copy(vs, r.vehicles)
	return vs, nil
}

func (r *memRepo) Insert(
	_ context.Context, d domain.VehicleDraft,
) (domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	v := domain.Vehicle{
		ID: fmt.Sprintf("v-%d", r.seq), Make: d.Make, Model: d.Model,
		Year: d.Year, Mileage: d.Mileage, VIN: d.VIN,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	r.vehicles = append([]domain.Vehicle{v}, r.vehicles...)
	return v, nil
}

func (r *memRepo) Update(
	_ context.Context, id string, d domain.VehicleDraft,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, v := range r.vehicles {
		if v.ID == id {
			r.vehicles[i].Make = d.Make
			r.vehicles[i].Model = d.Model
			r.vehicles[i].Year = d.Year
			r.vehicles[i].Mileage = d.Mileage
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, v := range r.vehicles {
		if v.ID == id {
			r.vehicles = append(r.vehicles[:i], r.vehicles[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type eventSink struct {
	mu     sync.Mutex
	events []domain.ClientEvent
}

func (s *eventSink) ProduceEvent(_ context.Context, e domain.ClientEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func newGatewayServer(t *testing.T) (*httptest.Server, *eventSink) {
	t.Helper()

	sessions := service.NewSessions(&memRepo{})
	sink := &eventSink{}

	parts := []domain.Part{
		{PartID: "1", Name: "Filtro de Aceite", Category: "Mantenimiento"},
		{PartID: "2", Name: "Pastillas de Freno", Category: "Frenos"},
	}

	mux := http.NewServeMux()
	httphandler.RegisterGarage(mux, sessions, sink)
	httphandler.RegisterRecommendations(mux, sessions, service.NewRecommender(
		[]domain.Rule{{
			Recommendation: domain.Recommendation{
				RecommendationID: "oil",
				Title:            "Cambio de aceite",
				Priority:         domain.PriorityHigh,
				Category:         domain.CategoryMaintenance,
			},
		}},
	))
	httphandler.RegisterCatalog(mux, sessions, service.NewCatalog(parts), nil, sink)

	srv := httptest.NewServer(httphandler.AllowJSON(mux))
	t.Cleanup(srv.Close)
	return srv, sink
}

func doJSON(t *testing.T, method, url, body string) int {
	t.Helper()

	var req *http.Request
	var err error
	if body == "" {
		req, err = http.NewRequest(method, url, nil)
	} else {
		req, err = http.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	require.NoError(t, err)

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	return res.StatusCode
}

func getSnapshot(t *testing.T, url string) httphandler.GarageSnapshot {
	t.Helper()

	res, err := http.Get(url + "/v1/vehicles")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var snap httphandler.GarageSnapshot
	require.NoError(t, json.NewDecoder(res.Body).Decode(&snap))
	return snap
}

func TestGarageEndpoints(t *testing.T) {
	srv, sink := newGatewayServer(t)

	t.Run("AddListSelectDelete", func(t *testing.T) {
		status := doJSON(t, http.MethodPost, srv.URL+"/v1/vehicles",
			`{"make":"Toyota","model":"Corolla","year":2018,"mileage":45000}`)
		require.Equal(t, http.StatusCreated, status)

		status = doJSON(t, http.MethodPost, srv.URL+"/v1/vehicles",
			`{"make":"Honda","model":"Civic","year":2021,"mileage":12000}`)
		require.Equal(t, http.StatusCreated, status)

		snap := getSnapshot(t, srv.URL)
		require.Len(t, snap.Vehicles, 2)
		// first add selected the first created vehicle
		assert.Equal(t, "v-1", snap.SelectedID)

		status = doJSON(t, http.MethodPost,
			srv.URL+"/v1/vehicles/v-2/select", "")
		require.Equal(t, http.StatusOK, status)

		status = doJSON(t, http.MethodDelete, srv.URL+"/v1/vehicles/v-2", "")
		require.Equal(t, http.StatusOK, status)

		snap = getSnapshot(t, srv.URL)
		require.Len(t, snap.Vehicles, 1)
		assert.Equal(t, "v-1", snap.SelectedID)

		sink.mu.Lock()
		defer sink.mu.Unlock()
		require.NotEmpty(t, sink.events)
		assert.Equal(t, domain.EventVehicleSelected, sink.events[0].EventType)
	})

	t.Run("InvalidDraft", func(t *testing.T) {
		status := doJSON(t, http.MethodPost, srv.URL+"/v1/vehicles",
			`{"make":"T","model":"C","year":1800,"mileage":-5}`)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("UnknownIDs", func(t *testing.T) {
		status := doJSON(t, http.MethodPut, srv.URL+"/v1/vehicles/nope",
			`{"make":"Toyota","model":"Corolla","year":2018,"mileage":1}`)
		assert.Equal(t, http.StatusNotFound, status)

		status = doJSON(t, http.MethodDelete, srv.URL+"/v1/vehicles/nope", "")
		assert.Equal(t, http.StatusNotFound, status)

		status = doJSON(t, http.MethodPost,
			srv.URL+"/v1/vehicles/nope/select", "")
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("NonJSONBodyRejected", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost,
			srv.URL+"/v1/vehicles", strings.NewReader("make=Toyota"))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(t, http.StatusUnsupportedMediaType, res.StatusCode)
	})
}

func TestRecommendationsEndpoint(t *testing.T) {
	srv, _ := newGatewayServer(t)

	t.Run("EmptyWithoutSelection", func(t *testing.T) {
		res, err := http.Get(srv.URL + "/v1/recommendations")
		require.NoError(t, err)
		defer res.Body.Close()

		var recs []httphandler.Recommendation
		require.NoError(t, json.NewDecoder(res.Body).Decode(&recs))
		assert.Empty(t, recs)
	})

	t.Run("MatchesSelectedVehicle", func(t *testing.T) {
		status := doJSON(t, http.MethodPost, srv.URL+"/v1/vehicles",
			`{"make":"Toyota","model":"Corolla","year":2018,"mileage":45000}`)
		require.Equal(t, http.StatusCreated, status)

		res, err := http.Get(srv.URL + "/v1/recommendations")
		require.NoError(t, err)
		defer res.Body.Close()

		var recs []httphandler.Recommendation
		require.NoError(t, json.NewDecoder(res.Body).Decode(&recs))
		require.Len(t, recs, 1)
		assert.Equal(t, "oil", recs[0].ID)
	})
}

func TestCartEndpoint(t *testing.T) {
	srv, sink := newGatewayServer(t)

	for want := int64(1); want <= 3; want++ {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/cart",
			strings.NewReader(`{"part_id":"2"}`))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")

		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)

		var state httphandler.CartState
		require.NoError(t, json.NewDecoder(res.Body).Decode(&state))
		res.Body.Close()

		assert.Equal(t, want, state.Count)
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.Len(t, sink.events, 3)
	assert.Equal(t, domain.EventCartAdd, sink.events[0].EventType)
	assert.Equal(t, "2", sink.events[0].PartID)
}

func TestPartsEndpoint(t *testing.T) {
	srv, _ := newGatewayServer(t)

	get := func(q string) []httphandler.Part {
		res, err := http.Get(srv.URL + "/v1/parts" + q)
		require.NoError(t, err)
		defer res.Body.Close()

		var ps []httphandler.Part
		require.NoError(t, json.NewDecoder(res.Body).Decode(&ps))
		return ps
	}

	all := get("")
	require.Len(t, all, 2)

	filtro := get("?query=filtro")
	require.Len(t, filtro, 1)
	assert.Equal(t, "Filtro de Aceite", filtro[0].Name)

	frenos := get("?category=Frenos")
	require.Len(t, frenos, 1)
	assert.Equal(t, "Pastillas de Freno", frenos[0].Name)
}

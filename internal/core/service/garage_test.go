package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/elianismedina/partfinder/internal/core/domain"
	"github.com/elianismedina/partfinder/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu       sync.Mutex
	seq      int
	vehicles []domain.Vehicle

	listErr   error
	insertErr error
	updateErr error
	deleteErr error

	listCalls   int
	updateCalls int
}

func (r *fakeRepo) List(context.Context) ([]domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.listCalls++
	if r.listErr != nil {
		return nil, r.listErr
	}
	vs := make([]domain.Vehicle, len(r.vehicles))
	copy(vs, r.vehicles)
	return vs, nil
}

func (r *fakeRepo) Insert(
	_ context.Context, d domain.VehicleDraft,
) (domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.insertErr != nil {
		return domain.Vehicle{}, r.insertErr
	}

	r.seq++
	v := domain.Vehicle{
		ID:        fmt.Sprintf("v-%d", r.seq),
		Make:      d.Make,
		Model:     d.Model,
		Year:      d.Year,
		Mileage:   d.Mileage,
		VIN:       d.VIN,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	// listing order is created_at descending
	r.vehicles = append([]domain.Vehicle{v}, r.vehicles...)
	return v, nil
}

func (r *fakeRepo) Update(
	_ context.Context, id string, d domain.VehicleDraft,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.updateCalls++
	if r.updateErr != nil {
		return r.updateErr
	}
	for i, v := range r.vehicles {
		if v.ID == id {
			r.vehicles[i].Make = d.Make
			r.vehicles[i].Model = d.Model
			r.vehicles[i].Year = d.Year
			r.vehicles[i].Mileage = d.Mileage
			r.vehicles[i].VIN = d.VIN
			r.vehicles[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.deleteErr != nil {
		return r.deleteErr
	}
	for i, v := range r.vehicles {
		if v.ID == id {
			r.vehicles = append(r.vehicles[:i], r.vehicles[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func draft(mk string) domain.VehicleDraft {
	return domain.VehicleDraft{
		Make: mk, Model: "Corolla", Year: 2018, Mileage: 45000,
	}
}

func requireInvariant(t *testing.T, g *service.Garage) {
	t.Helper()

	vs, selected := g.Snapshot()
	if len(vs) == 0 {
		assert.Empty(t, selected)
		return
	}
	require.NotEmpty(t, selected)
	found := false
	for _, v := range vs {
		if v.ID == selected {
			found = true
		}
	}
	assert.True(t, found, "selected id must be a collection member")
}

func TestGarageLoad(t *testing.T) {
	t.Run("SelectsFirstInCanonicalOrder", func(t *testing.T) {
		repo := &fakeRepo{}
		g := service.NewGarage(repo)

		_, err := repo.Insert(t.Context(), draft("Toyota"))
		require.NoError(t, err)
		newest, err := repo.Insert(t.Context(), draft("Honda"))
		require.NoError(t, err)

		require.NoError(t, g.Load(t.Context()))

		vs, selected := g.Snapshot()
		require.Len(t, vs, 2)
		assert.Equal(t, newest.ID, vs[0].ID)
		assert.Equal(t, newest.ID, selected)
	})

	t.Run("KeepsSelectionAcrossReload", func(t *testing.T) {
		repo := &fakeRepo{}
		g := service.NewGarage(repo)

		older, err := repo.Insert(t.Context(), draft("Toyota"))
		require.NoError(t, err)
		_, err = repo.Insert(t.Context(), draft("Honda"))
		require.NoError(t, err)

		require.NoError(t, g.Load(t.Context()))
		require.NoError(t, g.Select(older.ID))
		require.NoError(t, g.Load(t.Context()))

		_, selected := g.Snapshot()
		assert.Equal(t, older.ID, selected)
	})

	t.Run("FailureRetainsPreviousState", func(t *testing.T) {
		repo := &fakeRepo{}
		g := service.NewGarage(repo)

		require.NoError(t, g.Add(t.Context(), draft("Toyota")))
		before, beforeSelected := g.Snapshot()

		repo.mu.Lock()
		repo.listErr = errors.New("boom")
		repo.mu.Unlock()

		err := g.Load(t.Context())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrSync)

		after, afterSelected := g.Snapshot()
		assert.Equal(t, before, after)
		assert.Equal(t, beforeSelected, afterSelected)
	})
}

func TestGarageSelectionInvariant(t *testing.T) {
	repo := &fakeRepo{}
	g := service.NewGarage(repo)
	ctx := t.Context()

	require.NoError(t, g.Load(ctx))
	requireInvariant(t, g)

	for _, mk := range []string{"Toyota", "Honda", "Mazda"} {
		require.NoError(t, g.Add(ctx, draft(mk)))
		requireInvariant(t, g)
	}

	vs, _ := g.Snapshot()
	require.Len(t, vs, 3)

	require.NoError(t, g.Select(vs[1].ID))
	requireInvariant(t, g)

	require.NoError(t, g.Update(ctx, vs[1].ID, draft("Subaru")))
	requireInvariant(t, g)

	for {
		vs, _ := g.Snapshot()
		if len(vs) == 0 {
			break
		}
		require.NoError(t, g.Remove(ctx, vs[0].ID))
		requireInvariant(t, g)
	}

	_, selected := g.Snapshot()
	assert.Empty(t, selected)
}

func TestGarageRemove(t *testing.T) {
	t.Run("DeletingSelectedPromotesRemaining", func(t *testing.T) {
		repo := &fakeRepo{}
		g := service.NewGarage(repo)
		ctx := t.Context()

		require.NoError(t, g.Add(ctx, draft("Toyota")))
		require.NoError(t, g.Add(ctx, draft("Honda")))
		require.NoError(t, g.Add(ctx, draft("Mazda")))

		vs, _ := g.Snapshot()
		require.NoError(t, g.Select(vs[1].ID))

		require.NoError(t, g.Remove(ctx, vs[1].ID))

		remaining, selected := g.Snapshot()
		require.Len(t, remaining, 2)
		require.NotEmpty(t, selected)
		assert.NotEqual(t, vs[1].ID, selected)
	})

	t.Run("DeletingOnlyVehicleClearsSelection", func(t *testing.T) {
		repo := &fakeRepo{}
		g := service.NewGarage(repo)
		ctx := t.Context()

		require.NoError(t, g.Add(ctx, draft("Toyota")))
		vs, selected := g.Snapshot()
		require.Len(t, vs, 1)
		require.Equal(t, vs[0].ID, selected)

		require.NoError(t, g.Remove(ctx, vs[0].ID))

		vs, selected = g.Snapshot()
		assert.Empty(t, vs)
		assert.Empty(t, selected)
	})

	t.Run("UnknownID", func(t *testing.T) {
		repo := &fakeRepo{}
		g := service.NewGarage(repo)

		err := g.Remove(t.Context(), "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestGarageAdd(t *testing.T) {
	t.Run("FirstAddSelectsCreated", func(t *testing.T) {
		repo := &fakeRepo{}
		g := service.NewGarage(repo)

		require.NoError(t, g.Add(t.Context(), draft("Toyota")))

		v, ok := g.Selected()
		require.True(t, ok)
		assert.Equal(t, "Toyota", v.Make)
	})

	t.Run("AddKeepsExistingSelection", func(t *testing.T) {
		repo := &fakeRepo{}
		g := service.NewGarage(repo)
		ctx := t.Context()

		require.NoError(t, g.Add(ctx, draft("Toyota")))
		first, ok := g.Selected()
		require.True(t, ok)

		require.NoError(t, g.Add(ctx, draft("Honda")))

		v, ok := g.Selected()
		require.True(t, ok)
		assert.Equal(t, first.ID, v.ID)
	})

	t.Run("InvalidDraftBeforeAnyNetworkCall", func(t *testing.T) {
		repo := &fakeRepo{}
		g := service.NewGarage(repo)

		err := g.Add(t.Context(), domain.VehicleDraft{
			Make: "T", Model: "Corolla", Year: 2018,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Zero(t, repo.listCalls)
	})

	t.Run("FailedInsertLeavesStateUntouched", func(t *testing.T) {
		repo := &fakeRepo{}
		g := service.NewGarage(repo)
		ctx := t.Context()

		require.NoError(t, g.Add(ctx, draft("Toyota")))
		before, beforeSelected := g.Snapshot()

		repo.mu.Lock()
		repo.insertErr = domain.ErrConnection
		repo.mu.Unlock()

		err := g.Add(ctx, draft("Honda"))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrSync)
		assert.ErrorIs(t, err, domain.ErrConnection)

		after, afterSelected := g.Snapshot()
		assert.Equal(t, before, after)
		assert.Equal(t, beforeSelected, afterSelected)
	})
}

func TestGarageUpdate(t *testing.T) {
	t.Run("UnknownIDWithoutNetworkCall", func(t *testing.T) {
		repo := &fakeRepo{}
		g := service.NewGarage(repo)

		err := g.Update(t.Context(), "nope", draft("Toyota"))
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Zero(t, repo.updateCalls)
	})

	t.Run("RefreshesRecordKeepingSelection", func(t *testing.T) {
		repo := &fakeRepo{}
		g := service.NewGarage(repo)
		ctx := t.Context()

		require.NoError(t, g.Add(ctx, draft("Toyota")))
		v, ok := g.Selected()
		require.True(t, ok)

		d := draft("Toyota")
		d.Mileage = 50000
		require.NoError(t, g.Update(ctx, v.ID, d))

		updated, ok := g.Selected()
		require.True(t, ok)
		assert.Equal(t, v.ID, updated.ID)
		assert.Equal(t, 50000, updated.Mileage)
	})
}

func TestGarageSelect(t *testing.T) {
	repo := &fakeRepo{}
	g := service.NewGarage(repo)

	err := g.Select("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// blockingRepo parks Insert until released, to provoke an overlap.
type blockingRepo struct {
	fakeRepo
	insertStarted chan struct{}
	release       chan struct{}
}

func (r *blockingRepo) Insert(
	ctx context.Context, d domain.VehicleDraft,
) (domain.Vehicle, error) {
	close(r.insertStarted)
	<-r.release
	return r.fakeRepo.Insert(ctx, d)
}

func TestGarageBusy(t *testing.T) {
	repo := &blockingRepo{
		insertStarted: make(chan struct{}),
		release:       make(chan struct{}),
	}
	g := service.NewGarage(repo)

	done := make(chan error, 1)
	go func() {
		done <- g.Add(context.Background(), draft("Toyota"))
	}()

	<-repo.insertStarted

	err := g.Add(t.Context(), draft("Honda"))
	assert.ErrorIs(t, err, domain.ErrBusy)

	close(repo.release)
	require.NoError(t, <-done)
}

// reorderRepo answers the first List call last, simulating an
// out-of-order network response.
type reorderRepo struct {
	fakeRepo
	firstStarted  chan struct{}
	releaseFirst  chan struct{}
	firstListing  []domain.Vehicle
	secondListing []domain.Vehicle
	calls         int
	callsMu       sync.Mutex
}

func (r *reorderRepo) List(context.Context) ([]domain.Vehicle, error) {
	r.callsMu.Lock()
	r.calls++
	call := r.calls
	r.callsMu.Unlock()

	if call == 1 {
		close(r.firstStarted)
		<-r.releaseFirst
		return r.firstListing, nil
	}
	return r.secondListing, nil
}

func TestGarageStaleLoadDiscarded(t *testing.T) {
	stale := []domain.Vehicle{{ID: "stale", Make: "Old", Model: "Old", Year: 2000}}
	fresh := []domain.Vehicle{{ID: "fresh", Make: "New", Model: "New", Year: 2024}}

	repo := &reorderRepo{
		firstStarted:  make(chan struct{}),
		releaseFirst:  make(chan struct{}),
		firstListing:  stale,
		secondListing: fresh,
	}
	g := service.NewGarage(repo)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- g.Load(context.Background())
	}()

	<-repo.firstStarted

	// the second load is issued and completes while the first is in flight
	require.NoError(t, g.Load(t.Context()))

	close(repo.releaseFirst)
	require.NoError(t, <-firstDone)

	vs, selected := g.Snapshot()
	require.Len(t, vs, 1)
	assert.Equal(t, "fresh", vs[0].ID)
	assert.Equal(t, "fresh", selected)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/elianismedina/partfinder/internal/core/domain"
	"github.com/elianismedina/partfinder/internal/core/port"
)

// A Garage owns one session's in-memory vehicle collection and its
// selection pointer. It is the only writer of both.
//
// Mutations (Add, Update, Remove) are serialized: a mutation arriving
// while another is in flight is rejected with [domain.ErrBusy].
// Every successful mutation reloads the collection from the repository,
// so server-assigned fields never drift from the local snapshot.
type Garage struct {
	repo port.VehicleRepository

	// op is held for the whole mutate-then-reload cycle.
	op sync.Mutex

	mu       sync.RWMutex
	vehicles []domain.Vehicle
	selected string

	loadSeq atomic.Uint64
}

func NewGarage(repo port.VehicleRepository) *Garage {
	return &Garage{repo: repo}
}

// Load replaces the collection with the repository's current listing.
// The previous selection survives when its id is still listed, otherwise
// the first listed vehicle is selected, or none when the listing is empty.
//
// Concurrent loads are allowed: each takes a sequence number and a
// response that is no longer the latest issued is discarded, so an
// out-of-order reply never overwrites a newer snapshot.
// On failure the previous state is retained unchanged.
func (g *Garage) Load(ctx context.Context) error {
	const op = "Garage.Load"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	seq := g.loadSeq.Add(1)

	vs, err := g.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrSync, err)
	}

	g.install(seq, vs)
	return nil
}

// Add validates the draft, inserts it through the repository and reloads.
// The created vehicle becomes selected when nothing was selected before.
func (g *Garage) Add(ctx context.Context, d domain.VehicleDraft) error {
	const op = "Garage.Add"

	if err := d.Validate(time.Now()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if !g.op.TryLock() {
		return fmt.Errorf("%s: %w", op, domain.ErrBusy)
	}
	defer g.op.Unlock()

	created, err := g.repo.Insert(ctx, d)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrSync, err)
	}

	g.mu.Lock()
	if g.selected == "" {
		g.selected = created.ID
	}
	g.mu.Unlock()

	if err := g.Load(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Update replaces the editable fields of an existing vehicle and reloads.
// The selection keeps pointing at the same id, now refreshed.
func (g *Garage) Update(ctx context.Context, id string, d domain.VehicleDraft) error {
	const op = "Garage.Update"

	if err := d.Validate(time.Now()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if !g.op.TryLock() {
		return fmt.Errorf("%s: %w", op, domain.ErrBusy)
	}
	defer g.op.Unlock()

	if !g.has(id) {
		return fmt.Errorf("%s: vehicle %q: %w", op, id, domain.ErrNotFound)
	}

	if err := g.repo.Update(ctx, id, d); err != nil {
		return g.mutationErr(op, err)
	}

	if err := g.Load(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Remove deletes a vehicle and reloads. Deleting the selected vehicle
// promotes the first remaining vehicle in canonical order, or clears the
// selection when the collection becomes empty.
func (g *Garage) Remove(ctx context.Context, id string) error {
	const op = "Garage.Remove"

	if !g.op.TryLock() {
		return fmt.Errorf("%s: %w", op, domain.ErrBusy)
	}
	defer g.op.Unlock()

	if !g.has(id) {
		return fmt.Errorf("%s: vehicle %q: %w", op, id, domain.ErrNotFound)
	}

	if err := g.repo.Delete(ctx, id); err != nil {
		return g.mutationErr(op, err)
	}

	g.dropLocal(id)

	if err := g.Load(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Select points the selection at an existing vehicle. No network call.
func (g *Garage) Select(id string) error {
	const op = "Garage.Select"

	g.mu.Lock()
	defer g.mu.Unlock()

	if !containsID(g.vehicles, id) {
		return fmt.Errorf("%s: vehicle %q: %w", op, id, domain.ErrNotFound)
	}
	g.selected = id
	return nil
}

// Snapshot returns a copy of the collection in canonical order
// and the selected id, empty when nothing is selected.
func (g *Garage) Snapshot() ([]domain.Vehicle, string) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	vs := make([]domain.Vehicle, len(g.vehicles))
	copy(vs, g.vehicles)
	return vs, g.selected
}

// Selected returns the selected vehicle, if any.
func (g *Garage) Selected() (domain.Vehicle, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, v := range g.vehicles {
		if v.ID == g.selected {
			return v, true
		}
	}
	return domain.Vehicle{}, false
}

func (g *Garage) install(seq uint64, vs []domain.Vehicle) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if seq != g.loadSeq.Load() {
		// a newer load was issued, this snapshot is stale
		return
	}

	g.vehicles = vs
	if !containsID(vs, g.selected) {
		g.selected = ""
		if len(vs) != 0 {
			g.selected = vs[0].ID
		}
	}
}

func (g *Garage) dropLocal(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	remaining := g.vehicles[:0:0]
	for _, v := range g.vehicles {
		if v.ID != id {
			remaining = append(remaining, v)
		}
	}
	g.vehicles = remaining

	if g.selected == id {
		g.selected = ""
		if len(remaining) != 0 {
			g.selected = remaining[0].ID
		}
	}
}

func (g *Garage) has(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return containsID(g.vehicles, id)
}

func (g *Garage) mutationErr(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrSync, err)
}

func containsID(vs []domain.Vehicle, id string) bool {
	if id == "" {
		return false
	}
	for _, v := range vs {
		if v.ID == id {
			return true
		}
	}
	return false
}

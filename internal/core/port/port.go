package port

import (
	"context"

	"github.com/elianismedina/partfinder/internal/core/domain"
)

// A VehicleRepository is the persistence boundary for vehicle records.
// Implementations perform no retries; retry policy belongs to the caller.
type VehicleRepository interface {
	// List returns all records in canonical order, newest-created first.
	List(context.Context) ([]domain.Vehicle, error)

	// Insert stores a draft and returns the full record
	// with assigned id and timestamps.
	Insert(context.Context, domain.VehicleDraft) (domain.Vehicle, error)

	// Update replaces the editable fields of the record with the given id.
	Update(context.Context, string, domain.VehicleDraft) error

	// Delete removes the record with the given id.
	Delete(context.Context, string) error
}

// A ClientEventsProducer publishes session events to the analytics stream.
type ClientEventsProducer interface {
	ProduceEvent(context.Context, domain.ClientEvent) error
}

// A ClientEventsArchiver persists a batch of events of one session
// to long-term storage.
type ClientEventsArchiver interface {
	ArchiveEvents(ctx context.Context, sessionID string, evts []domain.ClientEvent) error
}

// A PartPopularity answers how many times a part was added to a cart.
type PartPopularity interface {
	CartAdds(partID string) (int64, error)
}

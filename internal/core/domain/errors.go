package domain

import "errors"

var (
	// ErrValidation marks a client-side constraint violation,
	// raised before any network call.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an operation referencing an id that is absent
	// from the canonical collection.
	ErrNotFound = errors.New("not found")

	// ErrConnection marks an unreachable or failed remote call.
	ErrConnection = errors.New("connection failed")

	// ErrConstraint marks a remote insert rejected by the store.
	ErrConstraint = errors.New("constraint violation")

	// ErrSync marks a collection mutation that failed to synchronize
	// with the remote store. The in-memory state keeps its
	// last-known-good snapshot.
	ErrSync = errors.New("sync failed")

	// ErrBusy marks a mutation rejected because another one is in flight.
	ErrBusy = errors.New("mutation in flight")
)

package domain

import "time"

type ClientEventType string

const (
	EventVehicleSelected ClientEventType = "vehicle_selected"
	EventPartSearched    ClientEventType = "part_searched"
	EventCartAdd         ClientEventType = "cart_add"
)

// A ClientEvent records one user action in a session,
// produced for the analytics pipeline.
type ClientEvent struct {
	SessionID  string
	EventType  ClientEventType
	VehicleID  string
	PartID     string
	Query      string
	Category   string
	OccurredAt time.Time
}

// Key returns the partitioning key for the event: cart adds group by part,
// everything else by session.
func (e ClientEvent) Key() string {
	if e.EventType == EventCartAdd && e.PartID != "" {
		return e.PartID
	}
	return e.SessionID
}

// A SessionActivity is an aggregate produced by the batch analyzer
// over one archived session.
type SessionActivity struct {
	SessionID string
	Events    int
}

package service

import (
	"sync"

	"github.com/elianismedina/partfinder/internal/core/port"
)

// DefaultSessionID backs requests that carry no session identifier.
const DefaultSessionID = "default"

// A Session bundles the per-session state: the vehicle collection
// and the cart counter. Sessions share the repository client but
// never share mutable state.
type Session struct {
	ID     string
	Garage *Garage
	Cart   *Cart
}

// A Sessions registry creates and returns per-session state on demand.
type Sessions struct {
	repo port.VehicleRepository

	mu sync.Mutex
	m  map[string]*Session
}

func NewSessions(repo port.VehicleRepository) *Sessions {
	return &Sessions{repo: repo, m: map[string]*Session{}}
}

// Get returns the session with the given id, creating it on first use.
// An empty id maps to [DefaultSessionID].
func (s *Sessions) Get(id string) *Session {
	if id == "" {
		id = DefaultSessionID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.m[id]
	if !ok {
		sess = &Session{
			ID:     id,
			Garage: NewGarage(s.repo),
			Cart:   NewCart(),
		}
		s.m[id] = sess
	}
	return sess
}

package tracking

import (
	"log"
	"sync"

	"backend-courseview/internal/visit"
)

// Registry owns one visit.State per event and serializes access to it.
type Registry struct {
	mu               sync.Mutex
	states           map[string]*visit.State
	defaultThreshold float64
}

func NewRegistry(defaultThreshold float64) *Registry {
	if err := visit.NewState().SetDistanceThreshold(defaultThreshold); err != nil {
		log.Printf("visit distance %v: %v; using %v", defaultThreshold, err, visit.DefaultThreshold)
		defaultThreshold = visit.DefaultThreshold
	}
	return &Registry{
		states:           map[string]*visit.State{},
		defaultThreshold: defaultThreshold,
	}
}

// With runs fn with the event's state locked, creating the state on first
// use.
func (r *Registry) With(eventID string, fn func(*visit.State)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.states[eventID]
	if !ok {
		state = visit.NewState()
		_ = state.SetDistanceThreshold(r.defaultThreshold)
		r.states[eventID] = state
	}
	fn(state)
}

// View runs fn with the event's state locked if the event has any, and
// reports whether it did. It never creates state.
func (r *Registry) View(eventID string, fn func(*visit.State)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.states[eventID]
	if ok {
		fn(state)
	}
	return ok
}

// DefaultThreshold is the visit distance given to newly tracked events.
func (r *Registry) DefaultThreshold() float64 { return r.defaultThreshold }

// Snapshot returns a copy of the event's visited set, empty for events
// nothing has been recorded for.
func (r *Registry) Snapshot(eventID string) visit.Snapshot {
	var snap visit.Snapshot
	r.View(eventID, func(s *visit.State) { snap = s.Snapshot() })
	return snap
}

// Forget drops the event's state once the event is deleted.
func (r *Registry) Forget(eventID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, eventID)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

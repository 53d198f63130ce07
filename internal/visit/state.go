// Package visit tracks which controls a live position has come near.
//
// A State is owned by the host (typically one per open event). It is not
// safe for concurrent mutation; callers serialize access.
package visit

import (
	"errors"
	"sort"

	"backend-courseview/internal/course"
	"backend-courseview/internal/shared/geo"
)

const DefaultThreshold = 10.0

// AllowedThresholds are the selectable visit distances in metres.
var AllowedThresholds = []float64{5, 10, 15, 20, 25, 30}

var ErrInvalidThreshold = errors.New("distance threshold must be one of 5, 10, 15, 20, 25, 30 metres")

type State struct {
	visited    map[string]struct{}
	threshold  float64
	enabled    bool
	generation uint64
}

func NewState() *State {
	return &State{
		visited:   map[string]struct{}{},
		threshold: DefaultThreshold,
		enabled:   true,
	}
}

// SetDistanceThreshold replaces the threshold. Controls already visited stay
// visited.
func (s *State) SetDistanceThreshold(meters float64) error {
	for _, allowed := range AllowedThresholds {
		if meters == allowed {
			s.threshold = meters
			return nil
		}
	}
	return ErrInvalidThreshold
}

func (s *State) DistanceThreshold() float64 { return s.threshold }

// SetTrackingEnabled toggles position processing. Disabling does not clear
// anything.
func (s *State) SetTrackingEnabled(enabled bool) { s.enabled = enabled }

func (s *State) TrackingEnabled() bool { return s.enabled }

// OnPosition marks every not-yet-visited control within the threshold of pos
// (great-circle distance) and returns the ids newly added, in input order.
// Invalid positions and disabled tracking are no-ops.
func (s *State) OnPosition(pos geo.Position, controls []course.Control) []string {
	if !s.enabled || !pos.Valid() {
		return nil
	}
	var added []string
	for _, c := range controls {
		if _, ok := s.visited[c.ID]; ok {
			continue
		}
		if !c.Position.Valid() {
			continue
		}
		if geo.HaversineMeters(pos, c.Position) <= s.threshold {
			s.visited[c.ID] = struct{}{}
			added = append(added, c.ID)
		}
	}
	if len(added) > 0 {
		s.generation++
	}
	return added
}

// Reset clears every visited control.
func (s *State) Reset() {
	if len(s.visited) == 0 {
		return
	}
	s.visited = map[string]struct{}{}
	s.generation++
}

func (s *State) IsVisited(controlID string) bool {
	_, ok := s.visited[controlID]
	return ok
}

func (s *State) Count() int { return len(s.visited) }

// Generation changes every time the visited set changes.
func (s *State) Generation() uint64 { return s.generation }

// VisitedIDs returns the visited control ids in sorted order.
func (s *State) VisitedIDs() []string {
	ids := make([]string, 0, len(s.visited))
	for id := range s.visited {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot copies the membership so it can be read after the caller
// releases whatever lock guards s.
func (s *State) Snapshot() Snapshot {
	ids := make(map[string]struct{}, len(s.visited))
	for id := range s.visited {
		ids[id] = struct{}{}
	}
	return Snapshot{ids: ids, Generation: s.generation}
}

type Snapshot struct {
	ids        map[string]struct{}
	Generation uint64
}

func (s Snapshot) Has(controlID string) bool {
	_, ok := s.ids[controlID]
	return ok
}

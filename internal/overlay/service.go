package overlay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend-courseview/internal/course"
	"backend-courseview/internal/event"
	"backend-courseview/internal/observability"
	"backend-courseview/internal/visit"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// EventLoader is satisfied by *event.Service.
type EventLoader interface {
	GetEvent(ctx context.Context, id string) (event.Event, error)
}

// VisitSource is satisfied by *tracking.Registry.
type VisitSource interface {
	Snapshot(eventID string) visit.Snapshot
}

// Service builds overlays for stored events and caches them until the event
// or its visited set changes.
type Service struct {
	events   EventLoader
	visits   VisitSource
	metrics  *observability.Collector
	cache    *expirable.LRU[string, Overlay]
	latitude float64
}

func NewService(events EventLoader, visits VisitSource, metrics *observability.Collector, cacheSize int, ttl time.Duration, referenceLatitude float64) *Service {
	if cacheSize <= 0 {
		cacheSize = 256
	}
	return &Service{
		events:   events,
		visits:   visits,
		metrics:  metrics,
		cache:    expirable.NewLRU[string, Overlay](cacheSize, nil, ttl),
		latitude: referenceLatitude,
	}
}

// Overlay returns the geometry of one view of an event. A nil latitude uses
// the configured reference latitude.
func (s *Service) Overlay(ctx context.Context, eventID, courseID string, zoom float64, latitude *float64) (Overlay, error) {
	ev, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return Overlay{}, err
	}

	lat := s.latitude
	if latitude != nil {
		lat = *latitude
	}
	var snap visit.Snapshot
	if s.visits != nil {
		snap = s.visits.Snapshot(eventID)
	}

	key := fmt.Sprintf("%s|%s|%g|%g|%d|%d", eventID, courseID, zoom, lat, snap.Generation, ev.UpdatedAt.UnixNano())
	if cached, ok := s.cache.Get(key); ok {
		s.metrics.Overlay(observability.OverlayCached, 0)
		return cached, nil
	}

	out, err := Build(Request{
		CRS:      ev.CRS,
		Courses:  ev.Courses,
		CourseID: courseID,
		Zoom:     zoom,
		Latitude: lat,
		Visited:  snap.Has,
	})
	if errors.Is(err, course.ErrUnsupportedProjection) {
		s.metrics.Overlay(observability.OverlayRefused, 0)
		return Overlay{}, err
	}
	if err != nil {
		s.metrics.Overlay(observability.OverlayError, 0)
		return Overlay{}, err
	}
	s.metrics.Overlay(observability.OverlayBuilt, len(out.Skipped))
	s.cache.Add(key, out)
	return out, nil
}

// Len reports the number of cached views.
func (s *Service) Len() int { return s.cache.Len() }

package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"backend-courseview/internal/course"
	"backend-courseview/internal/event"
	"backend-courseview/internal/observability"
	"backend-courseview/internal/shared/geo"
	"backend-courseview/internal/visit"

	"github.com/tkrajina/gpxgo/gpx"
)

var ErrResetNotConfirmed = errors.New("reset clears every visited control; send confirm=true")

// GPXError wraps a replay upload that could not be parsed.
type GPXError struct {
	Err error
}

func (e *GPXError) Error() string { return "invalid gpx: " + e.Err.Error() }

func (e *GPXError) Unwrap() error { return e.Err }

// EventLoader is satisfied by *event.Service.
type EventLoader interface {
	GetEvent(ctx context.Context, id string) (event.Event, error)
}

// Broadcaster is satisfied by *stream.Hub.
type Broadcaster interface {
	Broadcast(eventID string, payload []byte)
}

type Service struct {
	events   EventLoader
	registry *Registry
	hub      Broadcaster
	metrics  *observability.Collector
}

func NewService(events EventLoader, registry *Registry, hub Broadcaster, metrics *observability.Collector) *Service {
	return &Service{events: events, registry: registry, hub: hub, metrics: metrics}
}

// RecordPosition runs one sample through the event's visit tracker against
// the controls of its visible courses.
func (s *Service) RecordPosition(ctx context.Context, eventID string, sample Sample) (VisitUpdate, error) {
	update := VisitUpdate{EventID: eventID}
	if sample.Position == nil || !sample.Position.Valid() {
		s.metrics.Position("invalid")
		s.fillCounts(eventID, &update)
		return update, nil
	}

	controls, err := s.visibleControls(ctx, eventID)
	if err != nil {
		return VisitUpdate{}, err
	}

	outcome := "accepted"
	s.registry.With(eventID, func(st *visit.State) {
		if !st.TrackingEnabled() {
			outcome = "ignored"
		}
		update.ControlIDs = st.OnPosition(*sample.Position, controls)
		update.VisitedCount = st.Count()
		update.Generation = st.Generation()
	})
	s.metrics.Position(outcome)
	s.metrics.SetTrackedEvents(s.registry.Len())
	s.publish(update)
	return update, nil
}

// Replay feeds every track point of a GPX file through the tracker in file
// order.
func (s *Service) Replay(ctx context.Context, eventID string, data []byte) (ReplayResult, error) {
	g, err := gpx.ParseBytes(data)
	if err != nil {
		return ReplayResult{}, &GPXError{Err: err}
	}
	controls, err := s.visibleControls(ctx, eventID)
	if err != nil {
		return ReplayResult{}, err
	}

	result := ReplayResult{EventID: eventID}
	update := VisitUpdate{EventID: eventID}
	s.registry.With(eventID, func(st *visit.State) {
		for _, track := range g.Tracks {
			for _, segment := range track.Segments {
				for _, pt := range segment.Points {
					result.Points++
					pos := geo.Position{Lat: pt.Latitude, Lng: pt.Longitude}
					result.ControlIDs = append(result.ControlIDs, st.OnPosition(pos, controls)...)
				}
			}
		}
		update.ControlIDs = result.ControlIDs
		update.VisitedCount = st.Count()
		update.Generation = st.Generation()
	})
	s.metrics.SetTrackedEvents(s.registry.Len())
	s.publish(update)
	return result, nil
}

// Visits reports the event's tracking state. Events without recorded state
// report the defaults.
func (s *Service) Visits(eventID string) VisitStatus {
	status := VisitStatus{
		EventID:           eventID,
		AllowedThresholds: visit.AllowedThresholds,
		VisitedControlIDs: []string{},
		DistanceThreshold: s.registry.DefaultThreshold(),
		TrackingEnabled:   true,
	}
	s.registry.View(eventID, func(st *visit.State) {
		status.VisitedControlIDs = st.VisitedIDs()
		status.DistanceThreshold = st.DistanceThreshold()
		status.TrackingEnabled = st.TrackingEnabled()
		status.Generation = st.Generation()
	})
	return status
}

func (s *Service) SetThreshold(ctx context.Context, eventID string, meters float64) error {
	if err := visit.NewState().SetDistanceThreshold(meters); err != nil {
		return err
	}
	if _, err := s.events.GetEvent(ctx, eventID); err != nil {
		return err
	}
	var err error
	s.registry.With(eventID, func(st *visit.State) { err = st.SetDistanceThreshold(meters) })
	s.metrics.SetTrackedEvents(s.registry.Len())
	return err
}

func (s *Service) SetTrackingEnabled(ctx context.Context, eventID string, enabled bool) error {
	if _, err := s.events.GetEvent(ctx, eventID); err != nil {
		return err
	}
	s.registry.With(eventID, func(st *visit.State) { st.SetTrackingEnabled(enabled) })
	s.metrics.SetTrackedEvents(s.registry.Len())
	return nil
}

// Reset clears the event's visited controls. It refuses unless confirmed.
func (s *Service) Reset(ctx context.Context, eventID string, confirmed bool) error {
	if !confirmed {
		return ErrResetNotConfirmed
	}
	if _, err := s.events.GetEvent(ctx, eventID); err != nil {
		return err
	}
	update := VisitUpdate{EventID: eventID, ControlIDs: []string{}}
	if !s.registry.View(eventID, func(st *visit.State) {
		st.Reset()
		update.Generation = st.Generation()
	}) {
		return nil
	}
	s.metrics.Reset()
	if s.hub != nil {
		s.broadcast(update)
	}
	return nil
}

func (s *Service) visibleControls(ctx context.Context, eventID string) ([]course.Control, error) {
	ev, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return course.VisibleControls(ev.Courses), nil
}

func (s *Service) fillCounts(eventID string, update *VisitUpdate) {
	s.registry.View(eventID, func(st *visit.State) {
		update.VisitedCount = st.Count()
		update.Generation = st.Generation()
	})
}

func (s *Service) publish(update VisitUpdate) {
	if len(update.ControlIDs) == 0 {
		return
	}
	s.metrics.Visited(len(update.ControlIDs))
	if s.hub != nil {
		s.broadcast(update)
	}
}

func (s *Service) broadcast(update VisitUpdate) {
	payload, err := json.Marshal(update)
	if err != nil {
		log.Printf("visit update encode error: %v", err)
		return
	}
	s.hub.Broadcast(update.EventID, payload)
}

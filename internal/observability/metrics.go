package observability

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Results recorded by Overlay.
const (
	OverlayBuilt   = "built"
	OverlayCached  = "cached"
	OverlayRefused = "refused"
	OverlayError   = "error"
)

// Collector bundles the Prometheus metrics for position ingest and overlay
// builds. A nil *Collector is valid and records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	Positions       *prometheus.CounterVec
	ControlsVisited prometheus.Counter
	VisitResets     prometheus.Counter
	OverlayBuilds   *prometheus.CounterVec
	OverlaySkipped  prometheus.Counter
	TrackedEvents   prometheus.Gauge
}

// NewCollector registers the metrics against reg, defaulting to the global
// registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	positions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "positions_received_total",
		Help: "Position samples received, labeled by outcome (accepted, ignored, invalid).",
	}, []string{"outcome"})
	positions, err := register(reg, positions, "positions_received_total")
	if err != nil {
		return nil, err
	}

	visited := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "controls_visited_total",
		Help: "Controls newly marked visited.",
	})
	visited, err = register(reg, visited, "controls_visited_total")
	if err != nil {
		return nil, err
	}

	resets := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "visit_resets_total",
		Help: "Explicit resets of an event's visited controls.",
	})
	resets, err = register(reg, resets, "visit_resets_total")
	if err != nil {
		return nil, err
	}

	builds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "overlay_builds_total",
		Help: fmt.Sprintf("Overlay requests, labeled by result (%s, %s, %s, %s).",
			OverlayBuilt, OverlayCached, OverlayRefused, OverlayError),
	}, []string{"result"})
	builds, err = register(reg, builds, "overlay_builds_total")
	if err != nil {
		return nil, err
	}

	skipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "overlay_entities_skipped_total",
		Help: "Entities left out of an overlay because of invalid positions.",
	})
	skipped, err = register(reg, skipped, "overlay_entities_skipped_total")
	if err != nil {
		return nil, err
	}

	tracked := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tracked_events",
		Help: "Events with an in-memory visit state.",
	})
	tracked, err = register(reg, tracked, "tracked_events")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:        gatherer,
		Positions:       positions,
		ControlsVisited: visited,
		VisitResets:     resets,
		OverlayBuilds:   builds,
		OverlaySkipped:  skipped,
		TrackedEvents:   tracked,
	}, nil
}

// register returns the already registered collector of the same name when
// there is one, so several servers in one process share metrics.
func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return c, nil
}

// Gatherer returns the gatherer paired with the registerer.
func (c *Collector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return prometheus.DefaultGatherer
	}
	return c.gatherer
}

// Handler exposes the metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.Gatherer(), promhttp.HandlerOpts{})
}

func (c *Collector) Position(outcome string) {
	if c == nil {
		return
	}
	c.Positions.WithLabelValues(outcome).Inc()
}

func (c *Collector) Visited(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.ControlsVisited.Add(float64(n))
}

func (c *Collector) Reset() {
	if c == nil {
		return
	}
	c.VisitResets.Inc()
}

func (c *Collector) Overlay(result string, skipped int) {
	if c == nil {
		return
	}
	c.OverlayBuilds.WithLabelValues(result).Inc()
	if skipped > 0 {
		c.OverlaySkipped.Add(float64(skipped))
	}
}

func (c *Collector) SetTrackedEvents(n int) {
	if c == nil {
		return
	}
	c.TrackedEvents.Set(float64(n))
}

package tracking

import (
	"backend-courseview/internal/shared/geo"
)

// Sample is one reading from a device's position stream. Only Position
// drives visits; the rest is passed through for the renderer. A nil
// Position means the device has no fix yet.
type Sample struct {
	Position    *geo.Position `json:"position"`
	AccuracyM   float64       `json:"accuracy_m"`
	HeadingDeg  *float64      `json:"heading_deg"`
	TimestampMs int64         `json:"timestamp_ms"`
}

// VisitUpdate is broadcast to officials' screens when controls are newly
// visited, and returned from position ingest.
type VisitUpdate struct {
	EventID      string   `json:"event_id"`
	ControlIDs   []string `json:"control_ids"`
	VisitedCount int      `json:"visited_count"`
	Generation   uint64   `json:"generation"`
}

type VisitStatus struct {
	EventID           string    `json:"event_id"`
	VisitedControlIDs []string  `json:"visited_control_ids"`
	DistanceThreshold float64   `json:"distance_threshold_m"`
	AllowedThresholds []float64 `json:"allowed_thresholds_m"`
	TrackingEnabled   bool      `json:"tracking_enabled"`
	Generation        uint64    `json:"generation"`
}

type ReplayResult struct {
	EventID    string   `json:"event_id"`
	Points     int      `json:"points"`
	ControlIDs []string `json:"control_ids"`
}

package course

import (
	"errors"
	"math"
)

type CRSKind string

const (
	CRSGeographic CRSKind = "geographic"
	CRSProjected  CRSKind = "projected"
)

// ErrUnsupportedProjection is returned when an event's coordinates are in a
// projected system. Course geometry is withheld; the base map may still be
// shown.
var ErrUnsupportedProjection = errors.New("course overlays need geographic (WGS84) coordinates; this map uses a projected coordinate system, which is not supported")

// CoordinateSystem is the declared reference system of an event's course
// data. An empty Kind means geographic.
type CoordinateSystem struct {
	Kind       CRSKind `json:"kind"`
	Definition string  `json:"definition,omitempty"`
}

func (c CoordinateSystem) Geographic() bool {
	return c.Kind == "" || c.Kind == CRSGeographic
}

// Check gates geometry computation. Any projected system is refused, with or
// without a definition, since no reprojection is done.
func (c CoordinateSystem) Check() error {
	if c.Geographic() {
		return nil
	}
	return ErrUnsupportedProjection
}

// DetectKind guesses the system from value ranges. It is only a hint for
// imports where the uploader did not declare a kind.
func DetectKind(courses []Course) CRSKind {
	for _, c := range courses {
		if !inGeographicRange(c.Start) || !inGeographicRange(c.Finish) {
			return CRSProjected
		}
		for _, ctrl := range c.Controls {
			if !inGeographicRange(ctrl.Position) {
				return CRSProjected
			}
		}
	}
	return CRSGeographic
}

func inGeographicRange(p Position) bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
		return true
	}
	return math.Abs(p.Lat) <= 90 && math.Abs(p.Lng) <= 180
}

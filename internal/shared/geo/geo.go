package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Position is a WGS84 latitude/longitude pair in degrees.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Point returns the position as an orb point (lon, lat).
func (p Position) Point() orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

func FromPoint(pt orb.Point) Position {
	return Position{Lat: pt.Lat(), Lng: pt.Lon()}
}

// Valid reports whether the position is finite and inside the geographic range.
func (p Position) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	return math.Abs(p.Lat) <= 90 && math.Abs(p.Lng) <= 180
}

func (p Position) Validate() error {
	if !p.Valid() {
		return &InvalidPositionError{Lat: p.Lat, Lng: p.Lng}
	}
	return nil
}

// InvalidPositionError indicates a NaN or out of range coordinate.
type InvalidPositionError struct {
	Lat, Lng float64
}

func (e *InvalidPositionError) Error() string {
	return fmt.Sprintf("invalid position: lat=%f lng=%f (lat must be ±90, lng must be ±180)", e.Lat, e.Lng)
}

// HaversineKm returns the great-circle distance in kilometres.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	return HaversineMeters(Position{Lat: lat1, Lng: lng1}, Position{Lat: lat2, Lng: lng2}) / 1000
}

// HaversineMeters returns the great-circle distance between a and b in metres.
func HaversineMeters(a, b Position) float64 {
	return geo.DistanceHaversine(a.Point(), b.Point())
}

package geo

import (
	"math"

	"github.com/paulmach/orb/geo"
)

// Bearing returns the initial great-circle bearing from -> to in degrees,
// normalized to [0,360) with 0 = north and 90 = east.
func Bearing(from, to Position) float64 {
	return NormalizeBearing(geo.Bearing(from.Point(), to.Point()))
}

// NormalizeBearing reduces b to [0,360).
func NormalizeBearing(b float64) float64 {
	b = math.Mod(b, 360)
	if b < 0 {
		b += 360
	}
	if b >= 360 {
		b = 0
	}
	return b
}

// AverageBearing is the circular mean of two bearings, so 350 and 10
// average to 0 rather than 180.
func AverageBearing(a, b float64) float64 {
	ar, br := a*math.Pi/180, b*math.Pi/180
	x := math.Cos(ar) + math.Cos(br)
	y := math.Sin(ar) + math.Sin(br)
	if math.Abs(x) < 1e-12 && math.Abs(y) < 1e-12 {
		// opposite bearings have no mean; pick the perpendicular on a's right
		return NormalizeBearing(a + 90)
	}
	return NormalizeBearing(math.Atan2(y, x) * 180 / math.Pi)
}

// toLocal converts the vector origin -> p into metres east/north, using the
// degree lengths at origin's latitude.
func toLocal(origin, p Position) (east, north float64) {
	east = (p.Lng - origin.Lng) * MetersPerDegreeLng(origin.Lat)
	north = (p.Lat - origin.Lat) * MetersPerDegreeLat
	return east, north
}

func fromLocal(origin Position, east, north float64) Position {
	return Position{
		Lat: origin.Lat + north/MetersPerDegreeLat,
		Lng: origin.Lng + east/MetersPerDegreeLng(origin.Lat),
	}
}

// Offset moves origin by meters along bearing using the local planar
// approximation.
func Offset(origin Position, bearing, meters float64) Position {
	r := bearing * math.Pi / 180
	return fromLocal(origin, meters*math.Sin(r), meters*math.Cos(r))
}

// CircleEdgePoint returns the point at radiusMeters from center on the line
// from -> center. When from equals center there is no direction to trim
// along and center is returned unchanged.
func CircleEdgePoint(from, center Position, radiusMeters float64) Position {
	east, north := toLocal(center, from)
	d := math.Hypot(east, north)
	if d == 0 {
		return center
	}
	return fromLocal(center, east/d*radiusMeters, north/d*radiusMeters)
}

// DistanceMeters is a planar approximation in local metres around a. It is
// fine for label collision checks; use HaversineMeters for proximity.
func DistanceMeters(a, b Position) float64 {
	east, north := toLocal(a, b)
	return math.Hypot(east, north)
}

package geo

import "math"

const (
	// ResolutionZoom0 is the Web-Mercator ground resolution at the equator
	// for zoom level 0, in metres per pixel.
	ResolutionZoom0 = 156543.03392

	// DefaultLatitude is used when the caller has no better reference.
	DefaultLatitude = 50.0

	MetersPerDegreeLat = 111320.0

	// LineMeters is the ground thickness of course lines: 0.35 mm on a
	// 1:15,000 print.
	LineMeters = 5.25
	// LabelMeters is the ground height of control numbers: 4 mm at 1:15,000.
	LabelMeters = 60.0

	MinLineWidthPx = 1.0
	MaxLineWidthPx = 10.0
)

// Resolution returns metres per pixel at zoom z and latitude lat.
func Resolution(z, lat float64) float64 {
	return ResolutionZoom0 * math.Cos(lat*math.Pi/180) / math.Pow(2, z)
}

// LineWidthPx is the stroke width in pixels that keeps course lines at
// LineMeters on the ground, clamped to [MinLineWidthPx, MaxLineWidthPx].
func LineWidthPx(z, lat float64) float64 {
	w := LineMeters / Resolution(z, lat)
	if math.IsNaN(w) || w < MinLineWidthPx {
		return MinLineWidthPx
	}
	if w > MaxLineWidthPx {
		return MaxLineWidthPx
	}
	return w
}

// LabelFontSizePx is unclamped so numbers stay at map scale.
func LabelFontSizePx(z, lat float64) float64 {
	return LabelMeters / Resolution(z, lat)
}

func MetersPerDegreeLng(lat float64) float64 {
	return MetersPerDegreeLat * math.Cos(lat*math.Pi/180)
}

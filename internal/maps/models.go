package maps

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"backend-courseview/internal/shared/geo"
)

var ErrNotFound = errors.New("map not found")

// WorldFile holds the six affine parameters of an ESRI world file, in file
// order: x scale, y skew, x skew, y scale, x of the upper-left pixel centre,
// y of the upper-left pixel centre.
type WorldFile struct {
	A float64 `json:"a"`
	D float64 `json:"d"`
	B float64 `json:"b"`
	E float64 `json:"e"`
	C float64 `json:"c"`
	F float64 `json:"f"`
}

// ParseWorldFile reads the six-line text format (.jgw, .pgw, .tfw).
func ParseWorldFile(text string) (WorldFile, error) {
	var values []float64
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return WorldFile{}, fmt.Errorf("world file line %d: %w", len(values)+1, err)
		}
		values = append(values, v)
	}
	if len(values) != 6 {
		return WorldFile{}, fmt.Errorf("world file needs 6 values, got %d", len(values))
	}
	return WorldFile{A: values[0], D: values[1], B: values[2], E: values[3], C: values[4], F: values[5]}, nil
}

// Transform maps a pixel (col, row) to world x, y.
func (w WorldFile) Transform(col, row float64) (x, y float64) {
	return w.A*col + w.B*row + w.C, w.D*col + w.E*row + w.F
}

// Geographic reports whether the upper-left coordinate is in degree range.
// Projected world files use metres and fall outside it.
func (w WorldFile) Geographic() bool {
	return w.C >= -180 && w.C <= 180 && w.F >= -90 && w.F <= 90 && w.A != 0 && w.E != 0
}

// BaseMap is the georeferenced image drawn under an event's courses.
type BaseMap struct {
	EventID   string         `json:"event_id"`
	ImageURL  string         `json:"image_url"`
	Width     int            `json:"width"`
	Height    int            `json:"height"`
	WorldFile WorldFile      `json:"world_file"`
	Corners   []geo.Position `json:"corners,omitempty"`
	UpdatedBy string         `json:"updated_by"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (m BaseMap) Validate() error {
	if m.ImageURL == "" {
		return errors.New("image_url required")
	}
	if m.Width <= 0 || m.Height <= 0 {
		return errors.New("width and height must be positive")
	}
	if m.WorldFile.A == 0 || m.WorldFile.E == 0 {
		return errors.New("world file scale must be non-zero")
	}
	return nil
}

// ImageCorners returns the geographic outline of the image, clockwise from
// the upper-left corner. It is empty for projected world files; those maps
// are still served but courses are not drawn over them.
func (m BaseMap) ImageCorners() []geo.Position {
	if !m.WorldFile.Geographic() {
		return nil
	}
	// pixel centres are referenced, so the outer edge is half a pixel out
	w, h := float64(m.Width)-0.5, float64(m.Height)-0.5
	corner := func(col, row float64) geo.Position {
		x, y := m.WorldFile.Transform(col, row)
		return geo.Position{Lat: y, Lng: x}
	}
	return []geo.Position{
		corner(-0.5, -0.5),
		corner(w, -0.5),
		corner(w, h),
		corner(-0.5, h),
	}
}

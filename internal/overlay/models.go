package overlay

import (
	"math"

	"backend-courseview/internal/course"
	"backend-courseview/internal/shared/geo"
)

// Ground sizes of the course symbols, in metres. They follow the IOF
// symbol sizes printed at 1:15,000.
const (
	ControlRadiusM      = 37.5
	StartSideM          = 105.0
	FinishOuterRadiusM  = 52.5
	FinishInnerRadiusM  = 37.5
	LabelMarginM        = 5.0

	// DefaultStartBearing is used when a start has no first control.
	DefaultStartBearing = 0.0
	// DefaultLabelBearing is used for a control with no neighbours.
	DefaultLabelBearing = 45.0

	DefaultColor = "#c800c8"
	VisitedColor = "#00aa00"
	LineOpacity  = 0.8
)

// StartRadiusM is the distance from the start centre to each triangle vertex.
var StartRadiusM = StartSideM / sqrt3

// MinLabelSeparationM is the closest two label anchors may sit: the diagonal
// of a two-digit label box.
var MinLabelSeparationM = math.Hypot(2*labelCharWidth*geo.LabelMeters, geo.LabelMeters)

type Circle struct {
	Center      geo.Position `json:"center"`
	RadiusM     float64      `json:"radius_m"`
	StrokeWidth float64      `json:"stroke_width"`
	Color       string       `json:"color"`
}

type Polygon struct {
	Vertices    []geo.Position `json:"vertices"`
	StrokeWidth float64        `json:"stroke_width"`
	Color       string         `json:"color"`
}

type Polyline struct {
	Vertices    []geo.Position `json:"vertices"`
	StrokeWidth float64        `json:"stroke_width"`
	Color       string         `json:"color"`
	Opacity     float64        `json:"opacity"`
}

type Label struct {
	Anchor    geo.Position `json:"anchor"`
	Text      string       `json:"text"`
	FontSize  float64      `json:"font_size"`
	ControlID string       `json:"control_id"`
}

type ControlSymbol struct {
	Circle
	Code       string             `json:"code"`
	ControlIDs []string           `json:"control_ids"`
	Courses    []course.CourseRef `json:"courses"`
	Visited    bool               `json:"visited"`
}

type StartSymbol struct {
	Polygon
	Position    geo.Position `json:"position"`
	Bearing     float64      `json:"bearing"`
	CourseNames []string     `json:"course_names"`
}

type FinishSymbol struct {
	Outer       Circle   `json:"outer"`
	Inner       Circle   `json:"inner"`
	CourseNames []string `json:"course_names"`
}

// Skipped records an entity left out of an overlay because of bad input.
type Skipped struct {
	Kind   string `json:"kind"`
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// Overlay is everything the renderer needs for one view.
type Overlay struct {
	Controls []ControlSymbol `json:"controls"`
	Starts   []StartSymbol   `json:"starts"`
	Finishes []FinishSymbol  `json:"finishes"`
	Lines    []Polyline      `json:"lines"`
	Labels   []Label         `json:"labels"`
	Skipped  []Skipped       `json:"skipped,omitempty"`
}

// Style carries the zoom dependent sizes shared by every symbol in a view.
type Style struct {
	StrokeWidth float64
	FontSize    float64
	MetersPerPx float64
}

func NewStyle(zoom, lat float64) Style {
	return Style{
		StrokeWidth: geo.LineWidthPx(zoom, lat),
		FontSize:    geo.LabelFontSizePx(zoom, lat),
		MetersPerPx: geo.Resolution(zoom, lat),
	}
}

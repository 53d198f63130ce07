package overlay

import (
	"backend-courseview/internal/course"
	"backend-courseview/internal/shared/geo"
)

// Segment is one gapped piece of a course line.
type Segment struct {
	From geo.Position `json:"from"`
	To   geo.Position `json:"to"`
}

// SegmentCourse splits a course into len(Controls)+1 segments that stop at
// symbol boundaries, leaving a gap around every control circle. A course
// without controls is a single segment from the start vertex to the finish.
func SegmentCourse(c course.Course) []Segment {
	aim := StartAimVertex(c.Start, c.FirstControl())
	if len(c.Controls) == 0 {
		return []Segment{{From: aim, To: c.Finish}}
	}

	segments := make([]Segment, 0, len(c.Controls)+1)
	first := c.Controls[0].Position
	segments = append(segments, Segment{
		From: aim,
		To:   geo.CircleEdgePoint(c.Start, first, ControlRadiusM),
	})

	for i := 0; i+1 < len(c.Controls); i++ {
		cur, next := c.Controls[i].Position, c.Controls[i+1].Position
		segments = append(segments, Segment{
			From: geo.CircleEdgePoint(next, cur, ControlRadiusM),
			To:   geo.CircleEdgePoint(cur, next, ControlRadiusM),
		})
	}

	last := c.Controls[len(c.Controls)-1].Position
	segments = append(segments, Segment{
		From: geo.CircleEdgePoint(c.Finish, last, ControlRadiusM),
		To:   geo.CircleEdgePoint(last, c.Finish, FinishOuterRadiusM),
	})
	return segments
}

// CourseLines converts the segments of c into renderer polylines.
func CourseLines(c course.Course, style Style) []Polyline {
	color := c.Color
	if color == "" {
		color = DefaultColor
	}
	segments := SegmentCourse(c)
	lines := make([]Polyline, 0, len(segments))
	for _, s := range segments {
		lines = append(lines, Polyline{
			Vertices:    []geo.Position{s.From, s.To},
			StrokeWidth: style.StrokeWidth,
			Color:       color,
			Opacity:     LineOpacity,
		})
	}
	return lines
}

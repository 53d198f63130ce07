package overlay

import (
	"errors"
	"log"

	"backend-courseview/internal/course"
)

var ErrCourseNotFound = errors.New("course not found in event")

// Request describes one view of an event. An empty CourseID asks for the
// all-courses overview.
type Request struct {
	CRS      course.CoordinateSystem
	Courses  []course.Course
	CourseID string
	Zoom     float64
	Latitude float64
	Visited  func(controlID string) bool
}

// Build computes the overlay for a view. It refuses projected coordinate
// systems with course.ErrUnsupportedProjection. Entities with invalid
// positions are left out and listed in Overlay.Skipped.
func Build(req Request) (Overlay, error) {
	if err := req.CRS.Check(); err != nil {
		return Overlay{}, err
	}
	style := NewStyle(req.Zoom, req.Latitude)

	var out Overlay
	if req.CourseID == "" {
		out = buildOverview(req, style)
	} else {
		var selected *course.Course
		for i := range req.Courses {
			if req.Courses[i].ID == req.CourseID {
				selected = &req.Courses[i]
				break
			}
		}
		if selected == nil {
			return Overlay{}, ErrCourseNotFound
		}
		out = buildCourse(*selected, req.Visited, style)
	}

	for _, s := range out.Skipped {
		log.Printf("overlay: skipped %s %s: %s", s.Kind, s.ID, s.Reason)
	}
	return out, nil
}

func buildOverview(req Request, style Style) Overlay {
	var visible []course.Course
	for _, c := range req.Courses {
		if c.Visible {
			visible = append(visible, c)
		}
	}

	var out Overlay
	for _, u := range course.ExtractUniqueControls(visible) {
		if err := u.Position.Validate(); err != nil {
			out.Skipped = append(out.Skipped, Skipped{Kind: "control", ID: u.Code, Reason: err.Error()})
			continue
		}
		out.Controls = append(out.Controls, ControlMarker(u, style, req.Visited))
	}
	for _, s := range course.ExtractUniqueStarts(visible) {
		if err := s.Position.Validate(); err != nil {
			out.Skipped = append(out.Skipped, Skipped{Kind: "start", ID: siteID(s), Reason: err.Error()})
			continue
		}
		out.Starts = append(out.Starts, StartMarker(s, nil, style))
	}
	for _, s := range course.ExtractUniqueFinishes(visible) {
		if err := s.Position.Validate(); err != nil {
			out.Skipped = append(out.Skipped, Skipped{Kind: "finish", ID: siteID(s), Reason: err.Error()})
			continue
		}
		out.Finishes = append(out.Finishes, FinishMarker(s, style))
	}
	return out
}

func buildCourse(c course.Course, visited func(string) bool, style Style) Overlay {
	var out Overlay

	valid := c
	valid.Controls = make([]course.Control, 0, len(c.Controls))
	for _, ctrl := range c.Controls {
		if err := ctrl.Position.Validate(); err != nil {
			out.Skipped = append(out.Skipped, Skipped{Kind: "control", ID: ctrl.ID, Reason: err.Error()})
			continue
		}
		valid.Controls = append(valid.Controls, ctrl)
	}

	for _, u := range course.ExtractUniqueControls([]course.Course{valid}) {
		out.Controls = append(out.Controls, ControlMarker(u, style, visited))
	}

	startErr := c.Start.Validate()
	if startErr != nil {
		out.Skipped = append(out.Skipped, Skipped{Kind: "start", ID: c.ID, Reason: startErr.Error()})
	} else {
		site := course.UniqueSite{Position: c.Start, CourseNames: []string{c.Name}}
		out.Starts = append(out.Starts, StartMarker(site, valid.FirstControl(), style))
	}

	finishErr := c.Finish.Validate()
	if finishErr != nil {
		out.Skipped = append(out.Skipped, Skipped{Kind: "finish", ID: c.ID, Reason: finishErr.Error()})
	} else {
		site := course.UniqueSite{Position: c.Finish, CourseNames: []string{c.Name}}
		out.Finishes = append(out.Finishes, FinishMarker(site, style))
	}

	// lines and labels are anchored on the start and finish
	if startErr == nil && finishErr == nil {
		out.Lines = CourseLines(valid, style)
		out.Labels = PlaceLabels(valid, style)
	}
	return out
}

func siteID(s course.UniqueSite) string {
	if len(s.CourseNames) == 0 {
		return ""
	}
	return s.CourseNames[0]
}

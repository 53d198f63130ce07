package course

import "backend-courseview/internal/shared/geo"

type Position = geo.Position

type Control struct {
	ID       string   `json:"id"`
	Code     string   `json:"code"`
	Number   int      `json:"number"`
	Position Position `json:"position"`
}

type Course struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	Visible  bool      `json:"visible"`
	Start    Position  `json:"start"`
	Finish   Position  `json:"finish"`
	Controls []Control `json:"controls"`
}

// CourseRef is one course's use of a shared entity.
type CourseRef struct {
	CourseID      string `json:"course_id"`
	CourseName    string `json:"course_name"`
	CourseColor   string `json:"course_color"`
	ControlNumber int    `json:"control_number,omitempty"`
}

// UniqueControl collapses every Control sharing the same code and exact
// position across courses.
type UniqueControl struct {
	Code       string      `json:"code"`
	Position   Position    `json:"position"`
	ControlIDs []string    `json:"control_ids"`
	Courses    []CourseRef `json:"courses"`
}

// UniqueSite is a start or finish location shared by one or more courses.
type UniqueSite struct {
	Position    Position `json:"position"`
	CourseNames []string `json:"course_names"`
}

// VisibleControls returns the controls of every visible course, in course
// then running order.
func VisibleControls(courses []Course) []Control {
	var out []Control
	for _, c := range courses {
		if !c.Visible {
			continue
		}
		out = append(out, c.Controls...)
	}
	return out
}

// FirstControl returns the first control position, if any.
func (c Course) FirstControl() *Position {
	if len(c.Controls) == 0 {
		return nil
	}
	p := c.Controls[0].Position
	return &p
}

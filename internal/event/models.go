package event

import (
	"errors"
	"fmt"
	"time"

	"backend-courseview/internal/course"
)

// Event is one competition: its declared coordinate system and the
// ordered courses imported for it.
type Event struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	CRS       course.CoordinateSystem `json:"crs"`
	CreatedBy string                  `json:"created_by"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
	Courses   []course.Course         `json:"courses,omitempty"`
}

var ErrNotFound = errors.New("event not found")

// Validate checks the fields the import needs. Positions are not checked
// here; bad coordinates are skipped when geometry is built.
func (e Event) Validate() error {
	if e.Name == "" {
		return errors.New("name required")
	}
	switch e.CRS.Kind {
	case "", course.CRSGeographic, course.CRSProjected:
	default:
		return fmt.Errorf("unknown crs kind %q", e.CRS.Kind)
	}
	for i, c := range e.Courses {
		if c.Name == "" {
			return fmt.Errorf("course %d: name required", i)
		}
		for j, ctrl := range c.Controls {
			if ctrl.Code == "" {
				return fmt.Errorf("course %q control %d: code required", c.Name, j)
			}
		}
	}
	return nil
}

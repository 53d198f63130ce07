package overlay

import (
	"backend-courseview/internal/course"
	"backend-courseview/internal/shared/geo"
)

const sqrt3 = 1.7320508075688772

// ControlMarker draws a unique control as a fixed ground-size circle. It is
// drawn in VisitedColor once any of its control ids is visited.
func ControlMarker(u course.UniqueControl, style Style, visited func(string) bool) ControlSymbol {
	isVisited := u.HasAnyControl(visited)
	color := DefaultColor
	if isVisited {
		color = VisitedColor
	}
	return ControlSymbol{
		Circle: Circle{
			Center:      u.Position,
			RadiusM:     ControlRadiusM,
			StrokeWidth: style.StrokeWidth,
			Color:       color,
		},
		Code:       u.Code,
		ControlIDs: u.ControlIDs,
		Courses:    u.Courses,
		Visited:    isVisited,
	}
}

// StartBearing is the direction the start triangle points: toward the first
// control when there is one, north otherwise.
func StartBearing(start geo.Position, firstControl *geo.Position) float64 {
	if firstControl == nil || *firstControl == start {
		return DefaultStartBearing
	}
	return geo.Bearing(start, *firstControl)
}

// StartVertices returns the equilateral triangle around start with the aimed
// vertex first, then the vertices at +120 and -120 degrees.
func StartVertices(start geo.Position, bearing float64) []geo.Position {
	return []geo.Position{
		geo.Offset(start, bearing, StartRadiusM),
		geo.Offset(start, geo.NormalizeBearing(bearing+120), StartRadiusM),
		geo.Offset(start, geo.NormalizeBearing(bearing-120), StartRadiusM),
	}
}

// StartAimVertex is the triangle vertex that course lines leave from.
func StartAimVertex(start geo.Position, firstControl *geo.Position) geo.Position {
	return geo.Offset(start, StartBearing(start, firstControl), StartRadiusM)
}

func StartMarker(site course.UniqueSite, firstControl *geo.Position, style Style) StartSymbol {
	bearing := StartBearing(site.Position, firstControl)
	return StartSymbol{
		Polygon: Polygon{
			Vertices:    StartVertices(site.Position, bearing),
			StrokeWidth: style.StrokeWidth,
			Color:       DefaultColor,
		},
		Position:    site.Position,
		Bearing:     bearing,
		CourseNames: site.CourseNames,
	}
}

func FinishMarker(site course.UniqueSite, style Style) FinishSymbol {
	circle := func(r float64) Circle {
		return Circle{Center: site.Position, RadiusM: r, StrokeWidth: style.StrokeWidth, Color: DefaultColor}
	}
	return FinishSymbol{
		Outer:       circle(FinishOuterRadiusM),
		Inner:       circle(FinishInnerRadiusM),
		CourseNames: site.CourseNames,
	}
}

package overlay

import (
	"errors"
	"math"
	"testing"

	"backend-courseview/internal/course"
	"backend-courseview/internal/shared/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSingleCourse(t *testing.T) {
	out, err := Build(Request{
		Courses:  []course.Course{scenarioCourse()},
		CourseID: "short",
		Zoom:     15,
		Latitude: 51.5,
	})
	require.NoError(t, err)

	assert.Len(t, out.Lines, 2)
	require.Len(t, out.Controls, 1)
	assert.Equal(t, "101", out.Controls[0].Code)
	require.Len(t, out.Starts, 1)
	assert.InDelta(t, geo.Bearing(scenarioStart, scenarioControl), out.Starts[0].Bearing, 1e-9)
	require.Len(t, out.Finishes, 1)
	require.Len(t, out.Labels, 1)
	assert.Equal(t, "1", out.Labels[0].Text)
	assert.Empty(t, out.Skipped)
}

func TestBuildOverviewDedupes(t *testing.T) {
	a := scenarioCourse()
	b := scenarioCourse()
	b.ID, b.Name = "medium", "Medium"
	b.Controls = []course.Control{{ID: "c-201", Code: "101", Number: 1, Position: scenarioControl}}
	hidden := loopCourse()

	out, err := Build(Request{
		Courses:  []course.Course{a, b, hidden},
		Zoom:     14,
		Latitude: 51.5,
		Visited:  func(id string) bool { return id == "c-201" },
	})
	require.NoError(t, err)

	require.Len(t, out.Controls, 1)
	assert.Equal(t, []string{"c-101", "c-201"}, out.Controls[0].ControlIDs)
	assert.Len(t, out.Controls[0].Courses, 2)
	assert.True(t, out.Controls[0].Visited)

	require.Len(t, out.Starts, 1)
	assert.Equal(t, DefaultStartBearing, out.Starts[0].Bearing)
	assert.Equal(t, []string{"Short", "Medium"}, out.Starts[0].CourseNames)
	assert.Len(t, out.Finishes, 1)
	assert.Empty(t, out.Lines)
	assert.Empty(t, out.Labels)
}

func TestBuildRefusesProjected(t *testing.T) {
	_, err := Build(Request{
		CRS:      course.CoordinateSystem{Kind: course.CRSProjected, Definition: "EPSG:27700"},
		Courses:  []course.Course{scenarioCourse()},
		CourseID: "short",
		Zoom:     15,
		Latitude: 51.5,
	})
	assert.True(t, errors.Is(err, course.ErrUnsupportedProjection))
}

func TestBuildUnknownCourse(t *testing.T) {
	_, err := Build(Request{Courses: []course.Course{scenarioCourse()}, CourseID: "nope", Zoom: 15, Latitude: 51.5})
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestBuildSkipsInvalidControl(t *testing.T) {
	c := loopCourse()
	c.Controls[1].Position = geo.Position{Lat: math.NaN(), Lng: -0.1}

	out, err := Build(Request{Courses: []course.Course{c}, CourseID: "long", Zoom: 15, Latitude: 51.5})
	require.NoError(t, err)

	assert.Len(t, out.Controls, 3)
	assert.Len(t, out.Lines, 4)
	assert.Len(t, out.Labels, 3)
	require.Len(t, out.Skipped, 1)
	assert.Equal(t, Skipped{Kind: "control", ID: "l2", Reason: out.Skipped[0].Reason}, out.Skipped[0])
}

func TestBuildInvalidFinishKeepsSymbols(t *testing.T) {
	c := scenarioCourse()
	c.Finish = geo.Position{Lat: 95, Lng: 0}

	out, err := Build(Request{Courses: []course.Course{c}, CourseID: "short", Zoom: 15, Latitude: 51.5})
	require.NoError(t, err)

	assert.Len(t, out.Controls, 1)
	assert.Len(t, out.Starts, 1)
	assert.Empty(t, out.Finishes)
	assert.Empty(t, out.Lines)
	assert.Empty(t, out.Labels)
	require.Len(t, out.Skipped, 1)
	assert.Equal(t, "finish", out.Skipped[0].Kind)
}

func TestBuildIsRepeatable(t *testing.T) {
	req := Request{Courses: []course.Course{loopCourse()}, CourseID: "long", Zoom: 16, Latitude: 51.5}
	first, err := Build(req)
	require.NoError(t, err)
	second, err := Build(req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

package visit

import (
	"math"
	"testing"

	"backend-courseview/internal/course"
	"backend-courseview/internal/shared/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var control101 = course.Control{ID: "ctrl-101", Code: "101", Number: 1, Position: geo.Position{Lat: 51.505, Lng: -0.105}}

func TestDefaults(t *testing.T) {
	s := NewState()
	assert.Equal(t, DefaultThreshold, s.DistanceThreshold())
	assert.True(t, s.TrackingEnabled())
	assert.Equal(t, 0, s.Count())
}

func TestVisitIsMonotonic(t *testing.T) {
	s := NewState()
	controls := []course.Control{control101}

	added := s.OnPosition(geo.Offset(control101.Position, 30, 8), controls)
	require.Equal(t, []string{"ctrl-101"}, added)
	require.True(t, s.IsVisited("ctrl-101"))

	for _, d := range []float64{500, 5000, 50} {
		assert.Empty(t, s.OnPosition(geo.Offset(control101.Position, 180, d), controls))
		assert.True(t, s.IsVisited("ctrl-101"), "distance %v", d)
	}

	s.Reset()
	assert.False(t, s.IsVisited("ctrl-101"))
}

func TestOutsideThresholdNotVisited(t *testing.T) {
	s := NewState()
	assert.Empty(t, s.OnPosition(geo.Offset(control101.Position, 90, 12), []course.Control{control101}))
	assert.False(t, s.IsVisited("ctrl-101"))

	require.NoError(t, s.SetDistanceThreshold(15))
	assert.Equal(t, []string{"ctrl-101"}, s.OnPosition(geo.Offset(control101.Position, 90, 12), []course.Control{control101}))
}

func TestThresholdChangeDoesNotUnvisit(t *testing.T) {
	s := NewState()
	require.NoError(t, s.SetDistanceThreshold(30))
	s.OnPosition(geo.Offset(control101.Position, 0, 25), []course.Control{control101})
	require.True(t, s.IsVisited("ctrl-101"))

	require.NoError(t, s.SetDistanceThreshold(5))
	assert.True(t, s.IsVisited("ctrl-101"))
}

func TestSetDistanceThresholdRejectsUnknown(t *testing.T) {
	s := NewState()
	for _, m := range []float64{0, -5, 7, 100, math.NaN()} {
		assert.ErrorIs(t, s.SetDistanceThreshold(m), ErrInvalidThreshold)
	}
	assert.Equal(t, DefaultThreshold, s.DistanceThreshold())
	for _, m := range AllowedThresholds {
		assert.NoError(t, s.SetDistanceThreshold(m))
	}
}

func TestDisabledTrackingIgnoresPositions(t *testing.T) {
	s := NewState()
	other := course.Control{ID: "ctrl-102", Position: geo.Position{Lat: 51.51, Lng: -0.1}}
	s.OnPosition(control101.Position, []course.Control{control101, other})
	require.Equal(t, []string{"ctrl-101"}, s.VisitedIDs())
	gen := s.Generation()

	s.SetTrackingEnabled(false)
	assert.Nil(t, s.OnPosition(other.Position, []course.Control{control101, other}))
	assert.Equal(t, []string{"ctrl-101"}, s.VisitedIDs())
	assert.Equal(t, gen, s.Generation())

	s.SetTrackingEnabled(true)
	assert.Equal(t, []string{"ctrl-102"}, s.OnPosition(other.Position, []course.Control{control101, other}))
}

func TestInvalidPositionIsNoop(t *testing.T) {
	s := NewState()
	for _, p := range []geo.Position{
		{Lat: math.NaN(), Lng: 0},
		{Lat: 91, Lng: 0},
		{Lat: 0, Lng: math.Inf(-1)},
	} {
		assert.NotPanics(t, func() { s.OnPosition(p, []course.Control{control101}) })
	}
	assert.Equal(t, 0, s.Count())
}

func TestDuplicatePositionsAreIdempotent(t *testing.T) {
	s := NewState()
	pos := geo.Offset(control101.Position, 45, 3)
	assert.Len(t, s.OnPosition(pos, []course.Control{control101}), 1)
	gen := s.Generation()
	assert.Empty(t, s.OnPosition(pos, []course.Control{control101}))
	assert.Equal(t, gen, s.Generation())
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := NewState()
	s.OnPosition(control101.Position, []course.Control{control101})
	snap := s.Snapshot()
	s.Reset()
	assert.True(t, snap.Has("ctrl-101"))
	assert.False(t, s.IsVisited("ctrl-101"))
	assert.NotEqual(t, snap.Generation, s.Generation())
}

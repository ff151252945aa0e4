package trajectory

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/pcoa2video/internal/ordination"
)

var (
	c0 = ordination.Point{X: 0, Y: 0, Z: 0}
	c1 = ordination.Point{X: 2, Y: 0, Z: 0}
	c2 = ordination.Point{X: 2, Y: 2, Z: 0}
)

func threePointTrajectory(t *testing.T) *Trajectory {
	t.Helper()
	traj, err := New([]string{"a", "b", "c"}, "Control", []float64{1, 2, 3},
		[]ordination.Point{c0, c1, c2}, 1, WithSuppliedN(2))
	require.NoError(t, err)
	return traj
}

func TestNewDimensionMismatch(t *testing.T) {
	_, err := New([]string{"a", "b"}, "Control", []float64{1, 2}, []ordination.Point{c0}, 1)
	require.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = New([]string{"a"}, "Control", []float64{1, 2}, []ordination.Point{c0, c1}, 1)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestNewRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		delta float64
		opts  []Option
	}{
		{"zero delta", 0, nil},
		{"negative delta", -1, nil},
		{"zero supplied N", 1, []Option{WithSuppliedN(0)}},
		{"zero max N", 1, []Option{WithMaxN(0)}},
		{"negative min steps", 1, []Option{WithMinSteps(-1)}},
		{"min steps above max N", 1, []Option{WithMaxN(2), WithMinSteps(3)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New([]string{"a", "b"}, "Control", []float64{1, 2}, []ordination.Point{c0, c1}, tt.delta, tt.opts...)
			require.Error(t, err)
		})
	}
}

func TestDefaults(t *testing.T) {
	traj, err := New([]string{"a", "b"}, "Control", []float64{1, 2}, []ordination.Point{c0, c1}, 1)
	require.NoError(t, err)
	assert.Equal(t, DefaultSuppliedN, traj.SuppliedN())
	assert.Equal(t, DefaultMaxN, traj.MaxN())
	assert.Equal(t, 0, traj.MinSteps())
	assert.Equal(t, "Control", traj.Category())
	assert.Equal(t, 1.0, traj.MinimumDelta())
}

func TestCalculateNumberOfPointsForDelta(t *testing.T) {
	traj, err := New([]string{"a", "b"}, "Control", []float64{0, 2}, []ordination.Point{c0, c1}, 2)
	require.NoError(t, err)

	tests := []struct {
		delta float64
		want  int
	}{
		{0, 0},
		{1, 2},   // floor(1*5/2)
		{2, 5},   // one minimum delta
		{3, 7},   // floor(7.5)
		{10, 25}, // not capped here
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, traj.CalculateNumberOfPointsForDelta(tt.delta), "delta %v", tt.delta)
	}
}

func TestInterpolationTable(t *testing.T) {
	traj := threePointTrajectory(t)

	want := []ordination.Point{c0, {X: 1}, c1, {X: 2, Y: 1}, c2}
	if diff := cmp.Diff(want, traj.InterpolatedCoordinates()); diff != "" {
		t.Errorf("interpolated coordinates mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{0, 0, 1, 1, 1}, traj.IntervalValues())
	assert.Equal(t, 5, traj.FrameCount())
}

func TestInterpolationIsCappedByMaxN(t *testing.T) {
	traj, err := New([]string{"a", "b"}, "Control", []float64{0, 100}, []ordination.Point{c0, c1}, 1,
		WithSuppliedN(5), WithMaxN(10))
	require.NoError(t, err)

	// 10 steps give 11 samples, all kept for the final segment.
	assert.Equal(t, 11, traj.FrameCount())
	interp := traj.InterpolatedCoordinates()
	assert.Equal(t, c0, interp[0])
	assert.Equal(t, c1, interp[len(interp)-1])
	assert.InDelta(t, 0.2, interp[1].X, 1e-12)
}

func TestZeroDeltaSegmentGetsNoFrame(t *testing.T) {
	traj, err := New([]string{"a", "b", "c"}, "Control", []float64{0, 0, 1},
		[]ordination.Point{c0, c1, c2}, 1, WithSuppliedN(1))
	require.NoError(t, err)

	assert.Equal(t, []ordination.Point{c1, c2}, traj.InterpolatedCoordinates())
	assert.Equal(t, []int{1, 1}, traj.IntervalValues())
	assert.Equal(t, []int{0, 0, 1}, traj.WaypointFrames())
	assert.Equal(t, []ordination.Point{c0}, traj.RepresentativeCoordinatesAtIndex(0))
	assert.Equal(t, []ordination.Point{c0, c1, c2}, traj.RepresentativeCoordinatesAtIndex(1))
}

func TestTrailingTiesCloseOnLastWaypoint(t *testing.T) {
	traj, err := New([]string{"a", "b", "c"}, "Control", []float64{0, 2, 2},
		[]ordination.Point{c0, c1, c2}, 1, WithSuppliedN(1))
	require.NoError(t, err)

	// Two steps up to b, then the tied segment adds only its end point.
	assert.Equal(t, []ordination.Point{c0, {X: 1}, c2}, traj.InterpolatedCoordinates())
	assert.Equal(t, []int{0, 0, 1}, traj.IntervalValues())
	assert.Equal(t, []int{0, 2, 2}, traj.WaypointFrames())
}

func TestWithMinSteps(t *testing.T) {
	traj, err := New([]string{"a", "b", "c"}, "Control", []float64{0, 0, 1},
		[]ordination.Point{c0, c1, c2}, 1, WithSuppliedN(1), WithMinSteps(1))
	require.NoError(t, err)

	assert.Equal(t, 1, traj.MinSteps())
	assert.Equal(t, []ordination.Point{c0, c1, c2}, traj.InterpolatedCoordinates())
	assert.Equal(t, []int{0, 1, 1}, traj.IntervalValues())
	assert.Equal(t, []int{0, 1, 2}, traj.WaypointFrames())
}

func TestUncappedSteps(t *testing.T) {
	traj, err := New([]string{"a", "b"}, "Control", []float64{0, 100}, []ordination.Point{c0, c1}, 1,
		WithSuppliedN(5), WithMaxN(Uncapped))
	require.NoError(t, err)

	assert.Equal(t, 501, traj.FrameCount())
}

func TestSingleWaypoint(t *testing.T) {
	traj, err := New([]string{"a"}, "Control", []float64{1}, []ordination.Point{c1}, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, traj.FrameCount())
	assert.Equal(t, []ordination.Point{c1}, traj.RepresentativeCoordinatesAtIndex(0))
	assert.Equal(t, []int{0}, traj.WaypointFrames())
}

func TestRepresentativeCoordinatesAtIndex(t *testing.T) {
	traj := threePointTrajectory(t)

	tests := []struct {
		idx  int
		want []ordination.Point
	}{
		{-1, nil},
		{0, []ordination.Point{c0}},
		{1, []ordination.Point{c0, {X: 1}}},
		{2, []ordination.Point{c0, c1, c1}},
		{3, []ordination.Point{c0, c1, {X: 2, Y: 1}}},
		{4, []ordination.Point{c0, c1, c2}},
		{50, []ordination.Point{c0, c1, c2}},
	}

	for _, tt := range tests {
		got := traj.RepresentativeCoordinatesAtIndex(tt.idx)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("index %d mismatch (-want +got):\n%s", tt.idx, diff)
		}
	}
}

func TestRepresentativeCoordinatesAreIdempotent(t *testing.T) {
	traj := threePointTrajectory(t)

	for idx := 0; idx < traj.FrameCount(); idx++ {
		first := traj.RepresentativeCoordinatesAtIndex(idx)
		first[0].X = 99 // must not leak into the trajectory
		second := traj.RepresentativeCoordinatesAtIndex(idx)
		third := traj.RepresentativeCoordinatesAtIndex(idx)
		assert.Equal(t, second, third)
		assert.Equal(t, c0, second[0])
	}
}

func TestWaypointFrames(t *testing.T) {
	traj := threePointTrajectory(t)

	assert.Equal(t, []int{0, 2, 4}, traj.WaypointFrames())

	want := []bool{true, false, true, false, true, false}
	for idx, w := range want {
		assert.Equal(t, w, traj.IsWaypointFrame(idx), "frame %d", idx)
	}
	assert.False(t, traj.IsWaypointFrame(-1))
}

func TestAccessorsReturnCopies(t *testing.T) {
	traj := threePointTrajectory(t)

	names := traj.SampleNames()
	names[0] = "changed"
	points := traj.GradientPoints()
	points[0] = 42
	coords := traj.Coordinates()
	coords[0] = c2

	assert.Equal(t, []string{"a", "b", "c"}, traj.SampleNames())
	assert.Equal(t, []float64{1, 2, 3}, traj.GradientPoints())
	assert.Equal(t, c0, traj.Coordinates()[0])
}

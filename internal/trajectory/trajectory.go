// Package trajectory turns per-sample metadata and coordinates into
// animatable paths.
//
// A Trajectory owns the ordered waypoints of one category and an eagerly
// built interpolation table. Frame queries slice that table and never
// recompute it.
package trajectory

import (
	"fmt"
	"math"

	"github.com/aclements/go-moremath/vec"

	"github.com/ivlev/pcoa2video/internal/ordination"
)

const (
	DefaultSuppliedN = 5
	DefaultMaxN      = 10

	// Uncapped disables the per-segment step cap.
	Uncapped = math.MaxInt32
)

// Option configures a Trajectory.
type Option func(*Trajectory)

// WithSuppliedN sets the number of interpolation steps per minimum delta.
func WithSuppliedN(n int) Option {
	return func(t *Trajectory) {
		t.suppliedN = n
	}
}

// WithMaxN caps the number of interpolation steps of a single segment.
func WithMaxN(n int) Option {
	return func(t *Trajectory) {
		t.maxN = n
	}
}

// WithMinSteps gives every segment at least n interpolation steps. With the
// default of 0 a segment between equal gradient values gets no frame of its own.
func WithMinSteps(n int) Option {
	return func(t *Trajectory) {
		t.minSteps = n
	}
}

// Trajectory is the immutable path of one category through ordination space.
type Trajectory struct {
	sampleNames    []string
	category       string
	gradientPoints []float64
	coordinates    []ordination.Point
	minimumDelta   float64
	suppliedN      int
	maxN           int
	minSteps       int

	interpolated []ordination.Point
	intervals    []int
}

// New creates a trajectory and builds its interpolation table.
func New(sampleNames []string, category string, gradientPoints []float64, coordinates []ordination.Point, minimumDelta float64, opts ...Option) (*Trajectory, error) {
	if len(coordinates) != len(gradientPoints) {
		return nil, fmt.Errorf("%w: %d coordinates, %d gradient points", ErrDimensionMismatch, len(coordinates), len(gradientPoints))
	}
	if len(sampleNames) != len(gradientPoints) {
		return nil, fmt.Errorf("%w: %d sample names, %d gradient points", ErrDimensionMismatch, len(sampleNames), len(gradientPoints))
	}
	if len(gradientPoints) == 0 {
		return nil, fmt.Errorf("%w: trajectory %q has no waypoints", ErrInsufficientData, category)
	}
	if !(minimumDelta > 0) || math.IsInf(minimumDelta, 0) {
		return nil, fmt.Errorf("%w: minimum delta must be positive, got %v", ErrInsufficientData, minimumDelta)
	}

	t := &Trajectory{
		sampleNames:    append([]string(nil), sampleNames...),
		category:       category,
		gradientPoints: append([]float64(nil), gradientPoints...),
		coordinates:    append([]ordination.Point(nil), coordinates...),
		minimumDelta:   minimumDelta,
		suppliedN:      DefaultSuppliedN,
		maxN:           DefaultMaxN,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.suppliedN < 1 || t.maxN < 1 {
		return nil, fmt.Errorf("supplied N and max N must be positive, got %d and %d", t.suppliedN, t.maxN)
	}
	if t.minSteps < 0 || t.minSteps > t.maxN {
		return nil, fmt.Errorf("min steps must be within [0, %d], got %d", t.maxN, t.minSteps)
	}

	t.generateInterpolatedCoordinates()
	return t, nil
}

// FromWaypoints creates a trajectory from builder output.
func FromWaypoints(category string, waypoints []Waypoint, minimumDelta float64, opts ...Option) (*Trajectory, error) {
	names := make([]string, len(waypoints))
	values := make([]float64, len(waypoints))
	coords := make([]ordination.Point, len(waypoints))
	for i, w := range waypoints {
		names[i] = w.SampleName
		values[i] = w.Value
		coords[i] = w.Point
	}
	return New(names, category, values, coords, minimumDelta, opts...)
}

// CalculateNumberOfPointsForDelta returns how many interpolation steps a
// segment spanning delta gets, proportional to delta / minimum delta.
func (t *Trajectory) CalculateNumberOfPointsForDelta(delta float64) int {
	n := math.Floor(delta * float64(t.suppliedN) / t.minimumDelta)
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// generateInterpolatedCoordinates fills the interpolation table. Every
// segment contributes its samples except the last one, which is the first
// sample of the next segment; the final segment keeps it, closing the path.
// A segment with zero steps yields only its end point, so between equal
// gradient values it contributes nothing unless it is the final segment.
func (t *Trajectory) generateInterpolatedCoordinates() {
	n := len(t.coordinates)
	if n == 1 {
		t.interpolated = []ordination.Point{t.coordinates[0]}
		t.intervals = []int{0}
		return
	}

	for i := 0; i < n-1; i++ {
		steps := t.CalculateNumberOfPointsForDelta(segmentDelta(t.gradientPoints[i], t.gradientPoints[i+1]))
		if steps > t.maxN {
			steps = t.maxN
		}
		if steps < t.minSteps {
			steps = t.minSteps
		}

		samples := interpolate(t.coordinates[i], t.coordinates[i+1], steps)
		if i < n-2 {
			samples = samples[:len(samples)-1]
		}
		for _, p := range samples {
			t.interpolated = append(t.interpolated, p)
			t.intervals = append(t.intervals, i)
		}
	}
}

// interpolate returns steps+1 evenly spaced points from a to b, both included.
// Zero steps yield b alone.
func interpolate(a, b ordination.Point, steps int) []ordination.Point {
	if steps == 0 {
		return []ordination.Point{b}
	}
	ts := vec.Linspace(0, 1, steps+1)
	out := make([]ordination.Point, len(ts))
	for j, s := range ts {
		out[j] = ordination.Lerp(a, b, s)
	}
	out[0], out[len(out)-1] = a, b
	return out
}

// RepresentativeCoordinatesAtIndex returns the vertices of the path drawn up
// to frame idx: the waypoints already passed followed by the interpolated
// position at idx. From the last frame on, only the original waypoints are
// returned. Negative indices yield nil.
func (t *Trajectory) RepresentativeCoordinatesAtIndex(idx int) []ordination.Point {
	switch {
	case idx < 0:
		return nil
	case idx == 0:
		return []ordination.Point{t.coordinates[0]}
	case idx >= len(t.interpolated)-1:
		return t.Coordinates()
	}

	passed := t.intervals[idx] + 1
	out := make([]ordination.Point, 0, passed+1)
	out = append(out, t.coordinates[:passed]...)
	return append(out, t.interpolated[idx])
}

// IsWaypointFrame reports whether frame idx lands exactly on an original waypoint.
func (t *Trajectory) IsWaypointFrame(idx int) bool {
	last := len(t.interpolated) - 1
	switch {
	case idx < 0 || idx > last:
		return false
	case idx == 0 || idx == last:
		return true
	}
	return t.intervals[idx] != t.intervals[idx-1]
}

// WaypointFrames returns, for each waypoint, the first frame at which the path
// has reached it. Waypoints joined by zero-step segments share a frame.
func (t *Trajectory) WaypointFrames() []int {
	last := len(t.interpolated) - 1
	frames := make([]int, len(t.coordinates))
	idx := 0
	for k := 1; k < len(frames); k++ {
		for idx < last && t.intervals[idx] < k {
			idx++
		}
		frames[k] = idx
	}
	if len(frames) > 1 {
		frames[len(frames)-1] = last
	}
	return frames
}

// FrameCount returns the number of frames needed to draw the whole trajectory.
func (t *Trajectory) FrameCount() int {
	return len(t.interpolated)
}

// Category returns the trajectory category value.
func (t *Trajectory) Category() string { return t.category }

func (t *Trajectory) MinimumDelta() float64 { return t.minimumDelta }

func (t *Trajectory) SuppliedN() int { return t.suppliedN }

func (t *Trajectory) MaxN() int { return t.maxN }

func (t *Trajectory) MinSteps() int { return t.minSteps }

// SampleNames returns a copy of the waypoint sample names.
func (t *Trajectory) SampleNames() []string {
	return append([]string(nil), t.sampleNames...)
}

// GradientPoints returns a copy of the waypoint gradient values.
func (t *Trajectory) GradientPoints() []float64 {
	return append([]float64(nil), t.gradientPoints...)
}

// Coordinates returns a copy of the original waypoint positions.
func (t *Trajectory) Coordinates() []ordination.Point {
	return append([]ordination.Point(nil), t.coordinates...)
}

// InterpolatedCoordinates returns a copy of the interpolation table.
func (t *Trajectory) InterpolatedCoordinates() []ordination.Point {
	return append([]ordination.Point(nil), t.interpolated...)
}

// IntervalValues returns, for every interpolated point, the index of the segment it belongs to.
func (t *Trajectory) IntervalValues() []int {
	return append([]int(nil), t.intervals...)
}

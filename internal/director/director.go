// Package director drives trajectory animations frame by frame.
package director

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/ivlev/pcoa2video/internal/metadata"
	"github.com/ivlev/pcoa2video/internal/ordination"
	"github.com/ivlev/pcoa2video/internal/trajectory"
)

// ErrArgumentMissing is returned when a required constructor argument is absent.
var ErrArgumentMissing = errors.New("constructor argument missing")

// Option configures an AnimationDirector.
type Option func(*options)

type options struct {
	maxN     int
	minSteps int
	padding  trajectory.Padder
	logger   *slog.Logger
}

// WithMaxN caps the interpolation steps of any single segment. Without it
// segments are not capped.
func WithMaxN(n int) Option {
	return func(o *options) {
		o.maxN = n
	}
}

// WithMinSteps gives every segment at least n interpolation steps.
func WithMinSteps(n int) Option {
	return func(o *options) {
		o.minSteps = n
	}
}

// WithPadding replaces the default z-offset padding policy.
func WithPadding(p trajectory.Padder) Option {
	return func(o *options) {
		o.padding = p
	}
}

// WithLogger sets the logger used while building trajectories.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// AnimationDirector owns the trajectories of one animation session and its
// frame counter. It is not safe for concurrent use; independent animations
// need independent directors.
type AnimationDirector struct {
	table              *metadata.Table
	coordinates        ordination.Coordinates
	gradientCategory   string
	trajectoryCategory string
	suppliedN          int

	trajectories            []*trajectory.Trajectory
	minimumDelta            float64
	maximumTrajectoryLength int
	gradientPoints          []float64

	currentFrame int
}

// TrajectoryFrame is the vertex list of one trajectory at the current frame.
type TrajectoryFrame struct {
	Category string
	Points   []ordination.Point
}

// New builds every trajectory of trajectoryCategory ordered by gradientCategory.
func New(table *metadata.Table, coords ordination.Coordinates, gradientCategory, trajectoryCategory string, suppliedN int, opts ...Option) (*AnimationDirector, error) {
	switch {
	case table == nil || len(table.Headers()) == 0:
		return nil, fmt.Errorf("%w: mapping file headers", ErrArgumentMissing)
	case table.Len() == 0:
		return nil, fmt.Errorf("%w: mapping file data", ErrArgumentMissing)
	case len(coords) == 0:
		return nil, fmt.Errorf("%w: coordinates data", ErrArgumentMissing)
	case gradientCategory == "":
		return nil, fmt.Errorf("%w: gradient category", ErrArgumentMissing)
	case trajectoryCategory == "":
		return nil, fmt.Errorf("%w: trajectory category", ErrArgumentMissing)
	case suppliedN < 1:
		return nil, fmt.Errorf("%w: supplied N must be positive, got %d", ErrArgumentMissing, suppliedN)
	}

	o := options{
		maxN:    trajectory.Uncapped,
		padding: trajectory.ZOffsetPadding{Epsilon: trajectory.DefaultEpsilon},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	d := &AnimationDirector{
		table:              table,
		coordinates:        coords,
		gradientCategory:   gradientCategory,
		trajectoryCategory: trajectoryCategory,
		suppliedN:          suppliedN,
		currentFrame:       -1,
	}
	if err := d.initializeTrajectories(o); err != nil {
		return nil, err
	}
	d.computeGradientPoints()

	o.logger.Debug("animation director ready",
		"trajectories", len(d.trajectories),
		"minimum_delta", d.minimumDelta,
		"frames", d.maximumTrajectoryLength+1)
	return d, nil
}

// NewFromMaps is New for positional metadata: data maps a sample id to values aligned to headers.
func NewFromMaps(headers []string, data map[string][]string, coords ordination.Coordinates, gradientCategory, trajectoryCategory string, suppliedN int, opts ...Option) (*AnimationDirector, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("%w: mapping file headers", ErrArgumentMissing)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: mapping file data", ErrArgumentMissing)
	}

	table, err := metadata.FromMap(headers, data)
	if err != nil {
		return nil, err
	}
	return New(table, coords, gradientCategory, trajectoryCategory, suppliedN, opts...)
}

func (d *AnimationDirector) initializeTrajectories(o options) error {
	builder := &trajectory.Builder{Padding: o.padding, Logger: o.logger}
	groups, err := builder.Build(d.table, d.coordinates, d.trajectoryCategory, d.gradientCategory)
	if err != nil {
		return err
	}

	d.minimumDelta, err = trajectory.MinimumDelta(groups)
	if err != nil {
		return err
	}

	for _, category := range groups.Categories() {
		t, err := trajectory.FromWaypoints(category, groups[category], d.minimumDelta,
			trajectory.WithSuppliedN(d.suppliedN),
			trajectory.WithMaxN(o.maxN),
			trajectory.WithMinSteps(o.minSteps))
		if err != nil {
			return fmt.Errorf("trajectory %q: %w", category, err)
		}
		d.trajectories = append(d.trajectories, t)

		// The last frame index is the longest table length, one past its
		// final entry, so every trajectory ends on its full waypoint list.
		if n := t.FrameCount(); n > d.maximumTrajectoryLength {
			d.maximumTrajectoryLength = n
		}
	}
	return nil
}

// computeGradientPoints collects the distinct gradient values of every sample
// in the mapping, including samples that ended up in no trajectory.
func (d *AnimationDirector) computeGradientPoints() {
	col, err := d.table.Column(d.gradientCategory)
	if err != nil {
		return
	}

	seen := make(map[float64]bool)
	for _, row := range d.table.Rows() {
		v, err := trajectory.ParseGradientValue(col.Value(row))
		if err != nil || seen[v] {
			continue
		}
		seen[v] = true
		d.gradientPoints = append(d.gradientPoints, v)
	}
	sort.Float64s(d.gradientPoints)
}

// UpdateFrame advances the animation by one frame until the cycle is finished.
func (d *AnimationDirector) UpdateFrame() {
	if d.currentFrame < d.maximumTrajectoryLength {
		d.currentFrame++
	}
}

// AnimationCycleFinished reports whether the last frame has been reached.
func (d *AnimationDirector) AnimationCycleFinished() bool {
	return d.currentFrame == d.maximumTrajectoryLength
}

// CurrentFrameIsGradientPoint reports whether at least one trajectory sits
// exactly on one of its original waypoints at the current frame.
func (d *AnimationDirector) CurrentFrameIsGradientPoint() bool {
	if d.currentFrame == 0 {
		return true
	}
	for _, t := range d.trajectories {
		if t.IsWaypointFrame(d.currentFrame) {
			return true
		}
	}
	return false
}

// GradientPointFrames lists every frame for which CurrentFrameIsGradientPoint holds.
func (d *AnimationDirector) GradientPointFrames() []int {
	var frames []int
	for f := 0; f <= d.maximumTrajectoryLength; f++ {
		if f == 0 {
			frames = append(frames, f)
			continue
		}
		for _, t := range d.trajectories {
			if t.IsWaypointFrame(f) {
				frames = append(frames, f)
				break
			}
		}
	}
	return frames
}

// Reset rewinds the animation to before its first frame.
func (d *AnimationDirector) Reset() {
	d.currentFrame = -1
}

// Frame returns the vertex list of every trajectory at the current frame.
// Before the first UpdateFrame the lists are empty.
func (d *AnimationDirector) Frame() []TrajectoryFrame {
	return d.FrameAt(d.currentFrame)
}

// FrameAt is Frame for an arbitrary frame index.
func (d *AnimationDirector) FrameAt(frame int) []TrajectoryFrame {
	out := make([]TrajectoryFrame, len(d.trajectories))
	for i, t := range d.trajectories {
		out[i] = TrajectoryFrame{
			Category: t.Category(),
			Points:   t.RepresentativeCoordinatesAtIndex(frame),
		}
	}
	return out
}

func (d *AnimationDirector) CurrentFrame() int { return d.currentFrame }
func (d *AnimationDirector) MaximumTrajectoryLength() int { return d.maximumTrajectoryLength }
func (d *AnimationDirector) MinimumDelta() float64 { return d.minimumDelta }
func (d *AnimationDirector) SuppliedN() int { return d.suppliedN }
func (d *AnimationDirector) GradientCategory() string { return d.gradientCategory }
func (d *AnimationDirector) TrajectoryCategory() string { return d.trajectoryCategory }

// Trajectories returns the trajectories ordered by category value.
func (d *AnimationDirector) Trajectories() []*trajectory.Trajectory {
	return append([]*trajectory.Trajectory(nil), d.trajectories...)
}

// GradientPoints returns the sorted distinct gradient values of all samples.
func (d *AnimationDirector) GradientPoints() []float64 {
	return append([]float64(nil), d.gradientPoints...)
}

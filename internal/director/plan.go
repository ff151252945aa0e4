package director

import "github.com/ivlev/pcoa2video/internal/ordination"

// Plan describes when each trajectory reaches each of its waypoints.
type Plan struct {
	Version            string           `yaml:"version"`
	GradientCategory   string           `yaml:"gradient_category"`
	TrajectoryCategory string           `yaml:"trajectory_category"`
	SuppliedN          int              `yaml:"supplied_n"`
	MinimumDelta       float64          `yaml:"minimum_delta"`
	Frames             int              `yaml:"frames"` // Total frames, including frame 0
	Trajectories       []TrajectoryPlan `yaml:"trajectories"`
}

// TrajectoryPlan is the schedule of one trajectory
type TrajectoryPlan struct {
	Category  string     `yaml:"category"`
	Frames    int        `yaml:"frames"`
	Keyframes []Keyframe `yaml:"keyframes"`
}

// Keyframe is a waypoint and the first frame that shows it
type Keyframe struct {
	Frame    int              `yaml:"frame"`
	Sample   string           `yaml:"sample"`
	Gradient float64          `yaml:"gradient"`
	Point    ordination.Point `yaml:"point"`
}

// PlanFor builds the plan of a director.
func PlanFor(d *AnimationDirector) *Plan {
	plan := &Plan{
		Version:            PlanVersion,
		GradientCategory:   d.gradientCategory,
		TrajectoryCategory: d.trajectoryCategory,
		SuppliedN:          d.suppliedN,
		MinimumDelta:       d.minimumDelta,
		Frames:             d.maximumTrajectoryLength + 1,
	}

	for _, t := range d.trajectories {
		names := t.SampleNames()
		values := t.GradientPoints()
		coords := t.Coordinates()

		tp := TrajectoryPlan{Category: t.Category(), Frames: t.FrameCount()}
		for i, frame := range t.WaypointFrames() {
			tp.Keyframes = append(tp.Keyframes, Keyframe{
				Frame:    frame,
				Sample:   names[i],
				Gradient: values[i],
				Point:    coords[i],
			})
		}
		plan.Trajectories = append(plan.Trajectories, tp)
	}

	return plan
}

package director

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// PlanVersion is the plan format written by WritePlan.
const PlanVersion = "1.0"

// ErrPlanVersion is returned when reading a plan of another format version.
var ErrPlanVersion = errors.New("unsupported plan version")

// WritePlan writes a plan to a YAML file
func WritePlan(plan *Plan, path string) error {
	data, err := yaml.Marshal(plan)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadPlan reads a plan from a YAML file
func ReadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, err
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &plan, nil
}

// Validate checks the version and that every keyframe lies inside the animation.
func (p *Plan) Validate() error {
	if p.Version != PlanVersion {
		return fmt.Errorf("%w: %q", ErrPlanVersion, p.Version)
	}
	for _, tp := range p.Trajectories {
		if tp.Frames > p.Frames {
			return fmt.Errorf("trajectory %q has %d frames, plan has %d", tp.Category, tp.Frames, p.Frames)
		}
		for _, k := range tp.Keyframes {
			if k.Frame < 0 || k.Frame >= p.Frames {
				return fmt.Errorf("trajectory %q: keyframe %s at frame %d outside [0, %d)", tp.Category, k.Sample, k.Frame, p.Frames)
			}
		}
	}
	return nil
}

// GeneratePlanPath creates a timestamped plan filename in dir
func GeneratePlanPath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("plan_%s.yaml", timestamp))
}

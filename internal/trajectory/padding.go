package trajectory

import "math"

// DefaultEpsilon is the z offset of a synthetic starting waypoint.
const DefaultEpsilon = 1e-4

// Padder aligns the start of every trajectory to a common gradient value.
type Padder interface {
	Pad(groups Groups)
}

// ZOffsetPadding prepends, to every group that starts after the earliest
// gradient value, a copy of its first waypoint moved to the earliest value and
// shifted by Epsilon along z. The shift keeps the first segment from having
// zero length, which some line renderers refuse to draw.
type ZOffsetPadding struct {
	Epsilon float64
}

func (p ZOffsetPadding) Pad(groups Groups) {
	earliest, ok := earliestValue(groups)
	if !ok {
		return
	}

	for key, waypoints := range groups {
		first := waypoints[0]
		if first.Value == earliest {
			continue
		}

		synthetic := first
		synthetic.Value = earliest
		synthetic.Z += p.Epsilon

		padded := make([]Waypoint, 0, len(waypoints)+1)
		padded = append(padded, synthetic)
		groups[key] = append(padded, waypoints...)
	}
}

// NoPadding leaves the groups untouched.
type NoPadding struct{}

func (NoPadding) Pad(Groups) {}

func earliestValue(groups Groups) (float64, bool) {
	earliest := math.Inf(1)
	for _, waypoints := range groups {
		if len(waypoints) > 0 && waypoints[0].Value < earliest {
			earliest = waypoints[0].Value
		}
	}
	return earliest, !math.IsInf(earliest, 1)
}

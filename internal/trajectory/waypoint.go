package trajectory

import (
	"sort"

	"github.com/ivlev/pcoa2video/internal/ordination"
)

// Waypoint is an original, non-interpolated sample position within a trajectory.
type Waypoint struct {
	SampleName string
	Value      float64 // Gradient value
	ordination.Point
}

// Groups maps a trajectory category value to its waypoints, ordered by gradient value.
type Groups map[string][]Waypoint

// Categories returns the category values in lexical order.
func (g Groups) Categories() []string {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package trajectory

import (
	"fmt"
	"math"
)

// MinimumDelta returns the smallest nonzero step between consecutive gradient
// values, pooled across all groups.
func MinimumDelta(groups Groups) (float64, error) {
	minimum := math.Inf(1)
	for _, waypoints := range groups {
		for i := 0; i < len(waypoints)-1; i++ {
			d := segmentDelta(waypoints[i].Value, waypoints[i+1].Value)
			if d != 0 && d < minimum {
				minimum = d
			}
		}
	}

	if math.IsInf(minimum, 1) {
		return 0, fmt.Errorf("%w: no nonzero gradient step in %d trajectories", ErrInsufficientData, len(groups))
	}
	return minimum, nil
}

// segmentDelta is ||a| - |b||. It only equals |a - b| when a and b share a sign.
func segmentDelta(a, b float64) float64 {
	return math.Abs(math.Abs(a) - math.Abs(b))
}

package trajectory

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ivlev/pcoa2video/internal/metadata"
	"github.com/ivlev/pcoa2video/internal/ordination"
)

// Builder groups samples into per-category waypoint lists.
type Builder struct {
	Padding Padder
	Logger  *slog.Logger
}

// NewBuilder creates a Builder with the default z-offset padding.
func NewBuilder() *Builder {
	return &Builder{
		Padding: ZOffsetPadding{Epsilon: DefaultEpsilon},
	}
}

// ParseGradientValue parses a gradient metadata value. Only finite numbers are accepted.
func ParseGradientValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("gradient value %q is not finite", s)
	}
	return v, nil
}

// Build groups the samples of table by trajectoryCategory and orders each
// group by the numeric value of gradientCategory. Samples without coordinates
// or with a non-numeric gradient value are skipped. Groups with fewer than two
// distinct gradient values are dropped, and the remaining groups are padded
// so that all of them start at the earliest gradient value.
func (b *Builder) Build(table *metadata.Table, coords ordination.Coordinates, trajectoryCategory, gradientCategory string) (Groups, error) {
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}

	trajectoryCol, err := resolve(table, trajectoryCategory)
	if err != nil {
		return nil, err
	}
	gradientCol, err := resolve(table, gradientCategory)
	if err != nil {
		return nil, err
	}

	groups := make(Groups)
	for _, row := range table.Rows() {
		p, ok := coords[row.ID]
		if !ok {
			logger.Debug("sample has no coordinates", "sample", row.ID)
			continue
		}

		value, err := ParseGradientValue(gradientCol.Value(row))
		if err != nil {
			logger.Warn("skipping sample with non-numeric gradient value",
				"sample", row.ID, "category", gradientCategory, "value", gradientCol.Value(row))
			continue
		}

		key := trajectoryCol.Value(row)
		groups[key] = append(groups[key], Waypoint{SampleName: row.ID, Value: value, Point: p})
	}

	for key, waypoints := range groups {
		sort.SliceStable(waypoints, func(i, j int) bool {
			return waypoints[i].Value < waypoints[j].Value
		})

		if distinctValues(waypoints) < 2 {
			logger.Debug("dropping trajectory without gradient variation", "category", key, "samples", len(waypoints))
			delete(groups, key)
		}
	}

	if b.Padding != nil {
		b.Padding.Pad(groups)
	}

	return groups, nil
}

func resolve(table *metadata.Table, name string) (metadata.Column, error) {
	col, err := table.Column(name)
	if errors.Is(err, metadata.ErrColumnNotFound) {
		return col, fmt.Errorf("%w: %q", ErrCategoryNotFound, name)
	}
	return col, err
}

// distinctValues counts distinct gradient values of sorted waypoints.
func distinctValues(waypoints []Waypoint) int {
	n := 0
	for i, w := range waypoints {
		if i == 0 || w.Value != waypoints[i-1].Value {
			n++
		}
	}
	return n
}

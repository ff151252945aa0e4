// Package ordination loads principal coordinates for samples.
package ordination

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Point is a position in ordination space.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Lerp performs linear interpolation between a and b.
func Lerp(a, b Point, t float64) Point {
	return Point{
		X: lerp(a.X, b.X, t),
		Y: lerp(a.Y, b.Y, t),
		Z: lerp(a.Z, b.Z, t),
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Coordinates maps a sample id to its position.
type Coordinates map[string]Point

// ErrNoAxes is returned when a coordinates row has fewer than three axes.
var ErrNoAxes = errors.New("at least three coordinate axes are required")

// LoadCoordinates reads a coordinates file from disk.
func LoadCoordinates(path string) (Coordinates, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open coordinates file: %w", err)
	}
	defer f.Close()

	return ReadCoordinates(f)
}

// ReadCoordinates parses tab-separated coordinates. The first row is a header,
// every following row holds a sample id and at least three numeric axes; only
// the first three axes are kept.
func ReadCoordinates(r io.Reader) (Coordinates, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read coordinates: %w", err)
	}

	coords := make(Coordinates)
	for rowIdx, row := range allRows {
		if rowIdx == 0 || len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) < 4 {
			return nil, fmt.Errorf("row %d (%s): %w", rowIdx+1, row[0], ErrNoAxes)
		}

		var axes [3]float64
		for i := range axes {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d (%s), axis %d: %w", rowIdx+1, row[0], i+1, err)
			}
			axes[i] = v
		}

		id := strings.TrimSpace(row[0])
		if _, dup := coords[id]; dup {
			return nil, fmt.Errorf("row %d: duplicate sample %q", rowIdx+1, id)
		}
		coords[id] = Point{X: axes[0], Y: axes[1], Z: axes[2]}
	}

	if len(coords) == 0 {
		return nil, fmt.Errorf("no coordinates found")
	}
	return coords, nil
}

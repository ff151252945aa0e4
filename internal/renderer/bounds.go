package renderer

import (
	"math"

	"github.com/ivlev/pcoa2video/internal/ordination"
)

// Bounds is an axis-aligned box on the PC1/PC2 plane.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// BoundsOf returns the smallest box containing every point. With no points
// the unit box around the origin is returned.
func BoundsOf(points []ordination.Point) Bounds {
	if len(points) == 0 {
		return Bounds{MinX: -1, MaxX: 1, MinY: -1, MaxY: 1}
	}

	b := Bounds{
		MinX: math.Inf(1), MaxX: math.Inf(-1),
		MinY: math.Inf(1), MaxY: math.Inf(-1),
	}
	for _, p := range points {
		b.MinX = math.Min(b.MinX, p.X)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b
}

// Pad grows the box by frac of its size on every side. A flat axis gets a
// fixed margin of 0.5.
func (b Bounds) Pad(frac float64) Bounds {
	padX := (b.MaxX - b.MinX) * frac
	if padX == 0 {
		padX = 0.5
	}
	padY := (b.MaxY - b.MinY) * frac
	if padY == 0 {
		padY = 0.5
	}
	return Bounds{
		MinX: b.MinX - padX, MaxX: b.MaxX + padX,
		MinY: b.MinY - padY, MaxY: b.MaxY + padY,
	}
}

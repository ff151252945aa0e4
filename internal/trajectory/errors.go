package trajectory

import "errors"

var (
	// ErrCategoryNotFound is returned when a gradient or trajectory category
	// is not one of the metadata headers.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrDimensionMismatch is returned when a trajectory is built with a
	// different number of coordinates and gradient points.
	ErrDimensionMismatch = errors.New("coordinates and gradient points differ in length")

	// ErrInsufficientData is returned when there is nothing to animate.
	ErrInsufficientData = errors.New("insufficient data")
)

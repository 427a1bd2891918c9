// Package domain defines domain-level errors for the timeaxis feature.
package domain

import "errors"

// Domain errors for axis computation.
// Every one of them is a caller mistake, not a runtime condition.
var (
	// ErrUnsupportedUnit is returned for a unit outside the canonical set.
	// Wrapped errors carry the offending unit name.
	ErrUnsupportedUnit = errors.New("unsupported unit")

	// ErrEmptyValues is returned when interval inference is asked about zero timestamps.
	ErrEmptyValues = errors.New("no values to infer an interval from")

	// ErrInvalidTimestamp is returned when a raw value cannot be read as a timestamp.
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrInvalidWidth is returned for a negative or non-numeric chart width.
	ErrInvalidWidth = errors.New("invalid chart width")

	// ErrNoSeries is returned when a combined axis is requested for an empty series list.
	ErrNoSeries = errors.New("no series requested")
)

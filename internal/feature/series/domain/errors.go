// Package domain defines domain-level errors for the series feature.
package domain

import "errors"

var (
	// ErrSeriesNotFound indicates that no series exists with the given key.
	ErrSeriesNotFound = errors.New("series not found")

	// ErrSeriesAlreadyExists is returned when creating a series whose key is taken.
	ErrSeriesAlreadyExists = errors.New("series with this key already exists")

	// ErrInvalidSeries is returned when series metadata fails validation.
	ErrInvalidSeries = errors.New("invalid series")

	// ErrInvalidPoint is returned when a point has no timestamp.
	ErrInvalidPoint = errors.New("invalid point")
)

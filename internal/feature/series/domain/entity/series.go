// Package entity defines the domain models for the series feature.
package entity

import (
	"time"

	axisentity "chart_backend/internal/feature/timeaxis/domain/entity"
)

// Series is a named time series a chart can be drawn from.
// Unit is the bucketing the series was recorded with, if known; Timezone
// is the IANA zone its timestamps should be read in (empty means UTC).
type Series struct {
	ID        uint                `gorm:"primaryKey"`
	Key       string              `gorm:"size:64;not null;uniqueIndex"`
	Name      string              `gorm:"size:255;not null"`
	Unit      axisentity.TimeUnit `gorm:"size:16;not null"`
	Timezone  string              `gorm:"size:64;not null"`
	IsActive  bool                `gorm:"not null;default:true"`
	SortKey   int                 `gorm:"not null;default:0"`
	UpdatedAt time.Time           `gorm:"autoUpdateTime"`
}

// Point is one observation of a series.
type Point struct {
	SeriesKey string    // Key of the owning series
	Time      time.Time // Observation timestamp
	Value     float64
}

// Package usecase implements the business logic for series operations.
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chart_backend/internal/feature/series/domain"
	"chart_backend/internal/feature/series/domain/entity"
	"chart_backend/internal/feature/timeaxis/domain/timebucket"
)

const (
	// DefaultPointLimit is the number of points returned when no limit is given.
	DefaultPointLimit = 500
	// MaxPointLimit caps how many points a single read may return.
	MaxPointLimit = 10000
)

// SeriesRepository abstracts the persistence layer for series metadata.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SeriesRepository interface {
	ListActive(ctx context.Context) ([]entity.Series, error)
	FindByKey(ctx context.Context, key string) (*entity.Series, error)
	Create(ctx context.Context, s *entity.Series) error
}

// PointRepository abstracts the persistence layer for series points.
type PointRepository interface {
	// FindPoints returns the latest limit points of a series in ascending time order.
	FindPoints(ctx context.Context, key string, limit int) ([]entity.Point, error)
	UpsertPoints(ctx context.Context, points []entity.Point) error
}

// SeriesUsecase provides business logic for series and their points.
type SeriesUsecase struct {
	series SeriesRepository
	points PointRepository
}

// NewSeriesUsecase creates a new SeriesUsecase.
func NewSeriesUsecase(series SeriesRepository, points PointRepository) *SeriesUsecase {
	return &SeriesUsecase{series: series, points: points}
}

// ListSeries returns all active series.
func (u *SeriesUsecase) ListSeries(ctx context.Context) ([]entity.Series, error) {
	return u.series.ListActive(ctx)
}

// GetSeries returns the series with key, or domain.ErrSeriesNotFound.
func (u *SeriesUsecase) GetSeries(ctx context.Context, key string) (*entity.Series, error) {
	return u.series.FindByKey(ctx, key)
}

// CreateSeries validates and stores a new series.
// Name defaults to Key; Unit and Timezone must be valid when set.
func (u *SeriesUsecase) CreateSeries(ctx context.Context, s *entity.Series) error {
	s.Key = strings.TrimSpace(s.Key)
	if s.Key == "" {
		return fmt.Errorf("%w: key is required", domain.ErrInvalidSeries)
	}
	if strings.TrimSpace(s.Name) == "" {
		s.Name = s.Key
	}

	unit, err := timebucket.ParseUnit(string(s.Unit))
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidSeries, err)
	}
	s.Unit = unit

	if s.Timezone != "" {
		if _, err := time.LoadLocation(s.Timezone); err != nil {
			return fmt.Errorf("%w: unknown timezone %q", domain.ErrInvalidSeries, s.Timezone)
		}
	}
	s.IsActive = true

	return u.series.Create(ctx, s)
}

// GetPoints returns up to limit of the latest points of a series, oldest first.
func (u *SeriesUsecase) GetPoints(ctx context.Context, key string, limit int) ([]entity.Point, error) {
	if limit <= 0 || limit > MaxPointLimit {
		limit = DefaultPointLimit
	}
	if _, err := u.series.FindByKey(ctx, key); err != nil {
		return nil, err
	}
	return u.points.FindPoints(ctx, key, limit)
}

// AppendPoints stores points for an existing series, replacing values at identical timestamps.
func (u *SeriesUsecase) AppendPoints(ctx context.Context, key string, points []entity.Point) error {
	if _, err := u.series.FindByKey(ctx, key); err != nil {
		return err
	}
	for i := range points {
		if points[i].Time.IsZero() {
			return fmt.Errorf("%w: points[%d] has no time", domain.ErrInvalidPoint, i)
		}
		points[i].SeriesKey = key
		points[i].Time = points[i].Time.UTC()
	}
	return u.points.UpsertPoints(ctx, points)
}

package adapters

import (
	"context"
	"slices"
	"time"

	"chart_backend/internal/feature/series/domain/entity"
	"chart_backend/internal/feature/series/usecase"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type pointGorm struct {
	db *gorm.DB
}

var _ usecase.PointRepository = (*pointGorm)(nil)

func NewPointRepository(db *gorm.DB) *pointGorm {
	return &pointGorm{db: db}
}

type PointModel struct {
	ID        uint      `gorm:"primaryKey"`
	SeriesKey string    `gorm:"size:64;not null;uniqueIndex:point_series_time,priority:1"`
	Time      time.Time `gorm:"not null;uniqueIndex:point_series_time,priority:2"`
	Value     float64   `gorm:"not null"`
}

func (PointModel) TableName() string {
	return "points"
}

func toModel(e entity.Point) PointModel {
	return PointModel{
		SeriesKey: e.SeriesKey,
		Time:      e.Time.UTC(),
		Value:     e.Value,
	}
}

func (r *pointGorm) UpsertPoints(ctx context.Context, points []entity.Point) error {
	if len(points) == 0 {
		return nil
	}
	ms := make([]PointModel, 0, len(points))
	for _, e := range points {
		ms = append(ms, toModel(e))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "series_key"}, {Name: "time"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&ms).Error
}

// FindPoints reads the newest limit rows and returns them oldest first.
func (r *pointGorm) FindPoints(ctx context.Context, key string, limit int) ([]entity.Point, error) {
	var rows []PointModel
	q := r.db.WithContext(ctx).
		Where("series_key = ?", key).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "time"}, Desc: true})
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	slices.Reverse(rows)

	out := make([]entity.Point, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.Point{
			SeriesKey: m.SeriesKey,
			Time:      m.Time.UTC(),
			Value:     m.Value,
		})
	}
	return out, nil
}

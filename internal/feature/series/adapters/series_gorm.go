// Package adapters はseriesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"chart_backend/internal/feature/series/domain"
	"chart_backend/internal/feature/series/domain/entity"
	"chart_backend/internal/feature/series/usecase"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// seriesGorm はSeriesRepositoryインターフェースのGORM実装です。
type seriesGorm struct {
	db *gorm.DB
}

var _ usecase.SeriesRepository = (*seriesGorm)(nil)

// NewSeriesRepository は指定されたDB接続でseriesGormリポジトリの新しいインスタンスを生成します。
func NewSeriesRepository(db *gorm.DB) *seriesGorm {
	return &seriesGorm{db: db}
}

// ListActive はsort_key, key順にすべてのアクティブな系列を返します。
func (r *seriesGorm) ListActive(ctx context.Context) ([]entity.Series, error) {
	var series []entity.Series
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).
		Find(&series).Error; err != nil {
		return nil, err
	}
	return series, nil
}

// FindByKey はキーで系列を検索します。見つからない場合は domain.ErrSeriesNotFound を返します。
func (r *seriesGorm) FindByKey(ctx context.Context, key string) (*entity.Series, error) {
	if key == "" {
		return nil, domain.ErrSeriesNotFound
	}
	var s entity.Series
	err := r.db.WithContext(ctx).Where(&entity.Series{Key: key}).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSeriesNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create は新しい系列を保存します。キーが重複する場合は domain.ErrSeriesAlreadyExists を返します。
func (r *seriesGorm) Create(ctx context.Context, s *entity.Series) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Series{}).Where(&entity.Series{Key: s.Key}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrSeriesAlreadyExists
	}

	err := r.db.WithContext(ctx).Create(s).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrSeriesAlreadyExists
	}
	return err
}

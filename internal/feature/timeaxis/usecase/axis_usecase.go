// Package usecase はタイムアクシスのレイアウト計算を実装します。
package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	seriesentity "chart_backend/internal/feature/series/domain/entity"
	"chart_backend/internal/feature/timeaxis/domain"
	"chart_backend/internal/feature/timeaxis/domain/entity"
	"chart_backend/internal/feature/timeaxis/domain/timebucket"
)

// SeriesReader は系列メタデータと点列の読み取りを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type SeriesReader interface {
	GetSeries(ctx context.Context, key string) (*seriesentity.Series, error)
	GetPoints(ctx context.Context, key string, limit int) ([]seriesentity.Point, error)
}

// InferInput は生の値から軸を計算するための入力です。
type InferInput struct {
	Values   []any  // timestamp-like values (epoch millis, date strings, time.Time)
	Unit     string // optional explicit unit
	Timezone string // optional IANA zone; empty means UTC
	Width    float64
}

// AxisUsecase はデータの自然なバケットとティック間隔を決定します。
type AxisUsecase struct {
	series     SeriesReader
	metrics    timebucket.LabelMetrics
	pointLimit int
}

// NewAxisUsecase はAxisUsecaseの新しいインスタンスを生成します。
// pointLimit は系列ごとに読み込む最大点数で、0以下の場合は系列側のデフォルトが使われます。
func NewAxisUsecase(series SeriesReader, metrics timebucket.LabelMetrics, pointLimit int) *AxisUsecase {
	return &AxisUsecase{series: series, metrics: metrics, pointLimit: pointLimit}
}

// Infer は生の値の配列から軸レイアウトを計算します。
func (u *AxisUsecase) Infer(ctx context.Context, in InferInput) (entity.AxisLayout, error) {
	unit, err := timebucket.ParseUnit(in.Unit)
	if err != nil {
		return entity.AxisLayout{}, err
	}
	b := timebucket.New(timebucket.ResolveTimezone(in.Timezone), u.metrics)

	values := make([]time.Time, 0, len(in.Values))
	for i, v := range in.Values {
		t, ok := b.ParseTimestamp(v)
		if !ok {
			return entity.AxisLayout{}, fmt.Errorf("%w: values[%d]", domain.ErrInvalidTimestamp, i)
		}
		values = append(values, t)
	}
	return layout(b, values, unit, in.Width)
}

// SeriesAxis は保存済みの系列から軸レイアウトを計算します。
// 系列に単位が設定されていればそれを優先し、タイムゾーンも系列のものを使います。
func (u *AxisUsecase) SeriesAxis(ctx context.Context, key string, width float64) (entity.AxisLayout, error) {
	s, values, err := u.load(ctx, key)
	if err != nil {
		return entity.AxisLayout{}, err
	}
	b := timebucket.New(timebucket.ResolveTimezone(s.Timezone), u.metrics)
	return layout(b, values, s.Unit, width)
}

// CombinedAxis は複数系列を1つの軸に描画する場合のレイアウトを計算します。
// 単位は各系列の中で最も細かいものを使い、タイムゾーンは先頭の系列に合わせます。
func (u *AxisUsecase) CombinedAxis(ctx context.Context, keys []string, width float64) (entity.AxisLayout, error) {
	if len(keys) == 0 {
		return entity.AxisLayout{}, domain.ErrNoSeries
	}

	var (
		units    = make([]entity.TimeUnit, 0, len(keys))
		values   []time.Time
		timezone string
	)
	for i, key := range keys {
		s, vs, err := u.load(ctx, key)
		if err != nil {
			return entity.AxisLayout{}, err
		}
		if i == 0 {
			timezone = s.Timezone
		}
		units = append(units, s.Unit)
		values = append(values, vs...)
	}

	b := timebucket.New(timebucket.ResolveTimezone(timezone), u.metrics)
	return layout(b, values, timebucket.PickMinimalUnit(units...), width)
}

func (u *AxisUsecase) load(ctx context.Context, key string) (*seriesentity.Series, []time.Time, error) {
	s, err := u.series.GetSeries(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	points, err := u.series.GetPoints(ctx, key, u.pointLimit)
	if err != nil {
		return nil, nil, err
	}
	values := make([]time.Time, 0, len(points))
	for _, p := range points {
		values = append(values, p.Time)
	}
	return s, values, nil
}

func layout(b *timebucket.Bucketer, values []time.Time, unit entity.TimeUnit, width float64) (entity.AxisLayout, error) {
	if width < 0 || math.IsNaN(width) || math.IsInf(width, 0) {
		return entity.AxisLayout{}, fmt.Errorf("%w: %v", domain.ErrInvalidWidth, width)
	}

	dataInterval, err := b.PickNaturalInterval(values, unit)
	if err != nil {
		return entity.AxisLayout{}, err
	}

	d := timebucket.DomainOf(values)
	format := LabelFormatter(dataInterval, b.Location())
	maxTicks := b.MaxTicksForWidth(width, format)

	return entity.AxisLayout{
		DataInterval: dataInterval,
		TickInterval: timebucket.SelectTickInterval(dataInterval, d, maxTicks),
		MaxTicks:     maxTicks,
		Domain:       d,
		Timezone:     b.Location().String(),
		LabelSample:  format(b.RepresentativeDate()),
	}, nil
}

package usecase

import (
	"context"
	"log/slog"

	"chart_backend/internal/feature/series/domain/entity"
	"chart_backend/internal/shared/ratelimiter"
)

// DefaultImportOutputSize は1回のリクエストで取得する点の件数です。
const DefaultImportOutputSize = 200

// PointSource は外部の時系列APIから点列を取得するインターフェイスです。
type PointSource interface {
	FetchPoints(ctx context.Context, key string, outputsize int) ([]entity.Point, error)
}

// ImportResult はImportAllの結果です。
type ImportResult struct {
	Imported int      // 保存した点の総数
	Failed   []string // 取得または保存に失敗した系列キー
}

// ImportUsecase は外部APIから点列を取得し、データベースに永続化します。
type ImportUsecase struct {
	source     PointSource
	series     SeriesRepository
	points     PointRepository
	limiter    ratelimiter.Limiter
	outputSize int
}

// NewImportUsecase は新しい ImportUsecase を作成します。outputSize が0以下の場合はデフォルト値を使います。
func NewImportUsecase(source PointSource, series SeriesRepository, points PointRepository,
	limiter ratelimiter.Limiter, outputSize int) *ImportUsecase {
	if outputSize <= 0 {
		outputSize = DefaultImportOutputSize
	}
	return &ImportUsecase{source: source, series: series, points: points, limiter: limiter, outputSize: outputSize}
}

// ImportOne は既存の系列 key の点列を取得し、同じ時刻の点を上書きしながら保存します。
func (u *ImportUsecase) ImportOne(ctx context.Context, key string) (int, error) {
	if _, err := u.series.FindByKey(ctx, key); err != nil {
		return 0, err
	}
	return u.importSeries(ctx, key)
}

func (u *ImportUsecase) importSeries(ctx context.Context, key string) (int, error) {
	ps, err := u.source.FetchPoints(ctx, key, u.outputSize)
	if err != nil {
		return 0, err
	}
	if len(ps) == 0 {
		return 0, nil
	}

	// 取得したデータに系列キーを設定
	for i := range ps {
		ps[i].SeriesKey = key
		ps[i].Time = ps[i].Time.UTC()
	}
	if err := u.points.UpsertPoints(ctx, ps); err != nil {
		return 0, err
	}
	return len(ps), nil
}

// ImportAll は有効な全系列を順に取り込みます。
// 1つの系列が失敗しても処理を止めず、ctxが終了した場合のみエラーを返します。
func (u *ImportUsecase) ImportAll(ctx context.Context) (ImportResult, error) {
	var res ImportResult

	series, err := u.series.ListActive(ctx)
	if err != nil {
		return res, err
	}

	for _, s := range series {
		if err := u.limiter.Wait(ctx); err != nil {
			return res, err
		}
		n, err := u.importSeries(ctx, s.Key)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			slog.Error("failed to import series", "series", s.Key, "error", err)
			res.Failed = append(res.Failed, s.Key)
			continue
		}
		res.Imported += n
	}
	return res, nil
}

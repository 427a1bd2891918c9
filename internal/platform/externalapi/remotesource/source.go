package remotesource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"chart_backend/internal/feature/series/domain/entity"
	"chart_backend/internal/feature/series/usecase"
	"chart_backend/internal/feature/timeaxis/domain/timebucket"
	"chart_backend/internal/platform/externalapi/remotesource/dto"
)

// Source は上流APIから系列の点列を取得するPointSource実装です。
type Source struct {
	cfg    Config
	client *http.Client
}

// SourceがPointSourceを実装していることをコンパイル時に検証します。
var _ usecase.PointSource = (*Source)(nil)

// NewSource は指定された設定とHTTPクライアントでSourceの新しいインスタンスを生成します。
// client が nil の場合は cfg.Timeout を持つクライアントを作成します。
func NewSource(cfg Config, client *http.Client) *Source {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Source{cfg: cfg, client: client}
}

// FetchPoints は上流APIから系列 key の点列を取得します。
// 時刻は系列のタイムゾーンに関係なく、タイムゾーン無しの文字列はUTCとして解釈します。
func (s *Source) FetchPoints(ctx context.Context, key string, outputsize int) ([]entity.Point, error) {
	q := url.Values{}
	// クエリパラメータを追加
	q.Set("outputsize", strconv.Itoa(outputsize))
	if s.cfg.APIKey != "" {
		q.Set("apikey", s.cfg.APIKey)
	}

	// URLを生成
	u := fmt.Sprintf("%s/series/%s/points?%s", s.cfg.BaseURL, url.PathEscape(key), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("remotesource http %d", res.StatusCode)
	}

	// JSONレスポンスをDTOにデコード
	var body dto.PointsResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Status == "error" {
		return nil, fmt.Errorf("remotesource: %s", body.Message)
	}

	points := make([]entity.Point, 0, len(body.Values))
	for _, v := range body.Values {
		tm, err := parseDatetime(v.Datetime)
		if err != nil {
			return nil, err
		}
		val, err := strconv.ParseFloat(v.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("parse value %q: %w", v.Value, err)
		}
		points = append(points, entity.Point{SeriesKey: key, Time: tm, Value: val})
	}
	return points, nil
}

func parseDatetime(raw json.RawMessage) (time.Time, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return time.Time{}, fmt.Errorf("parse time %s: %w", raw, err)
	}
	tm, ok := timebucket.ParseTimestamp(v)
	if !ok {
		return time.Time{}, fmt.Errorf("parse time %s: unsupported format", raw)
	}
	return tm, nil
}

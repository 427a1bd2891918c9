// Package handler はtimeaxisフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	seriesdomain "chart_backend/internal/feature/series/domain"
	"chart_backend/internal/feature/timeaxis/domain"
	"chart_backend/internal/feature/timeaxis/domain/entity"
	"chart_backend/internal/feature/timeaxis/transport/http/dto"
	"chart_backend/internal/feature/timeaxis/usecase"
	"chart_backend/internal/platform/logging"
)

// DefaultWidth は幅が指定されなかった場合のチャート幅（px）です。
const DefaultWidth = 600

// AxisUsecase は軸レイアウト計算のユースケースインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type AxisUsecase interface {
	Infer(ctx context.Context, in usecase.InferInput) (entity.AxisLayout, error)
	SeriesAxis(ctx context.Context, key string, width float64) (entity.AxisLayout, error)
	CombinedAxis(ctx context.Context, keys []string, width float64) (entity.AxisLayout, error)
}

// AxisHandler は軸レイアウトのHTTPリクエストを処理します。
type AxisHandler struct {
	uc AxisUsecase
}

// NewAxisHandler は新しい AxisHandler を作成します。
func NewAxisHandler(uc AxisUsecase) *AxisHandler {
	return &AxisHandler{uc: uc}
}

// Infer は生の値の配列から軸レイアウトを計算します。
//
// エンドポイント例:
// POST /axis/infer {"values":["2024-01-01","2024-01-02"],"unit":"","timezone":"Asia/Tokyo","width":800}
func (h *AxisHandler) Infer(c *gin.Context) {
	var req dto.InferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request"})
		return
	}

	width := float64(DefaultWidth)
	if req.Width != nil {
		width = *req.Width
	}

	layout, err := h.uc.Infer(c.Request.Context(), usecase.InferInput{
		Values:   req.Values,
		Unit:     req.Unit,
		Timezone: req.Timezone,
		Width:    width,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(layout))
}

// Series は保存済みの系列1つの軸レイアウトを返します。
//
// エンドポイント例:
// GET /axis/series/:key?width=800
func (h *AxisHandler) Series(c *gin.Context) {
	width, ok := parseWidth(c)
	if !ok {
		return
	}

	layout, err := h.uc.SeriesAxis(c.Request.Context(), c.Param("key"), width)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(layout))
}

// Combined は複数系列を重ねて描画する場合の軸レイアウトを返します。
//
// エンドポイント例:
// GET /axis/combined?keys=cpu,mem&width=800
func (h *AxisHandler) Combined(c *gin.Context) {
	width, ok := parseWidth(c)
	if !ok {
		return
	}

	var keys []string
	for _, k := range strings.Split(c.Query("keys"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}

	layout, err := h.uc.CombinedAxis(c.Request.Context(), keys, width)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(layout))
}

// parseWidth はクエリのwidthを読み取ります。数値でない値やNaN、無限大の場合は400を書き込みfalseを返します。
func parseWidth(c *gin.Context) (float64, bool) {
	raw := c.Query("width")
	if raw == "" {
		return DefaultWidth, true
	}
	w, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(w) || math.IsInf(w, 0) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid width"})
		return 0, false
	}
	return w, true
}

// writeError はドメインエラーをHTTPステータスに変換します。
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, seriesdomain.ErrSeriesNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUnsupportedUnit),
		errors.Is(err, domain.ErrEmptyValues),
		errors.Is(err, domain.ErrInvalidTimestamp),
		errors.Is(err, domain.ErrInvalidWidth),
		errors.Is(err, domain.ErrNoSeries):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	default:
		logging.FromContext(c.Request.Context()).Error("axis computation failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}
}

func toResponse(l entity.AxisLayout) dto.AxisResponse {
	return dto.AxisResponse{
		DataInterval: dto.IntervalItem{Unit: string(l.DataInterval.Unit), Count: l.DataInterval.Count},
		TickInterval: dto.IntervalItem{Unit: string(l.TickInterval.Unit), Count: l.TickInterval.Count},
		MaxTicks:     l.MaxTicks,
		ShowTicks:    l.ShowTicks(),
		Domain:       dto.DomainItem{Start: l.Domain.Start, End: l.Domain.End},
		Timezone:     l.Timezone,
		LabelSample:  l.LabelSample,
	}
}

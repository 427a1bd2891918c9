// Package handler はseriesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"chart_backend/internal/feature/series/domain"
	"chart_backend/internal/feature/series/domain/entity"
	"chart_backend/internal/feature/series/transport/http/dto"
	axisdomain "chart_backend/internal/feature/timeaxis/domain"
	axisentity "chart_backend/internal/feature/timeaxis/domain/entity"
	"chart_backend/internal/feature/timeaxis/domain/timebucket"
	"chart_backend/internal/platform/logging"
)

// SeriesUsecase は系列に関するユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type SeriesUsecase interface {
	ListSeries(ctx context.Context) ([]entity.Series, error)
	CreateSeries(ctx context.Context, s *entity.Series) error
	GetPoints(ctx context.Context, key string, limit int) ([]entity.Point, error)
	AppendPoints(ctx context.Context, key string, points []entity.Point) error
}

// SeriesHandler は系列に関するHTTPリクエストを処理します。
type SeriesHandler struct {
	uc SeriesUsecase
}

// NewSeriesHandler は新しい SeriesHandler を作成します。
func NewSeriesHandler(uc SeriesUsecase) *SeriesHandler {
	return &SeriesHandler{uc: uc}
}

// List は有効な系列の一覧を返します。
func (h *SeriesHandler) List(c *gin.Context) {
	series, err := h.uc.ListSeries(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]dto.SeriesItem, 0, len(series))
	for _, s := range series {
		out = append(out, toItem(s))
	}
	c.JSON(http.StatusOK, out)
}

// Create は新しい系列を登録します。
//
// エンドポイント例:
// POST /series {"key":"cpu","name":"CPU usage","unit":"minute","timezone":"Asia/Tokyo"}
func (h *SeriesHandler) Create(c *gin.Context) {
	var req dto.CreateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request"})
		return
	}

	s := &entity.Series{
		Key:      req.Key,
		Name:     req.Name,
		Unit:     axisentity.TimeUnit(req.Unit),
		Timezone: req.Timezone,
		SortKey:  req.SortKey,
	}
	if err := h.uc.CreateSeries(c.Request.Context(), s); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toItem(*s))
}

// Points は系列の点列を古い順に返します。
//
// エンドポイント例:
// GET /series/:key/points?limit=500
func (h *SeriesHandler) Points(c *gin.Context) {
	// 不正な値は0になり、usecase側でデフォルト値に置き換えられる
	limit, _ := strconv.Atoi(c.Query("limit"))

	points, err := h.uc.GetPoints(c.Request.Context(), c.Param("key"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]dto.PointItem, 0, len(points))
	for _, p := range points {
		out = append(out, dto.PointItem{Time: p.Time.UTC().Format(time.RFC3339Nano), Value: p.Value})
	}
	c.JSON(http.StatusOK, out)
}

// AppendPoints は系列に点を追加します。同じ時刻の点は上書きされます。
func (h *SeriesHandler) AppendPoints(c *gin.Context) {
	var req dto.AppendPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request"})
		return
	}

	points := make([]entity.Point, 0, len(req.Points))
	for i, p := range req.Points {
		t, ok := timebucket.ParseTimestamp(p.Time)
		if !ok {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: fmt.Sprintf("invalid time at points[%d]", i)})
			return
		}
		points = append(points, entity.Point{Time: t, Value: p.Value})
	}

	if err := h.uc.AppendPoints(c.Request.Context(), c.Param("key"), points); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrSeriesNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrSeriesAlreadyExists):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidSeries),
		errors.Is(err, domain.ErrInvalidPoint),
		errors.Is(err, axisdomain.ErrUnsupportedUnit):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	default:
		logging.FromContext(c.Request.Context()).Error("series request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}
}

func toItem(s entity.Series) dto.SeriesItem {
	return dto.SeriesItem{Key: s.Key, Name: s.Name, Unit: string(s.Unit), Timezone: s.Timezone}
}

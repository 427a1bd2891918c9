// Package router はアプリケーションのルーティングを定義します。
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	serieshandler "chart_backend/internal/feature/series/transport/handler"
	axishandler "chart_backend/internal/feature/timeaxis/transport/handler"
	platformhandler "chart_backend/internal/platform/http/handler"
	"chart_backend/internal/platform/http/middleware"
	jwtmw "chart_backend/internal/platform/jwt"
)

// Options はルータ生成時の設定です。
type Options struct {
	JWTSecret   string
	CORSOrigins []string
}

func NewRouter(opts Options, health *platformhandler.HealthHandler,
	series *serieshandler.SeriesHandler, axis *axishandler.AxisHandler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.AccessLog(), gin.Recovery())

	// ブラウザのチャートから直接呼ばれる場合のみCORSを許可
	if len(opts.CORSOrigins) > 0 {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = opts.CORSOrigins
		cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", middleware.HeaderRequestID)
		cfg.ExposeHeaders = []string{middleware.HeaderRequestID}
		r.Use(cors.New(cfg))
	}

	// 認証不要
	// 導通確認用
	r.GET("/healthz", health.Live)
	r.HEAD("/healthz", health.Live)
	r.GET("/readyz", health.Ready)

	// 認証必須のルート
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired(opts.JWTSecret))
	{
		auth.GET("/series", series.List)
		auth.GET("/series/:key/points", series.Points)

		auth.POST("/axis/infer", axis.Infer)
		auth.GET("/axis/series/:key", axis.Series)
		auth.GET("/axis/combined", axis.Combined)

		// 書き込みにはwriteスコープが必要
		write := auth.Group("/", jwtmw.RequireScope(jwtmw.ScopeWrite))
		write.POST("/series", series.Create)
		write.POST("/series/:key/points", series.AppendPoints)
	}

	return r
}

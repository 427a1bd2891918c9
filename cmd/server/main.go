package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"chart_backend/internal/app/di"
	"chart_backend/internal/app/router"
	seriesadapters "chart_backend/internal/feature/series/adapters"
	serieshandler "chart_backend/internal/feature/series/transport/handler"
	seriesusecase "chart_backend/internal/feature/series/usecase"
	axishandler "chart_backend/internal/feature/timeaxis/transport/handler"
	axisusecase "chart_backend/internal/feature/timeaxis/usecase"
	"chart_backend/internal/platform/config"
	"chart_backend/internal/platform/db"
	httpplatform "chart_backend/internal/platform/http"
	platformhandler "chart_backend/internal/platform/http/handler"
	"chart_backend/internal/platform/logging"
	redisplatform "chart_backend/internal/platform/redis"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults to $CONFIG_FILE)")
	flag.Parse()

	// .envは開発用。存在しなくてもよい
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Log)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	// db
	gdb, err := db.OpenDB(cfg.Database)
	if err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer func() { _ = sqlDB.Close() }()
	}

	// Redis
	var rdb *redisv9.Client
	if cfg.Redis.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		tmp, err := redisplatform.NewRedisClient(ctx, cfg.Redis)
		cancel()
		if err != nil {
			logger.Warn("redis unavailable, running without cache", "addr", cfg.Redis.Addr(), "error", err)
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					logger.Error("failed to close redis client", "error", err)
				}
			}()
		}
	}

	// Repository
	seriesRepo := seriesadapters.NewSeriesRepository(gdb)
	pointRepo := di.NewPointRepository(rdb, gdb, cfg.Redis, time.Now())

	// Usecase
	seriesUC := seriesusecase.NewSeriesUsecase(seriesRepo, pointRepo)
	axisUC := axisusecase.NewAxisUsecase(seriesUC, cfg.Axis.LabelMetrics(), cfg.Axis.PointLimit)

	// Handler
	healthH := platformhandler.NewHealthHandler(di.NewHealthChecks(gdb, rdb))
	seriesH := serieshandler.NewSeriesHandler(seriesUC)
	axisH := axishandler.NewAxisHandler(axisUC)

	// JWT_SECRETチェック（未設定だと認証付きルートはすべて500になる）
	if cfg.JWT.Secret == "" {
		logger.Warn("JWT_SECRET is not set; authenticated routes will reject every request")
	}

	engine := router.NewRouter(router.Options{
		JWTSecret:   cfg.JWT.Secret,
		CORSOrigins: cfg.Server.CORSOrigins,
	}, healthH, seriesH, axisH)

	srv := httpplatform.NewServer(cfg.Server, engine)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Command ingest imports points for every active series from the configured upstream API.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"chart_backend/internal/app/di"
	seriesadapters "chart_backend/internal/feature/series/adapters"
	"chart_backend/internal/feature/series/usecase"
	"chart_backend/internal/platform/config"
	"chart_backend/internal/platform/db"
	"chart_backend/internal/platform/externalapi/remotesource"
	"chart_backend/internal/platform/logging"
	redisplatform "chart_backend/internal/platform/redis"
	"chart_backend/internal/shared/ratelimiter"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults to $CONFIG_FILE)")
	key := flag.String("series", "", "import only this series key")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall time limit")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Log)

	if !cfg.Import.Enabled() {
		logger.Error("import.base_url (IMPORT_BASE_URL) is not set")
		os.Exit(1)
	}

	gdb, err := db.OpenDB(cfg.Database)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// 取り込み後に古いキャッシュが残らないよう、サーバーと同じキャッシュ層を通して保存する
	var rdb *redisv9.Client
	if cfg.Redis.Enabled() {
		if tmp, err := redisplatform.NewRedisClient(ctx, cfg.Redis); err != nil {
			logger.Warn("redis unavailable, cached points may be stale until they expire", "error", err)
		} else {
			rdb = tmp
			defer func() { _ = rdb.Close() }()
		}
	}

	uc := usecase.NewImportUsecase(
		remotesource.NewSource(cfg.Import, nil),
		seriesadapters.NewSeriesRepository(gdb),
		di.NewPointRepository(rdb, gdb, cfg.Redis, time.Now()),
		ratelimiter.NewRateLimiter(cfg.Import.RequestsPerMinute, time.Minute),
		cfg.Import.OutputSize,
	)

	if *key != "" {
		n, err := uc.ImportOne(ctx, *key)
		if err != nil {
			logger.Error("import failed", "series", *key, "error", err)
			os.Exit(1)
		}
		logger.Info("import ok", "series", *key, "points", n)
		return
	}

	res, err := uc.ImportAll(ctx)
	if err != nil {
		logger.Error("import aborted", "error", err, "points", res.Imported)
		os.Exit(1)
	}
	logger.Info("import ok", "points", res.Imported, "failed", res.Failed)
}

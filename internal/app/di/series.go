// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	seriesadapters "chart_backend/internal/feature/series/adapters"
	"chart_backend/internal/feature/series/usecase"
	"chart_backend/internal/feature/timeaxis/domain/timebucket"
	"chart_backend/internal/platform/cache"
	healthhandler "chart_backend/internal/platform/http/handler"
	redisplatform "chart_backend/internal/platform/redis"
)

// NewPointRepository creates a PointRepository implementation.
// If Redis is available, reads go through the Redis cache.
// Otherwise, the GORM repository is used directly.
func NewPointRepository(rdb *redis.Client, db *gorm.DB, cfg redisplatform.Config, now time.Time) usecase.PointRepository {
	base := seriesadapters.NewPointRepository(db)
	if rdb == nil {
		return base
	}
	return cache.NewCachingPointRepository(rdb, CacheTTL(cfg, now), base, cfg.Namespace)
}

// CacheTTL returns cfg.TTL, or the time until the next refresh hour when one is configured.
func CacheTTL(cfg redisplatform.Config, now time.Time) time.Duration {
	if cfg.RefreshHour < 0 {
		return cfg.TTL
	}
	return cache.TimeUntilNext(cfg.RefreshHour, timebucket.ResolveTimezone(cfg.RefreshTimezone), now)
}

// NewHealthChecks returns the readiness checks for the database and, when configured, Redis.
func NewHealthChecks(db *gorm.DB, rdb *redis.Client) map[string]healthhandler.Check {
	checks := map[string]healthhandler.Check{
		"db": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	return checks
}

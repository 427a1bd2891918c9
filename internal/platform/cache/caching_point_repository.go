// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"chart_backend/internal/feature/series/domain/entity"
	"chart_backend/internal/feature/series/usecase"
)

var _ usecase.PointRepository = (*CachingPointRepository)(nil)

// CachingPointRepository decorates a PointRepository with Redis caching.
// Reads are cached per series and limit; writes drop every cached read of the
// touched series.
type CachingPointRepository struct {
	inner     usecase.PointRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingPointRepository decorates a PointRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "points".
// A nil rdb turns the decorator into a pass-through.
func NewCachingPointRepository(rdb *redis.Client, ttl time.Duration, inner usecase.PointRepository, namespace string) *CachingPointRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "points"
	}
	return &CachingPointRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// UpsertPoints writes points and invalidates cached reads of the affected series.
func (c *CachingPointRepository) UpsertPoints(ctx context.Context, points []entity.Point) error {
	if err := c.inner.UpsertPoints(ctx, points); err != nil {
		return err
	}
	if c.rdb == nil || len(points) == 0 {
		return nil
	}

	seen := map[string]struct{}{}
	for _, p := range points {
		prefix := c.cacheKeyPrefix(p.SeriesKey)
		if _, ok := seen[prefix]; ok {
			continue
		}
		seen[prefix] = struct{}{}
		// best effort: a stale entry expires with the TTL anyway
		if err := c.deleteByPattern(ctx, prefix+"*"); err != nil {
			slog.Warn("point cache invalidation failed", "series", p.SeriesKey, "error", err)
		}
	}
	return nil
}

// FindPoints returns the latest points of a series, checking the cache first.
func (c *CachingPointRepository) FindPoints(ctx context.Context, key string, limit int) ([]entity.Point, error) {
	if c.rdb == nil {
		return c.inner.FindPoints(ctx, key, limit)
	}

	cacheKey := c.cacheKey(key, limit)

	// 1) キャッシュを確認
	if b, err := c.rdb.Get(ctx, cacheKey).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Point
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// 壊れたキャッシュは削除
		_ = c.rdb.Del(ctx, cacheKey).Err()
	}

	// 2) DBへフォールバック
	out, err := c.inner.FindPoints(ctx, key, limit)
	if err != nil {
		return nil, err
	}

	// 3) キャッシュへ保存（ベストエフォート）
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, cacheKey, b, c.ttl).Err()
	}

	return out, nil
}

func (c *CachingPointRepository) cacheKey(seriesKey string, limit int) string {
	return fmt.Sprintf("%s:%s:%d", c.namespace, safe(seriesKey), limit)
}

func (c *CachingPointRepository) cacheKeyPrefix(seriesKey string) string {
	return fmt.Sprintf("%s:%s:", c.namespace, safe(seriesKey))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingPointRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe percent-encodes every byte outside [A-Za-z0-9._-], so distinct series
// keys never share a cache key and no glob metacharacter reaches a SCAN pattern.
func safe(s string) string {
	const hexDigits = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9', c == '.', c == '_', c == '-':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0x0F])
		}
	}
	return b.String()
}

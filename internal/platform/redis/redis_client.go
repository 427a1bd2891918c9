// Package redis creates the go-redis client used for point caching.
package redis

import (
	"context"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection and cache settings.
type Config struct {
	Host      string        `yaml:"host"` // empty disables caching
	Port      string        `yaml:"port"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	TTL       time.Duration `yaml:"ttl"`
	Namespace string        `yaml:"namespace"`
	// RefreshHour, when in 0-23, expires cached points at that hour in RefreshTimezone
	// instead of after TTL.
	RefreshHour     int    `yaml:"refresh_hour"`
	RefreshTimezone string `yaml:"refresh_timezone"`
}

// Enabled reports whether a Redis host is configured.
func (c Config) Enabled() bool {
	return c.Host != ""
}

// Addr returns host:port, defaulting the port to 6379.
func (c Config) Addr() string {
	port := c.Port
	if port == "" {
		port = "6379"
	}
	return net.JoinHostPort(c.Host, port)
}

// NewRedisClient connects to Redis and verifies the connection with PING.
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	addr := cfg.Addr()

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 接続確認
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", addr)
	return rdb, nil
}

// OverrideFromEnv replaces fields of cfg with the matching environment variables that are set.
func OverrideFromEnv(cfg *Config) {
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DB = n
		}
	}
	if v := os.Getenv("REDIS_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TTL = d
		}
	}
	if v := os.Getenv("REDIS_NAMESPACE"); v != "" {
		cfg.Namespace = v
	}
	if v := os.Getenv("REDIS_REFRESH_HOUR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RefreshHour = n
		}
	}
	if v := os.Getenv("REDIS_REFRESH_TIMEZONE"); v != "" {
		cfg.RefreshTimezone = v
	}
}

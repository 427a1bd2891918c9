// Package config loads application settings: defaults, then an optional YAML
// file, then environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	seriesusecase "chart_backend/internal/feature/series/usecase"
	"chart_backend/internal/feature/timeaxis/domain/timebucket"
	"chart_backend/internal/platform/db"
	"chart_backend/internal/platform/externalapi/remotesource"
	httpplatform "chart_backend/internal/platform/http"
	"chart_backend/internal/platform/logging"
	redisplatform "chart_backend/internal/platform/redis"
)

// EnvKeyConfigFile names the YAML file to load when no path is passed explicitly.
const EnvKeyConfigFile = "CONFIG_FILE"

// Config is the full application configuration.
type Config struct {
	Server   httpplatform.ServerConfig `yaml:"server"`
	Database db.Config                 `yaml:"database"`
	Redis    redisplatform.Config      `yaml:"redis"`
	JWT      JWTConfig                 `yaml:"jwt"`
	Axis     AxisConfig                `yaml:"axis"`
	Import   remotesource.Config       `yaml:"import"`
	Log      logging.Config            `yaml:"log"`
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// AxisConfig tunes axis layout.
type AxisConfig struct {
	PixelsPerCharacter int `yaml:"pixels_per_character"`
	TickBufferPixels   int `yaml:"tick_buffer_pixels"`
	PointLimit         int `yaml:"point_limit"` // points read per series
}

// LabelMetrics converts the axis settings for the bucketer.
func (a AxisConfig) LabelMetrics() timebucket.LabelMetrics {
	return timebucket.LabelMetrics{
		PixelsPerCharacter: a.PixelsPerCharacter,
		TickBufferPixels:   a.TickBufferPixels,
	}
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: httpplatform.ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: db.Config{
			Driver:         db.DriverPostgres,
			Host:           "localhost",
			Port:           "5432",
			SSLMode:        "disable",
			ConnectTimeout: 60 * time.Second,
		},
		Redis: redisplatform.Config{
			TTL:             5 * time.Minute,
			Namespace:       "points",
			RefreshHour:     -1,
			RefreshTimezone: timebucket.DefaultTimezone,
		},
		JWT: JWTConfig{TokenTTL: 24 * time.Hour},
		Axis: AxisConfig{
			PixelsPerCharacter: timebucket.DefaultLabelMetrics.PixelsPerCharacter,
			TickBufferPixels:   timebucket.DefaultLabelMetrics.TickBufferPixels,
			PointLimit:         seriesusecase.DefaultPointLimit,
		},
		Import: remotesource.Config{
			Timeout:           10 * time.Second,
			OutputSize:        seriesusecase.DefaultImportOutputSize,
			RequestsPerMinute: 8,
		},
		Log: logging.Config{Level: "info", Format: "json"},
	}
}

// Load builds the configuration. An empty path falls back to $CONFIG_FILE;
// when neither is set only defaults and the environment are used.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvKeyConfigFile)
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := decode(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	overrideFromEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode applies YAML on top of cfg. Unknown keys are rejected.
func decode(b []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("database.driver: unsupported %q", c.Database.Driver))
	}
	if c.Redis.RefreshHour < -1 || c.Redis.RefreshHour > 23 {
		errs = append(errs, fmt.Errorf("redis.refresh_hour: %d out of range -1..23", c.Redis.RefreshHour))
	}
	if c.Axis.PointLimit < 0 || c.Axis.PointLimit > seriesusecase.MaxPointLimit {
		errs = append(errs, fmt.Errorf("axis.point_limit: %d out of range 0..%d", c.Axis.PointLimit, seriesusecase.MaxPointLimit))
	}
	if c.Import.OutputSize < 0 || c.Import.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("import: output_size and requests_per_minute must not be negative"))
	}
	if c.JWT.TokenTTL <= 0 {
		errs = append(errs, errors.New("jwt.token_ttl: must be positive"))
	}
	return errors.Join(errs...)
}

func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	} else if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Addr = ":" + v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}

	db.OverrideFromEnv(&cfg.Database)
	redisplatform.OverrideFromEnv(&cfg.Redis)

	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	setDuration(&cfg.JWT.TokenTTL, "JWT_TOKEN_TTL")

	setInt(&cfg.Axis.PixelsPerCharacter, "AXIS_PIXELS_PER_CHARACTER")
	setInt(&cfg.Axis.TickBufferPixels, "AXIS_TICK_BUFFER_PIXELS")
	setInt(&cfg.Axis.PointLimit, "AXIS_POINT_LIMIT")

	remotesource.OverrideFromEnv(&cfg.Import)

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Package db opens the GORM connection used by the series store.
package db

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	seriesadapters "chart_backend/internal/feature/series/adapters"
	seriesentity "chart_backend/internal/feature/series/domain/entity"
)

// Supported values of Config.Driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// retryInterval is the wait between connection attempts.
var retryInterval = 3 * time.Second

// Config holds database connection settings.
type Config struct {
	Driver         string        `yaml:"driver"` // postgres (default) or sqlite
	User           string        `yaml:"user"`
	Password       string        `yaml:"password"`
	Name           string        `yaml:"name"`
	Host           string        `yaml:"host"`
	Port           string        `yaml:"port"`
	SSLMode        string        `yaml:"sslmode"`
	InstanceName   string        `yaml:"instance_connection_name"` // Cloud SQL; overrides Host/Port
	SQLitePath     string        `yaml:"sqlite_path"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	RunMigrations  bool          `yaml:"run_migrations"`
}

// Opener opens a GORM connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN constructs a postgres DSN from cfg.
// When InstanceName is set the Cloud SQL unix socket directory is used as host.
func BuildDSN(cfg Config) string {
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	if cfg.InstanceName != "" {
		return fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.InstanceName, cfg.User, cfg.Password, cfg.Name)
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslmode)
}

// ConnectWithRetry calls opener until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %v: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "retry_in", retryInterval)
		time.Sleep(retryInterval)
	}
}

// OpenDB opens the database described by cfg and runs migrations when enabled.
func OpenDB(cfg Config) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Driver {
	case DriverSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = "chart.db"
		}
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	case DriverPostgres, "":
		timeout := cfg.ConnectTimeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		db, err = ConnectWithRetry(BuildDSN(cfg), timeout, func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		})
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Migrate creates or updates the series store tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&seriesentity.Series{},
		&seriesadapters.PointModel{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// OverrideFromEnv replaces fields of cfg with the matching environment variables that are set.
func OverrideFromEnv(cfg *Config) {
	setString(&cfg.Driver, "DB_DRIVER")
	setString(&cfg.User, "DB_USER")
	setString(&cfg.Password, "DB_PASSWORD")
	setString(&cfg.Name, "DB_NAME")
	setString(&cfg.Host, "DB_HOST")
	setString(&cfg.Port, "DB_PORT")
	setString(&cfg.SSLMode, "DB_SSLMODE")
	setString(&cfg.InstanceName, "INSTANCE_CONNECTION_NAME")
	setString(&cfg.SQLitePath, "DB_SQLITE_PATH")
	if v := os.Getenv("DB_CONNECT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ConnectTimeout = d
		}
	}
	if v := os.Getenv("RUN_MIGRATIONS"); v != "" {
		cfg.RunMigrations = v == "true"
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

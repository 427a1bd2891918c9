package db

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	seriesadapters "chart_backend/internal/feature/series/adapters"
	seriesentity "chart_backend/internal/feature/series/domain/entity"
)

// TestBuildDSN_TCP はTCP接続用のDSN文字列が正しく生成されることを検証します。
func TestBuildDSN_TCP(t *testing.T) {
	t.Parallel()

	cfg := Config{
		User:     "testuser",
		Password: "testpass",
		Name:     "testdb",
		Host:     "localhost",
		Port:     "5432",
	}

	dsn := BuildDSN(cfg)

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable TimeZone=UTC"
	if dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}

func TestBuildDSN_SSLMode(t *testing.T) {
	t.Parallel()

	cfg := Config{User: "u", Password: "p", Name: "d", Host: "db", Port: "5432", SSLMode: "require"}

	expected := "host=db port=5432 user=u password=p dbname=d sslmode=require TimeZone=UTC"
	if dsn := BuildDSN(cfg); dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}

// TestBuildDSN_CloudSQL はCloud SQL Unixソケット接続用のDSN文字列が正しく生成されることを検証します。
func TestBuildDSN_CloudSQL(t *testing.T) {
	t.Parallel()

	cfg := Config{
		User:         "testuser",
		Password:     "testpass",
		Name:         "testdb",
		InstanceName: "project:region:instance",
	}

	dsn := BuildDSN(cfg)

	expected := "host=/cloudsql/project:region:instance user=testuser password=testpass dbname=testdb sslmode=disable TimeZone=UTC"
	if dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}

// TestBuildDSN_CloudSQLTakesPrecedence はInstanceNameとHost/Portが両方設定されている場合にInstanceNameが優先されることを検証します。
func TestBuildDSN_CloudSQLTakesPrecedence(t *testing.T) {
	t.Parallel()

	cfg := Config{
		User:         "testuser",
		Password:     "testpass",
		Name:         "testdb",
		Host:         "localhost",
		Port:         "5432",
		InstanceName: "project:region:instance",
	}

	dsn := BuildDSN(cfg)

	expected := "host=/cloudsql/project:region:instance user=testuser password=testpass dbname=testdb sslmode=disable TimeZone=UTC"
	if dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}

// TestConnectWithRetry_SuccessOnFirstTry は初回接続成功時にリトライせずDBを返すことを検証します。
func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	opener := func(dsn string) (*gorm.DB, error) {
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
}

// TestConnectWithRetry_RetriesOnFailure は接続失敗時にリトライして最終的に成功することを検証します。
func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	// Not parallel: shortens the package-level retry interval
	orig := retryInterval
	retryInterval = 10 * time.Millisecond
	t.Cleanup(func() { retryInterval = orig })

	mockDB := &gorm.DB{}
	attemptCount := 0

	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		if attemptCount < 3 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
	if attemptCount != 3 {
		t.Errorf("expected 3 attempts, got %d", attemptCount)
	}
}

// TestConnectWithRetry_TimeoutAfterRetries はタイムアウト後にエラーが返されることを検証します。
func TestConnectWithRetry_TimeoutAfterRetries(t *testing.T) {
	t.Parallel()

	attemptCount := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		return nil, errors.New("connection refused")
	}

	_, err := ConnectWithRetry("test-dsn", 100*time.Millisecond, opener)

	if err == nil {
		t.Fatal("expected error after timeout, got nil")
	}
	if attemptCount == 0 {
		t.Error("expected at least one connection attempt")
	}
}

// TestOpenDB_SQLiteMigrates はsqliteドライバで接続しマイグレーションが実行されることを検証します。
func TestOpenDB_SQLiteMigrates(t *testing.T) {
	t.Parallel()

	db, err := OpenDB(Config{
		Driver:        DriverSQLite,
		SQLitePath:    "file:opendb_migrate?mode=memory&cache=shared",
		RunMigrations: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if !db.Migrator().HasTable(&seriesentity.Series{}) {
		t.Error("expected series table to exist")
	}
	if !db.Migrator().HasTable(&seriesadapters.PointModel{}) {
		t.Error("expected points table to exist")
	}
}

func TestOpenDB_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	if _, err := OpenDB(Config{Driver: "oracle"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

// TestOverrideFromEnv は環境変数からデータベース設定が正しく上書きされることを検証します。
func TestOverrideFromEnv(t *testing.T) {
	// Note: Not running in parallel since we're modifying environment variables
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_USER", "envuser")
	t.Setenv("DB_PASSWORD", "envpass")
	t.Setenv("DB_NAME", "envdb")
	t.Setenv("DB_HOST", "envhost")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_CONNECT_TIMEOUT", "15s")
	t.Setenv("RUN_MIGRATIONS", "true")
	t.Setenv("INSTANCE_CONNECTION_NAME", "")

	cfg := Config{Driver: DriverSQLite, SSLMode: "require", InstanceName: "from-file"}
	OverrideFromEnv(&cfg)

	if cfg.Driver != "postgres" {
		t.Errorf("expected Driver 'postgres', got %q", cfg.Driver)
	}
	if cfg.User != "envuser" {
		t.Errorf("expected User 'envuser', got %q", cfg.User)
	}
	if cfg.Password != "envpass" {
		t.Errorf("expected Password 'envpass', got %q", cfg.Password)
	}
	if cfg.Name != "envdb" {
		t.Errorf("expected Name 'envdb', got %q", cfg.Name)
	}
	if cfg.Host != "envhost" {
		t.Errorf("expected Host 'envhost', got %q", cfg.Host)
	}
	if cfg.Port != "5433" {
		t.Errorf("expected Port '5433', got %q", cfg.Port)
	}
	if cfg.ConnectTimeout != 15*time.Second {
		t.Errorf("expected ConnectTimeout 15s, got %v", cfg.ConnectTimeout)
	}
	if !cfg.RunMigrations {
		t.Error("expected RunMigrations to be true")
	}
	// unset variables keep the file value
	if cfg.SSLMode != "require" {
		t.Errorf("expected SSLMode 'require', got %q", cfg.SSLMode)
	}
	if cfg.InstanceName != "from-file" {
		t.Errorf("expected InstanceName 'from-file', got %q", cfg.InstanceName)
	}
}

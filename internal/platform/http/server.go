// Package http はHTTPサーバーの共通設定を提供します。
package http

import (
	"net/http"
	"time"
)

// ServerConfig holds listener address and timeouts.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
}

// NewServer はタイムアウトを明示したhttp.Serverを作成します。
//
// 注意:
//   - http.Server のゼロ値にはタイムアウトがないため、常にこの関数を使うこと
//   - 0以下のタイムアウトにはデフォルト値（読み込み10秒、書き込み30秒、アイドル120秒）を使う
func NewServer(cfg ServerConfig, h http.Handler) *http.Server {
	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: orDefault(cfg.ReadTimeout, 10*time.Second),
		ReadTimeout:       orDefault(cfg.ReadTimeout, 10*time.Second),
		WriteTimeout:      orDefault(cfg.WriteTimeout, 30*time.Second),
		IdleTimeout:       orDefault(cfg.IdleTimeout, 120*time.Second),
	}
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

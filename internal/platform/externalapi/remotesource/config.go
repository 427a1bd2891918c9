// Package remotesource provides a client for an upstream HTTP time series API
// that series points can be imported from.
package remotesource

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration for the upstream API client.
type Config struct {
	APIKey            string        `yaml:"api_key"`             // sent as the apikey query parameter
	BaseURL           string        `yaml:"base_url"`            // e.g. "https://metrics.example.com/api"
	Timeout           time.Duration `yaml:"timeout"`             // HTTP request timeout
	OutputSize        int           `yaml:"output_size"`         // points requested per series
	RequestsPerMinute int           `yaml:"requests_per_minute"` // 0 disables rate limiting
}

// Enabled reports whether an upstream is configured.
func (c Config) Enabled() bool {
	return c.BaseURL != ""
}

// OverrideFromEnv applies IMPORT_* environment variables on top of cfg.
func OverrideFromEnv(cfg *Config) {
	if v := os.Getenv("IMPORT_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("IMPORT_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("IMPORT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv("IMPORT_OUTPUT_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.OutputSize = n
		}
	}
	if v := os.Getenv("IMPORT_REQUESTS_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RequestsPerMinute = n
		}
	}
}

package remotesource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSource(t *testing.T) {
	t.Parallel()

	cfg := Config{APIKey: "test-key", BaseURL: "https://api.test.com", Timeout: 10 * time.Second}
	s := NewSource(cfg, nil)

	require.NotNil(t, s)
	assert.Equal(t, "test-key", s.cfg.APIKey)
	assert.Equal(t, 10*time.Second, s.client.Timeout)
}

func TestSource_FetchPoints_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/series/cpu%20load/points", r.URL.EscapedPath())
		assert.Equal(t, "100", r.URL.Query().Get("outputsize"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"key": "cpu load",
			"values": [
				{"datetime": "2025-01-15", "value": "1.5"},
				{"datetime": "2025-01-15 09:30:00", "value": "2"},
				{"datetime": 1736935200000, "value": "-3.25"}
			]
		}`))
	}))
	defer server.Close()

	s := NewSource(Config{APIKey: "test-key", BaseURL: server.URL}, server.Client())
	points, err := s.FetchPoints(context.Background(), "cpu load", 100)
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.True(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC).Equal(points[0].Time))
	assert.True(t, time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC).Equal(points[1].Time))
	assert.True(t, time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC).Equal(points[2].Time))
	assert.Equal(t, 1.5, points[0].Value)
	assert.Equal(t, -3.25, points[2].Value)
	for _, p := range points {
		assert.Equal(t, "cpu load", p.SeriesKey)
	}
}

func TestSource_FetchPoints_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "http error", status: http.StatusTooManyRequests, body: `{}`, wantErr: "remotesource http 429"},
		{name: "api error", status: http.StatusOK, body: `{"status":"error","message":"unknown series"}`, wantErr: "remotesource: unknown series"},
		{name: "invalid JSON", status: http.StatusOK, body: `{"values":`, wantErr: "unexpected EOF"},
		{name: "bad datetime", status: http.StatusOK, body: `{"values":[{"datetime":"yesterday","value":"1"}]}`, wantErr: "parse time"},
		{name: "boolean datetime", status: http.StatusOK, body: `{"values":[{"datetime":true,"value":"1"}]}`, wantErr: "unsupported format"},
		{name: "bad value", status: http.StatusOK, body: `{"values":[{"datetime":"2025-01-15","value":"n/a"}]}`, wantErr: "parse value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewSource(Config{BaseURL: server.URL}, server.Client()).FetchPoints(context.Background(), "cpu", 10)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSource_FetchPoints_ContextCanceled(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"values":[]}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSource(Config{BaseURL: server.URL}, server.Client()).FetchPoints(ctx, "cpu", 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOverrideFromEnv(t *testing.T) {
	t.Setenv("IMPORT_BASE_URL", "https://up.example.com")
	t.Setenv("IMPORT_API_KEY", "k")
	t.Setenv("IMPORT_TIMEOUT", "3s")
	t.Setenv("IMPORT_OUTPUT_SIZE", "50")
	t.Setenv("IMPORT_REQUESTS_PER_MINUTE", "oops")

	cfg := Config{RequestsPerMinute: 8}
	OverrideFromEnv(&cfg)

	assert.True(t, cfg.Enabled())
	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 50, cfg.OutputSize)
	assert.Equal(t, 8, cfg.RequestsPerMinute)
}

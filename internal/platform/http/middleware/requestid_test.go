package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chart_backend/internal/platform/logging"
)

func newRouter(buf *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		// テスト用のロガーをベースにする
		base := logging.New(buf, logging.Config{Format: "json"})
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), base))
		c.Next()
	})
	r.Use(RequestID(), AccessLog())
	r.GET("/ping", func(c *gin.Context) {
		id, _ := c.Get(ContextRequestID)
		c.String(http.StatusOK, id.(string))
	})
	r.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})
	return r
}

func TestRequestID_Generated(t *testing.T) {
	var buf bytes.Buffer
	w := httptest.NewRecorder()
	newRouter(&buf).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	id := w.Header().Get(HeaderRequestID)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, w.Body.String())
}

func TestRequestID_FromHeader(t *testing.T) {
	var buf bytes.Buffer
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "client-abc")
	newRouter(&buf).ServeHTTP(w, req)

	assert.Equal(t, "client-abc", w.Header().Get(HeaderRequestID))
	assert.Equal(t, "client-abc", w.Body.String())
}

// TestRequestID_TooLong は長すぎるクライアント指定のIDが置き換えられることを検証します。
func TestRequestID_TooLong(t *testing.T) {
	var buf bytes.Buffer
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, strings.Repeat("x", maxRequestIDLength+1))
	newRouter(&buf).ServeHTTP(w, req)

	_, err := uuid.Parse(w.Header().Get(HeaderRequestID))
	assert.NoError(t, err)
}

// TestAccessLog はアクセスログにrequest_idとステータスが含まれることを検証します。
func TestAccessLog(t *testing.T) {
	tests := []struct {
		path      string
		status    float64
		wantLevel string
	}{
		{"/ping", 200, "INFO"},
		{"/boom", 500, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var buf bytes.Buffer
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set(HeaderRequestID, "req-1")
			newRouter(&buf).ServeHTTP(w, req)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "request", entry["msg"])
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, "req-1", entry["request_id"])
			assert.Equal(t, tt.path, entry["path"])
			assert.Equal(t, tt.status, entry["status"])
		})
	}
}

package logger

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func httpLogEntry(t *testing.T, recorded *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	entries := recorded.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	return entries[0]
}

func TestGinMiddleware_LevelByStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{"success", http.StatusOK, zapcore.InfoLevel},
		{"guard violation", http.StatusBadRequest, zapcore.WarnLevel},
		{"not found", http.StatusNotFound, zapcore.WarnLevel},
		{"server error", http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.DebugLevel)
			router := gin.New()
			router.Use(GinMiddleware(zap.New(core)))
			router.POST("/api/v1/sales/orders/:id/deliver", func(c *gin.Context) {
				c.Status(tt.status)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/sales/orders/abc/deliver?dry=1", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			entry := httpLogEntry(t, recorded)
			assert.Equal(t, tt.level, entry.Level)

			fields := entry.ContextMap()
			assert.Equal(t, "/api/v1/sales/orders/abc/deliver", fields["path"])
			assert.Equal(t, "dry=1", fields["query"])
			assert.Contains(t, fields, "latency")
			assert.Contains(t, fields, "client_ip")
			assert.Equal(t, "/api/v1/sales/orders/:id/deliver", fields["route"])
			assert.Equal(t, "abc", fields["resource_id"])
		})
	}
}

func TestGinMiddleware_ProbesAtDebug(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.DebugLevel)
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/health/ready", func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, zapcore.DebugLevel, httpLogEntry(t, recorded).Level)
}

func TestGinMiddleware_MarksReplays(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.InfoLevel)
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	router.POST("/api/v1/bills", func(c *gin.Context) {
		c.Header("Idempotent-Replayed", "true")
		c.Status(http.StatusCreated)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/bills", nil))

	assert.Equal(t, true, httpLogEntry(t, recorded).ContextMap()["replayed"])
}

func TestGinMiddleware_RequestScopedLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.InfoLevel)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-123")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	router.POST("/api/v1/sales/quotes/:id/accept", func(c *gin.Context) {
		FromContext(c.Request.Context()).Info("quote accepted")
		assert.NotNil(t, GetGinLogger(c))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales/quotes/q1/accept", nil)
	req.Header.Set("Idempotency-Key", "accept-q1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	serviceLogs := recorded.FilterMessage("quote accepted").All()
	require.Len(t, serviceLogs, 1)
	fields := serviceLogs[0].ContextMap()
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "accept-q1", fields["idempotency_key"])
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.ErrorLevel)
	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("ledger exploded")
	})

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"INTERNAL_ERROR"`))
	require.NotEmpty(t, recorded.All())
	assert.Equal(t, "Panic recovered", recorded.All()[0].Message)
}

func TestRecovery_AfterWrite(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Recovery(zap.NewNop()))
	router.GET("/half", func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		panic("late failure")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/half", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestGetGinLogger_NotSet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	l := GetGinLogger(c)

	require.NotNil(t, l)
	assert.NotPanics(t, func() { l.Info("test") })
}

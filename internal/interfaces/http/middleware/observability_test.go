package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func tracedRouter(t *testing.T) (*gin.Engine, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	r := gin.New()
	r.Use(RequestID(), Tracing("supplychain-test", otelgin.WithTracerProvider(tp)), SpanAttributes())
	r.GET("/api/v1/inventory/items/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/api/v1/inventory/items", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r, recorder
}

func TestTracing(t *testing.T) {
	r, recorder := tracedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/items", nil)
	req.Header.Set(RequestIDHeader, "trace-req-1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Name(), "/api/v1/inventory/items")
	assert.Contains(t, spans[0].Attributes(), attribute.String("request_id", "trace-req-1"))
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)

	t.Run("client errors mark the span", func(t *testing.T) {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/inventory/items/abc", nil))
		spans := recorder.Ended()
		require.Len(t, spans, 2)
		assert.Equal(t, codes.Error, spans[1].Status().Code)
	})

	t.Run("health is not traced", func(t *testing.T) {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Len(t, recorder.Ended(), 2)
	})
}

func TestHTTPMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	mw, err := HTTPMetrics(mp.Meter("test"))
	require.NoError(t, err)

	r := gin.New()
	r.Use(mw)
	r.POST("/api/v1/orders", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := map[string]metricdata.Metrics{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		byName[m.Name] = m
	}

	requests, ok := byName["http.server.requests"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, requests.DataPoints, 1)
	dp := requests.DataPoints[0]
	assert.Equal(t, int64(2), dp.Value)
	route, _ := dp.Attributes.Value("http.route")
	assert.Equal(t, "/api/v1/orders", route.AsString())
	status, _ := dp.Attributes.Value("http.status_code")
	assert.Equal(t, "201", status.AsString())

	active, ok := byName["http.server.active_requests"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, active.DataPoints, 1)
	assert.Zero(t, active.DataPoints[0].Value)

	_, ok = byName["http.server.duration"].Data.(metricdata.Histogram[float64])
	assert.True(t, ok)
}

func TestProfilingLabels(t *testing.T) {
	r := gin.New()
	r.Use(ProfilingLabels())
	r.GET("/api/v1/quotes/:id", func(c *gin.Context) {
		assert.NotNil(t, c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/quotes/1", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// unobserved paths produce no spans, metrics or profile labels
var unobservedPrefixes = []string{"/health", "/swagger"}

func observed(r *http.Request) bool {
	for _, p := range unobservedPrefixes {
		if strings.HasPrefix(r.URL.Path, p) {
			return false
		}
	}
	return true
}

// Tracing starts a server span per request through otelgin. Health and
// docs requests are skipped.
func Tracing(serviceName string, opts ...otelgin.Option) gin.HandlerFunc {
	opts = append([]otelgin.Option{otelgin.WithFilter(observed)}, opts...)
	return otelgin.Middleware(serviceName, opts...)
}

// SpanAttributes tags the active span with the request ID and marks client
// errors as failed too. It must run inside Tracing.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		if id := GetRequestID(c); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}
		if c.GetHeader(IdempotencyKeyHeader) != "" {
			span.SetAttributes(attribute.Bool("idempotent", true))
		}
		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}

// HTTPMetrics records request count, latency and in-flight requests on meter
func HTTPMetrics(meter metric.Meter) (gin.HandlerFunc, error) {
	requests, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Handled HTTP requests"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10))
	if err != nil {
		return nil, err
	}
	active, err := meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("HTTP requests in flight"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}

	return func(c *gin.Context) {
		if !observed(c.Request) {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		method := attribute.String("http.method", c.Request.Method)
		active.Add(ctx, 1, metric.WithAttributes(method))
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		attrs := metric.WithAttributes(
			method,
			attribute.String("http.route", route),
			attribute.String("http.status_code", strconv.Itoa(c.Writer.Status())),
		)
		requests.Add(ctx, 1, attrs)
		duration.Record(ctx, time.Since(start).Seconds(), attrs)
		active.Add(ctx, -1, metric.WithAttributes(method))
	}, nil
}

// ProfilingLabels tags CPU samples taken while serving a request with its
// route and method so profiles can be sliced per endpoint
func ProfilingLabels() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if !observed(c.Request) || route == "" {
			c.Next()
			return
		}
		labels := pyroscope.Labels("route", route, "method", c.Request.Method)
		pyroscope.TagWrapper(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

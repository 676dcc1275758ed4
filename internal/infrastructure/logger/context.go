package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	LoggerKey         contextKey = "logger"
	RequestIDKey      contextKey = "request_id"
	IdempotencyKeyKey contextKey = "idempotency_key"
)

// WithContext attaches a logger to ctx
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, l)
}

// FromContext returns the request logger stored in ctx, or a no-op logger.
// When ctx carries a sampled span the logger also gets trace_id and span_id,
// so service logs can be joined with the trace of the request.
func FromContext(ctx context.Context) *zap.Logger {
	l, ok := ctx.Value(LoggerKey).(*zap.Logger)
	if !ok {
		return zap.NewNop()
	}
	return withTrace(ctx, l)
}

// withRequest adds the request ID and idempotency key recorded in ctx. GORM
// callbacks only see the request context, not the gin request logger.
func withRequest(ctx context.Context, l *zap.Logger) *zap.Logger {
	if id := GetRequestID(ctx); id != "" {
		l = l.With(zap.String("request_id", id))
	}
	if key := GetIdempotencyKey(ctx); key != "" {
		l = l.With(zap.String("idempotency_key", key))
	}
	return l
}

func withTrace(ctx context.Context, l *zap.Logger) *zap.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return l.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}

// WithRequestIDValue records the request ID in ctx
func WithRequestIDValue(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithIdempotencyKey records the Idempotency-Key of a replayable request
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, IdempotencyKeyKey, key)
}

func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func GetIdempotencyKey(ctx context.Context) string {
	key, _ := ctx.Value(IdempotencyKeyKey).(string)
	return key
}

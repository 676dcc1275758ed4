package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext(t *testing.T) {
	base := zap.NewExample()

	assert.Same(t, base, FromContext(WithContext(context.Background(), base)))
	assert.NotNil(t, FromContext(context.Background()))

	wrong := context.WithValue(context.Background(), LoggerKey, "not a logger")
	assert.NotPanics(t, func() { FromContext(wrong).Info("nop") })
}

func TestFromContext_TraceFields(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "receive")
	defer span.End()
	ctx = WithContext(ctx, zap.New(core))

	FromContext(ctx).Info("stock received")

	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
}

func TestFromContext_NoopSpan(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx, span := noop.NewTracerProvider().Tracer("test").Start(context.Background(), "span")
	defer span.End()

	FromContext(WithContext(ctx, zap.New(core))).Info("untraced")

	assert.NotContains(t, recorded.All()[0].ContextMap(), "trace_id")
}

func TestRequestAndIdempotencyKeys(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetIdempotencyKey(ctx))

	ctx = WithRequestIDValue(ctx, "first-id")
	ctx = WithRequestIDValue(ctx, "second-id")
	ctx = WithIdempotencyKey(ctx, "order-42")

	assert.Equal(t, "second-id", GetRequestID(ctx))
	assert.Equal(t, "order-42", GetIdempotencyKey(ctx))
}

func TestWithRequest(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	ctx := WithRequestIDValue(context.Background(), "req-123")
	ctx = WithIdempotencyKey(ctx, "key-7")

	withRequest(ctx, zap.New(core)).Info("stock reserved", zap.String("item_id", "abc"))
	withRequest(context.Background(), zap.New(core)).Info("background")

	entries := recorded.All()
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "key-7", fields["idempotency_key"])
	assert.Equal(t, "abc", fields["item_id"])
	assert.NotContains(t, entries[1].ContextMap(), "request_id")
}

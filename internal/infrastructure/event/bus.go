package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/erp/supplychain/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// ErrBusStopped is returned by Publish once Stop has been called
var ErrBusStopped = errors.New("event bus stopped")

// InMemoryEventBus dispatches committed domain events to subscribers in the
// publishing goroutine. A failing or panicking handler is logged and does not
// prevent the remaining handlers from running.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	tracer   trace.Tracer
	stopped  atomic.Bool
	inflight sync.WaitGroup
}

// BusOption customises an InMemoryEventBus
type BusOption func(*InMemoryEventBus)

// WithTracer records a span per dispatched event
func WithTracer(tracer trace.Tracer) BusOption {
	return func(b *InMemoryEventBus) { b.tracer = tracer }
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger, opts ...BusOption) *InMemoryEventBus {
	b := &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
		tracer:   noop.NewTracerProvider().Tracer(""),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish hands each event to its handlers in order. The returned error joins
// every handler failure; callers that have already committed only log it.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if b.stopped.Load() {
		b.logger.Warn("dropping events published after stop", zap.Int("count", len(events)))
		return ErrBusStopped
	}
	b.inflight.Add(1)
	defer b.inflight.Done()

	var errs []error
	for _, e := range events {
		errs = append(errs, b.publishOne(ctx, e))
	}
	return errors.Join(errs...)
}

func (b *InMemoryEventBus) publishOne(ctx context.Context, e shared.DomainEvent) error {
	ctx, span := b.tracer.Start(ctx, "event "+e.EventType(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("event.type", e.EventType()),
			attribute.String("event.id", e.EventID().String()),
			attribute.String("aggregate.type", e.AggregateType()),
			attribute.String("aggregate.id", e.AggregateID().String()),
		),
	)
	defer span.End()

	var errs []error
	for _, h := range b.registry.GetHandlers(e.EventType()) {
		if err := b.dispatch(ctx, h, e); err != nil {
			b.logger.Error("event handler failed",
				zap.String("event_type", e.EventType()),
				zap.String("event_id", e.EventID().String()),
				zap.String("handler", fmt.Sprintf("%T", h)),
				zap.Error(err),
			)
			span.RecordError(err)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		span.SetStatus(codes.Error, "handler failed")
	}
	return errors.Join(errs...)
}

// dispatch converts a handler panic into an error
func (b *InMemoryEventBus) dispatch(ctx context.Context, h shared.EventHandler, e shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h.Handle(ctx, e)
}

// Subscribe registers handler for eventTypes, or for the types the handler
// declares when none are given
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed",
		zap.String("handler", fmt.Sprintf("%T", handler)),
		zap.Strings("event_types", eventTypes),
	)
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start marks the bus ready
func (b *InMemoryEventBus) Start(context.Context) error {
	b.stopped.Store(false)
	b.logger.Info("event bus started", zap.Int("handlers", b.registry.Len()))
	return nil
}

// Stop rejects new publishes and waits for in-flight ones until ctx is done
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.stopped.Store(true)

	done := make(chan struct{})
	go func() {
		b.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event bus stop: %w", ctx.Err())
	}
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)

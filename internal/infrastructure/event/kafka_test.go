package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/erp/supplychain/internal/domain/trade"
	"github.com/erp/supplychain/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockWriter) Close() error {
	return m.Called().Error(0)
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestKafkaForwarder_Handle(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "POST /bills/pay")
	defer span.End()

	billID := uuid.New()
	e := &trade.BillPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(trade.EventTypeBillPaid, "Bill", billID),
		Amount:          decimal.RequireFromString("125.00"),
	}

	w := &mockWriter{}
	var sent kafka.Message
	w.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			_, hasDeadline := args.Get(0).(context.Context).Deadline()
			assert.True(t, hasDeadline)
			sent = args.Get(1).([]kafka.Message)[0]
		}).
		Return(nil).Once()

	f := NewKafkaForwarder(w, time.Second, zap.NewNop())
	assert.Nil(t, f.EventTypes())
	require.NoError(t, f.Handle(ctx, e))
	w.AssertExpectations(t)

	assert.Equal(t, billID.String(), string(sent.Key))
	assert.Equal(t, trade.EventTypeBillPaid, header(sent, "event_type"))
	assert.Equal(t, "Bill", header(sent, "aggregate_type"))
	assert.Contains(t, header(sent, "traceparent"), span.SpanContext().TraceID().String())

	env, err := Decode(sent.Value)
	require.NoError(t, err)
	assert.Equal(t, e.EventID(), env.EventID)
	assert.Equal(t, billID, env.AggregateID)
	assert.Contains(t, string(env.Payload), `"125"`)
}

func TestKafkaForwarder_WriteError(t *testing.T) {
	w := &mockWriter{}
	w.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("leader not available"))
	w.On("Close").Return(nil)

	f := NewKafkaForwarder(w, 0, zap.NewNop())
	err := f.Handle(context.Background(), billPaid())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forward BillPaid to kafka")
	assert.NoError(t, f.Close())
}

func TestKafkaForwarder_DetachedFromCancelledRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := &mockWriter{}
	w.On("WriteMessages", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil }), mock.Anything).
		Return(nil).Once()

	require.NoError(t, NewKafkaForwarder(w, time.Second, zap.NewNop()).Handle(ctx, billPaid()))
	w.AssertExpectations(t)
}

func TestNewKafkaWriter(t *testing.T) {
	w := NewKafkaWriter(config.KafkaConfig{
		Brokers:      []string{"kafka-1:9092", "kafka-2:9092"},
		Topic:        "supplychain.events",
		BatchTimeout: 10 * time.Millisecond,
	})
	assert.Equal(t, "supplychain.events", w.Topic)
	assert.Equal(t, "kafka-1:9092,kafka-2:9092", w.Addr.String())
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
}

func TestDecode_RejectsUntypedEnvelope(t *testing.T) {
	_, err := Decode([]byte(`{"event_id":"` + uuid.NewString() + `"}`))
	assert.Error(t, err)
	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}

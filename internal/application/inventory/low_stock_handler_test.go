package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/supplychain/internal/domain/inventory"
	"github.com/erp/supplychain/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingNotifier struct {
	alerts []StockAlert
	err    error
}

func (n *recordingNotifier) SendAlert(_ context.Context, alert StockAlert) error {
	n.alerts = append(n.alerts, alert)
	return n.err
}

func belowSafetyStockEvent(qty, safetyStock int) *inventory.StockBelowSafetyStockEvent {
	m := inventory.NewStockMovement(uuid.New(), inventory.MovementReservation, -5, qty, safetyStock)
	return inventory.NewStockBelowSafetyStockEvent(m)
}

func TestLowStockHandler_Handle(t *testing.T) {
	core, recorded := observer.New(zapcore.WarnLevel)
	notifier := &recordingNotifier{}
	h := NewLowStockHandler(zap.New(core)).WithNotifier(notifier)

	assert.Equal(t, []string{inventory.EventTypeStockBelowSafetyStock}, h.EventTypes())

	event := belowSafetyStockEvent(3, 10)
	require.NoError(t, h.Handle(context.Background(), event))
	require.NoError(t, h.Handle(context.Background(), belowSafetyStockEvent(0, 4)))

	require.Len(t, notifier.alerts, 2)
	assert.Equal(t, event.ItemID.String(), notifier.alerts[0].ItemID)
	assert.Equal(t, 17, notifier.alerts[0].SuggestedReorderQty)
	assert.Equal(t, "low_stock", notifier.alerts[0].AlertType)
	assert.Equal(t, "out_of_stock", notifier.alerts[1].AlertType)
	assert.Len(t, recorded.FilterMessage("stock below safety stock").All(), 2)
}

func TestLowStockHandler_RejectsOtherEvents(t *testing.T) {
	h := NewLowStockHandler(zap.NewNop())
	assert.Error(t, h.Handle(context.Background(), testutil.NewTestEvent("Other")))
}

func TestLowStockHandler_NotifierErrorIsLogged(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	h := NewLowStockHandler(zap.New(core)).WithNotifier(&recordingNotifier{err: errors.New("smtp down")})

	assert.NoError(t, h.Handle(context.Background(), belowSafetyStockEvent(1, 2)))
	assert.NotEmpty(t, recorded.All())
}

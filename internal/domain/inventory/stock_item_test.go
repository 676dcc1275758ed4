package inventory

import (
	"testing"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newItem(t *testing.T, qty, safety int) *StockItem {
	t.Helper()
	item, err := NewStockItem("Widget", qty, decimal.NewFromInt(5), safety)
	require.NoError(t, err)
	return item
}

func TestNewStockItem(t *testing.T) {
	t.Run("creates item with defaults", func(t *testing.T) {
		item := newItem(t, 100, 20)
		assert.NotEqual(t, uuid.Nil, item.ID)
		assert.Equal(t, "Widget", item.Name)
		assert.Equal(t, 100, item.Quantity)
		assert.Equal(t, 20, item.SafetyStock)
		assert.Equal(t, 1, item.Version)
	})

	tests := []struct {
		name   string
		itName string
		qty    int
		rate   decimal.Decimal
		safety int
	}{
		{"empty name", "  ", 1, decimal.NewFromInt(1), 0},
		{"negative opening qty", "A", -1, decimal.NewFromInt(1), 0},
		{"negative rate", "A", 1, decimal.NewFromInt(-1), 0},
		{"negative safety stock", "A", 1, decimal.NewFromInt(1), -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStockItem(tt.itName, tt.qty, tt.rate, tt.safety)
			require.Error(t, err)
			assert.Equal(t, shared.CodeValidation, shared.CodeOf(err))
		})
	}
}

func TestStockItem_DerivedFields(t *testing.T) {
	tests := []struct {
		name      string
		qty       int
		safety    int
		below     bool
		buffer    int
		listQty   int
		shortfall int
		urgency   float64
	}{
		{"well stocked", 100, 20, false, 80, 0, 0, 0},
		{"exactly at safety stock", 20, 20, false, 0, 0, 0, 0},
		{"below safety stock", 10, 20, true, -10, 40, 30, 0.5},
		{"empty", 0, 20, true, -20, 40, 40, 1},
		{"one third short", 2, 3, true, -1, 6, 4, 0.33},
		{"no safety stock", 0, 0, false, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := newItem(t, tt.qty, tt.safety)
			assert.Equal(t, tt.below, item.IsBelowSafetyStock())
			assert.Equal(t, tt.buffer, item.BufferRemaining())
			assert.Equal(t, tt.listQty, item.ListReorderQty())
			assert.Equal(t, tt.shortfall, item.ReorderShortfall())
			assert.InDelta(t, tt.urgency, item.UrgencyScore(), 0.0001)
		})
	}
}

func TestStockItem_UpdateDetails(t *testing.T) {
	item := newItem(t, 5, 1)

	err := item.UpdateDetails("Gadget", decimal.NewFromFloat(7.5), 3)
	require.NoError(t, err)
	assert.Equal(t, "Gadget", item.Name)
	assert.True(t, item.UnitRate.Equal(decimal.NewFromFloat(7.5)))
	assert.Equal(t, 3, item.SafetyStock)
	assert.Equal(t, 5, item.Quantity, "details update must not touch quantity")
	assert.Equal(t, 2, item.Version)

	err = item.UpdateDetails("", decimal.Zero, 0)
	require.Error(t, err)
	assert.Equal(t, "Gadget", item.Name)
}

func TestBuildLowStockAlerts(t *testing.T) {
	mild := *newItem(t, 18, 20)   // 0.10
	severe := *newItem(t, 10, 20) // 0.50
	fine := *newItem(t, 50, 20)
	empty := *newItem(t, 0, 4) // 1.00

	alerts := BuildLowStockAlerts([]StockItem{mild, fine, severe, empty})

	require.Len(t, alerts, 3)
	assert.Equal(t, empty.ID, alerts[0].Item.ID)
	assert.Equal(t, severe.ID, alerts[1].Item.ID)
	assert.Equal(t, mild.ID, alerts[2].Item.ID)

	assert.Equal(t, 30, alerts[1].SuggestedReorderQty)
	assert.InDelta(t, 0.5, alerts[1].UrgencyScore, 0.0001)
	assert.Equal(t, 8, alerts[0].SuggestedReorderQty)
}

func TestStockMovement_Events(t *testing.T) {
	itemID := uuid.New()

	t.Run("crossing below safety stock raises alert event", func(t *testing.T) {
		m := NewStockMovement(itemID, MovementAdjustmentDecrease, -90, 10, 20)
		events := m.Events()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypeStockAdjusted, events[0].EventType())
		assert.Equal(t, EventTypeStockBelowSafetyStock, events[1].EventType())
		below := events[1].(*StockBelowSafetyStockEvent)
		assert.Equal(t, 30, below.SuggestedReorderQty)
	})

	t.Run("already below does not repeat alert", func(t *testing.T) {
		m := NewStockMovement(itemID, MovementReservation, -2, 8, 20)
		assert.Len(t, m.Events(), 1)
	})

	t.Run("increase never alerts", func(t *testing.T) {
		m := NewStockMovement(itemID, MovementReceipt, 5, 15, 20)
		assert.Len(t, m.Events(), 1)
	})

	t.Run("reference is attached", func(t *testing.T) {
		ref := Reference{Type: RefPurchaseOrder, ID: uuid.New()}
		m := NewStockMovement(itemID, MovementReceipt, 5, 15, 0).WithReference(ref)
		require.NotNil(t, m.RefID)
		assert.Equal(t, ref.ID, *m.RefID)
		assert.Equal(t, RefPurchaseOrder, m.RefType)
	})
}

func TestValidateQuantity(t *testing.T) {
	assert.NoError(t, ValidateQuantity(1))
	assert.Error(t, ValidateQuantity(0))
	assert.Error(t, ValidateQuantity(-3))
	assert.Equal(t, shared.CodeInsufficientInventory, shared.CodeOf(ErrInsufficientInventory(1, 2)))
	assert.Equal(t, shared.CodeNegativeStock, shared.CodeOf(ErrNegativeStock()))
}

package inventory

import (
	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeStockItem is the aggregate type for stock events
const AggregateTypeStockItem = "StockItem"

// Event type constants
const (
	EventTypeStockItemCreated      = "StockItemCreated"
	EventTypeStockAdjusted         = "StockAdjusted"
	EventTypeStockBelowSafetyStock = "StockBelowSafetyStock"
)

// StockItemCreatedEvent is raised when a stock item is registered
type StockItemCreatedEvent struct {
	shared.BaseDomainEvent
	ItemID   uuid.UUID `json:"item_id"`
	Name     string    `json:"item_name"`
	Quantity int       `json:"item_qty"`
}

// NewStockItemCreatedEvent creates a StockItemCreatedEvent
func NewStockItemCreatedEvent(item *StockItem) *StockItemCreatedEvent {
	return &StockItemCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockItemCreated, AggregateTypeStockItem, item.ID),
		ItemID:          item.ID,
		Name:            item.Name,
		Quantity:        item.Quantity,
	}
}

// StockAdjustedEvent is raised for every ledger movement
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	ItemID        uuid.UUID    `json:"item_id"`
	MovementID    uuid.UUID    `json:"movement_id"`
	MovementType  MovementType `json:"movement_type"`
	Delta         int          `json:"delta"`
	QuantityAfter int          `json:"quantity_after"`
	RefType       string       `json:"ref_type,omitempty"`
	RefID         *uuid.UUID   `json:"ref_id,omitempty"`
}

// NewStockAdjustedEvent creates a StockAdjustedEvent from a movement
func NewStockAdjustedEvent(m *StockMovement) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeStockItem, m.StockItemID),
		ItemID:          m.StockItemID,
		MovementID:      m.ID,
		MovementType:    m.Type,
		Delta:           m.Delta,
		QuantityAfter:   m.QuantityAfter,
		RefType:         m.RefType,
		RefID:           m.RefID,
	}
}

// StockBelowSafetyStockEvent is raised when a movement drops an item under
// its safety stock
type StockBelowSafetyStockEvent struct {
	shared.BaseDomainEvent
	ItemID              uuid.UUID `json:"item_id"`
	Quantity            int       `json:"item_qty"`
	SafetyStock         int       `json:"safety_stock"`
	SuggestedReorderQty int       `json:"suggested_reorder_qty"`
}

// NewStockBelowSafetyStockEvent creates a StockBelowSafetyStockEvent
func NewStockBelowSafetyStockEvent(m *StockMovement) *StockBelowSafetyStockEvent {
	return &StockBelowSafetyStockEvent{
		BaseDomainEvent:     shared.NewBaseDomainEvent(EventTypeStockBelowSafetyStock, AggregateTypeStockItem, m.StockItemID),
		ItemID:              m.StockItemID,
		Quantity:            m.QuantityAfter,
		SafetyStock:         m.SafetyStock,
		SuggestedReorderQty: m.SafetyStock*2 - m.QuantityAfter,
	}
}

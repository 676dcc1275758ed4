package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/google/uuid"
)

// MovementType classifies a stock movement
type MovementType string

const (
	MovementAdjustmentIncrease MovementType = "adjustment_increase"
	MovementAdjustmentDecrease MovementType = "adjustment_decrease"
	MovementReceipt            MovementType = "receipt"
	MovementReservation        MovementType = "reservation"
	MovementRelease            MovementType = "release"
)

// IsValid checks if the movement type is known
func (t MovementType) IsValid() bool {
	switch t {
	case MovementAdjustmentIncrease, MovementAdjustmentDecrease, MovementReceipt,
		MovementReservation, MovementRelease:
		return true
	}
	return false
}

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// AdjustmentType is the direction of a manual adjustment
type AdjustmentType string

const (
	AdjustmentIncrease AdjustmentType = "increase"
	AdjustmentDecrease AdjustmentType = "decrease"
)

// IsValid checks if the adjustment type is known
func (t AdjustmentType) IsValid() bool {
	return t == AdjustmentIncrease || t == AdjustmentDecrease
}

// Reference names the document that caused a movement
type Reference struct {
	Type string
	ID   uuid.UUID
}

// Reference types
const (
	RefPurchaseOrder = "purchase_order"
	RefSalesOrder    = "sales_order"
)

// StockMovement is one append-only ledger row
type StockMovement struct {
	ID            uuid.UUID
	StockItemID   uuid.UUID
	Type          MovementType
	Delta         int
	QuantityAfter int
	SafetyStock   int
	RefType       string
	RefID         *uuid.UUID
	Reason        string
	Note          string
	CreatedAt     time.Time
}

// NewStockMovement builds a movement row for an applied delta
func NewStockMovement(itemID uuid.UUID, mt MovementType, delta, qtyAfter, safetyStock int) *StockMovement {
	return &StockMovement{
		ID:            uuid.New(),
		StockItemID:   itemID,
		Type:          mt,
		Delta:         delta,
		QuantityAfter: qtyAfter,
		SafetyStock:   safetyStock,
		CreatedAt:     time.Now().UTC(),
	}
}

// WithReference attaches the causing document
func (m *StockMovement) WithReference(ref Reference) *StockMovement {
	if ref.ID != uuid.Nil {
		id := ref.ID
		m.RefType = ref.Type
		m.RefID = &id
	}
	return m
}

// Events returns the domain events implied by this movement
func (m *StockMovement) Events() []shared.DomainEvent {
	events := []shared.DomainEvent{NewStockAdjustedEvent(m)}
	if m.QuantityAfter < m.SafetyStock && m.QuantityAfter-m.Delta >= m.SafetyStock {
		events = append(events, NewStockBelowSafetyStockEvent(m))
	}
	return events
}

// Ledger is the only component allowed to change StockItem.Quantity.
// Every method applies its delta with a single conditional update so that
// quantity never goes negative, and appends one StockMovement row. It runs in
// the caller's transaction.
type Ledger interface {
	// Reserve removes qty for a sales order; fails with INSUFFICIENT_INVENTORY
	Reserve(ctx context.Context, itemID uuid.UUID, qty int, ref Reference) (*StockMovement, error)
	// Release returns qty reserved by a cancelled sales order
	Release(ctx context.Context, itemID uuid.UUID, qty int, ref Reference) (*StockMovement, error)
	// Receive adds qty delivered against a purchase order
	Receive(ctx context.Context, itemID uuid.UUID, qty int, ref Reference) (*StockMovement, error)
	// Adjust applies a manual correction; fails with NEGATIVE_STOCK
	Adjust(ctx context.Context, itemID uuid.UUID, adj AdjustmentType, qty int, reason, note string) (*StockMovement, error)
}

// ValidateQuantity rejects non-positive movement quantities
func ValidateQuantity(qty int) error {
	if qty <= 0 {
		return shared.NewDomainError(shared.CodeValidation, fmt.Sprintf("Quantity must be positive, got %d", qty))
	}
	return nil
}

// ErrInsufficientInventory is returned by Reserve when on-hand is short
func ErrInsufficientInventory(available, requested int) error {
	return shared.NewDomainError(shared.CodeInsufficientInventory,
		fmt.Sprintf("Insufficient inventory: %d available, %d requested", available, requested))
}

// ErrNegativeStock is returned by Adjust when the result would be negative
func ErrNegativeStock() error {
	return shared.NewDomainError(shared.CodeNegativeStock, "Stock adjustment would result in negative inventory")
}

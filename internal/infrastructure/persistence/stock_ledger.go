package persistence

import (
	"context"
	"fmt"

	"github.com/erp/supplychain/internal/domain/inventory"
	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/erp/supplychain/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockLedger implements inventory.Ledger with conditional updates:
//
//	UPDATE stock_items SET quantity = quantity + ? WHERE id = ? AND quantity + ? >= 0
//
// A zero row count means the item is missing or short. It must run on the
// transaction of the caller so the movement row commits with the change.
type GormStockLedger struct {
	db *gorm.DB
}

// NewGormStockLedger creates a ledger bound to db (usually a transaction)
func NewGormStockLedger(db *gorm.DB) *GormStockLedger {
	return &GormStockLedger{db: db}
}

// Reserve removes qty for a sales order
func (l *GormStockLedger) Reserve(ctx context.Context, itemID uuid.UUID, qty int, ref inventory.Reference) (*inventory.StockMovement, error) {
	if err := inventory.ValidateQuantity(qty); err != nil {
		return nil, err
	}
	m, err := l.apply(ctx, itemID, inventory.MovementReservation, -qty, func(available int) error {
		return inventory.ErrInsufficientInventory(available, qty)
	})
	if err != nil {
		return nil, err
	}
	return l.record(ctx, m.WithReference(ref))
}

// Release returns qty reserved by a cancelled sales order
func (l *GormStockLedger) Release(ctx context.Context, itemID uuid.UUID, qty int, ref inventory.Reference) (*inventory.StockMovement, error) {
	if err := inventory.ValidateQuantity(qty); err != nil {
		return nil, err
	}
	m, err := l.apply(ctx, itemID, inventory.MovementRelease, qty, nil)
	if err != nil {
		return nil, err
	}
	return l.record(ctx, m.WithReference(ref))
}

// Receive adds qty delivered against a purchase order
func (l *GormStockLedger) Receive(ctx context.Context, itemID uuid.UUID, qty int, ref inventory.Reference) (*inventory.StockMovement, error) {
	if err := inventory.ValidateQuantity(qty); err != nil {
		return nil, err
	}
	m, err := l.apply(ctx, itemID, inventory.MovementReceipt, qty, nil)
	if err != nil {
		return nil, err
	}
	return l.record(ctx, m.WithReference(ref))
}

// Adjust applies a manual increase or decrease
func (l *GormStockLedger) Adjust(ctx context.Context, itemID uuid.UUID, adj inventory.AdjustmentType, qty int, reason, note string) (*inventory.StockMovement, error) {
	if !adj.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidation,
			fmt.Sprintf("Adjustment type must be increase or decrease, got %q", adj))
	}
	if err := inventory.ValidateQuantity(qty); err != nil {
		return nil, err
	}

	mt, delta := inventory.MovementAdjustmentIncrease, qty
	if adj == inventory.AdjustmentDecrease {
		mt, delta = inventory.MovementAdjustmentDecrease, -qty
	}
	m, err := l.apply(ctx, itemID, mt, delta, func(int) error {
		return inventory.ErrNegativeStock()
	})
	if err != nil {
		return nil, err
	}
	m.Reason = reason
	m.Note = note
	return l.record(ctx, m)
}

// apply runs the conditional update and reads back the resulting row.
// short builds the error returned when the delta would go below zero.
func (l *GormStockLedger) apply(ctx context.Context, itemID uuid.UUID, mt inventory.MovementType, delta int, short func(available int) error) (*inventory.StockMovement, error) {
	db := l.db.WithContext(ctx)
	result := db.Model(&models.StockItemModel{}).
		Where("id = ? AND quantity + ? >= 0", itemID, delta).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"version":    gorm.Expr("version + 1"),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("apply stock delta: %w", result.Error)
	}

	var row models.StockItemModel
	if err := db.Select("id", "quantity", "safety_stock").First(&row, "id = ?", itemID).Error; err != nil {
		if result.RowsAffected == 0 {
			return nil, shared.NewNotFoundError("Stock item")
		}
		return nil, translateError(err)
	}
	if result.RowsAffected == 0 {
		if short == nil {
			return nil, shared.NewDomainError(shared.CodeInvalidState, "Stock item could not be updated")
		}
		return nil, short(row.Quantity)
	}
	return inventory.NewStockMovement(itemID, mt, delta, row.Quantity, row.SafetyStock), nil
}

func (l *GormStockLedger) record(ctx context.Context, m *inventory.StockMovement) (*inventory.StockMovement, error) {
	if err := l.db.WithContext(ctx).Create(models.StockMovementModelFromDomain(m)).Error; err != nil {
		return nil, fmt.Errorf("record stock movement: %w", err)
	}
	return m, nil
}

// Ensure GormStockLedger implements inventory.Ledger
var _ inventory.Ledger = (*GormStockLedger)(nil)

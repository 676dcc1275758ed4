package inventory

import (
	"context"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/google/uuid"
)

// StockItemRepository persists stock items. Update never writes Quantity;
// quantity changes go through Ledger.
type StockItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockItem, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*StockItem, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]StockItem, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	FindBelowSafetyStock(ctx context.Context) ([]StockItem, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, item *StockItem) error
	Update(ctx context.Context, item *StockItem) error
}

// StockMovementRepository reads the ledger history
type StockMovementRepository interface {
	FindByStockItem(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]StockMovement, error)
	CountByStockItem(ctx context.Context, itemID uuid.UUID) (int64, error)
}

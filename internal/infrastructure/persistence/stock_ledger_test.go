package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/supplychain/internal/domain/inventory"
	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedStockItem(t *testing.T, db *gorm.DB, qty, safetyStock int) *inventory.StockItem {
	t.Helper()
	item, err := inventory.NewStockItem("Hex bolt M8", qty, decimal.RequireFromString("0.35"), safetyStock)
	require.NoError(t, err)
	require.NoError(t, NewGormStockItemRepository(db).Create(context.Background(), item))
	return item
}

func quantityOf(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()
	item, err := NewGormStockItemRepository(db).FindByID(context.Background(), id)
	require.NoError(t, err)
	return item.Quantity
}

func TestGormStockLedger_Reserve(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	item := seedStockItem(t, db, 10, 4)
	ledger := NewGormStockLedger(db)
	orderID := uuid.New()

	m, err := ledger.Reserve(ctx, item.ID, 7, inventory.Reference{Type: inventory.RefSalesOrder, ID: orderID})
	require.NoError(t, err)
	assert.Equal(t, -7, m.Delta)
	assert.Equal(t, 3, m.QuantityAfter)
	assert.Equal(t, inventory.MovementReservation, m.Type)
	assert.Equal(t, inventory.RefSalesOrder, m.RefType)
	require.NotNil(t, m.RefID)
	assert.Equal(t, orderID, *m.RefID)
	assert.Equal(t, 3, quantityOf(t, db, item.ID))

	events := m.Events()
	require.Len(t, events, 2)
	assert.Equal(t, inventory.EventTypeStockAdjusted, events[0].EventType())
	assert.Equal(t, inventory.EventTypeStockBelowSafetyStock, events[1].EventType())

	t.Run("short stock leaves quantity and ledger untouched", func(t *testing.T) {
		_, err := ledger.Reserve(ctx, item.ID, 5, inventory.Reference{Type: inventory.RefSalesOrder, ID: uuid.New()})
		requireCode(t, err, shared.CodeInsufficientInventory)
		assert.Contains(t, err.Error(), "3 available, 5 requested")
		assert.Equal(t, 3, quantityOf(t, db, item.ID))

		count, err := NewGormStockMovementRepository(db).CountByStockItem(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := ledger.Reserve(ctx, uuid.New(), 1, inventory.Reference{})
		requireCode(t, err, shared.CodeNotFound)
	})
}

func TestGormStockLedger_ReceiveAndRelease(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	item := seedStockItem(t, db, 2, 5)
	ledger := NewGormStockLedger(db)

	received, err := ledger.Receive(ctx, item.ID, 12, inventory.Reference{Type: inventory.RefPurchaseOrder, ID: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, 14, received.QuantityAfter)
	assert.Len(t, received.Events(), 1, "moving up never raises a low stock alert")

	released, err := ledger.Release(ctx, item.ID, 3, inventory.Reference{Type: inventory.RefSalesOrder, ID: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, 17, released.QuantityAfter)
	assert.Equal(t, inventory.MovementRelease, released.Type)

	history, err := NewGormStockMovementRepository(db).FindByStockItem(ctx, item.ID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.ElementsMatch(t, []int{12, 3}, []int{history[0].Delta, history[1].Delta})
}

func TestGormStockLedger_Adjust(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	item := seedStockItem(t, db, 4, 0)
	ledger := NewGormStockLedger(db)

	m, err := ledger.Adjust(ctx, item.ID, inventory.AdjustmentIncrease, 6, "Cycle count", "aisle 3")
	require.NoError(t, err)
	assert.Equal(t, 10, m.QuantityAfter)
	assert.Equal(t, "Cycle count", m.Reason)
	assert.Equal(t, "aisle 3", m.Note)

	m, err = ledger.Adjust(ctx, item.ID, inventory.AdjustmentDecrease, 10, "Water damage", "")
	require.NoError(t, err)
	assert.Equal(t, 0, m.QuantityAfter)

	_, err = ledger.Adjust(ctx, item.ID, inventory.AdjustmentDecrease, 1, "Lost", "")
	requireCode(t, err, shared.CodeNegativeStock)

	_, err = ledger.Adjust(ctx, item.ID, inventory.AdjustmentType("transfer"), 1, "Move", "")
	requireCode(t, err, shared.CodeValidation)

	_, err = ledger.Adjust(ctx, item.ID, inventory.AdjustmentIncrease, 0, "Nothing", "")
	assert.Error(t, err)
	assert.Equal(t, 0, quantityOf(t, db, item.ID))
}

func TestGormStockLedger_ConditionalUpdateSQL(t *testing.T) {
	db, mock := newMockGormDB(t)
	itemID := uuid.New()

	mock.ExpectExec(`UPDATE "stock_items" SET .*quantity \+ .* WHERE id = \$\d+ AND quantity \+ \$\d+ >= 0`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT "id","quantity","safety_stock" FROM "stock_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "quantity", "safety_stock"}).AddRow(itemID, 2, 1))

	_, err := NewGormStockLedger(db).Reserve(context.Background(), itemID, 5, inventory.Reference{})
	requireCode(t, err, shared.CodeInsufficientInventory)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStockItemRepository_BelowSafetyStock(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	low := seedStockItem(t, db, 1, 5)
	seedStockItem(t, db, 9, 5)
	seedStockItem(t, db, 5, 5)

	items, err := NewGormStockItemRepository(db).FindBelowSafetyStock(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, low.ID, items[0].ID)
}

func TestGormStockItemRepository_UpdateKeepsQuantity(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	item := seedStockItem(t, db, 8, 2)
	repo := NewGormStockItemRepository(db)

	require.NoError(t, item.UpdateDetails("Hex bolt M10", decimal.RequireFromString("0.40"), 3))
	item.Quantity = 999
	require.NoError(t, repo.Update(ctx, item))

	got, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hex bolt M10", got.Name)
	assert.Equal(t, 3, got.SafetyStock)
	assert.Equal(t, 8, got.Quantity)

	missing, _ := inventory.NewStockItem("Ghost", 0, decimal.NewFromInt(1), 0)
	assert.ErrorIs(t, repo.Update(ctx, missing), shared.ErrNotFound)
}

func TestGormStockItemRepository_UpdateAfterLedgerMovement(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	item := seedStockItem(t, db, 8, 2)
	repo := NewGormStockItemRepository(db)

	stale, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	_, err = NewGormStockLedger(db).Receive(ctx, item.ID, 4, inventory.Reference{Type: inventory.RefPurchaseOrder, ID: uuid.New()})
	require.NoError(t, err)
	moved, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	require.Greater(t, moved.Version, stale.Version)

	require.NoError(t, stale.UpdateDetails("Hex bolt M10", stale.UnitRate, stale.SafetyStock))
	require.NoError(t, repo.Update(ctx, stale))

	got, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, moved.Version+1, got.Version)
	assert.Equal(t, 12, got.Quantity)
}

func TestGormStockItemRepository_FindByIDForUpdateLocks(t *testing.T) {
	db, mock := newMockGormDB(t)
	itemID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "stock_items" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "quantity", "safety_stock", "version"}).
			AddRow(itemID, "Hex bolt", 3, 1, 4))

	item, err := NewGormStockItemRepository(db).FindByIDForUpdate(context.Background(), itemID)
	require.NoError(t, err)
	assert.Equal(t, 4, item.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

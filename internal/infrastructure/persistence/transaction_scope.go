package persistence

import (
	"context"

	"github.com/erp/supplychain/internal/application/txscope"
	"github.com/erp/supplychain/internal/domain/inventory"
	"github.com/erp/supplychain/internal/domain/partner"
	"github.com/erp/supplychain/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos txscope.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// gormRepositories provides access to all repositories bound to one *gorm.DB,
// which is either the pool or a transaction.
type gormRepositories struct {
	tx *gorm.DB
}

// NewRepositories binds every repository to db
func NewRepositories(db *gorm.DB) txscope.Repositories {
	return &gormRepositories{tx: db}
}

func (r *gormRepositories) StockItems() inventory.StockItemRepository {
	return NewGormStockItemRepository(r.tx)
}

func (r *gormRepositories) StockMovements() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

func (r *gormRepositories) Ledger() inventory.Ledger {
	return NewGormStockLedger(r.tx)
}

func (r *gormRepositories) Suppliers() partner.SupplierRepository {
	return NewGormSupplierRepository(r.tx)
}

func (r *gormRepositories) Clients() partner.ClientRepository {
	return NewGormClientRepository(r.tx)
}

func (r *gormRepositories) PurchaseOrders() trade.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

func (r *gormRepositories) Acknowledgements() trade.AcknowledgementRepository {
	return NewGormAcknowledgementRepository(r.tx)
}

func (r *gormRepositories) InboundDeliveries() trade.DeliveryInboundRepository {
	return NewGormDeliveryInboundRepository(r.tx)
}

func (r *gormRepositories) Bills() trade.BillRepository {
	return NewGormBillRepository(r.tx)
}

func (r *gormRepositories) Quotes() trade.QuoteRepository {
	return NewGormQuoteRepository(r.tx)
}

func (r *gormRepositories) SalesOrders() trade.SalesOrderRepository {
	return NewGormSalesOrderRepository(r.tx)
}

func (r *gormRepositories) OutboundDeliveries() trade.DeliveryOutboundRepository {
	return NewGormDeliveryOutboundRepository(r.tx)
}

func (r *gormRepositories) Invoices() trade.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ txscope.TransactionScope = (*GormTransactionScope)(nil)

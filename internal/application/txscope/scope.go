// Package txscope defines the unit of work every state transition runs in.
package txscope

import (
	"context"

	"github.com/erp/supplychain/internal/domain/inventory"
	"github.com/erp/supplychain/internal/domain/partner"
	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/erp/supplychain/internal/domain/trade"
)

// TransactionScope provides transactional access to the repositories.
// When a function is executed within a transaction scope, all repository operations
// will be part of the same database transaction and will be committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories provides access to all repositories. Inside Execute they share
// the transaction; outside it they run in autocommit mode.
type Repositories interface {
	StockItems() inventory.StockItemRepository
	StockMovements() inventory.StockMovementRepository
	// Ledger is the only writer of stock quantities
	Ledger() inventory.Ledger

	Suppliers() partner.SupplierRepository
	Clients() partner.ClientRepository

	PurchaseOrders() trade.PurchaseOrderRepository
	Acknowledgements() trade.AcknowledgementRepository
	InboundDeliveries() trade.DeliveryInboundRepository
	Bills() trade.BillRepository

	Quotes() trade.QuoteRepository
	SalesOrders() trade.SalesOrderRepository
	OutboundDeliveries() trade.DeliveryOutboundRepository
	Invoices() trade.InvoiceRepository
}

// Events collects domain events raised inside a transaction so they can be
// published once it commits
type Events struct {
	pending []shared.DomainEvent
}

// Collect takes the pending events of the given aggregates
func (e *Events) Collect(aggregates ...shared.AggregateRoot) {
	e.pending = append(e.pending, shared.CollectEvents(aggregates...)...)
}

// Add appends events that are not owned by an aggregate
func (e *Events) Add(events ...shared.DomainEvent) {
	e.pending = append(e.pending, events...)
}

// Publish hands the collected events to the publisher. Publishing errors are
// logged by the bus and never fail the committed transition.
func (e *Events) Publish(ctx context.Context, publisher shared.EventPublisher) {
	if publisher == nil || len(e.pending) == 0 {
		return
	}
	_ = publisher.Publish(ctx, e.pending...)
	e.pending = nil
}

// Len returns the number of collected events
func (e *Events) Len() int {
	return len(e.pending)
}

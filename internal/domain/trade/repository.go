package trade

import (
	"context"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/google/uuid"
)

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByIDForUpdate loads the order under a row lock; every transition
	// on the order and its acknowledgements, deliveries and bill starts here
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindAll lists orders; supported filters: status, supplier_id, item_id
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountBySupplier is used before deleting a supplier
	CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error)

	Save(ctx context.Context, order *PurchaseOrder) error
}

// AcknowledgementRepository persists purchase order acknowledgements
type AcknowledgementRepository interface {
	// FindByPurchaseOrder returns all acknowledgements ordered by version
	FindByPurchaseOrder(ctx context.Context, poID uuid.UUID) ([]*Acknowledgement, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Acknowledgement, error)
	// FindFinal returns the final acknowledgement of the order or ErrNotFound
	FindFinal(ctx context.Context, poID uuid.UUID) (*Acknowledgement, error)
	SaveAll(ctx context.Context, acks ...*Acknowledgement) error
}

// DeliveryInboundRepository persists inbound deliveries
type DeliveryInboundRepository interface {
	FindByPurchaseOrder(ctx context.Context, poID uuid.UUID) ([]*DeliveryInbound, error)
	Save(ctx context.Context, delivery *DeliveryInbound) error
}

// BillRepository persists supplier bills
type BillRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Bill, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Bill, error)
	// FindByPurchaseOrder returns the bill of the order or ErrNotFound
	FindByPurchaseOrder(ctx context.Context, poID uuid.UUID) (*Bill, error)
	// FindAll lists bills newest first; supported filters: status, supplier_id
	FindAll(ctx context.Context, filter shared.Filter) ([]Bill, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, bill *Bill) error
}

// QuoteRepository persists sales quotes
type QuoteRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Quote, error)
	// FindByIDForUpdate loads the quote under a row lock
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Quote, error)
	// FindChain returns every quote of the chain ordered by version, locked
	FindChain(ctx context.Context, chainID uuid.UUID) ([]*Quote, error)
	// FindOpenByClientAndItem returns the open quotes of a client for an item, locked
	FindOpenByClientAndItem(ctx context.Context, clientID, itemID uuid.UUID) ([]*Quote, error)
	// FindAll lists quotes; supported filters: status, client_id, item_id
	FindAll(ctx context.Context, filter shared.Filter) ([]Quote, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	SaveAll(ctx context.Context, quotes ...*Quote) error
}

// SalesOrderRepository defines the interface for sales order persistence
type SalesOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*SalesOrder, error)
	// FindAll lists orders; supported filters: status, client_id, item_id
	FindAll(ctx context.Context, filter shared.Filter) ([]SalesOrder, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error)
	Save(ctx context.Context, order *SalesOrder) error
}

// DeliveryOutboundRepository persists outbound deliveries
type DeliveryOutboundRepository interface {
	FindBySalesOrder(ctx context.Context, orderID uuid.UUID) ([]DeliveryOutbound, error)
	Save(ctx context.Context, delivery *DeliveryOutbound) error
}

// InvoiceRepository persists client invoices
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Invoice, error)
	// FindAll lists invoices newest first; supported filters: payment_status, client_id
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, invoice *Invoice) error
}

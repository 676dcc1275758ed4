package trade

import (
	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeSalesOrder = "SalesOrder"
	AggregateTypeInvoice    = "Invoice"
)

// Event type constants
const (
	EventTypeQuoteAccepted       = "QuoteAccepted"
	EventTypeSalesOrderConfirmed = "SalesOrderConfirmed"
	EventTypeSalesOrderDelivered = "SalesOrderDelivered"
	EventTypeSalesOrderCancelled = "SalesOrderCancelled"
	EventTypeInvoiceVoided       = "InvoiceVoided"
	EventTypeInvoicePaid         = "InvoicePaid"
)

// QuoteAcceptedEvent is raised when a client accepts a quote
type QuoteAcceptedEvent struct {
	shared.BaseDomainEvent
	QuoteID    uuid.UUID       `json:"quote_id"`
	ChainID    uuid.UUID       `json:"chain_id"`
	Version    int             `json:"version"`
	ClientID   uuid.UUID       `json:"client_id"`
	OrderID    uuid.UUID       `json:"order_id"`
	FinalPrice decimal.Decimal `json:"final_price"`
}

// NewQuoteAcceptedEvent creates a new QuoteAcceptedEvent
func NewQuoteAcceptedEvent(q *Quote, order *SalesOrder) *QuoteAcceptedEvent {
	return &QuoteAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteAccepted, AggregateTypeSalesOrder, order.ID),
		QuoteID:         q.ID,
		ChainID:         q.ChainID,
		Version:         q.Version,
		ClientID:        q.ClientID,
		OrderID:         order.ID,
		FinalPrice:      q.ProposedPrice,
	}
}

// SalesOrderConfirmedEvent is raised when stock is reserved and the order invoiced
type SalesOrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID       `json:"order_id"`
	ClientID   uuid.UUID       `json:"client_id"`
	ItemID     uuid.UUID       `json:"item_id"`
	QtyOrdered int             `json:"qty_ordered"`
	InvoiceID  uuid.UUID       `json:"invoice_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// NewSalesOrderConfirmedEvent creates a new SalesOrderConfirmedEvent
func NewSalesOrderConfirmedEvent(order *SalesOrder, inv *Invoice) *SalesOrderConfirmedEvent {
	return &SalesOrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderConfirmed, AggregateTypeSalesOrder, order.ID),
		OrderID:         order.ID,
		ClientID:        order.ClientID,
		ItemID:          order.ItemID,
		QtyOrdered:      order.QtyOrdered,
		InvoiceID:       inv.ID,
		Amount:          inv.Amount,
	}
}

// SalesOrderDeliveredEvent is raised for every outbound delivery
type SalesOrderDeliveredEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID        `json:"order_id"`
	DeliveryID     uuid.UUID        `json:"delivery_id"`
	DeliveredQty   int              `json:"delivered_qty"`
	TotalDelivered int              `json:"total_delivered"`
	Status         SalesOrderStatus `json:"status"`
}

// NewSalesOrderDeliveredEvent creates a new SalesOrderDeliveredEvent
func NewSalesOrderDeliveredEvent(order *SalesOrder, d *DeliveryOutbound, total int) *SalesOrderDeliveredEvent {
	return &SalesOrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderDelivered, AggregateTypeSalesOrder, order.ID),
		OrderID:         order.ID,
		DeliveryID:      d.ID,
		DeliveredQty:    d.DeliveredQty,
		TotalDelivered:  total,
		Status:          order.Status,
	}
}

// SalesOrderCancelledEvent is raised when an order is cancelled
type SalesOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	ItemID      uuid.UUID `json:"item_id"`
	ReleasedQty int       `json:"released_qty"`
}

// NewSalesOrderCancelledEvent creates a new SalesOrderCancelledEvent
func NewSalesOrderCancelledEvent(order *SalesOrder, released int) *SalesOrderCancelledEvent {
	return &SalesOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderCancelled, AggregateTypeSalesOrder, order.ID),
		OrderID:         order.ID,
		ItemID:          order.ItemID,
		ReleasedQty:     released,
	}
}

// InvoiceVoidedEvent is raised when an invoice is voided
type InvoiceVoidedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID       `json:"invoice_id"`
	OrderID   uuid.UUID       `json:"order_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewInvoiceVoidedEvent creates a new InvoiceVoidedEvent
func NewInvoiceVoidedEvent(inv *Invoice) *InvoiceVoidedEvent {
	return &InvoiceVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceVoided, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		OrderID:         inv.SalesOrderID,
		Amount:          inv.Amount,
	}
}

// InvoicePaidEvent is raised when an invoice is settled
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID       `json:"invoice_id"`
	ClientID  uuid.UUID       `json:"client_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		ClientID:        inv.ClientID,
		Amount:          inv.Amount,
	}
}

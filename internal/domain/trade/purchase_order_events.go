package trade

import (
	"time"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypePurchaseOrder = "PurchaseOrder"
	AggregateTypeBill          = "Bill"
)

// Event type constants
const (
	EventTypePurchaseOrderCreated      = "PurchaseOrderCreated"
	EventTypePurchaseOrderAcknowledged = "PurchaseOrderAcknowledged"
	EventTypePurchaseOrderReceived     = "PurchaseOrderReceived"
	EventTypeBillCreated               = "BillCreated"
	EventTypeBillPaid                  = "BillPaid"
)

// PurchaseOrderCreatedEvent is raised when a new purchase order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID       `json:"po_id"`
	SupplierID    uuid.UUID       `json:"supplier_id"`
	ItemID        uuid.UUID       `json:"item_id"`
	QtyOrdered    int             `json:"qty_ordered"`
	ExpectedPrice decimal.Decimal `json:"expected_price"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(order *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		SupplierID:      order.SupplierID,
		ItemID:          order.ItemID,
		QtyOrdered:      order.QtyOrdered,
		ExpectedPrice:   order.ExpectedPrice,
	}
}

// PurchaseOrderAcknowledgedEvent is raised when the supplier accepts a price
type PurchaseOrderAcknowledgedEvent struct {
	shared.BaseDomainEvent
	OrderID           uuid.UUID       `json:"po_id"`
	AcknowledgementID uuid.UUID       `json:"acknowledgement_id"`
	Version           int             `json:"version"`
	FinalPricePerItem decimal.Decimal `json:"final_price_per_item"`
}

// NewPurchaseOrderAcknowledgedEvent creates a new PurchaseOrderAcknowledgedEvent
func NewPurchaseOrderAcknowledgedEvent(order *PurchaseOrder, ack *Acknowledgement) *PurchaseOrderAcknowledgedEvent {
	return &PurchaseOrderAcknowledgedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypePurchaseOrderAcknowledged, AggregateTypePurchaseOrder, order.ID),
		OrderID:           order.ID,
		AcknowledgementID: ack.ID,
		Version:           ack.Version,
		FinalPricePerItem: ack.PricePerItem,
	}
}

// PurchaseOrderReceivedEvent is raised when ordered goods arrive
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID `json:"po_id"`
	DeliveryID uuid.UUID `json:"delivery_id"`
	ItemID     uuid.UUID `json:"item_id"`
	Quantity   int       `json:"quantity"`
	ReceivedAt time.Time `json:"actual_date_of_delivery"`
}

// NewPurchaseOrderReceivedEvent creates a new PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(order *PurchaseOrder, delivery *DeliveryInbound) *PurchaseOrderReceivedEvent {
	e := &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReceived, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		DeliveryID:      delivery.ID,
		ItemID:          order.ItemID,
		Quantity:        order.QtyOrdered,
	}
	if delivery.ActualDate != nil {
		e.ReceivedAt = *delivery.ActualDate
	}
	return e
}

// BillCreatedEvent is raised when a received order is billed
type BillCreatedEvent struct {
	shared.BaseDomainEvent
	BillID     uuid.UUID       `json:"bill_id"`
	OrderID    uuid.UUID       `json:"po_id"`
	SupplierID uuid.UUID       `json:"supplier_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// NewBillCreatedEvent creates a new BillCreatedEvent
func NewBillCreatedEvent(bill *Bill, amount decimal.Decimal) *BillCreatedEvent {
	return &BillCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillCreated, AggregateTypeBill, bill.ID),
		BillID:          bill.ID,
		OrderID:         bill.PurchaseOrderID,
		SupplierID:      bill.SupplierID,
		Amount:          amount,
	}
}

// BillPaidEvent is raised when a bill is settled
type BillPaidEvent struct {
	shared.BaseDomainEvent
	BillID           uuid.UUID       `json:"bill_id"`
	SupplierID       uuid.UUID       `json:"supplier_id"`
	Amount           decimal.Decimal `json:"amount"`
	PaymentReference string          `json:"payment_reference"`
}

// NewBillPaidEvent creates a new BillPaidEvent
func NewBillPaidEvent(bill *Bill, amount decimal.Decimal) *BillPaidEvent {
	return &BillPaidEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeBillPaid, AggregateTypeBill, bill.ID),
		BillID:           bill.ID,
		SupplierID:       bill.SupplierID,
		Amount:           amount,
		PaymentReference: bill.PaymentReference,
	}
}

package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrder is a buy-side commitment for one stock item from one supplier.
// ExpectedPrice is the buyer's placeholder; FinalPricePerItem is locked by the
// accepted acknowledgement.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	SupplierID           uuid.UUID
	ItemID               uuid.UUID
	QtyOrdered           int
	ExpectedPrice        decimal.Decimal
	FinalPricePerItem    *decimal.Decimal
	Status               PurchaseOrderStatus
	ExpectedDeliveryDate *time.Time
	Notes                string
}

// NewPurchaseOrder creates a purchase order awaiting price negotiation
func NewPurchaseOrder(supplierID, itemID uuid.UUID, qty int, expectedPrice decimal.Decimal, expectedDelivery *time.Time, notes string) (*PurchaseOrder, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Supplier ID cannot be empty")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Item ID cannot be empty")
	}
	if qty <= 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Quantity ordered must be positive")
	}
	if !expectedPrice.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Expected price must be positive")
	}

	po := &PurchaseOrder{
		BaseAggregateRoot:    shared.NewBaseAggregateRoot(),
		SupplierID:           supplierID,
		ItemID:               itemID,
		QtyOrdered:           qty,
		ExpectedPrice:        expectedPrice,
		Status:               PurchaseOrderStatusPendingNegotiation,
		ExpectedDeliveryDate: expectedDelivery,
		Notes:                strings.TrimSpace(notes),
	}
	po.AddDomainEvent(NewPurchaseOrderCreatedEvent(po))
	return po, nil
}

// Acknowledge locks the price of the final acknowledgement onto the order
// and opens the inbound delivery
func (o *PurchaseOrder) Acknowledge(ack *Acknowledgement) (*DeliveryInbound, error) {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusAcknowledged) {
		return nil, shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot acknowledge purchase order in %s status", o.Status))
	}
	if ack == nil || !ack.IsFinal() || ack.PurchaseOrderID != o.ID {
		return nil, shared.NewDomainError(shared.CodeMissingFinalAcknowledgement,
			"Purchase order can only be acknowledged by its accepted acknowledgement")
	}

	price := ack.PricePerItem
	o.FinalPricePerItem = &price
	o.Status = PurchaseOrderStatusAcknowledged
	o.IncrementVersion()

	delivery := newDeliveryInbound(o.ID, o.ExpectedDeliveryDate)
	o.AddDomainEvent(NewPurchaseOrderAcknowledgedEvent(o, ack))
	return delivery, nil
}

// Receive marks the goods as arrived. The inbound delivery is picked from
// the deliveries already recorded for the order; only one may ever be
// received.
func (o *PurchaseOrder) Receive(deliveries []*DeliveryInbound, actual time.Time) (*DeliveryInbound, error) {
	var pending *DeliveryInbound
	for _, d := range deliveries {
		if d.Status == DeliveryInboundStatusReceived {
			return nil, shared.NewDomainError(shared.CodeDuplicateReceipt, "Purchase order has already been received")
		}
		if pending == nil {
			pending = d
		}
	}
	if !o.Status.CanTransitionTo(PurchaseOrderStatusReceived) {
		return nil, shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot receive purchase order in %s status", o.Status))
	}
	if pending == nil {
		pending = newDeliveryInbound(o.ID, o.ExpectedDeliveryDate)
	}
	if err := pending.markReceived(actual); err != nil {
		return nil, err
	}

	o.Status = PurchaseOrderStatusReceived
	o.IncrementVersion()
	o.AddDomainEvent(NewPurchaseOrderReceivedEvent(o, pending))
	return pending, nil
}

// IsNegotiable reports whether acknowledgements can still be exchanged
func (o *PurchaseOrder) IsNegotiable() bool {
	return o.Status.IsNegotiable()
}

// TotalAmount returns qty * final price. Until a price is acknowledged the
// buyer's expected price stands in, without being written to the final price.
func (o *PurchaseOrder) TotalAmount() decimal.Decimal {
	price := o.ExpectedPrice
	if o.FinalPricePerItem != nil {
		price = *o.FinalPricePerItem
	}
	return price.Mul(decimal.NewFromInt(int64(o.QtyOrdered)))
}

// DeliveryInbound tracks goods on their way from the supplier
type DeliveryInbound struct {
	shared.BaseEntity
	PurchaseOrderID uuid.UUID
	ExpectedDate    *time.Time
	ActualDate      *time.Time
	Status          DeliveryInboundStatus
}

func newDeliveryInbound(poID uuid.UUID, expected *time.Time) *DeliveryInbound {
	return &DeliveryInbound{
		BaseEntity:      shared.NewBaseEntity(),
		PurchaseOrderID: poID,
		ExpectedDate:    expected,
		Status:          DeliveryInboundStatusInTransit,
	}
}

func (d *DeliveryInbound) markReceived(actual time.Time) error {
	if !d.Status.CanTransitionTo(DeliveryInboundStatusReceived) {
		return invalidTransition("inbound delivery", d.Status, DeliveryInboundStatusReceived)
	}
	d.Status = DeliveryInboundStatusReceived
	d.ActualDate = &actual
	d.Touch()
	return nil
}

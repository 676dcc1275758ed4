package trade

import (
	"fmt"
	"time"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesOrder is a sell-side commitment for one stock item. Stock for the
// full ordered quantity is reserved when the order is confirmed.
type SalesOrder struct {
	shared.BaseAggregateRoot
	ClientID   uuid.UUID
	QuoteID    *uuid.UUID
	ItemID     uuid.UUID
	QtyOrdered int
	FinalPrice decimal.Decimal
	Status     SalesOrderStatus
	InvoiceID  *uuid.UUID
}

func newSalesOrder(clientID, itemID uuid.UUID, quoteID *uuid.UUID, qty int, price decimal.Decimal) (*SalesOrder, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Client ID cannot be empty")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Item ID cannot be empty")
	}
	if qty <= 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Quantity ordered must be positive")
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	return &SalesOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClientID:          clientID,
		QuoteID:           quoteID,
		ItemID:            itemID,
		QtyOrdered:        qty,
		FinalPrice:        price,
		Status:            SalesOrderStatusPendingNegotiation,
	}, nil
}

// NewSalesOrderFromQuote confirms an order at the price of an accepted quote
func NewSalesOrderFromQuote(q *Quote) (*SalesOrder, *Invoice, error) {
	if q.Status != QuoteStatusAccepted || !q.Final {
		return nil, nil, shared.NewDomainError(shared.CodeInvalidState, "Orders can only be created from an accepted quote")
	}
	quoteID := q.ID
	o, err := newSalesOrder(q.ClientID, q.ItemID, &quoteID, q.QtyOrdered, q.ProposedPrice)
	if err != nil {
		return nil, nil, err
	}
	o.AddDomainEvent(NewQuoteAcceptedEvent(q, o))
	inv, err := o.confirm()
	if err != nil {
		return nil, nil, err
	}
	return o, inv, nil
}

// NewDirectSalesOrder confirms an order placed without a quote
func NewDirectSalesOrder(clientID, itemID uuid.UUID, qty int, price decimal.Decimal) (*SalesOrder, *Invoice, error) {
	o, err := newSalesOrder(clientID, itemID, nil, qty, price)
	if err != nil {
		return nil, nil, err
	}
	inv, err := o.confirm()
	if err != nil {
		return nil, nil, err
	}
	return o, inv, nil
}

func (o *SalesOrder) confirm() (*Invoice, error) {
	if !o.Status.CanTransitionTo(SalesOrderStatusConfirmed) {
		return nil, shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot confirm order in %s status", o.Status))
	}
	inv := newInvoice(o)
	o.InvoiceID = &inv.ID
	o.Status = SalesOrderStatusConfirmed
	o.IncrementVersion()
	o.AddDomainEvent(NewSalesOrderConfirmedEvent(o, inv))
	return inv, nil
}

// Amount is qty times the final price
func (o *SalesOrder) Amount() decimal.Decimal {
	return o.FinalPrice.Mul(decimal.NewFromInt(int64(o.QtyOrdered)))
}

// DeliveredQty sums the quantities of the given deliveries of this order
func (o *SalesOrder) DeliveredQty(deliveries []DeliveryOutbound) int {
	total := 0
	for _, d := range deliveries {
		if d.SalesOrderID == o.ID {
			total += d.DeliveredQty
		}
	}
	return total
}

// Deliver records a partial or full delivery on top of the deliveries
// already made
func (o *SalesOrder) Deliver(previous []DeliveryOutbound, qty int, date time.Time) (*DeliveryOutbound, error) {
	if o.Status == SalesOrderStatusCancelled || o.Status == SalesOrderStatusDelivered {
		return nil, shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot deliver order in %s status", o.Status))
	}
	if qty <= 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Delivered quantity must be positive")
	}
	delivered := o.DeliveredQty(previous)
	if delivered+qty > o.QtyOrdered {
		return nil, shared.NewDomainError(shared.CodeOverDelivery,
			fmt.Sprintf("Delivering %d would exceed ordered quantity %d (already delivered %d)", qty, o.QtyOrdered, delivered))
	}

	target := SalesOrderStatusPartiallyDelivered
	if delivered+qty == o.QtyOrdered {
		target = SalesOrderStatusDelivered
	}
	if !o.Status.CanTransitionTo(target) {
		return nil, invalidTransition("sales order", o.Status, target)
	}

	d := &DeliveryOutbound{
		BaseEntity:     shared.NewBaseEntity(),
		SalesOrderID:   o.ID,
		InvoiceID:      o.InvoiceID,
		DateOfDelivery: date,
		DeliveredQty:   qty,
		Status:         DeliveryOutboundStatusDelivered,
	}
	o.Status = target
	o.IncrementVersion()
	o.AddDomainEvent(NewSalesOrderDeliveredEvent(o, d, delivered+qty))
	return d, nil
}

// Cancel closes an undelivered order. It returns the quantity whose
// reservation must be released.
func (o *SalesOrder) Cancel() (int, error) {
	if !o.Status.CanTransitionTo(SalesOrderStatusCancelled) {
		return 0, shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	release := 0
	if o.Status.HoldsReservation() {
		release = o.QtyOrdered
	}
	o.Status = SalesOrderStatusCancelled
	o.IncrementVersion()
	o.AddDomainEvent(NewSalesOrderCancelledEvent(o, release))
	return release, nil
}

// DeliveryOutboundStatus is the state of an outbound delivery
type DeliveryOutboundStatus string

// DeliveryOutboundStatusDelivered is the only outbound delivery state
const DeliveryOutboundStatusDelivered DeliveryOutboundStatus = "delivered"

// DeliveryOutbound is one shipment against a sales order
type DeliveryOutbound struct {
	shared.BaseEntity
	SalesOrderID   uuid.UUID
	InvoiceID      *uuid.UUID
	DateOfDelivery time.Time
	DeliveredQty   int
	Status         DeliveryOutboundStatus
}

package trade

import (
	"fmt"

	"github.com/erp/supplychain/internal/domain/shared"
)

func invalidTransition(entity string, from, to fmt.Stringer) error {
	return shared.NewDomainError(shared.CodeInvalidState,
		fmt.Sprintf("Cannot move %s from %s to %s", entity, from, to))
}

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPendingNegotiation PurchaseOrderStatus = "pending_price_negotiation"
	PurchaseOrderStatusAcknowledged       PurchaseOrderStatus = "acknowledged"
	PurchaseOrderStatusReceived           PurchaseOrderStatus = "received"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusPendingNegotiation, PurchaseOrderStatusAcknowledged, PurchaseOrderStatusReceived:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusPendingNegotiation:
		return target == PurchaseOrderStatusAcknowledged
	case PurchaseOrderStatusAcknowledged:
		return target == PurchaseOrderStatusReceived
	}
	return false
}

// IsNegotiable reports whether price proposals may still be exchanged
func (s PurchaseOrderStatus) IsNegotiable() bool {
	return s == PurchaseOrderStatusPendingNegotiation
}

// AcknowledgementStatus represents the status of a supplier acknowledgement
type AcknowledgementStatus string

const (
	AcknowledgementStatusProposed   AcknowledgementStatus = "proposed"
	AcknowledgementStatusAccepted   AcknowledgementStatus = "accepted"
	AcknowledgementStatusRejected   AcknowledgementStatus = "rejected"
	AcknowledgementStatusSuperseded AcknowledgementStatus = "superseded"
)

// IsValid checks if the status is a valid AcknowledgementStatus
func (s AcknowledgementStatus) IsValid() bool {
	switch s {
	case AcknowledgementStatusProposed, AcknowledgementStatusAccepted,
		AcknowledgementStatusRejected, AcknowledgementStatusSuperseded:
		return true
	}
	return false
}

// String returns the string representation of AcknowledgementStatus
func (s AcknowledgementStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s AcknowledgementStatus) CanTransitionTo(target AcknowledgementStatus) bool {
	if s != AcknowledgementStatusProposed {
		return false
	}
	return target == AcknowledgementStatusAccepted ||
		target == AcknowledgementStatusRejected ||
		target == AcknowledgementStatusSuperseded
}

// DeliveryInboundStatus represents the status of an inbound delivery
type DeliveryInboundStatus string

const (
	DeliveryInboundStatusInTransit DeliveryInboundStatus = "in_transit"
	DeliveryInboundStatusReceived  DeliveryInboundStatus = "received"
)

// IsValid checks if the status is a valid DeliveryInboundStatus
func (s DeliveryInboundStatus) IsValid() bool {
	return s == DeliveryInboundStatusInTransit || s == DeliveryInboundStatusReceived
}

// String returns the string representation of DeliveryInboundStatus
func (s DeliveryInboundStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s DeliveryInboundStatus) CanTransitionTo(target DeliveryInboundStatus) bool {
	return s == DeliveryInboundStatusInTransit && target == DeliveryInboundStatusReceived
}

// BillStatus represents the payment status of a bill
type BillStatus string

const (
	BillStatusPending BillStatus = "pending"
	BillStatusPaid    BillStatus = "paid"
)

// IsValid checks if the status is a valid BillStatus
func (s BillStatus) IsValid() bool {
	return s == BillStatusPending || s == BillStatusPaid
}

// String returns the string representation of BillStatus
func (s BillStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s BillStatus) CanTransitionTo(target BillStatus) bool {
	return s == BillStatusPending && target == BillStatusPaid
}

// QuoteStatus represents the status of a sales quote
type QuoteStatus string

const (
	QuoteStatusSent       QuoteStatus = "sent"
	QuoteStatusRevised    QuoteStatus = "revised"
	QuoteStatusAccepted   QuoteStatus = "accepted"
	QuoteStatusSuperseded QuoteStatus = "superseded"
)

// IsValid checks if the status is a valid QuoteStatus
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusSent, QuoteStatusRevised, QuoteStatusAccepted, QuoteStatusSuperseded:
		return true
	}
	return false
}

// String returns the string representation of QuoteStatus
func (s QuoteStatus) String() string {
	return string(s)
}

// IsOpen reports whether the quote may still be accepted or revised
func (s QuoteStatus) IsOpen() bool {
	return s == QuoteStatusSent || s == QuoteStatusRevised
}

// CanTransitionTo checks if the status can transition to the target status
func (s QuoteStatus) CanTransitionTo(target QuoteStatus) bool {
	if !s.IsOpen() {
		return false
	}
	return target == QuoteStatusAccepted || target == QuoteStatusSuperseded
}

// SalesOrderStatus represents the status of a sales order
type SalesOrderStatus string

const (
	SalesOrderStatusPendingNegotiation SalesOrderStatus = "pending_price_negotiation"
	SalesOrderStatusConfirmed          SalesOrderStatus = "confirmed"
	SalesOrderStatusPartiallyDelivered SalesOrderStatus = "partially_delivered"
	SalesOrderStatusDelivered          SalesOrderStatus = "delivered"
	SalesOrderStatusCancelled          SalesOrderStatus = "cancelled"
)

// IsValid checks if the status is a valid SalesOrderStatus
func (s SalesOrderStatus) IsValid() bool {
	switch s {
	case SalesOrderStatusPendingNegotiation, SalesOrderStatusConfirmed, SalesOrderStatusPartiallyDelivered,
		SalesOrderStatusDelivered, SalesOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SalesOrderStatus
func (s SalesOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s SalesOrderStatus) CanTransitionTo(target SalesOrderStatus) bool {
	switch s {
	case SalesOrderStatusPendingNegotiation:
		return target == SalesOrderStatusConfirmed || target == SalesOrderStatusCancelled
	case SalesOrderStatusConfirmed:
		return target == SalesOrderStatusPartiallyDelivered ||
			target == SalesOrderStatusDelivered ||
			target == SalesOrderStatusCancelled
	case SalesOrderStatusPartiallyDelivered:
		return target == SalesOrderStatusPartiallyDelivered || target == SalesOrderStatusDelivered
	}
	return false
}

// HoldsReservation reports whether stock is currently reserved for the order
func (s SalesOrderStatus) HoldsReservation() bool {
	return s == SalesOrderStatusConfirmed
}

// InvoiceStatus represents the payment status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusVoided  InvoiceStatus = "voided"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusVoided || s == InvoiceStatusPaid
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	return s == InvoiceStatusPending && (target == InvoiceStatusPaid || target == InvoiceStatusVoided)
}

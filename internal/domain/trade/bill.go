package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bill is the supplier's claim for a received purchase order.
// Its amount is never stored: it is always qty ordered times the price of
// the final acknowledgement.
type Bill struct {
	shared.BaseAggregateRoot
	PurchaseOrderID   uuid.UUID
	SupplierID        uuid.UUID
	AcknowledgementID uuid.UUID
	Status            BillStatus
	PaymentReference  string
	PaidAt            *time.Time
}

// BillAmount computes what a bill for the order is worth
func BillAmount(po *PurchaseOrder, finalAck *Acknowledgement) decimal.Decimal {
	return finalAck.PricePerItem.Mul(decimal.NewFromInt(int64(po.QtyOrdered)))
}

// NewBill issues the bill of a received purchase order. existing is the bill
// already recorded for the order, if any.
func NewBill(po *PurchaseOrder, finalAck *Acknowledgement, existing *Bill) (*Bill, decimal.Decimal, error) {
	if po.Status != PurchaseOrderStatusReceived {
		return nil, decimal.Zero, shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot bill purchase order in %s status", po.Status))
	}
	if existing != nil {
		return nil, decimal.Zero, shared.NewDomainError(shared.CodeDuplicateBill, "Bill already exists for this purchase order")
	}
	if finalAck == nil || !finalAck.IsFinal() || finalAck.PurchaseOrderID != po.ID {
		return nil, decimal.Zero, shared.NewDomainError(shared.CodeMissingFinalAcknowledgement,
			"Purchase order has no final acknowledgement")
	}

	bill := &Bill{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PurchaseOrderID:   po.ID,
		SupplierID:        po.SupplierID,
		AcknowledgementID: finalAck.ID,
		Status:            BillStatusPending,
	}
	amount := BillAmount(po, finalAck)
	bill.AddDomainEvent(NewBillCreatedEvent(bill, amount))
	return bill, amount, nil
}

// Pay settles the bill and returns the recomputed amount
func (b *Bill) Pay(po *PurchaseOrder, ack *Acknowledgement, reference string, paidAt time.Time) (decimal.Decimal, error) {
	if b.Status == BillStatusPaid {
		return decimal.Zero, shared.NewDomainError(shared.CodeAlreadyPaid, "Bill has already been paid")
	}
	if !b.Status.CanTransitionTo(BillStatusPaid) {
		return decimal.Zero, invalidTransition("bill", b.Status, BillStatusPaid)
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return decimal.Zero, shared.NewDomainError(shared.CodeValidation, "Payment reference is required")
	}
	if po.ID != b.PurchaseOrderID || ack.ID != b.AcknowledgementID {
		return decimal.Zero, shared.NewDomainError(shared.CodeInvalidInput, "Bill does not belong to the given purchase order")
	}

	amount := BillAmount(po, ack)
	b.Status = BillStatusPaid
	b.PaymentReference = reference
	b.PaidAt = &paidAt
	b.IncrementVersion()
	b.AddDomainEvent(NewBillPaidEvent(b, amount))
	return amount, nil
}

// IsPaid reports whether the bill is settled
func (b *Bill) IsPaid() bool {
	return b.Status == BillStatusPaid
}

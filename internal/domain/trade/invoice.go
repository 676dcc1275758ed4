package trade

import (
	"time"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is the client's debt for a confirmed sales order. Amount is a
// snapshot of qty * price taken at confirmation.
type Invoice struct {
	shared.BaseAggregateRoot
	SalesOrderID  uuid.UUID
	ClientID      uuid.UUID
	QuoteID       *uuid.UUID
	Amount        decimal.Decimal
	PaymentStatus InvoiceStatus
	Voided        bool
	PaidAt        *time.Time
}

func newInvoice(o *SalesOrder) *Invoice {
	return &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SalesOrderID:      o.ID,
		ClientID:          o.ClientID,
		QuoteID:           o.QuoteID,
		Amount:            o.Amount(),
		PaymentStatus:     InvoiceStatusPending,
	}
}

// Void cancels an unpaid invoice
func (i *Invoice) Void() error {
	if i.PaymentStatus == InvoiceStatusPaid {
		return shared.NewDomainError(shared.CodeAlreadyPaid, "Cannot void a paid invoice")
	}
	if !i.PaymentStatus.CanTransitionTo(InvoiceStatusVoided) {
		return invalidTransition("invoice", i.PaymentStatus, InvoiceStatusVoided)
	}
	i.PaymentStatus = InvoiceStatusVoided
	i.Voided = true
	i.IncrementVersion()
	i.AddDomainEvent(NewInvoiceVoidedEvent(i))
	return nil
}

// MarkPaid settles a pending invoice
func (i *Invoice) MarkPaid(paidAt time.Time) error {
	if i.PaymentStatus == InvoiceStatusPaid {
		return shared.NewDomainError(shared.CodeAlreadyPaid, "Invoice has already been paid")
	}
	if !i.PaymentStatus.CanTransitionTo(InvoiceStatusPaid) {
		return invalidTransition("invoice", i.PaymentStatus, InvoiceStatusPaid)
	}
	i.PaymentStatus = InvoiceStatusPaid
	i.PaidAt = &paidAt
	i.IncrementVersion()
	i.AddDomainEvent(NewInvoicePaidEvent(i))
	return nil
}

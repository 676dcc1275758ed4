package trade

import (
	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AcknowledgementAction is the supplier's answer to a purchase order
type AcknowledgementAction string

const (
	AcknowledgementActionAccepted AcknowledgementAction = "accepted"
	AcknowledgementActionRejected AcknowledgementAction = "rejected"
	AcknowledgementActionRevised  AcknowledgementAction = "revised"
)

// IsValid checks if the action is known
func (a AcknowledgementAction) IsValid() bool {
	switch a {
	case AcknowledgementActionAccepted, AcknowledgementActionRejected, AcknowledgementActionRevised:
		return true
	}
	return false
}

// Acknowledgement is one versioned price proposal exchanged with the
// supplier of a purchase order
type Acknowledgement struct {
	shared.BaseEntity
	PurchaseOrderID uuid.UUID
	Version         int
	PricePerItem    decimal.Decimal
	Status          AcknowledgementStatus
	Final           bool
	SupersededBy    *uuid.UUID
	Note            string
}

func newAcknowledgement(poID uuid.UUID, version int, price decimal.Decimal) *Acknowledgement {
	return &Acknowledgement{
		BaseEntity:      shared.NewBaseEntity(),
		PurchaseOrderID: poID,
		Version:         version,
		PricePerItem:    price,
		Status:          AcknowledgementStatusProposed,
	}
}

// ProposalVersion implements Proposal
func (a *Acknowledgement) ProposalVersion() int { return a.Version }

// ProposalPrice implements Proposal
func (a *Acknowledgement) ProposalPrice() decimal.Decimal { return a.PricePerItem }

// IsFinal implements Proposal
func (a *Acknowledgement) IsFinal() bool { return a.Final }

// IsOpen implements Proposal
func (a *Acknowledgement) IsOpen() bool { return a.Status == AcknowledgementStatusProposed }

func (a *Acknowledgement) markAccepted() {
	a.Status = AcknowledgementStatusAccepted
	a.Final = true
	a.Touch()
}

func (a *Acknowledgement) markRejected() {
	a.Status = AcknowledgementStatusRejected
	a.Touch()
}

func (a *Acknowledgement) markSuperseded(by uuid.UUID) {
	a.Status = AcknowledgementStatusSuperseded
	a.SupersededBy = &by
	a.Touch()
}

// NegotiateAcknowledgements opens the acknowledgement negotiation of a
// purchase order over its already loaded acknowledgements
func NegotiateAcknowledgements(po *PurchaseOrder, acks []*Acknowledgement) *Negotiation[*Acknowledgement] {
	return NewNegotiation(acks, po.Status.IsNegotiable(), func(version int, price decimal.Decimal) *Acknowledgement {
		return newAcknowledgement(po.ID, version, price)
	})
}

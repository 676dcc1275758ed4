package trade

import (
	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Quote is a versioned price offer to a client. Revisions share the
// ChainID of the first quote of the chain.
type Quote struct {
	shared.BaseEntity
	ChainID       uuid.UUID
	ClientID      uuid.UUID
	ItemID        uuid.UUID
	QtyOrdered    int
	ProposedPrice decimal.Decimal
	Status        QuoteStatus
	Version       int
	Final         bool
	SupersededBy  *uuid.UUID
}

// NewQuote starts a new quote chain at version 1
func NewQuote(clientID, itemID uuid.UUID, qty int, price decimal.Decimal) (*Quote, error) {
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

	q := &Quote{
		BaseEntity:    shared.NewBaseEntity(),
		ClientID:      clientID,
		ItemID:        itemID,
		QtyOrdered:    qty,
		ProposedPrice: price,
		Status:        QuoteStatusSent,
		Version:       1,
	}
	q.ChainID = q.ID
	return q, nil
}

// successor builds the next revision of the quote
func (q *Quote) successor(version int, price decimal.Decimal) *Quote {
	return &Quote{
		BaseEntity:    shared.NewBaseEntity(),
		ChainID:       q.ChainID,
		ClientID:      q.ClientID,
		ItemID:        q.ItemID,
		QtyOrdered:    q.QtyOrdered,
		ProposedPrice: price,
		Status:        QuoteStatusRevised,
		Version:       version,
	}
}

// Amount is qty times the proposed price
func (q *Quote) Amount() decimal.Decimal {
	return q.ProposedPrice.Mul(decimal.NewFromInt(int64(q.QtyOrdered)))
}

// EnsureAcceptable rejects quotes that already closed a deal
func (q *Quote) EnsureAcceptable() error {
	if q.Status == QuoteStatusAccepted || q.Final {
		return shared.NewDomainError(shared.CodeAlreadyFinalized, "Quote has already been accepted")
	}
	return nil
}

// ProposalVersion implements Proposal
func (q *Quote) ProposalVersion() int { return q.Version }

// ProposalPrice implements Proposal
func (q *Quote) ProposalPrice() decimal.Decimal { return q.ProposedPrice }

// IsFinal implements Proposal
func (q *Quote) IsFinal() bool { return q.Final }

// IsOpen implements Proposal
func (q *Quote) IsOpen() bool { return q.Status.IsOpen() }

func (q *Quote) markAccepted() {
	q.Status = QuoteStatusAccepted
	q.Final = true
	q.Touch()
}

func (q *Quote) markSuperseded(by uuid.UUID) {
	q.Status = QuoteStatusSuperseded
	q.SupersededBy = &by
	q.Touch()
}

// NegotiateQuotes opens a negotiation over a quote chain. rivals are the
// other open quotes for the same client and item; accepting any quote
// supersedes them too. head is the latest quote of the chain and seeds
// revisions.
func NegotiateQuotes(head *Quote, chain []*Quote, rivals []*Quote) *Negotiation[*Quote] {
	records := make([]*Quote, 0, len(chain)+len(rivals))
	records = append(records, chain...)
	seen := make(map[uuid.UUID]bool, len(chain))
	for _, q := range chain {
		seen[q.ID] = true
	}
	for _, r := range rivals {
		if !seen[r.ID] && r.ChainID != head.ChainID {
			records = append(records, r)
		}
	}
	return NewNegotiation(records, true, head.successor)
}

package trade

import (
	"fmt"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Proposal is one versioned price offer inside a negotiation.
// Acknowledgements and quotes both implement it.
type Proposal interface {
	GetID() uuid.UUID
	ProposalVersion() int
	ProposalPrice() decimal.Decimal
	IsFinal() bool
	// IsOpen reports whether the proposal may still be accepted, rejected or revised
	IsOpen() bool

	markAccepted()
	markSuperseded(by uuid.UUID)
}

// rejectable is implemented by proposals that can be turned down explicitly
type rejectable interface {
	markRejected()
}

// Negotiation runs the propose/accept/reject/revise protocol over the
// proposals attached to one parent document. It holds at most one open
// proposal at a time and at most one final one.
//
// The negotiation works on records loaded by the caller under a row lock of
// the parent; Changed returns every record that must be written back.
type Negotiation[P Proposal] struct {
	records    []P
	negotiable bool
	spawn      func(version int, price decimal.Decimal) P
	changed    []P
	seen       map[uuid.UUID]bool
}

// NewNegotiation wraps the loaded proposals of one parent.
// negotiable reports whether the parent still accepts new proposals and
// spawn builds the next proposal record for a version and price.
func NewNegotiation[P Proposal](records []P, negotiable bool, spawn func(version int, price decimal.Decimal) P) *Negotiation[P] {
	return &Negotiation[P]{
		records:    records,
		negotiable: negotiable,
		spawn:      spawn,
		seen:       make(map[uuid.UUID]bool),
	}
}

// Records returns all proposals in the negotiation, including new ones
func (n *Negotiation[P]) Records() []P {
	return n.records
}

// Changed returns created or modified proposals in the order they changed
func (n *Negotiation[P]) Changed() []P {
	return n.changed
}

// Latest returns the proposal with the highest version
func (n *Negotiation[P]) Latest() (P, bool) {
	var latest P
	found := false
	for _, r := range n.records {
		if !found || r.ProposalVersion() > latest.ProposalVersion() {
			latest = r
			found = true
		}
	}
	return latest, found
}

// Final returns the accepted proposal, if any
func (n *Negotiation[P]) Final() (P, bool) {
	for _, r := range n.records {
		if r.IsFinal() {
			return r, true
		}
	}
	var zero P
	return zero, false
}

// Open returns the proposal currently awaiting a decision, if any
func (n *Negotiation[P]) Open() (P, bool) {
	for _, r := range n.records {
		if r.IsOpen() {
			return r, true
		}
	}
	var zero P
	return zero, false
}

// Propose appends a new proposal with the next version. Any open proposal
// is superseded by the new one.
func (n *Negotiation[P]) Propose(price decimal.Decimal) (P, error) {
	var zero P
	if !n.negotiable {
		return zero, shared.NewDomainError(shared.CodeInvalidState, "Negotiation is closed")
	}
	if _, ok := n.Final(); ok {
		return zero, shared.NewDomainError(shared.CodeInvalidState, "Negotiation already has a final price")
	}
	if err := validatePrice(price); err != nil {
		return zero, err
	}
	next := n.spawn(n.nextVersion(), price)
	for _, r := range n.records {
		if r.IsOpen() {
			r.markSuperseded(next.GetID())
			n.touch(r)
		}
	}
	n.records = append(n.records, next)
	n.touch(next)
	return next, nil
}

// Accept marks the proposal final and supersedes every other open proposal
func (n *Negotiation[P]) Accept(id uuid.UUID) (P, error) {
	var zero P
	if _, ok := n.Final(); ok {
		return zero, shared.NewDomainError(shared.CodeAlreadyFinal, "A final proposal already exists")
	}
	target, err := n.openProposal(id)
	if err != nil {
		return zero, err
	}
	target.markAccepted()
	n.touch(target)
	for _, r := range n.records {
		if r.GetID() != id && r.IsOpen() {
			r.markSuperseded(id)
			n.touch(r)
		}
	}
	return target, nil
}

// Reject turns down an open proposal without closing the negotiation
func (n *Negotiation[P]) Reject(id uuid.UUID) (P, error) {
	var zero P
	if _, ok := n.Final(); ok {
		return zero, shared.NewDomainError(shared.CodeAlreadyFinal, "A final proposal already exists")
	}
	target, err := n.openProposal(id)
	if err != nil {
		return zero, err
	}
	r, ok := any(target).(rejectable)
	if !ok {
		return zero, shared.NewDomainError(shared.CodeInvalidState, "Proposal cannot be rejected")
	}
	r.markRejected()
	n.touch(target)
	return target, nil
}

// Revise supersedes an open proposal with a successor at a new price
func (n *Negotiation[P]) Revise(id uuid.UUID, price decimal.Decimal) (P, error) {
	var zero P
	if _, ok := n.Final(); ok {
		return zero, shared.NewDomainError(shared.CodeFinalAlreadySet, "Cannot revise after a final price was agreed")
	}
	target, err := n.openProposal(id)
	if err != nil {
		return zero, err
	}
	if err := validatePrice(price); err != nil {
		return zero, err
	}
	next := n.spawn(n.nextVersion(), price)
	target.markSuperseded(next.GetID())
	n.touch(target)
	n.records = append(n.records, next)
	n.touch(next)
	return next, nil
}

func (n *Negotiation[P]) openProposal(id uuid.UUID) (P, error) {
	var zero P
	for _, r := range n.records {
		if r.GetID() != id {
			continue
		}
		if !r.IsOpen() {
			return zero, shared.NewDomainError(shared.CodeInvalidState,
				fmt.Sprintf("Proposal version %d is no longer open", r.ProposalVersion()))
		}
		return r, nil
	}
	return zero, shared.NewNotFoundError("Proposal")
}

func (n *Negotiation[P]) nextVersion() int {
	if latest, ok := n.Latest(); ok {
		return latest.ProposalVersion() + 1
	}
	return 1
}

func (n *Negotiation[P]) touch(p P) {
	if n.seen[p.GetID()] {
		return
	}
	n.seen[p.GetID()] = true
	n.changed = append(n.changed, p)
}

func validatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return shared.NewDomainError(shared.CodeValidation, "Price must be positive")
	}
	return nil
}

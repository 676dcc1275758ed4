package partner

import (
	"fmt"
	"strings"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Contact holds the descriptive fields shared by suppliers and clients
type Contact struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

func (c Contact) normalized() (Contact, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)
	c.Address = strings.TrimSpace(c.Address)
	if c.Name == "" {
		return c, shared.NewDomainError(shared.CodeValidation, "Name cannot be empty")
	}
	return c, nil
}

func validateDiscount(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return shared.NewDomainError(shared.CodeValidation,
			fmt.Sprintf("Discount rate must be between 0 and 100, got %s", rate.String()))
	}
	return nil
}

// Supplier is a vendor with a running payable balance.
// DiscountRate is recorded but never applied to bill amounts.
type Supplier struct {
	shared.BaseAggregateRoot
	Contact
	Balance      decimal.Decimal
	DiscountRate decimal.Decimal
}

// NewSupplier creates a supplier with a zero balance
func NewSupplier(contact Contact, discountRate decimal.Decimal) (*Supplier, error) {
	s := &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Balance:           decimal.Zero,
	}
	if err := s.apply(contact, discountRate); err != nil {
		return nil, err
	}
	return s, nil
}

// Update replaces the supplier's contact details and discount
func (s *Supplier) Update(contact Contact, discountRate decimal.Decimal) error {
	if err := s.apply(contact, discountRate); err != nil {
		return err
	}
	s.IncrementVersion()
	return nil
}

func (s *Supplier) apply(contact Contact, discountRate decimal.Decimal) error {
	c, err := contact.normalized()
	if err != nil {
		return err
	}
	if err := validateDiscount(discountRate); err != nil {
		return err
	}
	s.Contact = c
	s.DiscountRate = discountRate
	return nil
}

// RecordBill increases the amount owed to the supplier
func (s *Supplier) RecordBill(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError(shared.CodeValidation, "Bill amount must be positive")
	}
	s.Balance = s.Balance.Add(amount)
	s.IncrementVersion()
	return nil
}

// RecordPayment decreases the amount owed to the supplier
func (s *Supplier) RecordPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError(shared.CodeValidation, "Payment amount must be positive")
	}
	s.Balance = s.Balance.Sub(amount)
	s.IncrementVersion()
	return nil
}

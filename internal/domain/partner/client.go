package partner

import (
	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Client is a customer with a running receivable balance.
// DiscountRate is recorded but never applied to invoice amounts.
type Client struct {
	shared.BaseAggregateRoot
	Contact
	Balance      decimal.Decimal
	DiscountRate decimal.Decimal
}

// NewClient creates a client with a zero balance
func NewClient(contact Contact, discountRate decimal.Decimal) (*Client, error) {
	c := &Client{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Balance:           decimal.Zero,
	}
	if err := c.apply(contact, discountRate); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the client's contact details and discount
func (c *Client) Update(contact Contact, discountRate decimal.Decimal) error {
	if err := c.apply(contact, discountRate); err != nil {
		return err
	}
	c.IncrementVersion()
	return nil
}

func (c *Client) apply(contact Contact, discountRate decimal.Decimal) error {
	normalized, err := contact.normalized()
	if err != nil {
		return err
	}
	if err := validateDiscount(discountRate); err != nil {
		return err
	}
	c.Contact = normalized
	c.DiscountRate = discountRate
	return nil
}

// RecordSale increases the amount the client owes
func (c *Client) RecordSale(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError(shared.CodeValidation, "Sale amount must be positive")
	}
	c.Balance = c.Balance.Add(amount)
	c.IncrementVersion()
	return nil
}

// RecordPayment decreases the amount the client owes
func (c *Client) RecordPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError(shared.CodeValidation, "Payment amount must be positive")
	}
	c.Balance = c.Balance.Sub(amount)
	c.IncrementVersion()
	return nil
}

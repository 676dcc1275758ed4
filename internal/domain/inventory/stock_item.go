package inventory

import (
	"strings"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StockItem is a stocked article with an on-hand quantity.
// Quantity is owned by the Ledger: nothing outside a ledger operation may
// write it once the item exists.
type StockItem struct {
	shared.BaseAggregateRoot
	Name        string
	Quantity    int
	UnitRate    decimal.Decimal
	SafetyStock int
}

// NewStockItem creates a stock item with an opening quantity
func NewStockItem(name string, openingQty int, unitRate decimal.Decimal, safetyStock int) (*StockItem, error) {
	item := &StockItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Quantity:          openingQty,
	}
	if openingQty < 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Opening quantity cannot be negative")
	}
	if err := item.apply(name, unitRate, safetyStock); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateDetails changes the descriptive fields of the item
func (s *StockItem) UpdateDetails(name string, unitRate decimal.Decimal, safetyStock int) error {
	if err := s.apply(name, unitRate, safetyStock); err != nil {
		return err
	}
	s.IncrementVersion()
	return nil
}

func (s *StockItem) apply(name string, unitRate decimal.Decimal, safetyStock int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError(shared.CodeValidation, "Item name cannot be empty")
	}
	if unitRate.IsNegative() {
		return shared.NewDomainError(shared.CodeValidation, "Rate cannot be negative")
	}
	if safetyStock < 0 {
		return shared.NewDomainError(shared.CodeValidation, "Safety stock cannot be negative")
	}
	s.Name = name
	s.UnitRate = unitRate
	s.SafetyStock = safetyStock
	return nil
}

// IsBelowSafetyStock reports whether on-hand quantity is under the threshold
func (s *StockItem) IsBelowSafetyStock() bool {
	return s.Quantity < s.SafetyStock
}

// BufferRemaining is quantity minus safety stock; negative when below
func (s *StockItem) BufferRemaining() int {
	return s.Quantity - s.SafetyStock
}

// ListReorderQty is the reorder hint shown on list views: twice the safety
// stock when below it, otherwise zero.
func (s *StockItem) ListReorderQty() int {
	if !s.IsBelowSafetyStock() {
		return 0
	}
	return s.SafetyStock * 2
}

// ReorderShortfall is the quantity needed to reach twice the safety stock,
// used by the detail view and low-stock alerts. Zero when not below.
func (s *StockItem) ReorderShortfall() int {
	if !s.IsBelowSafetyStock() {
		return 0
	}
	return s.SafetyStock*2 - s.Quantity
}

// UrgencyScore is (safety_stock - qty) / safety_stock rounded to two places.
// Zero when the item is not below safety stock.
func (s *StockItem) UrgencyScore() float64 {
	if !s.IsBelowSafetyStock() || s.SafetyStock == 0 {
		return 0
	}
	gap := decimal.NewFromInt(int64(s.SafetyStock - s.Quantity))
	return gap.Div(decimal.NewFromInt(int64(s.SafetyStock))).RoundBank(2).InexactFloat64()
}

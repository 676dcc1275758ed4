package models

import (
	"time"

	"github.com/erp/supplychain/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockItemModel is the persistence model for the StockItem domain entity.
type StockItemModel struct {
	AggregateModel
	Name        string          `gorm:"type:varchar(200);not null"`
	Quantity    int             `gorm:"not null;default:0;check:quantity >= 0"`
	UnitRate    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SafetyStock int             `gorm:"not null;default:0;check:safety_stock >= 0"`
}

// TableName returns the table name for GORM
func (StockItemModel) TableName() string {
	return "stock_items"
}

// ToDomain converts the persistence model to a domain StockItem entity.
func (m *StockItemModel) ToDomain() *inventory.StockItem {
	return &inventory.StockItem{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Quantity:          m.Quantity,
		UnitRate:          m.UnitRate,
		SafetyStock:       m.SafetyStock,
	}
}

// FromDomain populates the persistence model from a domain StockItem entity.
func (m *StockItemModel) FromDomain(s *inventory.StockItem) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.Name = s.Name
	m.Quantity = s.Quantity
	m.UnitRate = s.UnitRate
	m.SafetyStock = s.SafetyStock
}

// StockItemModelFromDomain creates a new persistence model from a domain StockItem entity.
func StockItemModelFromDomain(s *inventory.StockItem) *StockItemModel {
	m := &StockItemModel{}
	m.FromDomain(s)
	return m
}

// StockMovementModel is one row of the append-only stock ledger.
type StockMovementModel struct {
	ID            uuid.UUID              `gorm:"type:uuid;primary_key"`
	StockItemID   uuid.UUID              `gorm:"type:uuid;not null;index:idx_stock_movements_item_created,priority:1"`
	Type          inventory.MovementType `gorm:"column:movement_type;type:varchar(30);not null"`
	Delta         int                    `gorm:"not null"`
	QuantityAfter int                    `gorm:"not null"`
	SafetyStock   int                    `gorm:"not null;default:0"`
	RefType       string                 `gorm:"type:varchar(30)"`
	RefID         *uuid.UUID             `gorm:"type:uuid;index"`
	Reason        string                 `gorm:"type:varchar(200)"`
	Note          string                 `gorm:"type:text"`
	CreatedAt     time.Time              `gorm:"not null;index:idx_stock_movements_item_created,priority:2"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the persistence model to a domain StockMovement.
func (m *StockMovementModel) ToDomain() *inventory.StockMovement {
	return &inventory.StockMovement{
		ID:            m.ID,
		StockItemID:   m.StockItemID,
		Type:          m.Type,
		Delta:         m.Delta,
		QuantityAfter: m.QuantityAfter,
		SafetyStock:   m.SafetyStock,
		RefType:       m.RefType,
		RefID:         m.RefID,
		Reason:        m.Reason,
		Note:          m.Note,
		CreatedAt:     m.CreatedAt,
	}
}

// StockMovementModelFromDomain creates a new persistence model from a domain StockMovement.
func StockMovementModelFromDomain(s *inventory.StockMovement) *StockMovementModel {
	return &StockMovementModel{
		ID:            s.ID,
		StockItemID:   s.StockItemID,
		Type:          s.Type,
		Delta:         s.Delta,
		QuantityAfter: s.QuantityAfter,
		SafetyStock:   s.SafetyStock,
		RefType:       s.RefType,
		RefID:         s.RefID,
		Reason:        s.Reason,
		Note:          s.Note,
		CreatedAt:     s.CreatedAt,
	}
}

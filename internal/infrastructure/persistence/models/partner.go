package models

import (
	"github.com/erp/supplychain/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// ContactColumns holds the contact fields shared by suppliers and clients.
type ContactColumns struct {
	Name    string `gorm:"type:varchar(200);not null"`
	Phone   string `gorm:"type:varchar(50)"`
	Email   string `gorm:"type:varchar(200);index"`
	Address string `gorm:"type:text"`
}

func contactColumns(c partner.Contact) ContactColumns {
	return ContactColumns{Name: c.Name, Phone: c.Phone, Email: c.Email, Address: c.Address}
}

func (c ContactColumns) toDomain() partner.Contact {
	return partner.Contact{Name: c.Name, Phone: c.Phone, Email: c.Email, Address: c.Address}
}

// SupplierModel is the persistence model for the Supplier domain entity.
type SupplierModel struct {
	AggregateModel
	ContactColumns
	Balance      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier entity.
func (m *SupplierModel) ToDomain() *partner.Supplier {
	return &partner.Supplier{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Contact:           m.ContactColumns.toDomain(),
		Balance:           m.Balance,
		DiscountRate:      m.DiscountRate,
	}
}

// FromDomain populates the persistence model from a domain Supplier entity.
func (m *SupplierModel) FromDomain(s *partner.Supplier) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.ContactColumns = contactColumns(s.Contact)
	m.Balance = s.Balance
	m.DiscountRate = s.DiscountRate
}

// SupplierModelFromDomain creates a new persistence model from a domain Supplier entity.
func SupplierModelFromDomain(s *partner.Supplier) *SupplierModel {
	m := &SupplierModel{}
	m.FromDomain(s)
	return m
}

// ClientModel is the persistence model for the Client domain entity.
type ClientModel struct {
	AggregateModel
	ContactColumns
	Balance      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *partner.Client {
	return &partner.Client{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Contact:           m.ContactColumns.toDomain(),
		Balance:           m.Balance,
		DiscountRate:      m.DiscountRate,
	}
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *partner.Client) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.ContactColumns = contactColumns(c.Contact)
	m.Balance = c.Balance
	m.DiscountRate = c.DiscountRate
}

// ClientModelFromDomain creates a new persistence model from a domain Client entity.
func ClientModelFromDomain(c *partner.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}

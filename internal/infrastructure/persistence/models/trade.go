package models

import (
	"time"

	"github.com/erp/supplychain/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate.
type PurchaseOrderModel struct {
	AggregateModel
	SupplierID           uuid.UUID                 `gorm:"type:uuid;not null;index"`
	ItemID               uuid.UUID                 `gorm:"type:uuid;not null;index"`
	QtyOrdered           int                       `gorm:"not null;check:qty_ordered > 0"`
	ExpectedPrice        decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	FinalPricePerItem    decimal.NullDecimal       `gorm:"type:decimal(18,4)"`
	Status               trade.PurchaseOrderStatus `gorm:"type:varchar(30);not null;index"`
	ExpectedDeliveryDate *time.Time
	Notes                string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder.
func (m *PurchaseOrderModel) ToDomain() *trade.PurchaseOrder {
	po := &trade.PurchaseOrder{
		BaseAggregateRoot:    m.ToAggregateRoot(),
		SupplierID:           m.SupplierID,
		ItemID:               m.ItemID,
		QtyOrdered:           m.QtyOrdered,
		ExpectedPrice:        m.ExpectedPrice,
		Status:               m.Status,
		ExpectedDeliveryDate: m.ExpectedDeliveryDate,
		Notes:                m.Notes,
	}
	if m.FinalPricePerItem.Valid {
		p := m.FinalPricePerItem.Decimal
		po.FinalPricePerItem = &p
	}
	return po
}

// FromDomain populates the persistence model from a domain PurchaseOrder.
func (m *PurchaseOrderModel) FromDomain(po *trade.PurchaseOrder) {
	m.FromDomainAggregateRoot(po.BaseAggregateRoot)
	m.SupplierID = po.SupplierID
	m.ItemID = po.ItemID
	m.QtyOrdered = po.QtyOrdered
	m.ExpectedPrice = po.ExpectedPrice
	m.FinalPricePerItem = decimal.NullDecimal{}
	if po.FinalPricePerItem != nil {
		m.FinalPricePerItem = decimal.NewNullDecimal(*po.FinalPricePerItem)
	}
	m.Status = po.Status
	m.ExpectedDeliveryDate = po.ExpectedDeliveryDate
	m.Notes = po.Notes
}

// PurchaseOrderModelFromDomain creates a new persistence model from a domain PurchaseOrder.
func PurchaseOrderModelFromDomain(po *trade.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{}
	m.FromDomain(po)
	return m
}

// AcknowledgementModel is the persistence model for an Acknowledgement.
// The partial unique index keeps a single final acknowledgement per order.
type AcknowledgementModel struct {
	BaseModel
	PurchaseOrderID uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:uq_acknowledgements_po_version,priority:1;uniqueIndex:uq_acknowledgements_po_final,where:is_final"`
	Version         int                         `gorm:"not null;uniqueIndex:uq_acknowledgements_po_version,priority:2"`
	PricePerItem    decimal.Decimal             `gorm:"column:final_price_per_item;type:decimal(18,4);not null"`
	Status          trade.AcknowledgementStatus `gorm:"type:varchar(20);not null"`
	IsFinal         bool                        `gorm:"not null;default:false"`
	SupersededBy    *uuid.UUID                  `gorm:"type:uuid"`
	Note            string                      `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AcknowledgementModel) TableName() string {
	return "acknowledgements"
}

// ToDomain converts the persistence model to a domain Acknowledgement.
func (m *AcknowledgementModel) ToDomain() *trade.Acknowledgement {
	return &trade.Acknowledgement{
		BaseEntity:      m.BaseModel.ToDomain(),
		PurchaseOrderID: m.PurchaseOrderID,
		Version:         m.Version,
		PricePerItem:    m.PricePerItem,
		Status:          m.Status,
		Final:           m.IsFinal,
		SupersededBy:    m.SupersededBy,
		Note:            m.Note,
	}
}

// AcknowledgementModelFromDomain creates a new persistence model from a domain Acknowledgement.
func AcknowledgementModelFromDomain(a *trade.Acknowledgement) *AcknowledgementModel {
	m := &AcknowledgementModel{
		PurchaseOrderID: a.PurchaseOrderID,
		Version:         a.Version,
		PricePerItem:    a.PricePerItem,
		Status:          a.Status,
		IsFinal:         a.Final,
		SupersededBy:    a.SupersededBy,
		Note:            a.Note,
	}
	m.FromDomainBaseEntity(a.BaseEntity)
	return m
}

// DeliveryInboundModel is the persistence model for a DeliveryInbound.
type DeliveryInboundModel struct {
	BaseModel
	PurchaseOrderID uuid.UUID                   `gorm:"type:uuid;not null;index;uniqueIndex:uq_delivery_inbound_received,where:status = 'received'"`
	ExpectedDate    *time.Time                  `gorm:"column:expected_date_of_delivery"`
	ActualDate      *time.Time                  `gorm:"column:actual_date_of_delivery"`
	Status          trade.DeliveryInboundStatus `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (DeliveryInboundModel) TableName() string {
	return "delivery_inbound"
}

// ToDomain converts the persistence model to a domain DeliveryInbound.
func (m *DeliveryInboundModel) ToDomain() *trade.DeliveryInbound {
	return &trade.DeliveryInbound{
		BaseEntity:      m.BaseModel.ToDomain(),
		PurchaseOrderID: m.PurchaseOrderID,
		ExpectedDate:    m.ExpectedDate,
		ActualDate:      m.ActualDate,
		Status:          m.Status,
	}
}

// DeliveryInboundModelFromDomain creates a new persistence model from a domain DeliveryInbound.
func DeliveryInboundModelFromDomain(d *trade.DeliveryInbound) *DeliveryInboundModel {
	m := &DeliveryInboundModel{
		PurchaseOrderID: d.PurchaseOrderID,
		ExpectedDate:    d.ExpectedDate,
		ActualDate:      d.ActualDate,
		Status:          d.Status,
	}
	m.FromDomainBaseEntity(d.BaseEntity)
	return m
}

// BillModel is the persistence model for the Bill aggregate.
type BillModel struct {
	AggregateModel
	PurchaseOrderID   uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uq_bills_purchase_order"`
	SupplierID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	AcknowledgementID uuid.UUID        `gorm:"column:final_acknowledgement_id;type:uuid;not null"`
	Status            trade.BillStatus `gorm:"column:payment_status;type:varchar(20);not null;index"`
	PaymentReference  string           `gorm:"type:varchar(100)"`
	PaidAt            *time.Time
}

// TableName returns the table name for GORM
func (BillModel) TableName() string {
	return "bills"
}

// ToDomain converts the persistence model to a domain Bill.
func (m *BillModel) ToDomain() *trade.Bill {
	return &trade.Bill{
		BaseAggregateRoot: m.ToAggregateRoot(),
		PurchaseOrderID:   m.PurchaseOrderID,
		SupplierID:        m.SupplierID,
		AcknowledgementID: m.AcknowledgementID,
		Status:            m.Status,
		PaymentReference:  m.PaymentReference,
		PaidAt:            m.PaidAt,
	}
}

// BillModelFromDomain creates a new persistence model from a domain Bill.
func BillModelFromDomain(b *trade.Bill) *BillModel {
	m := &BillModel{
		PurchaseOrderID:   b.PurchaseOrderID,
		SupplierID:        b.SupplierID,
		AcknowledgementID: b.AcknowledgementID,
		Status:            b.Status,
		PaymentReference:  b.PaymentReference,
		PaidAt:            b.PaidAt,
	}
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	return m
}

// QuoteModel is the persistence model for a Quote.
type QuoteModel struct {
	BaseModel
	ChainID       uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:uq_quotes_chain_version,priority:1;uniqueIndex:uq_quotes_chain_final,where:is_final"`
	ClientID      uuid.UUID         `gorm:"type:uuid;not null;index:idx_quotes_client_item,priority:1"`
	ItemID        uuid.UUID         `gorm:"type:uuid;not null;index:idx_quotes_client_item,priority:2"`
	QtyOrdered    int               `gorm:"not null;check:qty_ordered > 0"`
	ProposedPrice decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Status        trade.QuoteStatus `gorm:"type:varchar(20);not null;index"`
	Version       int               `gorm:"not null;uniqueIndex:uq_quotes_chain_version,priority:2"`
	IsFinal       bool              `gorm:"not null;default:false"`
	SupersededBy  *uuid.UUID        `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (QuoteModel) TableName() string {
	return "quotes"
}

// ToDomain converts the persistence model to a domain Quote.
func (m *QuoteModel) ToDomain() *trade.Quote {
	return &trade.Quote{
		BaseEntity:    m.BaseModel.ToDomain(),
		ChainID:       m.ChainID,
		ClientID:      m.ClientID,
		ItemID:        m.ItemID,
		QtyOrdered:    m.QtyOrdered,
		ProposedPrice: m.ProposedPrice,
		Status:        m.Status,
		Version:       m.Version,
		Final:         m.IsFinal,
		SupersededBy:  m.SupersededBy,
	}
}

// QuoteModelFromDomain creates a new persistence model from a domain Quote.
func QuoteModelFromDomain(q *trade.Quote) *QuoteModel {
	m := &QuoteModel{
		ChainID:       q.ChainID,
		ClientID:      q.ClientID,
		ItemID:        q.ItemID,
		QtyOrdered:    q.QtyOrdered,
		ProposedPrice: q.ProposedPrice,
		Status:        q.Status,
		Version:       q.Version,
		IsFinal:       q.Final,
		SupersededBy:  q.SupersededBy,
	}
	m.FromDomainBaseEntity(q.BaseEntity)
	return m
}

// SalesOrderModel is the persistence model for the SalesOrder aggregate.
type SalesOrderModel struct {
	AggregateModel
	ClientID   uuid.UUID              `gorm:"type:uuid;not null;index"`
	QuoteID    *uuid.UUID             `gorm:"type:uuid"`
	ItemID     uuid.UUID              `gorm:"type:uuid;not null;index"`
	QtyOrdered int                    `gorm:"not null;check:qty_ordered > 0"`
	FinalPrice decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Status     trade.SalesOrderStatus `gorm:"type:varchar(30);not null;index"`
	InvoiceID  *uuid.UUID             `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (SalesOrderModel) TableName() string {
	return "sales_orders"
}

// ToDomain converts the persistence model to a domain SalesOrder.
func (m *SalesOrderModel) ToDomain() *trade.SalesOrder {
	return &trade.SalesOrder{
		BaseAggregateRoot: m.ToAggregateRoot(),
		ClientID:          m.ClientID,
		QuoteID:           m.QuoteID,
		ItemID:            m.ItemID,
		QtyOrdered:        m.QtyOrdered,
		FinalPrice:        m.FinalPrice,
		Status:            m.Status,
		InvoiceID:         m.InvoiceID,
	}
}

// SalesOrderModelFromDomain creates a new persistence model from a domain SalesOrder.
func SalesOrderModelFromDomain(o *trade.SalesOrder) *SalesOrderModel {
	m := &SalesOrderModel{
		ClientID:   o.ClientID,
		QuoteID:    o.QuoteID,
		ItemID:     o.ItemID,
		QtyOrdered: o.QtyOrdered,
		FinalPrice: o.FinalPrice,
		Status:     o.Status,
		InvoiceID:  o.InvoiceID,
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	return m
}

// DeliveryOutboundModel is the persistence model for a DeliveryOutbound.
type DeliveryOutboundModel struct {
	BaseModel
	SalesOrderID   uuid.UUID                    `gorm:"column:order_id;type:uuid;not null;index"`
	InvoiceID      *uuid.UUID                   `gorm:"type:uuid"`
	DateOfDelivery time.Time                    `gorm:"not null"`
	DeliveredQty   int                          `gorm:"not null;check:delivered_qty > 0"`
	Status         trade.DeliveryOutboundStatus `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (DeliveryOutboundModel) TableName() string {
	return "delivery_outbound"
}

// ToDomain converts the persistence model to a domain DeliveryOutbound.
func (m *DeliveryOutboundModel) ToDomain() trade.DeliveryOutbound {
	return trade.DeliveryOutbound{
		BaseEntity:     m.BaseModel.ToDomain(),
		SalesOrderID:   m.SalesOrderID,
		InvoiceID:      m.InvoiceID,
		DateOfDelivery: m.DateOfDelivery,
		DeliveredQty:   m.DeliveredQty,
		Status:         m.Status,
	}
}

// DeliveryOutboundModelFromDomain creates a new persistence model from a domain DeliveryOutbound.
func DeliveryOutboundModelFromDomain(d *trade.DeliveryOutbound) *DeliveryOutboundModel {
	m := &DeliveryOutboundModel{
		SalesOrderID:   d.SalesOrderID,
		InvoiceID:      d.InvoiceID,
		DateOfDelivery: d.DateOfDelivery,
		DeliveredQty:   d.DeliveredQty,
		Status:         d.Status,
	}
	m.FromDomainBaseEntity(d.BaseEntity)
	return m
}

// InvoiceModel is the persistence model for the Invoice aggregate.
type InvoiceModel struct {
	AggregateModel
	SalesOrderID  uuid.UUID           `gorm:"column:order_id;type:uuid;not null;uniqueIndex:uq_invoices_order"`
	ClientID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	QuoteID       *uuid.UUID          `gorm:"type:uuid"`
	Amount        decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	PaymentStatus trade.InvoiceStatus `gorm:"type:varchar(20);not null;index"`
	Voided        bool                `gorm:"not null;default:false"`
	PaidAt        *time.Time
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice.
func (m *InvoiceModel) ToDomain() *trade.Invoice {
	return &trade.Invoice{
		BaseAggregateRoot: m.ToAggregateRoot(),
		SalesOrderID:      m.SalesOrderID,
		ClientID:          m.ClientID,
		QuoteID:           m.QuoteID,
		Amount:            m.Amount,
		PaymentStatus:     m.PaymentStatus,
		Voided:            m.Voided,
		PaidAt:            m.PaidAt,
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(i *trade.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		SalesOrderID:  i.SalesOrderID,
		ClientID:      i.ClientID,
		QuoteID:       i.QuoteID,
		Amount:        i.Amount,
		PaymentStatus: i.PaymentStatus,
		Voided:        i.Voided,
		PaidAt:        i.PaidAt,
	}
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	return m
}

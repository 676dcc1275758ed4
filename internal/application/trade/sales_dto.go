package trade

import (
	"time"

	"github.com/erp/supplychain/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ============================================================================
// Quote DTOs
// ============================================================================

// CreateQuoteRequest opens a new quote chain
type CreateQuoteRequest struct {
	ClientID      uuid.UUID       `json:"client_id" binding:"required"`
	ItemID        uuid.UUID       `json:"item_id" binding:"required"`
	QtyOrdered    int             `json:"qty_ordered" binding:"required,gt=0"`
	ProposedPrice decimal.Decimal `json:"proposed_price" binding:"decimal_gt0"`
}

// ReviseQuoteRequest offers a new price on an open quote
type ReviseQuoteRequest struct {
	ProposedPrice decimal.Decimal `json:"proposed_price" binding:"decimal_gt0"`
}

// QuoteListFilter represents filter options for quotes
type QuoteListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=sent revised accepted superseded"`
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
	ItemID   string `form:"item_id" binding:"omitempty,uuid"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// QuoteResponse represents one quote version
type QuoteResponse struct {
	ID            uuid.UUID       `json:"quote_id"`
	ChainID       uuid.UUID       `json:"chain_id"`
	ClientID      uuid.UUID       `json:"client_id"`
	ItemID        uuid.UUID       `json:"item_id"`
	QtyOrdered    int             `json:"qty_ordered"`
	ProposedPrice decimal.Decimal `json:"proposed_price"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	Version       int             `json:"version"`
	IsFinal       bool            `json:"is_final"`
	SupersededBy  *uuid.UUID      `json:"superseded_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToQuoteResponse converts a domain Quote
func ToQuoteResponse(q *trade.Quote) QuoteResponse {
	return QuoteResponse{
		ID:            q.ID,
		ChainID:       q.ChainID,
		ClientID:      q.ClientID,
		ItemID:        q.ItemID,
		QtyOrdered:    q.QtyOrdered,
		ProposedPrice: q.ProposedPrice,
		Amount:        q.Amount(),
		Status:        q.Status.String(),
		Version:       q.Version,
		IsFinal:       q.Final,
		SupersededBy:  q.SupersededBy,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}
}

// AcceptQuoteResponse names the order created from an accepted quote
type AcceptQuoteResponse struct {
	QuoteID   uuid.UUID       `json:"quote_id"`
	OrderID   uuid.UUID       `json:"so_id"`
	InvoiceID uuid.UUID       `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
	Message   string          `json:"message"`
}

// ============================================================================
// Sales Order DTOs
// ============================================================================

// CreateSalesOrderRequest places an order without a quote
type CreateSalesOrderRequest struct {
	ClientID   uuid.UUID       `json:"client_id" binding:"required"`
	ItemID     uuid.UUID       `json:"item_id" binding:"required"`
	QtyOrdered int             `json:"qty_ordered" binding:"required,gt=0"`
	FinalPrice decimal.Decimal `json:"final_price" binding:"decimal_gt0"`
}

// SalesOrderListFilter represents filter options for sales orders
type SalesOrderListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending_price_negotiation confirmed partially_delivered delivered cancelled"`
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
	ItemID   string `form:"item_id" binding:"omitempty,uuid"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SalesOrderResponse represents a sales order in API responses
type SalesOrderResponse struct {
	ID           uuid.UUID       `json:"so_id"`
	ClientID     uuid.UUID       `json:"client_id"`
	QuoteID      *uuid.UUID      `json:"quote_id"`
	ItemID       uuid.UUID       `json:"item_id"`
	QtyOrdered   int             `json:"qty_ordered"`
	FinalPrice   decimal.Decimal `json:"final_price"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"order_status"`
	InvoiceID    *uuid.UUID      `json:"invoice_id"`
	DeliveredQty *int            `json:"delivered_qty,omitempty"`
	Version      int             `json:"version"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToSalesOrderResponse converts a domain SalesOrder
func ToSalesOrderResponse(o *trade.SalesOrder) SalesOrderResponse {
	return SalesOrderResponse{
		ID:         o.ID,
		ClientID:   o.ClientID,
		QuoteID:    o.QuoteID,
		ItemID:     o.ItemID,
		QtyOrdered: o.QtyOrdered,
		FinalPrice: o.FinalPrice,
		Amount:     o.Amount(),
		Status:     o.Status.String(),
		InvoiceID:  o.InvoiceID,
		Version:    o.Version,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

// DeliverSalesOrderRequest records a shipment against an order
type DeliverSalesOrderRequest struct {
	DateOfDelivery string `json:"date_of_delivery" binding:"required,datetime=2006-01-02"`
	DeliveredQty   int    `json:"delivered_qty" binding:"required,gt=0"`
}

// DeliveryOutboundResponse represents one shipment
type DeliveryOutboundResponse struct {
	ID             uuid.UUID  `json:"delivery_outbound_id"`
	SalesOrderID   uuid.UUID  `json:"so_id"`
	InvoiceID      *uuid.UUID `json:"invoice_id"`
	DateOfDelivery string     `json:"date_of_delivery"`
	DeliveredQty   int        `json:"delivered_qty"`
	Status         string     `json:"status"`
	OrderStatus    string     `json:"order_status,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ToDeliveryOutboundResponse converts a domain DeliveryOutbound
func ToDeliveryOutboundResponse(d *trade.DeliveryOutbound) DeliveryOutboundResponse {
	return DeliveryOutboundResponse{
		ID:             d.ID,
		SalesOrderID:   d.SalesOrderID,
		InvoiceID:      d.InvoiceID,
		DateOfDelivery: d.DateOfDelivery.Format(DateLayout),
		DeliveredQty:   d.DeliveredQty,
		Status:         string(d.Status),
		CreatedAt:      d.CreatedAt,
	}
}

// CancelSalesOrderResponse reports the released reservation
type CancelSalesOrderResponse struct {
	ID          uuid.UUID `json:"so_id"`
	Status      string    `json:"order_status"`
	ReleasedQty int       `json:"released_qty"`
	Message     string    `json:"message"`
}

// ============================================================================
// Invoice DTOs
// ============================================================================

// InvoiceListFilter represents filter options for invoices
type InvoiceListFilter struct {
	PaymentStatus string `form:"payment_status" binding:"omitempty,oneof=pending voided paid"`
	ClientID      string `form:"client_id" binding:"omitempty,uuid"`
	OrderID       string `form:"so_id" binding:"omitempty,uuid"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            uuid.UUID       `json:"invoice_id"`
	SalesOrderID  uuid.UUID       `json:"so_id"`
	ClientID      uuid.UUID       `json:"client_id"`
	QuoteID       *uuid.UUID      `json:"quote_id"`
	Amount        decimal.Decimal `json:"amount"`
	InvoiceDate   string          `json:"invoice_date"`
	PaymentStatus string          `json:"payment_status"`
	Voided        bool            `json:"voided"`
	PaidAt        *time.Time      `json:"paid_at"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToInvoiceResponse converts a domain Invoice
func ToInvoiceResponse(i *trade.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            i.ID,
		SalesOrderID:  i.SalesOrderID,
		ClientID:      i.ClientID,
		QuoteID:       i.QuoteID,
		Amount:        i.Amount,
		InvoiceDate:   i.CreatedAt.Format(DateLayout),
		PaymentStatus: i.PaymentStatus.String(),
		Voided:        i.Voided,
		PaidAt:        i.PaidAt,
		Version:       i.Version,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

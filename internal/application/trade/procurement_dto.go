package trade

import (
	"time"

	"github.com/erp/supplychain/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// ============================================================================
// Purchase Order DTOs
// ============================================================================

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID           uuid.UUID       `json:"supplier_id" binding:"required"`
	ItemID               uuid.UUID       `json:"item_id" binding:"required"`
	QtyOrdered           int             `json:"qty_ordered" binding:"required,gt=0"`
	ExpectedPricePerItem decimal.Decimal `json:"expected_price_per_item" binding:"decimal_gt0"`
	ExpectedDeliveryDate *string         `json:"expected_delivery_date" binding:"omitempty,datetime=2006-01-02"`
	Notes                string          `json:"notes" binding:"max=2000"`
}

// PurchaseOrderListFilter represents filter options for purchase orders
type PurchaseOrderListFilter struct {
	Status     string `form:"status" binding:"omitempty,oneof=pending_price_negotiation acknowledged received"`
	SupplierID string `form:"supplier_id" binding:"omitempty,uuid"`
	ItemID     string `form:"item_id" binding:"omitempty,uuid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID                   uuid.UUID        `json:"po_id"`
	SupplierID           uuid.UUID        `json:"supplier_id"`
	ItemID               uuid.UUID        `json:"item_id"`
	QtyOrdered           int              `json:"qty_ordered"`
	ExpectedPricePerItem decimal.Decimal  `json:"expected_price_per_item"`
	FinalPricePerItem    *decimal.Decimal `json:"final_price_per_item"`
	TotalAmount          decimal.Decimal  `json:"total_amount"`
	Status               string           `json:"po_status"`
	ExpectedDeliveryDate *string          `json:"expected_delivery_date"`
	Notes                string           `json:"notes,omitempty"`
	Version              int              `json:"version"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// ToPurchaseOrderResponse converts a domain PurchaseOrder
func ToPurchaseOrderResponse(po *trade.PurchaseOrder) PurchaseOrderResponse {
	return PurchaseOrderResponse{
		ID:                   po.ID,
		SupplierID:           po.SupplierID,
		ItemID:               po.ItemID,
		QtyOrdered:           po.QtyOrdered,
		ExpectedPricePerItem: po.ExpectedPrice,
		FinalPricePerItem:    po.FinalPricePerItem,
		TotalAmount:          po.TotalAmount(),
		Status:               po.Status.String(),
		ExpectedDeliveryDate: formatDate(po.ExpectedDeliveryDate),
		Notes:                po.Notes,
		Version:              po.Version,
		CreatedAt:            po.CreatedAt,
		UpdatedAt:            po.UpdatedAt,
	}
}

// ============================================================================
// Acknowledgement DTOs
// ============================================================================

// AcknowledgePurchaseOrderRequest is the supplier's answer to a purchase order
type AcknowledgePurchaseOrderRequest struct {
	Action            string           `json:"action" binding:"required"`
	FinalPricePerItem *decimal.Decimal `json:"final_price_per_item" binding:"omitempty,decimal_gt0"`
	Note              string           `json:"note" binding:"max=1000"`
}

// AcknowledgementResponse represents one acknowledgement version
type AcknowledgementResponse struct {
	ID                uuid.UUID       `json:"ack_id"`
	PurchaseOrderID   uuid.UUID       `json:"po_id"`
	FinalPricePerItem decimal.Decimal `json:"final_price_per_item"`
	Status            string          `json:"status"`
	IsFinal           bool            `json:"is_final"`
	Version           int             `json:"version"`
	SupersededBy      *uuid.UUID      `json:"superseded_by,omitempty"`
	Note              string          `json:"note,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToAcknowledgementResponse converts a domain Acknowledgement
func ToAcknowledgementResponse(a *trade.Acknowledgement) AcknowledgementResponse {
	return AcknowledgementResponse{
		ID:                a.ID,
		PurchaseOrderID:   a.PurchaseOrderID,
		FinalPricePerItem: a.PricePerItem,
		Status:            a.Status.String(),
		IsFinal:           a.Final,
		Version:           a.Version,
		SupersededBy:      a.SupersededBy,
		Note:              a.Note,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

// ============================================================================
// Delivery DTOs
// ============================================================================

// ReceivePurchaseOrderRequest records the arrival of the goods
type ReceivePurchaseOrderRequest struct {
	ActualDateOfDelivery string `json:"actual_date_of_delivery" binding:"required,datetime=2006-01-02"`
}

// ReceivePurchaseOrderResponse reports the stock level after a receipt
type ReceivePurchaseOrderResponse struct {
	PurchaseOrderID   uuid.UUID `json:"po_id"`
	DeliveryInboundID uuid.UUID `json:"delivery_inbound_id"`
	NewInventoryQty   int       `json:"new_inventory_qty"`
	Message           string    `json:"message"`
}

// DeliveryInboundResponse represents an inbound delivery
type DeliveryInboundResponse struct {
	ID                   uuid.UUID `json:"delivery_inbound_id"`
	PurchaseOrderID      uuid.UUID `json:"po_id"`
	ExpectedDeliveryDate *string   `json:"expected_date_of_delivery"`
	ActualDeliveryDate   *string   `json:"actual_date_of_delivery"`
	Status               string    `json:"status"`
	CreatedAt            time.Time `json:"created_at"`
}

// ToDeliveryInboundResponse converts a domain DeliveryInbound
func ToDeliveryInboundResponse(d *trade.DeliveryInbound) DeliveryInboundResponse {
	return DeliveryInboundResponse{
		ID:                   d.ID,
		PurchaseOrderID:      d.PurchaseOrderID,
		ExpectedDeliveryDate: formatDate(d.ExpectedDate),
		ActualDeliveryDate:   formatDate(d.ActualDate),
		Status:               d.Status.String(),
		CreatedAt:            d.CreatedAt,
	}
}

// ============================================================================
// Bill DTOs
// ============================================================================

// CreateBillRequest bills a received purchase order
type CreateBillRequest struct {
	PurchaseOrderID uuid.UUID `json:"po_id" binding:"required"`
}

// PayBillRequest settles a bill
type PayBillRequest struct {
	PaymentReference string `json:"payment_reference" binding:"required,min=3,max=200"`
}

// BillListFilter represents filter options for bills
type BillListFilter struct {
	Status          string `form:"payment_status" binding:"omitempty,oneof=pending paid"`
	SupplierID      string `form:"supplier_id" binding:"omitempty,uuid"`
	PurchaseOrderID string `form:"po_id" binding:"omitempty,uuid"`
	Page            int    `form:"page" binding:"omitempty,min=1"`
	PageSize        int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// BillResponse represents a bill with its computed amount
type BillResponse struct {
	ID               uuid.UUID       `json:"bill_id"`
	PurchaseOrderID  uuid.UUID       `json:"po_id"`
	AckID            uuid.UUID       `json:"ack_id"`
	SupplierID       uuid.UUID       `json:"supplier_id"`
	Amount           decimal.Decimal `json:"amount"`
	BillDate         string          `json:"bill_date"`
	PaymentReference string          `json:"payment_reference"`
	PaymentStatus    string          `json:"payment_status"`
	PaidAt           *time.Time      `json:"paid_at"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ToBillResponse converts a domain Bill with the amount computed for it
func ToBillResponse(b *trade.Bill, amount decimal.Decimal) BillResponse {
	return BillResponse{
		ID:               b.ID,
		PurchaseOrderID:  b.PurchaseOrderID,
		AckID:            b.AcknowledgementID,
		SupplierID:       b.SupplierID,
		Amount:           amount,
		BillDate:         b.CreatedAt.Format(DateLayout),
		PaymentReference: b.PaymentReference,
		PaymentStatus:    b.Status.String(),
		PaidAt:           b.PaidAt,
		CreatedAt:        b.CreatedAt,
	}
}

// BillPaymentResponse confirms a bill payment
type BillPaymentResponse struct {
	ID               uuid.UUID       `json:"bill_id"`
	PaymentStatus    string          `json:"payment_status"`
	PaymentReference string          `json:"payment_reference"`
	Amount           decimal.Decimal `json:"amount"`
	PaidAt           time.Time       `json:"paid_at"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

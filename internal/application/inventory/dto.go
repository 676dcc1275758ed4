package inventory

import (
	"fmt"
	"time"

	"github.com/erp/supplychain/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ============================================================================
// Stock Item DTOs
// ============================================================================

// CreateStockItemRequest represents a request to register a stock item
type CreateStockItemRequest struct {
	ItemName    string          `json:"item_name" binding:"required,min=1,max=200"`
	ItemQty     int             `json:"item_qty" binding:"min=0"`
	Rate        decimal.Decimal `json:"rate" binding:"decimal_gt0"`
	SafetyStock int             `json:"safety_stock" binding:"min=0"`
}

// UpdateStockItemRequest represents a partial update of a stock item.
// Quantity is not updatable; it changes only through adjustments.
type UpdateStockItemRequest struct {
	ItemName    *string          `json:"item_name" binding:"omitempty,min=1,max=200"`
	Rate        *decimal.Decimal `json:"rate" binding:"omitempty,decimal_gt0"`
	SafetyStock *int             `json:"safety_stock" binding:"omitempty,min=0"`
}

// StockItemListFilter represents filter options for the stock item list
type StockItemListFilter struct {
	Name     string `form:"name"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// StockItemResponse is returned when an item is created
type StockItemResponse struct {
	ItemID      uuid.UUID       `json:"item_id"`
	ItemName    string          `json:"item_name"`
	ItemQty     int             `json:"item_qty"`
	Rate        decimal.Decimal `json:"rate"`
	SafetyStock int             `json:"safety_stock"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// StockItemListResponse is one row of the stock item list
type StockItemListResponse struct {
	ItemID              uuid.UUID       `json:"item_id"`
	ItemName            string          `json:"item_name"`
	ItemQty             int             `json:"item_qty"`
	Rate                decimal.Decimal `json:"rate"`
	SafetyStock         int             `json:"safety_stock"`
	BelowSafetyStock    bool            `json:"below_safety_stock"`
	BufferRemaining     int             `json:"buffer_remaining"`
	SuggestedReorderQty int             `json:"suggested_reorder_qty"`
	HasInbound          bool            `json:"has_inbound"`
	HasOutbound         bool            `json:"has_outbound"`
}

// StockItemDetailResponse is the detail view of a stock item
type StockItemDetailResponse struct {
	ItemID              uuid.UUID       `json:"item_id"`
	ItemName            string          `json:"item_name"`
	ItemQty             int             `json:"item_qty"`
	Rate                decimal.Decimal `json:"rate"`
	SafetyStock         int             `json:"safety_stock"`
	BelowSafetyStock    bool            `json:"below_safety_stock"`
	BufferRemaining     int             `json:"buffer_remaining"`
	SuggestedReorderQty int             `json:"suggested_reorder_qty"`
	HasInbound          bool            `json:"has_inbound"`
	HasOutbound         bool            `json:"has_outbound"`
	Version             int             `json:"version"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// ============================================================================
// Adjustment DTOs
// ============================================================================

// AdjustStockRequest represents a manual stock adjustment
type AdjustStockRequest struct {
	AdjustmentType string `json:"adjustment_type" binding:"required,oneof_fold=increase decrease"`
	Quantity       int    `json:"quantity" binding:"required,gt=0"`
	Reason         string `json:"reason" binding:"required,min=3,max=500"`
	Note           string `json:"note" binding:"max=1000"`
}

// AdjustStockResponse reports the quantity after an adjustment
type AdjustStockResponse struct {
	ItemID     uuid.UUID `json:"item_id"`
	NewItemQty int       `json:"new_item_qty"`
	Message    string    `json:"message"`
}

// LowStockAlertResponse is one entry of the low stock report
type LowStockAlertResponse struct {
	ItemID              uuid.UUID `json:"item_id"`
	ItemName            string    `json:"item_name"`
	CurrentQty          int       `json:"current_qty"`
	SafetyStock         int       `json:"safety_stock"`
	SuggestedReorderQty int       `json:"suggested_reorder_qty"`
	UrgencyScore        float64   `json:"urgency_score"`
}

// MovementListFilter represents pagination for the ledger history
type MovementListFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// StockMovementResponse is one ledger entry
type StockMovementResponse struct {
	MovementID    uuid.UUID  `json:"movement_id"`
	ItemID        uuid.UUID  `json:"item_id"`
	MovementType  string     `json:"movement_type"`
	Delta         int        `json:"delta"`
	QuantityAfter int        `json:"quantity_after"`
	RefType       string     `json:"ref_type,omitempty"`
	RefID         *uuid.UUID `json:"ref_id,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Note          string     `json:"note,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ============================================================================
// Converters
// ============================================================================

// ToStockItemResponse converts a domain StockItem to StockItemResponse
func ToStockItemResponse(item *inventory.StockItem) StockItemResponse {
	return StockItemResponse{
		ItemID:      item.ID,
		ItemName:    item.Name,
		ItemQty:     item.Quantity,
		Rate:        item.UnitRate,
		SafetyStock: item.SafetyStock,
		Version:     item.Version,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

// ToStockItemListResponse converts a domain StockItem to a list row.
// The list suggests a full reorder of twice the safety stock.
func ToStockItemListResponse(item *inventory.StockItem, flow ItemFlow) StockItemListResponse {
	return StockItemListResponse{
		ItemID:              item.ID,
		ItemName:            item.Name,
		ItemQty:             item.Quantity,
		Rate:                item.UnitRate,
		SafetyStock:         item.SafetyStock,
		BelowSafetyStock:    item.IsBelowSafetyStock(),
		BufferRemaining:     max(item.BufferRemaining(), 0),
		SuggestedReorderQty: item.ListReorderQty(),
		HasInbound:          flow.Inbound,
		HasOutbound:         flow.Outbound,
	}
}

// ToStockItemDetailResponse converts a domain StockItem to its detail view.
// The detail suggests only the shortfall up to twice the safety stock.
func ToStockItemDetailResponse(item *inventory.StockItem, flow ItemFlow) StockItemDetailResponse {
	return StockItemDetailResponse{
		ItemID:              item.ID,
		ItemName:            item.Name,
		ItemQty:             item.Quantity,
		Rate:                item.UnitRate,
		SafetyStock:         item.SafetyStock,
		BelowSafetyStock:    item.IsBelowSafetyStock(),
		BufferRemaining:     item.BufferRemaining(),
		SuggestedReorderQty: item.ReorderShortfall(),
		HasInbound:          flow.Inbound,
		HasOutbound:         flow.Outbound,
		Version:             item.Version,
		CreatedAt:           item.CreatedAt,
		UpdatedAt:           item.UpdatedAt,
	}
}

// ToLowStockAlertResponses converts alerts keeping their urgency order
func ToLowStockAlertResponses(alerts []inventory.LowStockAlert) []LowStockAlertResponse {
	out := make([]LowStockAlertResponse, len(alerts))
	for i, a := range alerts {
		out[i] = LowStockAlertResponse{
			ItemID:              a.Item.ID,
			ItemName:            a.Item.Name,
			CurrentQty:          a.Item.Quantity,
			SafetyStock:         a.Item.SafetyStock,
			SuggestedReorderQty: a.SuggestedReorderQty,
			UrgencyScore:        a.UrgencyScore,
		}
	}
	return out
}

// ToStockMovementResponse converts a ledger movement
func ToStockMovementResponse(m *inventory.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		MovementID:    m.ID,
		ItemID:        m.StockItemID,
		MovementType:  m.Type.String(),
		Delta:         m.Delta,
		QuantityAfter: m.QuantityAfter,
		RefType:       m.RefType,
		RefID:         m.RefID,
		Reason:        m.Reason,
		Note:          m.Note,
		CreatedAt:     m.CreatedAt,
	}
}

func adjustmentMessage(adj inventory.AdjustmentType, qty int, reason string) string {
	verb := "increased"
	if adj == inventory.AdjustmentDecrease {
		verb = "decreased"
	}
	return fmt.Sprintf("Stock %s by %d. Reason: %s", verb, qty, reason)
}

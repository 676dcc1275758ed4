package inventory

import (
	"context"
	"fmt"

	"github.com/erp/supplychain/internal/domain/inventory"
	"github.com/erp/supplychain/internal/domain/shared"
	"go.uber.org/zap"
)

// StockAlert is the notification raised when an item drops under its safety stock
type StockAlert struct {
	ItemID              string `json:"item_id"`
	CurrentQty          int    `json:"current_qty"`
	SafetyStock         int    `json:"safety_stock"`
	SuggestedReorderQty int    `json:"suggested_reorder_qty"`
	AlertType           string `json:"alert_type"` // low_stock or out_of_stock
}

// StockAlertNotifier delivers stock alerts
type StockAlertNotifier interface {
	SendAlert(ctx context.Context, alert StockAlert) error
}

// LowStockHandler handles StockBelowSafetyStock events
type LowStockHandler struct {
	logger   *zap.Logger
	notifier StockAlertNotifier
}

// NewLowStockHandler creates a new handler for low stock events
func NewLowStockHandler(logger *zap.Logger) *LowStockHandler {
	return &LowStockHandler{logger: logger}
}

// WithNotifier sets the notifier for sending alerts
func (h *LowStockHandler) WithNotifier(notifier StockAlertNotifier) *LowStockHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockBelowSafetyStock}
}

// Handle processes a StockBelowSafetyStockEvent
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	low, ok := event.(*inventory.StockBelowSafetyStockEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeStockBelowSafetyStock, event.EventType())
	}

	alert := StockAlert{
		ItemID:              low.ItemID.String(),
		CurrentQty:          low.Quantity,
		SafetyStock:         low.SafetyStock,
		SuggestedReorderQty: low.SuggestedReorderQty,
		AlertType:           "low_stock",
	}
	if low.Quantity == 0 {
		alert.AlertType = "out_of_stock"
	}

	h.logger.Warn("stock below safety stock",
		zap.String("item_id", alert.ItemID),
		zap.Int("current_qty", alert.CurrentQty),
		zap.Int("safety_stock", alert.SafetyStock),
		zap.Int("suggested_reorder_qty", alert.SuggestedReorderQty),
		zap.String("alert_type", alert.AlertType),
	)

	if h.notifier != nil {
		// notification failures never fail event handling
		if err := h.notifier.SendAlert(ctx, alert); err != nil {
			h.logger.Error("failed to send stock alert", zap.String("item_id", alert.ItemID), zap.Error(err))
		}
	}
	return nil
}

var _ shared.EventHandler = (*LowStockHandler)(nil)

package inventory

import (
	"context"

	"go.uber.org/zap"
)

// LowStockSource lists the items currently under their safety stock
type LowStockSource interface {
	LowStockAlerts(ctx context.Context) ([]LowStockAlertResponse, error)
}

// LowStockSweep reports every item below its safety stock. Event driven alerts
// only fire on the movement that crosses the threshold; the sweep also catches
// items that were created low or had their safety stock raised.
type LowStockSweep struct {
	source LowStockSource
	logger *zap.Logger
	last   int
}

// NewLowStockSweep creates the periodic low stock job
func NewLowStockSweep(source LowStockSource, logger *zap.Logger) *LowStockSweep {
	return &LowStockSweep{source: source, logger: logger}
}

// Name identifies the job in scheduler logs
func (s *LowStockSweep) Name() string { return "low_stock_sweep" }

// Run logs one line per low item, most urgent first
func (s *LowStockSweep) Run(ctx context.Context) error {
	alerts, err := s.source.LowStockAlerts(ctx)
	if err != nil {
		return err
	}
	s.last = len(alerts)

	if len(alerts) == 0 {
		s.logger.Debug("no items below safety stock")
		return nil
	}

	s.logger.Info("items below safety stock", zap.Int("count", len(alerts)))
	for _, a := range alerts {
		s.logger.Warn("reorder suggested",
			zap.String("item_id", a.ItemID.String()),
			zap.String("item_name", a.ItemName),
			zap.Int("current_qty", a.CurrentQty),
			zap.Int("safety_stock", a.SafetyStock),
			zap.Int("suggested_reorder_qty", a.SuggestedReorderQty),
			zap.Float64("urgency_score", a.UrgencyScore),
		)
	}
	return nil
}

// LastCount is the number of low items found by the latest run
func (s *LowStockSweep) LastCount() int { return s.last }

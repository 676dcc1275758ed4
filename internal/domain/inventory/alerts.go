package inventory

import (
	"cmp"
	"slices"
)

// LowStockAlert describes one item under its safety stock
type LowStockAlert struct {
	Item                StockItem
	SuggestedReorderQty int
	UrgencyScore        float64
}

// BuildLowStockAlerts filters items below safety stock and orders them by
// urgency, most urgent first. Ties keep the input order.
func BuildLowStockAlerts(items []StockItem) []LowStockAlert {
	alerts := make([]LowStockAlert, 0, len(items))
	for i := range items {
		item := items[i]
		if !item.IsBelowSafetyStock() {
			continue
		}
		alerts = append(alerts, LowStockAlert{
			Item:                item,
			SuggestedReorderQty: item.ReorderShortfall(),
			UrgencyScore:        item.UrgencyScore(),
		})
	}
	slices.SortStableFunc(alerts, func(a, b LowStockAlert) int {
		return cmp.Compare(b.UrgencyScore, a.UrgencyScore)
	})
	return alerts
}

package persistence

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/erp/supplychain/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder normalizes a client supplied direction. Anything but
// "asc" sorts newest or largest first.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when the whitelist names it and
// defaultField otherwise. The result is concatenated into ORDER BY, so the
// whitelist is the only thing standing between a query string and the SQL.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// SettlementSortFields serves bills and invoices, which share their payment columns
var SettlementSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"payment_status": true,
	"paid_at":        true,
}

// StockItemSortFields contains allowed sort fields for stock items
var StockItemSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"name":         true,
	"quantity":     true,
	"unit_rate":    true,
	"safety_stock": true,
}

// PartnerSortFields contains allowed sort fields for suppliers and clients
var PartnerSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"balance":    true,
}

// OrderSortFields contains allowed sort fields for purchase and sales orders
var OrderSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"status":      true,
	"qty_ordered": true,
}

// QuoteSortFields contains allowed sort fields for quotes
var QuoteSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"status":         true,
	"version":        true,
	"proposed_price": true,
}

// listScope applies whitelisted filters, ordering and pagination.
// columns maps filter keys to column names; unknown keys are ignored.
func listScope(filter shared.Filter, columns map[string]string, sortFields map[string]bool, defaultSort string) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		query = whereScope(filter, columns)(query)

		field := ValidateSortField(filter.OrderBy, sortFields, defaultSort)
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
		if field != "id" {
			query = query.Order("id")
		}

		if filter.PageSize > 0 {
			query = query.Offset(filter.Offset()).Limit(filter.PageSize)
		}
		return query
	}
}

// whereScope applies only the filters, for counts. A column mapped with a
// leading "~" matches case-insensitively on a substring.
func whereScope(filter shared.Filter, columns map[string]string) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		for _, key := range slices.Sorted(maps.Keys(filter.Filters)) {
			column, ok := columns[key]
			if !ok {
				continue
			}
			if like, found := strings.CutPrefix(column, "~"); found {
				pattern := "%" + strings.ToLower(fmt.Sprint(filter.Filters[key])) + "%"
				query = query.Where("LOWER("+like+") LIKE ?", pattern)
				continue
			}
			switch value := filter.Filters[key].(type) {
			case []string:
				query = query.Where(column+" IN ?", value)
			default:
				query = query.Where(column+" = ?", value)
			}
		}
		return query
	}
}

package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
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

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// MaterialSortFields contains allowed sort fields for raw-material lots
var MaterialSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"name":          true,
	"brand":         true,
	"category":      true,
	"supplier":      true,
	"unit":          true,
	"current_stock": true,
	"cost_per_unit": true,
	"status":        true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"code":          true,
	"name":          true,
	"unit":          true,
	"selling_price": true,
	"on_hand":       true,
	"status":        true,
}

// ProcurementOrderSortFields contains allowed sort fields for procurement orders
var ProcurementOrderSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"material_name": true,
	"supplier":      true,
	"status":        true,
	"expected_at":   true,
	"delivered_at":  true,
}

// SalesOrderSortFields contains allowed sort fields for sales orders
var SalesOrderSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"order_number":  true,
	"customer_name": true,
	"status":        true,
	"total_amount":  true,
	"dispatched_at": true,
}

// BatchSortFields contains allowed sort fields for production batches
var BatchSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"batch_number": true,
	"product_name": true,
	"status":       true,
	"completed_at": true,
}

// UnitSortFields contains allowed sort fields for individual units
var UnitSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"custom_id":  true,
	"sequence":   true,
	"status":     true,
	"sold_at":    true,
}

// NotificationSortFields contains allowed sort fields for notifications
var NotificationSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"kind":       true,
	"title":      true,
}

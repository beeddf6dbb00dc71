package domain

import "strings"

// StockStatus is the operational stock state of a product.
type StockStatus string

const (
	StatusActive     StockStatus = "active"
	StatusLowStock   StockStatus = "low_stock"
	StatusOutOfStock StockStatus = "out_of_stock"
)

var stockStatusLabels = map[StockStatus]string{
	StatusActive:     "Active",
	StatusLowStock:   "Low Stock",
	StatusOutOfStock: "Out of Stock",
}

var stockStatusCodes = map[string]StockStatus{
	"active":       StatusActive,
	"low_stock":    StatusLowStock,
	"out_of_stock": StatusOutOfStock,
}

// Label returns a human-readable label for a stock status.
func (s StockStatus) Label() string {
	if label, ok := stockStatusLabels[s]; ok {
		return label
	}

	return "Unknown"
}

// ParseStockStatus returns the status for a given value (case-insensitive).
func ParseStockStatus(value string) (StockStatus, bool) {
	status, ok := stockStatusCodes[strings.ToLower(strings.TrimSpace(value))]

	return status, ok
}

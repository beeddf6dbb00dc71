package domain

import "time"

// Product represents a catalog item owned by a tenant. AvailableQty is
// derived from Quantity minus SalesQty and may go negative when oversold.
type Product struct {
	ID          int64       `json:"id" db:"id"`
	TenantID    string      `json:"tenant_id" db:"tenant_id"`
	SKU         string      `json:"sku" db:"sku"`
	Name        string      `json:"name" db:"name"`
	Quantity    float64     `json:"quantity" db:"quantity"`
	SalesQty    float64     `json:"sales_qty" db:"sales_qty"`
	CostPerItem float64     `json:"cost_per_item" db:"cost_per_item"`
	Status      StockStatus `json:"status" db:"status"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// AvailableQty returns the units still on hand.
func (p Product) AvailableQty() float64 {
	return p.Quantity - p.SalesQty
}

// SaleRecord is a single completed sale. Cancelled sales are filtered out
// before they reach the engine.
type SaleRecord struct {
	ID           int64     `json:"id" db:"id"`
	TenantID     string    `json:"tenant_id" db:"tenant_id"`
	ProductID    int64     `json:"product_id" db:"product_id"`
	SKU          string    `json:"sku" db:"sku"`
	ProductName  string    `json:"product_name" db:"product_name"`
	Quantity     float64   `json:"quantity" db:"quantity"`
	UnitPrice    float64   `json:"unit_price" db:"unit_price"`
	Fees         float64   `json:"fees" db:"fees"`
	ShippingCost float64   `json:"shipping_cost" db:"shipping_cost"`
	LabelCost    float64   `json:"label_cost" db:"label_cost"`
	TotalRevenue float64   `json:"total_revenue" db:"total_revenue"`
	NetProfit    float64   `json:"net_profit" db:"net_profit"`
	ROI          float64   `json:"roi" db:"roi"`
	SoldAt       time.Time `json:"sold_at" db:"sold_at"`
}

// ProductPerformance aggregates the financial and volume metrics for one SKU.
// It is derived on every evaluation and never persisted.
type ProductPerformance struct {
	SKU                 string    `json:"sku"`
	ProductID           int64     `json:"product_id"`
	ProductName         string    `json:"product_name"`
	TotalQuantity       float64   `json:"total_quantity"`
	TotalRevenue        float64   `json:"total_revenue"`
	TotalProfit         float64   `json:"total_profit"`
	ProfitMargin        float64   `json:"profit_margin"`
	ROI                 float64   `json:"roi"`
	SalesOnlyROI        float64   `json:"sales_only_roi"`
	OrderCount          int       `json:"order_count"`
	AvgQuantityPerOrder float64   `json:"avg_quantity_per_order"`
	LastOrderDate       time.Time `json:"last_order_date"`
}

// ReorderPriority bands drive UI styling and auto-trigger severity.
type ReorderPriority string

const (
	PriorityHigh   ReorderPriority = "high"
	PriorityMedium ReorderPriority = "medium"
	PriorityLow    ReorderPriority = "low"
)

var priorityRanks = map[ReorderPriority]int{
	PriorityHigh:   3,
	PriorityMedium: 2,
	PriorityLow:    1,
}

// Rank returns a sortable rank for the priority, higher is more urgent.
func (p ReorderPriority) Rank() int {
	return priorityRanks[p]
}

// ReorderRecommendation is the explained restock advice for one product.
// Recomputed fresh on every evaluation cycle.
type ReorderRecommendation struct {
	ProductID                  int64           `json:"product_id"`
	SKU                        string          `json:"sku"`
	ProductName                string          `json:"product_name"`
	CurrentQuantity            float64         `json:"current_quantity"`
	RecommendedQuantity        int             `json:"recommended_quantity"`
	Reason                     string          `json:"reason"`
	Priority                   ReorderPriority `json:"priority"`
	EstimatedDaysUntilStockout float64         `json:"estimated_days_until_stockout"`
	ProfitMargin               float64         `json:"profit_margin"`
	BelowMarginFloor           bool            `json:"below_margin_floor"`
}

// Settings is the tenant-scoped reorder policy. A missing row is filled
// with the defaults from config.PolicyDefaults by the settings repository.
type Settings struct {
	TenantID                 string  `json:"tenant_id" db:"tenant_id"`
	AutoReorderEnabled       bool    `json:"auto_reorder_enabled" db:"auto_reorder_enabled"`
	MinimumProfitMargin      float64 `json:"minimum_profit_margin" db:"minimum_profit_margin"`
	ShippingCost             float64 `json:"shipping_cost" db:"shipping_cost"`
	LabelCost                float64 `json:"label_cost" db:"label_cost"`
	CancellationShippingLoss float64 `json:"cancellation_shipping_loss" db:"cancellation_shipping_loss"`
}

// ImpactAnalysis estimates the financial effect of acting on a recommendation.
type ImpactAnalysis struct {
	CurrentProfit   float64 `json:"current_profit" db:"current_profit"`
	ProjectedProfit float64 `json:"projected_profit" db:"projected_profit"`
	ConfidenceScore float64 `json:"confidence_score" db:"confidence_score"`
}

// ReorderEvent is the persisted record emitted when the auto-reorder
// trigger fires for a recommendation.
type ReorderEvent struct {
	ID              string         `json:"id" db:"id"`
	Type            string         `json:"type" db:"type"`
	TenantID        string         `json:"tenant_id" db:"tenant_id"`
	ProductID       int64          `json:"product_id" db:"product_id"`
	Recommendation  string         `json:"recommendation" db:"recommendation"`
	Explanation     string         `json:"explanation" db:"explanation"`
	SuggestedAction string         `json:"suggested_action" db:"suggested_action"`
	Impact          ImpactAnalysis `json:"impact_analysis"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
}

// StatusChange is a pending stock-status mutation for one product. Only
// produced when the computed status differs from the stored one.
type StatusChange struct {
	ProductID int64       `json:"product_id"`
	SKU       string      `json:"sku"`
	From      StockStatus `json:"from"`
	To        StockStatus `json:"to"`
}

package domain

import "time"

// SalesRollup accumulates order-line quantities and revenue over the
// caller's reporting window.
type SalesRollup struct {
	RequestedQty     float64 `json:"requested_qty"`
	DeliveredQty     float64 `json:"delivered_qty"`
	UnfulfilledQty   float64 `json:"unfulfilled_qty"`
	UnfulfilledValue float64 `json:"unfulfilled_value"`
	TotalAmount      float64 `json:"total_amount"`
}

// InventoryRollup is the point-in-time stock snapshot for a product.
// It is independent of the reporting window.
type InventoryRollup struct {
	TotalStock       float64          `json:"total_stock"`
	PlantStock       float64          `json:"plant_stock"`
	ExternalStock    float64          `json:"external_stock"`
	QualityHoldStock float64          `json:"quality_hold_stock"`
	Batches          []InventoryBatch `json:"batches"`
	Status           HealthStatus     `json:"status"`
	MinRemainingDays int              `json:"min_remaining_days"`
	ADS30            float64          `json:"ads_30"`
	ADS60            float64          `json:"ads_60"`
	ADS90            float64          `json:"ads_90"`
}

// ProductionRollup accumulates production plan and receipts over the window,
// plus the forward-looking plan from today onward.
type ProductionRollup struct {
	PlannedQty       float64 `json:"planned_qty"`
	ReceivedQty      float64 `json:"received_qty"`
	FuturePlannedQty float64 `json:"future_planned_qty"`
	AchievementRate  float64 `json:"achievement_rate"`
}

// UnfulfilledOrder is one order line with a delivery shortfall.
type UnfulfilledOrder struct {
	ProductCode    string    `json:"product_code"`
	CustomerID     string    `json:"customer_id"`
	CustomerName   string    `json:"customer_name"`
	RequestDate    time.Time `json:"request_date"`
	RequestedQty   float64   `json:"requested_qty"`
	DeliveredQty   float64   `json:"delivered_qty"`
	ShortfallQty   float64   `json:"shortfall_qty"`
	ShortfallValue float64   `json:"shortfall_value"`
	Cause          string    `json:"cause"`
	DaysDelayed    int       `json:"days_delayed"`
}

// Shortfall causes assigned after the inventory fold.
const (
	CauseStockShort     = "stock available but short"
	CauseStockExhausted = "stock exhausted"
)

// IntegratedItem is the canonical per-product record produced by the rollup
// engine: identity merged across all four streams, sales accumulated over
// the window, and a window-independent inventory snapshot.
type IntegratedItem struct {
	ProductCode string  `json:"product_code"`
	ProductName string  `json:"product_name"`
	Unit        string  `json:"unit"`
	BoxFactor   float64 `json:"box_factor"`
	Category    string  `json:"category"`

	Sales       SalesRollup        `json:"sales"`
	Inventory   InventoryRollup    `json:"inventory"`
	Production  ProductionRollup   `json:"production"`
	Unfulfilled []UnfulfilledOrder `json:"unfulfilled"`
}

// Product categories derived from the leading product-code digit.
const (
	CategoryManufactured = "manufactured"
	CategoryMerchandise  = "merchandise"
)

// ProductRevenue is one entry of a customer's top purchased products.
type ProductRevenue struct {
	ProductCode string  `json:"product_code"`
	ProductName string  `json:"product_name"`
	Revenue     float64 `json:"revenue"`
}

// CustomerStat is the per-customer rollup built in the same pass as the
// integrated items.
type CustomerStat struct {
	CustomerID      string           `json:"customer_id"`
	CustomerName    string           `json:"customer_name"`
	OrderCount      int              `json:"order_count"`
	FulfilledCount  int              `json:"fulfilled_count"`
	Revenue         float64          `json:"revenue"`
	MissedRevenue   float64          `json:"missed_revenue"`
	FulfillmentRate float64          `json:"fulfillment_rate"`
	TopProducts     []ProductRevenue `json:"top_products"`
}

// KPISummary is the aggregate block computed after the per-product fold.
type KPISummary struct {
	ManufacturedSales     float64 `json:"manufactured_sales"`
	MerchandiseSales      float64 `json:"merchandise_sales"`
	TotalSales            float64 `json:"total_sales"`
	TotalUnfulfilledValue float64 `json:"total_unfulfilled_value"`
	CriticalDeliveryCount int     `json:"critical_delivery_count"`
	ProductCount          int     `json:"product_count"`
	CustomerCount         int     `json:"customer_count"`
}

// Dashboard bundles the full rollup output for one date window.
type Dashboard struct {
	Items     []IntegratedItem `json:"items"`
	Customers []CustomerStat   `json:"customers"`
	KPIs      KPISummary       `json:"kpis"`
}

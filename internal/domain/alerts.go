package domain

// AlertType discriminates the daily alert detectors.
type AlertType string

const (
	AlertSpike     AlertType = "SPIKE"
	AlertShortage  AlertType = "SHORTAGE"
	AlertFreshness AlertType = "FRESHNESS"
	AlertMiss      AlertType = "MISS"
)

// AlertLevel is the severity of a daily alert.
type AlertLevel string

const (
	LevelCritical AlertLevel = "CRITICAL"
	LevelWarning  AlertLevel = "WARNING"
)

// DailyAlert is one entry of the rule-based daily alerting feed.
type DailyAlert struct {
	Type        AlertType  `json:"type" db:"alert_type"`
	Level       AlertLevel `json:"level" db:"level"`
	ProductCode string     `json:"product_code" db:"product_code"`
	ProductName string     `json:"product_name" db:"product_name"`
	Cause       string     `json:"cause" db:"cause"`
	Action      string     `json:"action" db:"action"`
	Magnitude   string     `json:"magnitude" db:"magnitude"`
}

// ProductVolume pairs a product with an order volume for ranking.
type ProductVolume struct {
	ProductCode string  `json:"product_code"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
}

// ProductBalance pairs a product with its projected 7-day-forward balance.
// The balance may be negative.
type ProductBalance struct {
	ProductCode string  `json:"product_code"`
	ProductName string  `json:"product_name"`
	Balance     float64 `json:"balance"`
}

// AlertRunSummary describes one execution of the daily alert engine.
type AlertRunSummary struct {
	ProductsScanned int              `json:"products_scanned"`
	TopOrdered      []ProductVolume  `json:"top_ordered"`
	LowestProjected []ProductBalance `json:"lowest_projected"`
}

// AlertFeed is the complete output of a daily alert run.
type AlertFeed struct {
	Alerts  []DailyAlert    `json:"alerts"`
	Summary AlertRunSummary `json:"summary"`
}

package domain

// TrendLabel is the direction of a demand forecast.
type TrendLabel string

const (
	TrendUp     TrendLabel = "UP"
	TrendDown   TrendLabel = "DOWN"
	TrendStable TrendLabel = "STABLE"
)

// MonthlyPoint is one month of a demand series. Month uses the YYYY-MM form.
type MonthlyPoint struct {
	Month string  `json:"month" db:"month"`
	Value float64 `json:"value" db:"value"`
}

// ForecastResult is the linear-trend projection for one product: 6 months of
// history, the forecast horizon, and a prior-year series carried through for
// display only.
type ForecastResult struct {
	ProductCode string         `json:"product_code"`
	ProductName string         `json:"product_name"`
	History     []MonthlyPoint `json:"history"`
	Forecast    []MonthlyPoint `json:"forecast"`
	PriorYear   []MonthlyPoint `json:"prior_year"`
	Trend       TrendLabel     `json:"trend"`
	ChangePct   float64        `json:"change_pct"`
	Accuracy    int            `json:"accuracy"`
	Volatility  float64        `json:"volatility"`
}

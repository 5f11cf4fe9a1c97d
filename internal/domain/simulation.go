package domain

import "time"

// EventKind discriminates simulated inventory balance changes.
type EventKind string

const (
	EventStock         EventKind = "STOCK"
	EventProduction    EventKind = "PRODUCTION"
	EventExistingOrder EventKind = "EXISTING_ORDER"
	EventNewRequest    EventKind = "NEW_REQUEST"
)

// InventoryEvent is one dated balance change in the simulated timeline.
// Balance is the running balance after the event was applied.
type InventoryEvent struct {
	Date     time.Time `json:"date"`
	Kind     EventKind `json:"kind"`
	Quantity float64   `json:"quantity"`
	Balance  float64   `json:"balance"`
}

// SimulationRequest is the hypothetical new order being tested.
type SimulationRequest struct {
	ProductCode string    `json:"product_code"`
	Quantity    float64   `json:"quantity"`
	TargetDate  time.Time `json:"target_date"`
}

// SimulationResult is the day-by-day available-to-promise projection for a
// single product.
type SimulationResult struct {
	Feasible            bool             `json:"feasible"`
	ShortageDate        *time.Time       `json:"shortage_date,omitempty"`
	ShortageQty         float64          `json:"shortage_qty"`
	Timeline            []InventoryEvent `json:"timeline"`
	UsableStock         float64          `json:"usable_stock"`
	ScheduledProduction float64          `json:"scheduled_production"`
	CommittedDemand     float64          `json:"committed_demand"`
}

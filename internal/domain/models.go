// internal/domain/models.go
package domain

import "time"

// BatchSource identifies where an inventory batch is held.
type BatchSource string

const (
	SourcePlant BatchSource = "PLANT" // manufacturer plant stock
	SourceFBH   BatchSource = "FBH"   // third-party logistics warehouse
)

// OrderLine represents a single raw customer order line.
// Quantities are in the line's original unit until normalized.
type OrderLine struct {
	ProductCode  string    `json:"product_code" db:"product_code"`
	ProductName  string    `json:"product_name" db:"product_name"`
	RequestDate  time.Time `json:"request_date" db:"request_date"`
	RequestedQty float64   `json:"requested_qty" db:"requested_qty"`
	DeliveredQty float64   `json:"delivered_qty" db:"delivered_qty"`
	Unit         string    `json:"unit" db:"unit"`
	BoxFactor    float64   `json:"box_factor" db:"box_factor"`
	Revenue      float64   `json:"revenue" db:"revenue"`
	CustomerID   string    `json:"customer_id" db:"customer_id"`
	CustomerName string    `json:"customer_name" db:"customer_name"`
}

// InventoryBatch represents one on-hand batch of a product. A product may
// have many concurrent batches with different shelf lives.
type InventoryBatch struct {
	ProductCode    string      `json:"product_code" db:"product_code"`
	ProductName    string      `json:"product_name" db:"product_name"`
	Quantity       float64     `json:"quantity" db:"quantity"`
	QualityHoldQty float64     `json:"quality_hold_qty" db:"quality_hold_qty"`
	ExpirationDate time.Time   `json:"expiration_date" db:"expiration_date"`
	RemainingDays  int         `json:"remaining_days" db:"remaining_days"`
	RemainingRate  float64     `json:"remaining_rate" db:"remaining_rate"`
	Warehouse      string      `json:"warehouse" db:"warehouse"`
	BoxFactor      float64     `json:"box_factor" db:"box_factor"`
	Source         BatchSource `json:"source" db:"source"`
}

// ExternalBatch is the raw schema delivered by the external (FBH) warehouse.
// It carries no remaining rate; that is derived from the production and
// valid-until dates.
type ExternalBatch struct {
	ProductCode    string    `json:"product_code" db:"product_code"`
	ProductName    string    `json:"product_name" db:"product_name"`
	AvailableQty   float64   `json:"available_qty" db:"available_qty"`
	ProductionDate time.Time `json:"production_date" db:"production_date"`
	ValidUntil     time.Time `json:"valid_until" db:"valid_until"`
	RemainingDays  int       `json:"remaining_days" db:"remaining_days"`
	BoxFactor      float64   `json:"box_factor" db:"box_factor"`
	Warehouse      string    `json:"warehouse" db:"warehouse"`
}

// AsInventoryBatch converts an external-warehouse row into the canonical
// batch form. Remaining rate = remainingDays / shelfLifeDays * 100, clamped
// to 0 when the shelf life is zero or negative.
func (b ExternalBatch) AsInventoryBatch() InventoryBatch {
	rate := 0.0
	if shelfLife := b.ValidUntil.Sub(b.ProductionDate).Hours() / 24; shelfLife > 0 {
		rate = float64(b.RemainingDays) / shelfLife * 100
		if rate < 0 {
			rate = 0
		}
	}
	return InventoryBatch{
		ProductCode:    b.ProductCode,
		ProductName:    b.ProductName,
		Quantity:       b.AvailableQty,
		ExpirationDate: b.ValidUntil,
		RemainingDays:  b.RemainingDays,
		RemainingRate:  rate,
		Warehouse:      b.Warehouse,
		BoxFactor:      b.BoxFactor,
		Source:         SourceFBH,
	}
}

// ProductionRow represents a planned or executed production schedule entry.
type ProductionRow struct {
	ProductCode   string    `json:"product_code" db:"product_code"`
	ProductName   string    `json:"product_name" db:"product_name"`
	PlannedQty    float64   `json:"planned_qty" db:"planned_qty"`
	ReceivedQty   float64   `json:"received_qty" db:"received_qty"`
	ScheduledDate time.Time `json:"scheduled_date" db:"scheduled_date"`
	Unit          string    `json:"unit" db:"unit"`
	BoxFactor     float64   `json:"box_factor" db:"box_factor"`
}

// DateWindow is an inclusive [Start, End] reporting window at day granularity.
type DateWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether d falls inside the window. A zero date never
// matches, so rows with unparseable dates stay out of date-derived
// accumulation without being discarded entirely.
func (w DateWindow) Contains(d time.Time) bool {
	if d.IsZero() {
		return false
	}
	return !d.Before(w.Start) && !d.After(w.End)
}

// DashboardFilter narrows dashboard queries. Zero values mean "all".
type DashboardFilter struct {
	Window       DateWindow `json:"window"`
	ProductCodes []string   `json:"product_codes"`
	CustomerIDs  []string   `json:"customer_ids"`
}

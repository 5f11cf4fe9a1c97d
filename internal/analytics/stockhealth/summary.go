package stockhealth

import "github.com/crusade153/snop-mgt-sub000/internal/domain"

// Summary buckets total stock quantity (not item count) by health status.
// A product whose batches differ in shelf life contributes to more than one
// bucket.
type Summary struct {
	Healthy  float64 `json:"healthy"`
	Critical float64 `json:"critical"`
	Imminent float64 `json:"imminent"`
	Disposed float64 `json:"disposed"`
	NoExpiry float64 `json:"no_expiry"`

	ExcessProducts []string `json:"excess_products"` // codes with stock above the excess threshold
}

// Summarize folds every batch of every item into its own health bucket.
func (c *Classifier) Summarize(items []domain.IntegratedItem) Summary {
	var s Summary
	for _, item := range items {
		for _, b := range item.Inventory.Batches {
			switch c.ClassifyBatch(b) {
			case domain.StatusNoExpiry:
				s.NoExpiry += b.Quantity
			case domain.StatusDisposed:
				s.Disposed += b.Quantity
			case domain.StatusImminent:
				s.Imminent += b.Quantity
			case domain.StatusCritical:
				s.Critical += b.Quantity
			default:
				s.Healthy += b.Quantity
			}
		}
		if c.cfg.ExcessStockUnits > 0 && item.Inventory.TotalStock > c.cfg.ExcessStockUnits {
			s.ExcessProducts = append(s.ExcessProducts, item.ProductCode)
		}
	}
	return s
}

// Package stockhealth classifies inventory batches by remaining shelf life.
package stockhealth

import (
	"strings"

	"github.com/crusade153/snop-mgt-sub000/internal/domain"
)

// Config holds the classification thresholds and the no-expiry product rule.
type Config struct {
	ImminentDays     int      // remaining days at or below this are imminent
	CriticalDays     int      // remaining days at or below this are critical
	ExcessStockUnits float64  // per-product stock above this is flagged excess
	NoExpiryPrefixes []string // product-code prefixes exempt from expiry tracking
}

// DefaultConfig returns the thresholds the planning team runs with.
func DefaultConfig() Config {
	return Config{
		ImminentDays:     30,
		CriticalDays:     60,
		ExcessStockUnits: 20000,
		NoExpiryPrefixes: []string{"9"},
	}
}

// Classifier is a pure shelf-life state machine over inventory batches.
type Classifier struct {
	cfg Config
}

func NewClassifier(cfg Config) *Classifier {
	if cfg.ImminentDays <= 0 {
		cfg.ImminentDays = 30
	}
	if cfg.CriticalDays <= 0 {
		cfg.CriticalDays = 60
	}
	return &Classifier{cfg: cfg}
}

// Classify maps remaining shelf life to a health status.
func (c *Classifier) Classify(remainingDays int, noExpiry bool) domain.HealthStatus {
	switch {
	case noExpiry:
		return domain.StatusNoExpiry
	case remainingDays <= 0:
		return domain.StatusDisposed
	case remainingDays <= c.cfg.ImminentDays:
		return domain.StatusImminent
	case remainingDays <= c.cfg.CriticalDays:
		return domain.StatusCritical
	default:
		return domain.StatusHealthy
	}
}

// IsNoExpiryCode reports whether a product code belongs to the no-expiry
// assortment by prefix.
func (c *Classifier) IsNoExpiryCode(code string) bool {
	for _, prefix := range c.cfg.NoExpiryPrefixes {
		if prefix != "" && strings.HasPrefix(code, prefix) {
			return true
		}
	}
	return false
}

// IsNoExpiryBatch reports whether a single batch carries no expiry: either
// its product code is exempt or the source system sent no expiration value.
func (c *Classifier) IsNoExpiryBatch(b domain.InventoryBatch) bool {
	return c.IsNoExpiryCode(b.ProductCode) || b.ExpirationDate.IsZero()
}

// ClassifyBatch classifies one batch.
func (c *Classifier) ClassifyBatch(b domain.InventoryBatch) domain.HealthStatus {
	return c.Classify(b.RemainingDays, c.IsNoExpiryBatch(b))
}

// Representative returns the product-level status and the minimum remaining
// days across all batches. The product takes the classification of its worst
// batch; any evidence of no-expiry (code prefix, or the worst batch missing
// an expiration value) wins over the day count.
func (c *Classifier) Representative(code string, batches []domain.InventoryBatch) (domain.HealthStatus, int) {
	if len(batches) == 0 {
		return domain.StatusHealthy, 0
	}

	worst := batches[0]
	for _, b := range batches[1:] {
		if b.RemainingDays < worst.RemainingDays {
			worst = b
		}
	}

	noExpiry := c.IsNoExpiryCode(code) || worst.ExpirationDate.IsZero()
	return c.Classify(worst.RemainingDays, noExpiry), worst.RemainingDays
}

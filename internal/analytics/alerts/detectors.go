package alerts

import (
	"fmt"

	"github.com/crusade153/snop-mgt-sub000/internal/domain"
)

// spikeSentinelPct is reported when yesterday's volume spikes against a
// zero baseline, where a true percentage is undefined.
const spikeSentinelPct = 9999.0

// detectSpike fires when yesterday's requested volume clears both the
// absolute floor and the configured multiple of the trailing-7-day average.
func (e *Engine) detectSpike(s *productScan) *domain.DailyAlert {
	avg := s.trailing7Sum / 7
	if s.yesterdayQty <= e.cfg.SpikeFloorUnits || s.yesterdayQty <= e.cfg.SpikeRatio*avg {
		return nil
	}

	pct := spikeSentinelPct
	if avg > 0 {
		pct = (s.yesterdayQty/avg - 1) * 100
	}

	return &domain.DailyAlert{
		Type:        domain.AlertSpike,
		Level:       domain.LevelWarning,
		ProductCode: s.code,
		ProductName: s.name,
		Cause:       fmt.Sprintf("yesterday's orders %.0f vs 7-day average %.1f", s.yesterdayQty, avg),
		Action:      "verify the order and review replenishment plan",
		Magnitude:   fmt.Sprintf("+%.0f%%", pct),
	}
}

// detectShortage fires when the projected 7-day-forward balance goes
// negative: stock on hand plus scheduled production minus committed demand.
func (e *Engine) detectShortage(s *productScan) *domain.DailyAlert {
	balance := s.projectedBalance()
	if balance >= 0 {
		return nil
	}

	return &domain.DailyAlert{
		Type:        domain.AlertShortage,
		Level:       domain.LevelCritical,
		ProductCode: s.code,
		ProductName: s.name,
		Cause: fmt.Sprintf("stock %.0f + production %.0f cannot cover 7-day demand %.0f",
			s.stock, s.production7, s.forwardDemand),
		Action:    "expedite production or reallocate committed orders",
		Magnitude: fmt.Sprintf("%.0f", balance),
	}
}

// detectFreshness scans every batch of a product and accumulates the
// quantity that cannot be sold before expiry. Two sub-cases: stock moving
// slower than its shelf life at the current 60-day velocity, and dead stock
// with no velocity at all inside the cutoff horizon. No-expiry products are
// exempt.
func (e *Engine) detectFreshness(s *productScan) *domain.DailyAlert {
	ads := s.ads()

	var riskQty float64
	minRemaining := -1
	for _, batch := range s.batches {
		if batch.Quantity <= 0 || e.classifier.IsNoExpiryBatch(batch) {
			continue
		}
		var batchRisk float64
		switch {
		case ads > 0:
			if batch.Quantity/ads > float64(batch.RemainingDays) {
				batchRisk = batch.Quantity - ads*float64(batch.RemainingDays)
			}
		case batch.RemainingDays < e.cfg.DeadStockCutoffDays:
			batchRisk = batch.Quantity
		}
		if batchRisk <= 0 {
			continue
		}
		riskQty += batchRisk
		if minRemaining < 0 || batch.RemainingDays < minRemaining {
			minRemaining = batch.RemainingDays
		}
	}

	if riskQty <= e.cfg.FreshnessRiskFloor {
		return nil
	}

	return &domain.DailyAlert{
		Type:        domain.AlertFreshness,
		Level:       domain.LevelCritical,
		ProductCode: s.code,
		ProductName: s.name,
		Cause:       fmt.Sprintf("%.0f units will not sell before expiry (worst batch %dd left)", riskQty, minRemaining),
		Action:      "plan a discount or transfer before the shelf-life deadline",
		Magnitude:   fmt.Sprintf("%.0f", riskQty),
	}
}

// detectMisses emits one WARNING per (product, customer) pair for order
// lines dated yesterday that were under-delivered.
func (e *Engine) detectMisses(s *productScan) []domain.DailyAlert {
	if len(s.missLines) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var alerts []domain.DailyAlert
	for _, line := range s.missLines {
		key := line.ProductCode + "|" + line.CustomerID
		if seen[key] {
			continue
		}
		seen[key] = true
		short := line.RequestedQty - line.DeliveredQty
		alerts = append(alerts, domain.DailyAlert{
			Type:        domain.AlertMiss,
			Level:       domain.LevelWarning,
			ProductCode: s.code,
			ProductName: s.name,
			Cause: fmt.Sprintf("delivered %.0f of %.0f requested by %s",
				line.DeliveredQty, line.RequestedQty, line.CustomerName),
			Action:    "contact the customer and schedule a follow-up delivery",
			Magnitude: fmt.Sprintf("-%.0f", short),
		})
	}
	return alerts
}

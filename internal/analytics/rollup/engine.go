// Package rollup fuses the four raw record streams into the canonical
// per-product and per-customer model consumed by dashboards and the daily
// alert engine. The engine is a pure function of (rows, window, today);
// it reads no clock and keeps no state between calls.
package rollup

import (
	"math"
	"strings"
	"time"

	"github.com/crusade153/snop-mgt-sub000/internal/analytics/stockhealth"
	"github.com/crusade153/snop-mgt-sub000/internal/domain"
)

const topProductLimit = 10

// Rules holds the business rules the fold depends on.
type Rules struct {
	MerchandisePrefixes []string // leading-code convention for traded goods
	CriticalDelayDays   int      // unfulfilled lines older than this are critical
}

// DefaultRules mirrors the planning team's current conventions.
func DefaultRules() Rules {
	return Rules{
		MerchandisePrefixes: []string{"8", "9"},
		CriticalDelayDays:   7,
	}
}

// Input carries the four raw streams plus the reporting window and the
// explicit "today" reference. Quantities must already be in base units.
type Input struct {
	Orders     []domain.OrderLine
	Batches    []domain.InventoryBatch
	Production []domain.ProductionRow
	Window     domain.DateWindow
	Today      time.Time
}

// Engine builds integrated items, customer stats and KPIs from raw rows.
type Engine struct {
	rules      Rules
	classifier *stockhealth.Classifier
}

func NewEngine(rules Rules, classifier *stockhealth.Classifier) *Engine {
	if rules.CriticalDelayDays <= 0 {
		rules.CriticalDelayDays = 7
	}
	if classifier == nil {
		classifier = stockhealth.NewClassifier(stockhealth.DefaultConfig())
	}
	return &Engine{rules: rules, classifier: classifier}
}

// Build runs the full fold. Sales and production accumulate only inside the
// window; inventory is a point-in-time snapshot and ignores the window
// entirely; future production counts rows dated today or later regardless
// of the window.
func (e *Engine) Build(in Input) domain.Dashboard {
	items := newItemBuilder()
	customers := newCustomerBuilder()

	e.foldOrders(items, customers, in)
	e.foldBatches(items, in.Batches)
	e.foldProduction(items, in)

	return e.finalize(items, customers, in.Today)
}

func (e *Engine) foldOrders(items *itemBuilder, customers *customerBuilder, in Input) {
	for _, line := range in.Orders {
		if line.ProductCode == "" {
			continue
		}
		acc := items.get(line.ProductCode)
		acc.fillIdentity(line.ProductName, line.Unit, line.BoxFactor)
		acc.velocity.add(line.DeliveredQty, line.RequestDate, in.Today)

		if !in.Window.Contains(line.RequestDate) {
			continue
		}

		shortfall := math.Max(0, line.RequestedQty-line.DeliveredQty)
		unitPrice := line.Revenue / nonZero(line.RequestedQty)

		sales := &acc.item.Sales
		sales.RequestedQty += line.RequestedQty
		sales.DeliveredQty += line.DeliveredQty
		sales.TotalAmount += line.Revenue
		if shortfall > 0 {
			value := shortfall * unitPrice
			sales.UnfulfilledQty += shortfall
			sales.UnfulfilledValue += value
			acc.item.Unfulfilled = append(acc.item.Unfulfilled, domain.UnfulfilledOrder{
				ProductCode:    line.ProductCode,
				CustomerID:     line.CustomerID,
				CustomerName:   line.CustomerName,
				RequestDate:    line.RequestDate,
				RequestedQty:   line.RequestedQty,
				DeliveredQty:   line.DeliveredQty,
				ShortfallQty:   shortfall,
				ShortfallValue: value,
				DaysDelayed:    daysDelayed(line.RequestDate, in.Today),
			})
		}

		cust := customers.get(line.CustomerID, line.CustomerName)
		cust.stat.OrderCount++
		cust.stat.Revenue += line.Revenue
		if shortfall == 0 {
			cust.stat.FulfilledCount++
		} else {
			cust.stat.MissedRevenue += shortfall * unitPrice
		}
		cust.addProduct(line.ProductCode, line.ProductName, line.Revenue)
	}
}

func (e *Engine) foldBatches(items *itemBuilder, batches []domain.InventoryBatch) {
	for _, batch := range batches {
		if batch.ProductCode == "" {
			continue
		}
		acc := items.get(batch.ProductCode)
		acc.fillIdentity(batch.ProductName, "", batch.BoxFactor)

		inv := &acc.item.Inventory
		inv.TotalStock += batch.Quantity
		inv.QualityHoldStock += batch.QualityHoldQty
		if batch.Source == domain.SourceFBH {
			inv.ExternalStock += batch.Quantity
		} else {
			inv.PlantStock += batch.Quantity
		}
		inv.Batches = append(inv.Batches, batch)
	}
}

func (e *Engine) foldProduction(items *itemBuilder, in Input) {
	for _, row := range in.Production {
		if row.ProductCode == "" {
			continue
		}
		acc := items.get(row.ProductCode)
		acc.fillIdentity(row.ProductName, row.Unit, row.BoxFactor)

		prod := &acc.item.Production
		if in.Window.Contains(row.ScheduledDate) {
			prod.PlannedQty += row.PlannedQty
			prod.ReceivedQty += row.ReceivedQty
		}
		if !row.ScheduledDate.IsZero() && !row.ScheduledDate.Before(in.Today) {
			prod.FuturePlannedQty += row.PlannedQty
		}
	}
}

// finalize runs after the complete fold: everything here depends on totals
// that are only known once all rows are in.
func (e *Engine) finalize(items *itemBuilder, customers *customerBuilder, today time.Time) domain.Dashboard {
	var kpis domain.KPISummary

	result := make([]domain.IntegratedItem, 0, len(items.order))
	items.each(func(acc *itemAccumulator) {
		item := &acc.item

		item.Inventory.ADS30, item.Inventory.ADS60, item.Inventory.ADS90 = acc.velocity.ads()
		item.Inventory.Status, item.Inventory.MinRemainingDays =
			e.classifier.Representative(item.ProductCode, item.Inventory.Batches)

		if item.Production.PlannedQty > 0 {
			item.Production.AchievementRate = item.Production.ReceivedQty / item.Production.PlannedQty * 100
		}

		item.Category = e.categorize(item.ProductCode)

		// Shortfall causes need the final stock level, so they are assigned
		// here rather than during the order fold.
		for i := range item.Unfulfilled {
			if item.Inventory.TotalStock > 0 {
				item.Unfulfilled[i].Cause = domain.CauseStockShort
			} else {
				item.Unfulfilled[i].Cause = domain.CauseStockExhausted
			}
			if item.Unfulfilled[i].DaysDelayed >= e.rules.CriticalDelayDays {
				kpis.CriticalDeliveryCount++
			}
		}

		if item.Category == domain.CategoryMerchandise {
			kpis.MerchandiseSales += item.Sales.TotalAmount
		} else {
			kpis.ManufacturedSales += item.Sales.TotalAmount
		}
		kpis.TotalSales += item.Sales.TotalAmount
		kpis.TotalUnfulfilledValue += item.Sales.UnfulfilledValue

		result = append(result, *item)
	})

	stats := make([]domain.CustomerStat, 0, len(customers.order))
	for _, id := range customers.order {
		acc := customers.byID[id]
		if acc.stat.OrderCount > 0 {
			acc.stat.FulfillmentRate = float64(acc.stat.FulfilledCount) / float64(acc.stat.OrderCount) * 100
		}
		acc.stat.TopProducts = acc.topProducts(topProductLimit)
		stats = append(stats, acc.stat)
	}

	kpis.ProductCount = len(result)
	kpis.CustomerCount = len(stats)

	return domain.Dashboard{Items: result, Customers: stats, KPIs: kpis}
}

func (e *Engine) categorize(code string) string {
	for _, prefix := range e.rules.MerchandisePrefixes {
		if prefix != "" && strings.HasPrefix(code, prefix) {
			return domain.CategoryMerchandise
		}
	}
	return domain.CategoryManufactured
}

// daysDelayed is today minus the request date, clamped at zero. Unknown
// dates yield zero rather than a bogus delay.
func daysDelayed(requestDate, today time.Time) int {
	if requestDate.IsZero() {
		return 0
	}
	days := daysBetween(requestDate, today)
	if days < 0 {
		return 0
	}
	return days
}

// nonZero substitutes 1 for a zero denominator so per-unit prices never
// become NaN or Inf.
func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// Package alerts implements the rule-based daily alerting feed: four
// independent detectors (demand spike, projected shortage, freshness
// burn-down, delivery miss) run over per-product aggregates of the raw
// streams for a fixed "today".
package alerts

import (
	"sort"
	"time"

	"github.com/crusade153/snop-mgt-sub000/internal/analytics/stockhealth"
	"github.com/crusade153/snop-mgt-sub000/internal/domain"
)

// Config holds the detector thresholds. The defaults are the values the
// planning team has tuned by hand; they are configuration, not constants.
type Config struct {
	SpikeRatio          float64 // yesterday vs trailing-7-day average multiple
	SpikeFloorUnits     float64 // minimum base units before a spike can fire
	FreshnessRiskFloor  float64 // minimum at-risk units before freshness fires
	DeadStockCutoffDays int     // zero-velocity stock below this shelf life is all risk
}

func DefaultConfig() Config {
	return Config{
		SpikeRatio:          2.0,
		SpikeFloorUnits:     30,
		FreshnessRiskFloor:  5,
		DeadStockCutoffDays: 180,
	}
}

// Input carries the raw streams and the explicit date reference. Quantities
// must already be in base units.
type Input struct {
	Orders     []domain.OrderLine
	Batches    []domain.InventoryBatch
	Production []domain.ProductionRow
	Today      time.Time
}

// Engine runs the four detectors and builds the run summary.
type Engine struct {
	cfg        Config
	classifier *stockhealth.Classifier
}

func NewEngine(cfg Config, classifier *stockhealth.Classifier) *Engine {
	if cfg.SpikeRatio <= 0 {
		cfg.SpikeRatio = 2.0
	}
	if cfg.DeadStockCutoffDays <= 0 {
		cfg.DeadStockCutoffDays = 180
	}
	if classifier == nil {
		classifier = stockhealth.NewClassifier(stockhealth.DefaultConfig())
	}
	return &Engine{cfg: cfg, classifier: classifier}
}

// productScan is the per-product aggregate every detector reads from.
type productScan struct {
	code string
	name string

	yesterdayQty  float64 // requested qty dated exactly yesterday
	trailing7Sum  float64 // requested qty over the 7 days before yesterday
	delivered60   float64 // delivered qty over the trailing 60 days
	forwardDemand float64 // requested qty over the next 7 days
	production7   float64 // planned production over the next 7 days
	stock         float64
	batches       []domain.InventoryBatch
	missLines     []domain.OrderLine // yesterday's lines with a shortfall
}

func (s *productScan) ads() float64 {
	return s.delivered60 / 60
}

func (s *productScan) projectedBalance() float64 {
	return s.stock + s.production7 - s.forwardDemand
}

// Run scans all three streams and evaluates the detectors per product in
// first-seen order. Alerts come back CRITICAL before WARNING; ties keep
// encounter order.
func (e *Engine) Run(in Input) domain.AlertFeed {
	order, scans := e.scan(in)

	var alerts []domain.DailyAlert
	for _, code := range order {
		s := scans[code]
		alerts = appendIfSome(alerts, e.detectSpike(s))
		alerts = appendIfSome(alerts, e.detectShortage(s))
		alerts = appendIfSome(alerts, e.detectFreshness(s))
		alerts = append(alerts, e.detectMisses(s)...)
	}

	// Stable partition: criticals first, encounter order preserved within
	// each level.
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Level == domain.LevelCritical && alerts[j].Level != domain.LevelCritical
	})

	return domain.AlertFeed{
		Alerts:  alerts,
		Summary: e.summarize(order, scans),
	}
}

func (e *Engine) scan(in Input) ([]string, map[string]*productScan) {
	var order []string
	scans := make(map[string]*productScan)

	get := func(code, name string) *productScan {
		if code == "" {
			return nil
		}
		s, ok := scans[code]
		if !ok {
			s = &productScan{code: code}
			scans[code] = s
			order = append(order, code)
		}
		if s.name == "" {
			s.name = name
		}
		return s
	}

	for _, line := range in.Orders {
		s := get(line.ProductCode, line.ProductName)
		if s == nil || line.RequestDate.IsZero() {
			continue
		}
		daysAgo := daysBetween(line.RequestDate, in.Today)
		switch {
		case daysAgo == 1:
			s.yesterdayQty += line.RequestedQty
			if line.DeliveredQty < line.RequestedQty {
				s.missLines = append(s.missLines, line)
			}
		case daysAgo >= 2 && daysAgo <= 8:
			s.trailing7Sum += line.RequestedQty
		}
		if daysAgo >= 0 && daysAgo < 60 {
			s.delivered60 += line.DeliveredQty
		}
		if daysAgo <= 0 && daysAgo > -7 {
			s.forwardDemand += line.RequestedQty
		}
	}

	for _, batch := range in.Batches {
		s := get(batch.ProductCode, batch.ProductName)
		if s == nil {
			continue
		}
		s.stock += batch.Quantity
		s.batches = append(s.batches, batch)
	}

	for _, row := range in.Production {
		s := get(row.ProductCode, row.ProductName)
		if s == nil || row.ScheduledDate.IsZero() {
			continue
		}
		if until := daysBetween(in.Today, row.ScheduledDate); until >= 0 && until < 7 {
			s.production7 += row.PlannedQty
		}
	}

	return order, scans
}

func (e *Engine) summarize(order []string, scans map[string]*productScan) domain.AlertRunSummary {
	summary := domain.AlertRunSummary{ProductsScanned: len(order)}

	ordered := make([]domain.ProductVolume, 0, len(order))
	balances := make([]domain.ProductBalance, 0, len(order))
	for _, code := range order {
		s := scans[code]
		if s.yesterdayQty > 0 {
			ordered = append(ordered, domain.ProductVolume{
				ProductCode: s.code, ProductName: s.name, Quantity: s.yesterdayQty,
			})
		}
		balances = append(balances, domain.ProductBalance{
			ProductCode: s.code, ProductName: s.name, Balance: s.projectedBalance(),
		})
	}

	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Quantity > ordered[j].Quantity })
	if len(ordered) > 3 {
		ordered = ordered[:3]
	}
	sort.SliceStable(balances, func(i, j int) bool { return balances[i].Balance < balances[j].Balance })
	if len(balances) > 3 {
		balances = balances[:3]
	}

	summary.TopOrdered = ordered
	summary.LowestProjected = balances
	return summary
}

func appendIfSome(alerts []domain.DailyAlert, alert *domain.DailyAlert) []domain.DailyAlert {
	if alert == nil {
		return alerts
	}
	return append(alerts, *alert)
}

// daysBetween returns whole days from a to b at day granularity.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

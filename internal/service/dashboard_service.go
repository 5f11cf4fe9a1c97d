package service

import (
	"context"
	"time"

	"github.com/crusade153/snop-mgt-sub000/internal/analytics/rollup"
	"github.com/crusade153/snop-mgt-sub000/internal/analytics/stockhealth"
	"github.com/crusade153/snop-mgt-sub000/internal/analytics/units"
	"github.com/crusade153/snop-mgt-sub000/internal/cache"
	"github.com/crusade153/snop-mgt-sub000/internal/domain"
	"github.com/crusade153/snop-mgt-sub000/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// velocityLookbackDays is how far behind the window order lines are still
// fetched, so the 90-day velocity always has its full history.
const velocityLookbackDays = 90

// productionLookaheadDays is how far past the window production rows are
// still fetched, so the forward plan is complete.
const productionLookaheadDays = 90

type DashboardService struct {
	repo       repository.SnopRepository
	cache      cache.DashboardCache
	engine     *rollup.Engine
	classifier *stockhealth.Classifier
}

func NewDashboardService(repo repository.SnopRepository, cacheImpl cache.DashboardCache, engine *rollup.Engine, classifier *stockhealth.Classifier) *DashboardService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	if classifier == nil {
		classifier = stockhealth.NewClassifier(stockhealth.DefaultConfig())
	}
	return &DashboardService{repo: repo, cache: cacheImpl, engine: engine, classifier: classifier}
}

// GetDashboard builds the integrated dashboard for one window, serving from
// cache when possible. Cache failures degrade to a rebuild, never an error.
func (s *DashboardService) GetDashboard(ctx context.Context, filter *domain.DashboardFilter, today time.Time) (*domain.Dashboard, error) {
	if dashboard, ok, err := s.cache.GetDashboard(ctx, filter); err == nil && ok {
		return dashboard, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("dashboard: cache get failed")
	}

	orders, batches, production, err := s.fetchStreams(ctx, filter.Window, today)
	if err != nil {
		return nil, err
	}

	orders, batches, production = applyFilter(filter, orders, batches, production)

	dashboard := s.engine.Build(rollup.Input{
		Orders:     orders,
		Batches:    batches,
		Production: production,
		Window:     filter.Window,
		Today:      today,
	})

	if err := s.cache.SetDashboard(ctx, filter, &dashboard); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache set failed")
	}

	return &dashboard, nil
}

// GetStockSummary folds the dashboard items into the shelf-life quantity
// buckets plus the excess-stock list.
func (s *DashboardService) GetStockSummary(ctx context.Context, filter *domain.DashboardFilter, today time.Time) (*stockhealth.Summary, error) {
	dashboard, err := s.GetDashboard(ctx, filter, today)
	if err != nil {
		return nil, err
	}
	summary := s.classifier.Summarize(dashboard.Items)
	return &summary, nil
}

func (s *DashboardService) InvalidateCache(ctx context.Context) error {
	return s.cache.InvalidateAll(ctx)
}

// fetchStreams loads the four raw streams concurrently and normalizes them
// into base units. External warehouse rows are converted into canonical
// batches and merged with plant stock.
func (s *DashboardService) fetchStreams(ctx context.Context, window domain.DateWindow, today time.Time) ([]domain.OrderLine, []domain.InventoryBatch, []domain.ProductionRow, error) {
	ordersFrom := earlierOf(window.Start, today.AddDate(0, 0, -velocityLookbackDays))
	ordersTo := laterOf(window.End, today)
	prodTo := laterOf(window.End, today.AddDate(0, 0, productionLookaheadDays))

	var (
		orders     []domain.OrderLine
		plant      []domain.InventoryBatch
		external   []domain.ExternalBatch
		production []domain.ProductionRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.repo.GetOrderLines(gctx, ordersFrom, ordersTo)
		return err
	})
	g.Go(func() error {
		var err error
		plant, err = s.repo.GetInventoryBatches(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		external, err = s.repo.GetExternalBatches(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		production, err = s.repo.GetProductionRows(gctx, window.Start, prodTo)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	batches := units.NormalizeBatches(plant)
	for _, ext := range external {
		batches = append(batches, ext.AsInventoryBatch())
	}

	return units.NormalizeOrderLines(orders), batches, units.NormalizeProductionRows(production), nil
}

// applyFilter narrows the streams to the requested products and customers.
// Empty filter slices mean "all".
func applyFilter(filter *domain.DashboardFilter, orders []domain.OrderLine, batches []domain.InventoryBatch, production []domain.ProductionRow) ([]domain.OrderLine, []domain.InventoryBatch, []domain.ProductionRow) {
	if filter == nil || (len(filter.ProductCodes) == 0 && len(filter.CustomerIDs) == 0) {
		return orders, batches, production
	}

	products := toSet(filter.ProductCodes)
	customers := toSet(filter.CustomerIDs)

	keepProduct := func(code string) bool {
		return len(products) == 0 || products[code]
	}

	filteredOrders := orders[:0:0]
	for _, line := range orders {
		if !keepProduct(line.ProductCode) {
			continue
		}
		if len(customers) > 0 && !customers[line.CustomerID] {
			continue
		}
		filteredOrders = append(filteredOrders, line)
	}

	filteredBatches := batches[:0:0]
	for _, batch := range batches {
		if keepProduct(batch.ProductCode) {
			filteredBatches = append(filteredBatches, batch)
		}
	}

	filteredProduction := production[:0:0]
	for _, row := range production {
		if keepProduct(row.ProductCode) {
			filteredProduction = append(filteredProduction, row)
		}
	}

	return filteredOrders, filteredBatches, filteredProduction
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func earlierOf(a, b time.Time) time.Time {
	if a.IsZero() || b.Before(a) {
		return b
	}
	return a
}

func laterOf(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

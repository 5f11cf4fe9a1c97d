package service

import (
	"context"
	"time"

	"github.com/crusade153/snop-mgt-sub000/internal/analytics/alerts"
	"github.com/crusade153/snop-mgt-sub000/internal/analytics/units"
	"github.com/crusade153/snop-mgt-sub000/internal/cache"
	"github.com/crusade153/snop-mgt-sub000/internal/domain"
	"github.com/crusade153/snop-mgt-sub000/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// alertOrderLookbackDays covers the 60-day velocity baseline with slack for
// the trailing-average window.
const alertOrderLookbackDays = 70

// alertLookaheadDays is the projected-balance horizon.
const alertLookaheadDays = 7

type AlertService struct {
	repo   repository.SnopRepository
	cache  cache.AlertFeedCache
	engine *alerts.Engine
}

func NewAlertService(repo repository.SnopRepository, cacheImpl cache.AlertFeedCache, engine *alerts.Engine) *AlertService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopAlertFeedCache()
	}
	return &AlertService{repo: repo, cache: cacheImpl, engine: engine}
}

// RunDaily executes the alert engine for one "today", persists the run and
// caches the feed. Persisting is part of the run; caching is best effort.
func (s *AlertService) RunDaily(ctx context.Context, today time.Time) (*domain.AlertFeed, error) {
	runDate := dayOf(today)

	var (
		orders     []domain.OrderLine
		plant      []domain.InventoryBatch
		external   []domain.ExternalBatch
		production []domain.ProductionRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.repo.GetOrderLines(gctx,
			runDate.AddDate(0, 0, -alertOrderLookbackDays),
			runDate.AddDate(0, 0, alertLookaheadDays))
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
		production, err = s.repo.GetProductionRows(gctx,
			runDate, runDate.AddDate(0, 0, alertLookaheadDays))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batches := units.NormalizeBatches(plant)
	for _, ext := range external {
		batches = append(batches, ext.AsInventoryBatch())
	}

	feed := s.engine.Run(alerts.Input{
		Orders:     units.NormalizeOrderLines(orders),
		Batches:    batches,
		Production: units.NormalizeProductionRows(production),
		Today:      runDate,
	})

	if err := s.repo.SaveAlerts(ctx, runDate, feed.Alerts); err != nil {
		return nil, err
	}

	if err := s.cache.SetFeed(ctx, runDate, &feed); err != nil {
		log.Warn().Err(err).Msg("alerts: cache set feed failed")
	}

	log.Info().
		Time("run_date", runDate).
		Int("products_scanned", feed.Summary.ProductsScanned).
		Int("alerts", len(feed.Alerts)).
		Msg("daily alert run complete")

	return &feed, nil
}

// GetFeed returns a stored alert run. A cache miss falls back to the
// persisted alerts; the run summary is only available from cache.
func (s *AlertService) GetFeed(ctx context.Context, runDate time.Time) (*domain.AlertFeed, error) {
	runDate = dayOf(runDate)

	if feed, ok, err := s.cache.GetFeed(ctx, runDate); err == nil && ok {
		return feed, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("alerts: cache get feed failed")
	}

	stored, err := s.repo.GetAlerts(ctx, runDate)
	if err != nil {
		return nil, err
	}

	return &domain.AlertFeed{Alerts: stored}, nil
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

package service

import (
	"context"
	"time"

	"github.com/crusade153/snop-mgt-sub000/internal/analytics/forecast"
	"github.com/crusade153/snop-mgt-sub000/internal/analytics/simulation"
	"github.com/crusade153/snop-mgt-sub000/internal/analytics/units"
	"github.com/crusade153/snop-mgt-sub000/internal/domain"
	"github.com/crusade153/snop-mgt-sub000/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// simulationSlackDays extends the fetch range past the requested target so
// commitments landing just after it still shape the projection.
const simulationSlackDays = 30

// forecastHistoryMonths and forecastHorizonMonths shape the regression
// input: six dense calendar months in, six months projected out.
const (
	forecastHistoryMonths = 6
	forecastHorizonMonths = 6
)

// forecastFetchMonths covers the regression history plus the prior-year
// months of both the history and the projection horizon.
const forecastFetchMonths = 18

// forecastWorkers bounds the concurrent per-product queries of a batch
// forecast run.
const forecastWorkers = 4

// PlanningService answers what-if questions: can a new order be promised,
// and where is demand heading.
type PlanningService struct {
	repo             repository.SnopRepository
	forecaster       *forecast.Engine
	minShelfLifeDays int
}

func NewPlanningService(repo repository.SnopRepository, forecaster *forecast.Engine, minShelfLifeDays int) *PlanningService {
	if forecaster == nil {
		forecaster = forecast.NewEngine(forecast.DefaultConfig())
	}
	if minShelfLifeDays <= 0 {
		minShelfLifeDays = 30
	}
	return &PlanningService{repo: repo, forecaster: forecaster, minShelfLifeDays: minShelfLifeDays}
}

// Simulate runs the availability projection for one hypothetical order.
func (s *PlanningService) Simulate(ctx context.Context, req domain.SimulationRequest, today time.Time) (*domain.SimulationResult, error) {
	horizon := laterOf(today, req.TargetDate).AddDate(0, 0, simulationSlackDays)

	var (
		orders     []domain.OrderLine
		plant      []domain.InventoryBatch
		external   []domain.ExternalBatch
		production []domain.ProductionRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.repo.GetOrderLines(gctx, today, horizon)
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
		production, err = s.repo.GetProductionRows(gctx, today, horizon)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batches := units.NormalizeBatches(plant)
	for _, ext := range external {
		batches = append(batches, ext.AsInventoryBatch())
	}

	result := simulation.Run(simulation.Input{
		Batches:          onlyProductBatches(batches, req.ProductCode),
		Production:       onlyProductRows(units.NormalizeProductionRows(production), req.ProductCode),
		Committed:        onlyProductLines(units.NormalizeOrderLines(orders), req.ProductCode),
		Request:          req,
		Today:            today,
		MinShelfLifeDays: s.minShelfLifeDays,
	})

	log.Debug().
		Str("product_code", req.ProductCode).
		Bool("feasible", result.Feasible).
		Float64("usable_stock", result.UsableStock).
		Msg("availability simulation complete")

	return &result, nil
}

// Forecast projects demand for one product from its monthly sales history.
func (s *PlanningService) Forecast(ctx context.Context, productCode string, today time.Time) (*domain.ForecastResult, error) {
	series, err := s.repo.GetMonthlySales(ctx, productCode, forecastFetchMonths)
	if err != nil {
		return nil, err
	}

	history, priorYear := splitSeries(series, today)
	result := s.forecaster.Project(forecast.Input{
		ProductCode: productCode,
		History:     history,
		PriorYear:   priorYear,
	})
	return &result, nil
}

// ForecastAll projects every product ordered in the recent past, a bounded
// number at a time. One failing product fails the batch.
func (s *PlanningService) ForecastAll(ctx context.Context, today time.Time) ([]domain.ForecastResult, error) {
	codes, err := s.repo.GetActiveProductCodes(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]domain.ForecastResult, len(codes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(forecastWorkers)
	for i, code := range codes {
		i, code := i, code
		g.Go(func() error {
			result, err := s.Forecast(gctx, code, today)
			if err != nil {
				return err
			}
			results[i] = *result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// splitSeries reshapes a sparse fetched series into the regression inputs.
// The monthly sales query only returns months that had rows, so both series
// are materialized as dense calendar ranges with missing months at zero:
// the history is the six months preceding today, the prior-year series the
// twelve months one year behind the history and the projection horizon.
func splitSeries(series []domain.MonthlyPoint, today time.Time) (history, priorYear []domain.MonthlyPoint) {
	byMonth := make(map[string]float64, len(series))
	for _, p := range series {
		byMonth[p.Month] = p.Value
	}

	anchor := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	monthAt := func(offset int) string {
		return anchor.AddDate(0, offset, 0).Format("2006-01")
	}

	history = make([]domain.MonthlyPoint, 0, forecastHistoryMonths)
	for i := -forecastHistoryMonths; i < 0; i++ {
		month := monthAt(i)
		history = append(history, domain.MonthlyPoint{Month: month, Value: byMonth[month]})
	}

	priorYear = make([]domain.MonthlyPoint, 0, forecastHistoryMonths+forecastHorizonMonths)
	for i := -forecastHistoryMonths - 12; i < forecastHorizonMonths-12; i++ {
		month := monthAt(i)
		priorYear = append(priorYear, domain.MonthlyPoint{Month: month, Value: byMonth[month]})
	}
	return history, priorYear
}

func onlyProductLines(lines []domain.OrderLine, code string) []domain.OrderLine {
	out := lines[:0:0]
	for _, line := range lines {
		if line.ProductCode == code {
			out = append(out, line)
		}
	}
	return out
}

func onlyProductBatches(batches []domain.InventoryBatch, code string) []domain.InventoryBatch {
	out := batches[:0:0]
	for _, batch := range batches {
		if batch.ProductCode == code {
			out = append(out, batch)
		}
	}
	return out
}

func onlyProductRows(rows []domain.ProductionRow, code string) []domain.ProductionRow {
	out := rows[:0:0]
	for _, row := range rows {
		if row.ProductCode == code {
			out = append(out, row)
		}
	}
	return out
}

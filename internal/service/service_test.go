package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/crusade153/snop-mgt-sub000/internal/analytics/alerts"
	"github.com/crusade153/snop-mgt-sub000/internal/analytics/rollup"
	"github.com/crusade153/snop-mgt-sub000/internal/cache"
	"github.com/crusade153/snop-mgt-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var svcToday = time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)

// stubRepo is an in-memory SnopRepository that records how it was called.
type stubRepo struct {
	orders     []domain.OrderLine
	batches    []domain.InventoryBatch
	external   []domain.ExternalBatch
	production []domain.ProductionRow
	monthly    map[string][]domain.MonthlyPoint
	codes      []string

	orderCalls   int
	ordersFrom   time.Time
	ordersTo     time.Time
	savedRunDate time.Time
	savedAlerts  []domain.DailyAlert
	saveErr      error
	storedAlerts []domain.DailyAlert
}

func (r *stubRepo) GetOrderLines(ctx context.Context, from, to time.Time) ([]domain.OrderLine, error) {
	r.orderCalls++
	r.ordersFrom, r.ordersTo = from, to
	return r.orders, nil
}

func (r *stubRepo) GetInventoryBatches(ctx context.Context) ([]domain.InventoryBatch, error) {
	return r.batches, nil
}

func (r *stubRepo) GetExternalBatches(ctx context.Context) ([]domain.ExternalBatch, error) {
	return r.external, nil
}

func (r *stubRepo) GetProductionRows(ctx context.Context, from, to time.Time) ([]domain.ProductionRow, error) {
	return r.production, nil
}

func (r *stubRepo) GetMonthlySales(ctx context.Context, productCode string, months int) ([]domain.MonthlyPoint, error) {
	return r.monthly[productCode], nil
}

func (r *stubRepo) GetActiveProductCodes(ctx context.Context) ([]string, error) {
	return r.codes, nil
}

func (r *stubRepo) SaveAlerts(ctx context.Context, runDate time.Time, alertRows []domain.DailyAlert) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.savedRunDate = runDate
	r.savedAlerts = alertRows
	return nil
}

func (r *stubRepo) GetAlerts(ctx context.Context, runDate time.Time) ([]domain.DailyAlert, error) {
	return r.storedAlerts, nil
}

// spyDashboardCache is a map-backed DashboardCache for hit/miss assertions.
type spyDashboardCache struct {
	stored map[string]*domain.Dashboard
	sets   int
}

func newSpyDashboardCache() *spyDashboardCache {
	return &spyDashboardCache{stored: make(map[string]*domain.Dashboard)}
}

func (c *spyDashboardCache) GetDashboard(ctx context.Context, filter *domain.DashboardFilter) (*domain.Dashboard, bool, error) {
	d, ok := c.stored[spyKey(filter)]
	return d, ok, nil
}

func (c *spyDashboardCache) SetDashboard(ctx context.Context, filter *domain.DashboardFilter, dashboard *domain.Dashboard) error {
	c.sets++
	c.stored[spyKey(filter)] = dashboard
	return nil
}

func (c *spyDashboardCache) InvalidateAll(ctx context.Context) error {
	c.stored = make(map[string]*domain.Dashboard)
	return nil
}

func spyKey(filter *domain.DashboardFilter) string {
	return fmt.Sprintf("%+v", filter)
}

func dashboardRepo() *stubRepo {
	return &stubRepo{
		orders: []domain.OrderLine{
			{ProductCode: "1001", ProductName: "Choco Bar", CustomerID: "C1", CustomerName: "Mart A",
				RequestDate: svcToday.AddDate(0, 0, -5), RequestedQty: 100, DeliveredQty: 100, Unit: "EA", Revenue: 1000},
			// Two boxes of twelve convert to 24 base units.
			{ProductCode: "1001", ProductName: "Choco Bar", CustomerID: "C1", CustomerName: "Mart A",
				RequestDate: svcToday.AddDate(0, 0, -3), RequestedQty: 2, DeliveredQty: 2, Unit: "BOX", BoxFactor: 12, Revenue: 240},
			{ProductCode: "2002", ProductName: "Milk Tea", CustomerID: "C2", CustomerName: "Mart B",
				RequestDate: svcToday.AddDate(0, 0, -2), RequestedQty: 50, DeliveredQty: 50, Unit: "EA", Revenue: 500},
		},
		batches: []domain.InventoryBatch{
			{ProductCode: "1001", ProductName: "Choco Bar", Quantity: 500, RemainingDays: 90,
				ExpirationDate: svcToday.AddDate(0, 0, 90), Source: domain.SourcePlant},
			{ProductCode: "2002", ProductName: "Milk Tea", Quantity: 100, RemainingDays: 80,
				ExpirationDate: svcToday.AddDate(0, 0, 80), Source: domain.SourcePlant},
		},
		external: []domain.ExternalBatch{
			{ProductCode: "1001", ProductName: "Choco Bar", AvailableQty: 200,
				ProductionDate: svcToday.AddDate(0, 0, -60), ValidUntil: svcToday.AddDate(0, 0, 40), RemainingDays: 40},
		},
		production: []domain.ProductionRow{
			{ProductCode: "1001", ScheduledDate: svcToday.AddDate(0, 0, 5), PlannedQty: 300, Unit: "EA"},
		},
	}
}

func monthWindow() domain.DateWindow {
	return domain.DateWindow{
		Start: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC),
	}
}

func findDashboardItem(t *testing.T, d *domain.Dashboard, code string) domain.IntegratedItem {
	t.Helper()
	for _, item := range d.Items {
		if item.ProductCode == code {
			return item
		}
	}
	t.Fatalf("product %s not in dashboard", code)
	return domain.IntegratedItem{}
}

func TestGetDashboardMergesExternalStock(t *testing.T) {
	repo := dashboardRepo()
	svc := NewDashboardService(repo, nil, rollup.NewEngine(rollup.DefaultRules(), nil), nil)

	d, err := svc.GetDashboard(context.Background(), &domain.DashboardFilter{Window: monthWindow()}, svcToday)
	require.NoError(t, err)

	item := findDashboardItem(t, d, "1001")
	assert.Equal(t, 700.0, item.Inventory.TotalStock)
	assert.Equal(t, 500.0, item.Inventory.PlantStock)
	assert.Equal(t, 200.0, item.Inventory.ExternalStock)

	// Box-unit lines arrive converted to base units.
	assert.Equal(t, 124.0, item.Sales.RequestedQty)

	// Orders are fetched back to the velocity horizon, not just the window.
	assert.True(t, repo.ordersFrom.Equal(svcToday.AddDate(0, 0, -90)))
	assert.True(t, repo.ordersTo.Equal(monthWindow().End))
}

func TestGetDashboardProductFilter(t *testing.T) {
	svc := NewDashboardService(dashboardRepo(), nil, rollup.NewEngine(rollup.DefaultRules(), nil), nil)

	filter := &domain.DashboardFilter{Window: monthWindow(), ProductCodes: []string{"1001"}}
	d, err := svc.GetDashboard(context.Background(), filter, svcToday)
	require.NoError(t, err)

	require.Len(t, d.Items, 1)
	assert.Equal(t, "1001", d.Items[0].ProductCode)
}

func TestGetDashboardCustomerFilter(t *testing.T) {
	svc := NewDashboardService(dashboardRepo(), nil, rollup.NewEngine(rollup.DefaultRules(), nil), nil)

	filter := &domain.DashboardFilter{Window: monthWindow(), CustomerIDs: []string{"C1"}}
	d, err := svc.GetDashboard(context.Background(), filter, svcToday)
	require.NoError(t, err)

	// C2's order drops out; its product stays visible through inventory.
	item := findDashboardItem(t, d, "2002")
	assert.Equal(t, 0.0, item.Sales.RequestedQty)
	assert.Equal(t, 100.0, item.Inventory.TotalStock)

	require.Len(t, d.Customers, 1)
	assert.Equal(t, "C1", d.Customers[0].CustomerID)
}

func TestGetDashboardServesFromCache(t *testing.T) {
	repo := dashboardRepo()
	spy := newSpyDashboardCache()
	svc := NewDashboardService(repo, spy, rollup.NewEngine(rollup.DefaultRules(), nil), nil)

	filter := &domain.DashboardFilter{Window: monthWindow()}

	first, err := svc.GetDashboard(context.Background(), filter, svcToday)
	require.NoError(t, err)
	second, err := svc.GetDashboard(context.Background(), filter, svcToday)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.orderCalls)
	assert.Equal(t, 1, spy.sets)
	assert.Equal(t, first, second)
}

func TestGetStockSummary(t *testing.T) {
	svc := NewDashboardService(dashboardRepo(), nil, rollup.NewEngine(rollup.DefaultRules(), nil), nil)

	summary, err := svc.GetStockSummary(context.Background(), &domain.DashboardFilter{Window: monthWindow()}, svcToday)
	require.NoError(t, err)

	// All fixture batches sit beyond the 60-day critical bound except the
	// 40-day external batch.
	assert.Equal(t, 600.0, summary.Healthy)
	assert.Equal(t, 200.0, summary.Critical)
}

func TestRunDailyPersistsAlerts(t *testing.T) {
	repo := &stubRepo{
		orders: []domain.OrderLine{
			// Yesterday's order with no trailing history: spike against a
			// zero baseline.
			{ProductCode: "1001", ProductName: "Choco Bar",
				RequestDate: svcToday.AddDate(0, 0, -1), RequestedQty: 100, DeliveredQty: 100, Unit: "EA"},
		},
	}
	svc := NewAlertService(repo, nil, alerts.NewEngine(alerts.DefaultConfig(), nil))

	// A mid-day clock still keys the run to midnight.
	feed, err := svc.RunDaily(context.Background(), svcToday.Add(10*time.Hour+30*time.Minute))
	require.NoError(t, err)

	assert.True(t, repo.savedRunDate.Equal(svcToday))
	assert.Equal(t, feed.Alerts, repo.savedAlerts)
	require.NotEmpty(t, feed.Alerts)
	assert.Equal(t, domain.AlertSpike, feed.Alerts[0].Type)
}

func TestRunDailyFailsWhenSaveFails(t *testing.T) {
	repo := &stubRepo{saveErr: errors.New("insert failed")}
	svc := NewAlertService(repo, nil, alerts.NewEngine(alerts.DefaultConfig(), nil))

	_, err := svc.RunDaily(context.Background(), svcToday)
	assert.Error(t, err)
}

func TestGetFeedFallsBackToStore(t *testing.T) {
	repo := &stubRepo{
		storedAlerts: []domain.DailyAlert{
			{Type: domain.AlertShortage, Level: domain.LevelCritical, ProductCode: "1001"},
			{Type: domain.AlertSpike, Level: domain.LevelWarning, ProductCode: "2002"},
		},
	}
	svc := NewAlertService(repo, cache.NewNoopAlertFeedCache(), alerts.NewEngine(alerts.DefaultConfig(), nil))

	feed, err := svc.GetFeed(context.Background(), svcToday)
	require.NoError(t, err)

	assert.Equal(t, repo.storedAlerts, feed.Alerts)
	assert.Equal(t, 0, feed.Summary.ProductsScanned)
}

func TestSimulateFiltersToProduct(t *testing.T) {
	repo := &stubRepo{
		batches: []domain.InventoryBatch{
			{ProductCode: "1001", Quantity: 100, ExpirationDate: svcToday.AddDate(0, 0, 90)},
			{ProductCode: "2002", Quantity: 999, ExpirationDate: svcToday.AddDate(0, 0, 90)},
		},
		orders: []domain.OrderLine{
			{ProductCode: "2002", RequestDate: svcToday.AddDate(0, 0, 1), RequestedQty: 500, Unit: "EA"},
		},
	}
	svc := NewPlanningService(repo, nil, 30)

	result, err := svc.Simulate(context.Background(), domain.SimulationRequest{
		ProductCode: "1001", Quantity: 50, TargetDate: svcToday.AddDate(0, 0, 3),
	}, svcToday)
	require.NoError(t, err)

	assert.True(t, result.Feasible)
	assert.Equal(t, 100.0, result.UsableStock)
	assert.Equal(t, 0.0, result.CommittedDemand)
}

func TestSplitSeries(t *testing.T) {
	var series []domain.MonthlyPoint
	cursor := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 18; i++ {
		series = append(series, domain.MonthlyPoint{
			Month: cursor.Format("2006-01"),
			Value: float64(100 + i),
		})
		cursor = cursor.AddDate(0, 1, 0)
	}

	history, priorYear := splitSeries(series, svcToday)

	require.Len(t, history, 6)
	assert.Equal(t, "2025-03", history[0].Month)
	assert.Equal(t, "2025-08", history[5].Month)
	assert.Equal(t, 117.0, history[5].Value)

	// Prior year spans both the history and the projection months.
	require.Len(t, priorYear, 12)
	assert.Equal(t, domain.MonthlyPoint{Month: "2024-03", Value: 100}, priorYear[0])
	assert.Equal(t, domain.MonthlyPoint{Month: "2025-02", Value: 111}, priorYear[11])
}

func TestSplitSeriesZeroFillsGaps(t *testing.T) {
	series := []domain.MonthlyPoint{
		{Month: "2025-01", Value: 600},
		{Month: "2025-08", Value: 600},
	}

	history, priorYear := splitSeries(series, svcToday)

	require.Len(t, history, 6)
	expected := []domain.MonthlyPoint{
		{Month: "2025-03", Value: 0},
		{Month: "2025-04", Value: 0},
		{Month: "2025-05", Value: 0},
		{Month: "2025-06", Value: 0},
		{Month: "2025-07", Value: 0},
		{Month: "2025-08", Value: 600},
	}
	assert.Equal(t, expected, history)

	// The January sales sit in the prior-year window of the projection.
	require.Len(t, priorYear, 12)
	assert.Equal(t, domain.MonthlyPoint{Month: "2025-01", Value: 600}, priorYear[10])
}

func TestForecastBridgesSalesGaps(t *testing.T) {
	repo := &stubRepo{
		monthly: map[string][]domain.MonthlyPoint{
			"1001": {
				{Month: "2025-01", Value: 600},
				{Month: "2025-08", Value: 600},
			},
		},
	}
	svc := NewPlanningService(repo, nil, 30)

	result, err := svc.Forecast(context.Background(), "1001", svcToday)
	require.NoError(t, err)

	// Five silent months followed by one strong one read as a ramp, not a
	// flat series of two equal points.
	require.Len(t, result.History, 6)
	assert.Equal(t, 0.0, result.History[0].Value)
	assert.Equal(t, 600.0, result.History[5].Value)
	assert.Equal(t, domain.TrendUp, result.Trend)

	require.Len(t, result.Forecast, 6)
	assert.Equal(t, domain.MonthlyPoint{Month: "2025-09", Value: 400}, result.Forecast[0])
}

func TestForecastAllKeepsOrder(t *testing.T) {
	repo := &stubRepo{
		codes: []string{"1001", "2002", "3003"},
		monthly: map[string][]domain.MonthlyPoint{
			"1001": {{Month: "2025-07", Value: 10}, {Month: "2025-08", Value: 10}},
			"2002": {{Month: "2025-08", Value: 50}},
		},
	}
	svc := NewPlanningService(repo, nil, 30)

	results, err := svc.ForecastAll(context.Background(), svcToday)
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, "1001", results[0].ProductCode)
	assert.Equal(t, "2002", results[1].ProductCode)
	assert.Equal(t, "3003", results[2].ProductCode)

	// A product with no sales history projects flat zero.
	require.Len(t, results[2].Forecast, 6)
	for _, p := range results[2].Forecast {
		assert.Equal(t, 0.0, p.Value)
	}
}

// internal/repository/snop_repository.go
package repository

import (
	"context"
	"time"

	"github.com/crusade153/snop-mgt-sub000/internal/domain"
)

// SnopRepository reads the raw planning streams. Implementations return rows
// as loaded, with quantities still in their source unit; normalization is the
// caller's job.
type SnopRepository interface {
	GetOrderLines(ctx context.Context, from, to time.Time) ([]domain.OrderLine, error)
	GetInventoryBatches(ctx context.Context) ([]domain.InventoryBatch, error)
	GetExternalBatches(ctx context.Context) ([]domain.ExternalBatch, error)
	GetProductionRows(ctx context.Context, from, to time.Time) ([]domain.ProductionRow, error)

	// Forecast methods
	GetMonthlySales(ctx context.Context, productCode string, months int) ([]domain.MonthlyPoint, error)
	GetActiveProductCodes(ctx context.Context) ([]string, error)

	// Alert persistence
	SaveAlerts(ctx context.Context, runDate time.Time, alerts []domain.DailyAlert) error
	GetAlerts(ctx context.Context, runDate time.Time) ([]domain.DailyAlert, error)
}

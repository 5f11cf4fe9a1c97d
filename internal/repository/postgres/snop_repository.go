// internal/repository/postgres/snop_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/crusade153/snop-mgt-sub000/internal/domain"
)

type snopRepository struct {
	db *DB
}

func NewSnopRepository(db *DB) *snopRepository {
	return &snopRepository{db: db}
}

func (r *snopRepository) GetOrderLines(ctx context.Context, from, to time.Time) ([]domain.OrderLine, error) {
	query := `
		SELECT
			product_code,
			product_name,
			request_date,
			requested_qty,
			delivered_qty,
			unit,
			box_factor,
			revenue,
			customer_id,
			customer_name
		FROM order_lines
		WHERE request_date BETWEEN $1 AND $2
		ORDER BY request_date, product_code
	`

	var lines []domain.OrderLine
	if err := r.db.SelectContext(ctx, &lines, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to get order lines: %w", err)
	}
	return lines, nil
}

func (r *snopRepository) GetInventoryBatches(ctx context.Context) ([]domain.InventoryBatch, error) {
	query := `
		SELECT
			product_code,
			product_name,
			quantity,
			quality_hold_qty,
			expiration_date,
			remaining_days,
			remaining_rate,
			warehouse,
			box_factor,
			source
		FROM inventory_batches
		ORDER BY product_code, expiration_date
	`

	var batches []domain.InventoryBatch
	if err := r.db.SelectContext(ctx, &batches, query); err != nil {
		return nil, fmt.Errorf("failed to get inventory batches: %w", err)
	}
	return batches, nil
}

func (r *snopRepository) GetExternalBatches(ctx context.Context) ([]domain.ExternalBatch, error) {
	query := `
		SELECT
			product_code,
			product_name,
			available_qty,
			production_date,
			valid_until,
			remaining_days,
			box_factor,
			warehouse
		FROM external_batches
		ORDER BY product_code, valid_until
	`

	var batches []domain.ExternalBatch
	if err := r.db.SelectContext(ctx, &batches, query); err != nil {
		return nil, fmt.Errorf("failed to get external batches: %w", err)
	}
	return batches, nil
}

func (r *snopRepository) GetProductionRows(ctx context.Context, from, to time.Time) ([]domain.ProductionRow, error) {
	query := `
		SELECT
			product_code,
			product_name,
			planned_qty,
			received_qty,
			scheduled_date,
			unit,
			box_factor
		FROM production_schedule
		WHERE scheduled_date BETWEEN $1 AND $2
		ORDER BY scheduled_date, product_code
	`

	var rows []domain.ProductionRow
	if err := r.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to get production rows: %w", err)
	}
	return rows, nil
}

func (r *snopRepository) GetMonthlySales(ctx context.Context, productCode string, months int) ([]domain.MonthlyPoint, error) {
	query := `
		SELECT
			to_char(date_trunc('month', request_date), 'YYYY-MM') AS month,
			COALESCE(SUM(delivered_qty), 0) AS value
		FROM order_lines
		WHERE product_code = $1
		  AND request_date >= date_trunc('month', NOW()) - ($2 || ' months')::interval
		  AND request_date < date_trunc('month', NOW())
		GROUP BY 1
		ORDER BY 1
	`

	var points []domain.MonthlyPoint
	if err := r.db.SelectContext(ctx, &points, query, productCode, months); err != nil {
		return nil, fmt.Errorf("failed to get monthly sales: %w", err)
	}
	return points, nil
}

func (r *snopRepository) GetActiveProductCodes(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT product_code
		FROM order_lines
		WHERE request_date >= NOW() - interval '6 months'
		ORDER BY product_code
	`

	var codes []string
	if err := r.db.SelectContext(ctx, &codes, query); err != nil {
		return nil, fmt.Errorf("failed to get active product codes: %w", err)
	}
	return codes, nil
}

func (r *snopRepository) SaveAlerts(ctx context.Context, runDate time.Time, alerts []domain.DailyAlert) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM daily_alerts WHERE run_date = $1`, runDate); err != nil {
			return fmt.Errorf("failed to clear alert run: %w", err)
		}

		query := `
			INSERT INTO daily_alerts (
				run_date, alert_type, level, product_code, product_name,
				cause, action, magnitude, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		`

		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, a := range alerts {
			_, err := stmt.ExecContext(ctx,
				runDate, a.Type, a.Level, a.ProductCode, a.ProductName,
				a.Cause, a.Action, a.Magnitude,
			)
			if err != nil {
				return fmt.Errorf("failed to insert alert: %w", err)
			}
		}

		return nil
	})
}

func (r *snopRepository) GetAlerts(ctx context.Context, runDate time.Time) ([]domain.DailyAlert, error) {
	query := `
		SELECT alert_type, level, product_code, product_name, cause, action, magnitude
		FROM daily_alerts
		WHERE run_date = $1
		ORDER BY CASE level WHEN 'CRITICAL' THEN 0 ELSE 1 END, id
	`

	var alerts []domain.DailyAlert
	if err := r.db.SelectContext(ctx, &alerts, query, runDate); err != nil {
		return nil, fmt.Errorf("failed to get alerts: %w", err)
	}
	return alerts, nil
}

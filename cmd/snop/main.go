// cmd/snop/main.go
package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/crusade153/snop-mgt-sub000/internal/analytics/alerts"
	"github.com/crusade153/snop-mgt-sub000/internal/analytics/rollup"
	"github.com/crusade153/snop-mgt-sub000/internal/analytics/stockhealth"
	"github.com/crusade153/snop-mgt-sub000/internal/cache"
	"github.com/crusade153/snop-mgt-sub000/internal/config"
	"github.com/crusade153/snop-mgt-sub000/internal/domain"
	"github.com/crusade153/snop-mgt-sub000/internal/export"
	"github.com/crusade153/snop-mgt-sub000/internal/repository/postgres"
	"github.com/crusade153/snop-mgt-sub000/internal/service"
	"github.com/crusade153/snop-mgt-sub000/internal/storage"
	"github.com/crusade153/snop-mgt-sub000/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newDateFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "date",
		Usage: "Run date in YYYY-MM-DD form (defaults to today)",
		Value: time.Now().Format("2006-01-02"),
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logger.Log.Debug().Err(err).Msg("could not load .env file")
	}

	app := &cli.App{
		Name:  "snop",
		Usage: "Operational tasks for the S&OP planning backend",
		Commands: []*cli.Command{
			{
				Name:  "alerts",
				Usage: "Daily alert engine",
				Subcommands: []*cli.Command{
					{
						Name:   "run",
						Usage:  "Run the alert engine for one date and persist the feed",
						Flags:  []cli.Flag{newDBURLFlag(), newDateFlag()},
						Action: runAlerts,
					},
				},
			},
			{
				Name:  "rollup",
				Usage: "Integrated dashboard rollup",
				Subcommands: []*cli.Command{
					{
						Name:  "export",
						Usage: "Build the dashboard for a window and write it as xlsx",
						Flags: []cli.Flag{
							newDBURLFlag(),
							newDateFlag(),
							&cli.StringFlag{
								Name:  "start",
								Usage: "Window start in YYYY-MM-DD form (defaults to first of the month)",
							},
							&cli.StringFlag{
								Name:  "end",
								Usage: "Window end in YYYY-MM-DD form (defaults to the run date)",
							},
							&cli.StringFlag{
								Name:  "out",
								Usage: "Output file path",
								Value: "dashboard.xlsx",
							},
						},
						Action: exportRollup,
					},
				},
			},
			{
				Name:  "archive",
				Usage: "S3-compatible snapshot archive",
				Subcommands: []*cli.Command{
					{
						Name:  "push",
						Usage: "Upload a snapshot file to the archive bucket",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "file",
								Usage:    "Local file to upload",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "key",
								Usage: "Object key (defaults to <date>/<filename>)",
							},
						},
						Action: pushArchive,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("command failed")
	}
}

func openDB(c *cli.Context) (*postgres.DB, error) {
	conn, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return postgres.NewDBFromConn(conn, "pgx"), nil
}

func parseDate(c *cli.Context, flag string, fallback time.Time) (time.Time, error) {
	raw := c.String(flag)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: %w", flag, raw, err)
	}
	return d, nil
}

func runAlerts(c *cli.Context) error {
	cfg := config.Load()

	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	runDate, err := parseDate(c, "date", time.Now())
	if err != nil {
		return err
	}

	classifier := stockhealth.NewClassifier(stockhealth.Config{
		ImminentDays:     cfg.Thresholds.ImminentDays,
		CriticalDays:     cfg.Thresholds.CriticalDays,
		ExcessStockUnits: cfg.Thresholds.ExcessStockUnits,
		NoExpiryPrefixes: cfg.Thresholds.NoExpiryPrefixes,
	})
	engine := alerts.NewEngine(alerts.Config{
		SpikeRatio:          cfg.Thresholds.SpikeRatio,
		SpikeFloorUnits:     cfg.Thresholds.SpikeFloorUnits,
		FreshnessRiskFloor:  cfg.Thresholds.FreshnessRiskFloor,
		DeadStockCutoffDays: cfg.Thresholds.DeadStockCutoffDays,
	}, classifier)

	svc := service.NewAlertService(postgres.NewSnopRepository(db), cache.NewNoopAlertFeedCache(), engine)

	feed, err := svc.RunDaily(c.Context, runDate)
	if err != nil {
		return err
	}

	logger.Log.Info().
		Str("date", runDate.Format("2006-01-02")).
		Int("alerts", len(feed.Alerts)).
		Int("products_scanned", feed.Summary.ProductsScanned).
		Msg("alert run persisted")
	return nil
}

func exportRollup(c *cli.Context) error {
	cfg := config.Load()

	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	today, err := parseDate(c, "date", time.Now())
	if err != nil {
		return err
	}
	start, err := parseDate(c, "start", time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()))
	if err != nil {
		return err
	}
	end, err := parseDate(c, "end", today)
	if err != nil {
		return err
	}

	classifier := stockhealth.NewClassifier(stockhealth.Config{
		ImminentDays:     cfg.Thresholds.ImminentDays,
		CriticalDays:     cfg.Thresholds.CriticalDays,
		ExcessStockUnits: cfg.Thresholds.ExcessStockUnits,
		NoExpiryPrefixes: cfg.Thresholds.NoExpiryPrefixes,
	})
	engine := rollup.NewEngine(rollup.Rules{
		MerchandisePrefixes: cfg.Thresholds.MerchandisePrefixes,
		CriticalDelayDays:   cfg.Thresholds.CriticalDelayDays,
	}, classifier)

	svc := service.NewDashboardService(postgres.NewSnopRepository(db), cache.NewNoopDashboardCache(), engine, classifier)

	dashboard, err := svc.GetDashboard(c.Context, &domain.DashboardFilter{
		Window: domain.DateWindow{Start: start, End: end},
	}, today)
	if err != nil {
		return err
	}

	out := c.String("out")
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed creating %s: %w", out, err)
	}
	defer f.Close()

	if err := export.NewXLSXExporter().Dashboard(f, dashboard); err != nil {
		return err
	}

	logger.Log.Info().
		Str("out", out).
		Int("products", dashboard.KPIs.ProductCount).
		Int("customers", dashboard.KPIs.CustomerCount).
		Msg("dashboard exported")
	return nil
}

func pushArchive(c *cli.Context) error {
	cfg := config.Load()

	client, err := storage.NewMinioClient(cfg.Archive)
	if err != nil {
		return err
	}

	file := c.String("file")
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed reading %s: %w", file, err)
	}

	key := c.String("key")
	if key == "" {
		key = fmt.Sprintf("%s/%s", time.Now().Format("2006-01-02"), filepath.Base(file))
	}

	if err := client.UploadObject(c.Context, key, data); err != nil {
		return err
	}

	logger.Log.Info().Str("key", key).Int("bytes", len(data)).Msg("snapshot archived")
	return nil
}

// cmd/api/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crusade153/snop-mgt-sub000/internal/analytics/alerts"
	"github.com/crusade153/snop-mgt-sub000/internal/analytics/forecast"
	"github.com/crusade153/snop-mgt-sub000/internal/analytics/rollup"
	"github.com/crusade153/snop-mgt-sub000/internal/analytics/stockhealth"
	"github.com/crusade153/snop-mgt-sub000/internal/api"
	"github.com/crusade153/snop-mgt-sub000/internal/cache"
	"github.com/crusade153/snop-mgt-sub000/internal/config"
	"github.com/crusade153/snop-mgt-sub000/internal/repository/postgres"
	"github.com/crusade153/snop-mgt-sub000/internal/service"
	"github.com/crusade153/snop-mgt-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	repo := postgres.NewSnopRepository(db)

	classifier := stockhealth.NewClassifier(stockhealth.Config{
		ImminentDays:     cfg.Thresholds.ImminentDays,
		CriticalDays:     cfg.Thresholds.CriticalDays,
		ExcessStockUnits: cfg.Thresholds.ExcessStockUnits,
		NoExpiryPrefixes: cfg.Thresholds.NoExpiryPrefixes,
	})

	dashboardCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("dashboard cache unavailable, continuing without")
		dashboardCache = cache.NewNoopDashboardCache()
	}
	alertCache, err := cache.NewAlertFeedCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("alert cache unavailable, continuing without")
		alertCache = cache.NewNoopAlertFeedCache()
	}

	rollupEngine := rollup.NewEngine(rollup.Rules{
		MerchandisePrefixes: cfg.Thresholds.MerchandisePrefixes,
		CriticalDelayDays:   cfg.Thresholds.CriticalDelayDays,
	}, classifier)

	alertEngine := alerts.NewEngine(alerts.Config{
		SpikeRatio:          cfg.Thresholds.SpikeRatio,
		SpikeFloorUnits:     cfg.Thresholds.SpikeFloorUnits,
		FreshnessRiskFloor:  cfg.Thresholds.FreshnessRiskFloor,
		DeadStockCutoffDays: cfg.Thresholds.DeadStockCutoffDays,
	}, classifier)

	services := &api.Services{
		DashboardService: service.NewDashboardService(repo, dashboardCache, rollupEngine, classifier),
		AlertService:     service.NewAlertService(repo, alertCache, alertEngine),
		PlanningService: service.NewPlanningService(repo,
			forecast.NewEngine(forecast.DefaultConfig()), cfg.Thresholds.MinShelfLifeDays),
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	opsSrv := &http.Server{
		Addr:    ":" + cfg.Server.OpsPort,
		Handler: api.NewOpsRouter(db.DB),
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.OpsPort).Msg("Starting ops server")
		if err := opsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start ops server")
		}
	}()

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	if err := opsSrv.Shutdown(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("Ops server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

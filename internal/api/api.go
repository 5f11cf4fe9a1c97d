// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/crusade153/snop-mgt-sub000/internal/api/handlers"
	"github.com/crusade153/snop-mgt-sub000/internal/api/middleware"
	"github.com/crusade153/snop-mgt-sub000/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	DashboardService *service.DashboardService
	AlertService     *service.AlertService
	PlanningService  *service.PlanningService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.DashboardService != nil {
			dashboardHandler := handlers.NewDashboardHandler(services.DashboardService, nil)
			dashboardGroup := apiGroup.Group("/dashboard")
			{
				dashboardGroup.GET("", dashboardHandler.GetDashboard)
				dashboardGroup.GET("/stock_summary", dashboardHandler.GetStockSummary)
				dashboardGroup.GET("/export", dashboardHandler.ExportDashboard)
				dashboardGroup.POST("/cache/invalidate", dashboardHandler.InvalidateCache)
			}
		}

		if services.AlertService != nil {
			alertHandler := handlers.NewAlertHandler(services.AlertService, nil)
			alertGroup := apiGroup.Group("/alerts")
			{
				alertGroup.GET("", alertHandler.GetAlerts)
				alertGroup.POST("/run", alertHandler.RunAlerts)
				alertGroup.GET("/export", alertHandler.ExportAlerts)
			}
		}

		if services.PlanningService != nil {
			planningHandler := handlers.NewPlanningHandler(services.PlanningService)
			planningGroup := apiGroup.Group("/planning")
			{
				planningGroup.POST("/simulate", planningHandler.Simulate)
				planningGroup.GET("/forecast", planningHandler.GetForecastAll)
				planningGroup.GET("/forecast/:code", planningHandler.GetForecast)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}

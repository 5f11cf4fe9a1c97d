package handlers

import (
	"fmt"
	"net/http"

	"github.com/crusade153/snop-mgt-sub000/internal/export"
	"github.com/crusade153/snop-mgt-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	service  *service.AlertService
	exporter *export.XLSXExporter
}

func NewAlertHandler(service *service.AlertService, exporter *export.XLSXExporter) *AlertHandler {
	if exporter == nil {
		exporter = export.NewXLSXExporter()
	}
	return &AlertHandler{service: service, exporter: exporter}
}

// RunAlerts executes the daily alert run. A date override re-runs a past day
// against current data, which is how threshold changes are backtested.
func (h *AlertHandler) RunAlerts(c *gin.Context) {
	feed, err := h.service.RunDaily(c.Request.Context(), parseToday(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (h *AlertHandler) GetAlerts(c *gin.Context) {
	feed, err := h.service.GetFeed(c.Request.Context(), parseToday(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (h *AlertHandler) ExportAlerts(c *gin.Context) {
	runDate := parseToday(c)

	feed, err := h.service.GetFeed(c.Request.Context(), runDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("snop-alerts-%s.xlsx", runDate.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", xlsxContentType)

	if err := h.exporter.AlertFeed(c.Writer, feed, runDate); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

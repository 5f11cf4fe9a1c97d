package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/crusade153/snop-mgt-sub000/internal/domain"
	"github.com/crusade153/snop-mgt-sub000/internal/export"
	"github.com/crusade153/snop-mgt-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DashboardHandler struct {
	service  *service.DashboardService
	exporter *export.XLSXExporter
}

func NewDashboardHandler(service *service.DashboardService, exporter *export.XLSXExporter) *DashboardHandler {
	if exporter == nil {
		exporter = export.NewXLSXExporter()
	}
	return &DashboardHandler{service: service, exporter: exporter}
}

// parseFilter reads window and narrowing params. With no window params the
// dashboard covers month-to-date.
func (h *DashboardHandler) parseFilter(c *gin.Context, today time.Time) *domain.DashboardFilter {
	filter := &domain.DashboardFilter{
		Window: domain.DateWindow{
			Start: time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()),
			End:   today,
		},
	}

	if start, err := time.Parse("2006-01-02", c.Query("start")); err == nil {
		filter.Window.Start = start
	}
	if end, err := time.Parse("2006-01-02", c.Query("end")); err == nil {
		filter.Window.End = end
	}

	filter.ProductCodes = parseList(c.Query("product_codes"))
	filter.CustomerIDs = parseList(c.Query("customer_ids"))

	return filter
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	today := parseToday(c)
	filter := h.parseFilter(c, today)

	dashboard, err := h.service.GetDashboard(c.Request.Context(), filter, today)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

func (h *DashboardHandler) GetStockSummary(c *gin.Context) {
	today := parseToday(c)
	filter := h.parseFilter(c, today)

	summary, err := h.service.GetStockSummary(c.Request.Context(), filter, today)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *DashboardHandler) ExportDashboard(c *gin.Context) {
	today := parseToday(c)
	filter := h.parseFilter(c, today)

	dashboard, err := h.service.GetDashboard(c.Request.Context(), filter, today)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("snop-dashboard-%s.xlsx", today.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", xlsxContentType)

	if err := h.exporter.Dashboard(c.Writer, dashboard); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *DashboardHandler) InvalidateCache(c *gin.Context) {
	if err := h.service.InvalidateCache(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseToday reads the optional date override used for reproducing a past
// day's view; it defaults to the wall clock.
func parseToday(c *gin.Context) time.Time {
	if d, err := time.Parse("2006-01-02", c.Query("date")); err == nil {
		return d
	}
	return time.Now()
}

func parseList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

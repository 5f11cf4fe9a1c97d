package handlers

import (
	"net/http"
	"strings"

	"github.com/crusade153/snop-mgt-sub000/internal/domain"
	"github.com/crusade153/snop-mgt-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

type PlanningHandler struct {
	service *service.PlanningService
}

func NewPlanningHandler(service *service.PlanningService) *PlanningHandler {
	return &PlanningHandler{service: service}
}

// Simulate answers whether a hypothetical order can be promised by its
// target date.
func (h *PlanningHandler) Simulate(c *gin.Context) {
	var req domain.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.ProductCode) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_code is required"})
		return
	}
	if req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be positive"})
		return
	}
	if req.TargetDate.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_date is required"})
		return
	}

	result, err := h.service.Simulate(c.Request.Context(), req, parseToday(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PlanningHandler) GetForecast(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product code is required"})
		return
	}

	result, err := h.service.Forecast(c.Request.Context(), code, parseToday(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PlanningHandler) GetForecastAll(c *gin.Context) {
	results, err := h.service.ForecastAll(c.Request.Context(), parseToday(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"forecasts": results})
}

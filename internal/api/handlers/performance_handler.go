package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sellermetrics/backend-go/internal/service"
)

type PerformanceHandler struct {
	service *service.PerformanceService
}

func NewPerformanceHandler(service *service.PerformanceService) *PerformanceHandler {
	return &PerformanceHandler{service: service}
}

func (h *PerformanceHandler) GetPerformance(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	perfs, err := h.service.GetPerformance(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch performance", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": perfs,
		"total": len(perfs),
	})
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sellermetrics/backend-go/internal/service"
)

type InventoryHandler struct {
	service *service.ReorderService
}

func NewInventoryHandler(service *service.ReorderService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// GetRecommendations returns fresh reorder recommendations without firing
// the auto-reorder trigger or touching stored statuses.
func (h *InventoryHandler) GetRecommendations(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	recs, err := h.service.GetRecommendations(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recommendations", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": recs,
		"total": len(recs),
	})
}

// Evaluate runs a full evaluation cycle including status updates and the
// auto-reorder trigger. Partial persistence failures are reported in the
// trigger section of the response rather than failing the request.
func (h *InventoryHandler) Evaluate(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	result, err := h.service.Evaluate(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "evaluation failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *InventoryHandler) GetEvents(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 {
		limit = 50
	}

	events, err := h.service.ListEvents(c.Request.Context(), tenantID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch events", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

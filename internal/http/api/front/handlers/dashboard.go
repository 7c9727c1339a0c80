package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chzeraa/painel-bemaxx/internal/stats"
)

// DashboardHandler serves the seller dashboard figures.
type DashboardHandler struct {
	stats *stats.Service
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(statsService *stats.Service) *DashboardHandler {
	return &DashboardHandler{stats: statsService}
}

// Stats returns the current seller's sales summary.
func (h *DashboardHandler) Stats(c *gin.Context) {
	userID := getUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	summary, errStats := h.stats.ForUser(c.Request.Context(), userID)
	if errStats != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "compute stats failed"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

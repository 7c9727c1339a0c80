package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chzeraa/painel-bemaxx/internal/stats"
)

// DashboardHandler serves the admin dashboard figures.
type DashboardHandler struct {
	stats *stats.Service
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(statsService *stats.Service) *DashboardHandler {
	return &DashboardHandler{stats: statsService}
}

// Overview returns the pool-wide aggregates.
func (h *DashboardHandler) Overview(c *gin.Context) {
	overview, errOverview := h.stats.Overview(c.Request.Context())
	if errOverview != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "compute overview failed"})
		return
	}
	c.JSON(http.StatusOK, overview)
}

// Consistency recomputes every account's totals from the sale records and
// reports the accounts whose stored counters drifted.
func (h *DashboardHandler) Consistency(c *gin.Context) {
	drifts, errCheck := h.stats.CheckConsistency(c.Request.Context())
	if errCheck != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "consistency check failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"consistent": len(drifts) == 0,
		"drifts":     drifts,
	})
}

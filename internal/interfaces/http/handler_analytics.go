package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AnalyticsSummary returns the dashboard summary cards for the org.
func (h *Handler) AnalyticsSummary(c *gin.Context) {
	summary := h.analytics.Summary(c.Request.Context(), getOrgID(c))
	c.JSON(http.StatusOK, summary)
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetDashboard returns the goals, streak, and recent-activity aggregate in
// one response.
func GetDashboard(c *gin.Context) {
	userID := c.GetUint("userID")

	dashboard, err := deps.Dashboard.Load(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

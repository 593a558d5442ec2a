package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RecentActivities returns the newest feed entries, capped at ten.
func RecentActivities(c *gin.Context) {
	userID := c.GetUint("userID")

	entries, err := deps.Activities.Recent(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load activities"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"activities": entries})
}

// ClearActivities wipes the user's feed and reports how many entries were
// removed.
func ClearActivities(c *gin.Context) {
	userID := c.GetUint("userID")

	removed, err := deps.Activities.ClearAll(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear activities"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "activities cleared", "deleted": removed})
}

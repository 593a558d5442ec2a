package controllers

import (
	"errors"
	"net/http"

	"fittrack/services"

	"github.com/gin-gonic/gin"
)

// CheckIn records today's check-in and returns the updated streak.
func CheckIn(c *gin.Context) {
	userID := c.GetUint("userID")

	rec, err := deps.Streaks.CheckIn(c.Request.Context(), userID)
	if errors.Is(err, services.ErrAlreadyCheckedIn) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Already checked in today"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check in"})
		return
	}

	c.JSON(http.StatusOK, services.NewStreakView(rec))
}

// GetStreak returns the user's streak, zero-valued when they have never
// checked in.
func GetStreak(c *gin.Context) {
	userID := c.GetUint("userID")

	rec, err := deps.Streaks.ReadStreak(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load streak"})
		return
	}

	c.JSON(http.StatusOK, services.NewStreakView(rec))
}

// NextCheckIn previews what a check-in right now would produce, without
// writing anything.
func NextCheckIn(c *gin.Context) {
	userID := c.GetUint("userID")

	preview, err := deps.Streaks.PreviewCheckIn(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load streak"})
		return
	}

	c.JSON(http.StatusOK, preview)
}

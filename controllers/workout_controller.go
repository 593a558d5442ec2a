package controllers

import (
	"errors"
	"net/http"
	"time"

	"fittrack/services"

	"github.com/gin-gonic/gin"
)

// GenerateWorkout asks the AI for a workout plan built from the user's goal,
// equipment, and duration.
func GenerateWorkout(c *gin.Context) {
	userID := c.GetUint("userID")

	var req services.WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Goal, equipment, and duration are required"})
		return
	}

	plan, err := deps.Gemini.GenerateWorkout(c.Request.Context(), userID, req)
	if errors.Is(err, services.ErrGeminiNotConfigured) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "AI service temporarily unavailable",
			"details": "Workout generation is currently disabled. Please try again later.",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate workout"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"workout":   plan,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

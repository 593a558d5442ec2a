package controllers

import (
	"errors"
	"net/http"
	"time"

	"fittrack/services"

	"github.com/gin-gonic/gin"
)

// GenerateRecovery asks the AI for a recovery plan. When the AI call fails
// the response still succeeds with a canned plan and a note.
func GenerateRecovery(c *gin.Context) {
	userID := c.GetUint("userID")

	var req services.RecoveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Workout type, intensity, and soreness are required",
		})
		return
	}

	plan, fallback, err := deps.Gemini.GenerateRecovery(c.Request.Context(), userID, req)
	if errors.Is(err, services.ErrGeminiNotConfigured) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "AI service temporarily unavailable",
			"details": "Recovery plan generation is currently disabled. Please try again later.",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to generate recovery plan"})
		return
	}

	resp := gin.H{
		"success":      true,
		"recoveryPlan": plan,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	}
	if fallback {
		resp["note"] = "Using fallback recovery plan due to AI service issue"
	}
	c.JSON(http.StatusOK, resp)
}

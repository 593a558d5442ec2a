package controllers

import (
	"errors"
	"net/http"
	"time"

	"fittrack/services"

	"github.com/gin-gonic/gin"
)

// parseDateParam reads an optional YYYY-MM-DD query param, defaulting to
// today.
func parseDateParam(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return time.Now(), true
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return date, true
}

// SaveFoodLog replaces the meal list for one calendar day.
func SaveFoodLog(c *gin.Context) {
	userID := c.GetUint("userID")

	var body struct {
		Date  string               `json:"date"`
		Meals []services.MealInput `json:"meals" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date := time.Now()
	if body.Date != "" {
		parsed, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	logRow, err := deps.FoodLogs.UpsertForDay(c.Request.Context(), userID, date, body.Meals)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, logRow)
}

// GetFoodLog returns the log for one calendar day.
func GetFoodLog(c *gin.Context) {
	userID := c.GetUint("userID")

	date, ok := parseDateParam(c)
	if !ok {
		return
	}

	logRow, err := deps.FoodLogs.GetByDate(c.Request.Context(), userID, date)
	if errors.Is(err, services.ErrFoodLogNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no food log for this date"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load food log"})
		return
	}

	c.JSON(http.StatusOK, logRow)
}

// ListFoodLogs returns every log for the user, newest first.
func ListFoodLogs(c *gin.Context) {
	userID := c.GetUint("userID")

	logs, err := deps.FoodLogs.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load food logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"foodLogs": logs})
}

// DeleteFoodLog removes the log for one calendar day.
func DeleteFoodLog(c *gin.Context) {
	userID := c.GetUint("userID")

	date, ok := parseDateParam(c)
	if !ok {
		return
	}

	err := deps.FoodLogs.DeleteByDate(c.Request.Context(), userID, date)
	if errors.Is(err, services.ErrFoodLogNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no food log for this date"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete food log"})
		return
	}

	c.Status(http.StatusNoContent)
}

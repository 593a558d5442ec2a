package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"fittrack/services"

	"github.com/gin-gonic/gin"
)

func ListGoals(c *gin.Context) {
	userID := c.GetUint("userID")

	goals, err := deps.Goals.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load goals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

func AddGoal(c *gin.Context) {
	userID := c.GetUint("userID")

	var body struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal, err := deps.Goals.Add(c.Request.Context(), userID, body.Text)
	if errors.Is(err, services.ErrGoalTextEmpty) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add goal"})
		return
	}

	c.JSON(http.StatusCreated, goal)
}

func ToggleGoal(c *gin.Context) {
	userID := c.GetUint("userID")

	goalID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal id"})
		return
	}

	goal, err := deps.Goals.Toggle(c.Request.Context(), userID, uint(goalID))
	if errors.Is(err, services.ErrGoalNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update goal"})
		return
	}

	c.JSON(http.StatusOK, goal)
}

func DeleteGoal(c *gin.Context) {
	userID := c.GetUint("userID")

	goalID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal id"})
		return
	}

	err = deps.Goals.Delete(c.Request.Context(), userID, uint(goalID))
	if errors.Is(err, services.ErrGoalNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete goal"})
		return
	}

	c.Status(http.StatusNoContent)
}

package routes

import (
	"net/http"

	"fittrack/config"
	"fittrack/controllers"
	"fittrack/middlewares"
	"fittrack/mq"
	"fittrack/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func SetupRouter() *gin.Engine {
	hub := services.NewRealtimeHub()

	// The broker is resolved per publish, so an outage at boot (or later)
	// only downgrades appends to direct inserts until it recovers.
	if _, err := mq.GetPublisher(); err != nil {
		log.Warn().Err(err).Msg("rabbitmq unavailable, ledger appends will be direct until it returns")
	}

	activities := services.NewActivityService(config.DB, mq.NewLazyPublisher(), hub)
	streaks := services.NewStreakService(config.DB, config.CheckInLocation(), activities, hub)
	goals := services.NewGoalService(config.DB, activities)
	dashboard := services.NewDashboardService(config.DB, goals, streaks, activities)
	foodLogs := services.NewFoodLogService(config.DB, activities)
	gemini := services.NewGeminiService(activities)
	billing := services.NewBillingService(config.DB, activities)

	controllers.Init(controllers.Deps{
		Streaks:    streaks,
		Activities: activities,
		Goals:      goals,
		Dashboard:  dashboard,
		FoodLogs:   foodLogs,
		Gemini:     gemini,
		Billing:    billing,
		Hub:        hub,
	})

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password", controllers.ResetPassword)
	}

	// Stripe calls this directly, signature-verified rather than JWT'd.
	r.POST("/payments/webhook", controllers.StripeWebhook)

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())
	{
		api.GET("/dashboard", controllers.GetDashboard)

		api.GET("/user/profile", controllers.GetProfile)
		api.PUT("/user/profile", controllers.UpdateProfile)
		api.DELETE("/user", controllers.DeleteAccount)

		api.GET("/streak", controllers.GetStreak)
		api.POST("/streak/checkin", controllers.CheckIn)
		api.GET("/streak/next", controllers.NextCheckIn)

		api.GET("/goals", controllers.ListGoals)
		api.POST("/goals", controllers.AddGoal)
		api.PATCH("/goals/:id", controllers.ToggleGoal)
		api.DELETE("/goals/:id", controllers.DeleteGoal)

		api.GET("/activities", controllers.RecentActivities)
		api.DELETE("/activities", controllers.ClearActivities)

		api.POST("/workouts/generate", controllers.GenerateWorkout)
		api.POST("/recovery/generate", controllers.GenerateRecovery)

		api.GET("/food-logs", controllers.ListFoodLogs)
		api.GET("/food-logs/day", controllers.GetFoodLog)
		api.POST("/food-logs", controllers.SaveFoodLog)
		api.DELETE("/food-logs/day", controllers.DeleteFoodLog)

		api.GET("/payments/plans", controllers.ListPlans)
		api.POST("/payments/create-session", controllers.CreateCheckout)
		api.GET("/payments/orders/:orderId", controllers.VerifyOrder)
		api.GET("/purchases", controllers.ListPurchases)

		api.GET("/ws", controllers.FeedWS)
	}

	return r
}

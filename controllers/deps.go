package controllers

import "fittrack/services"

// Deps holds the shared service instances the handlers dispatch to.
type Deps struct {
	Streaks    *services.StreakService
	Activities *services.ActivityService
	Goals      *services.GoalService
	Dashboard  *services.DashboardService
	FoodLogs   *services.FoodLogService
	Gemini     *services.GeminiService
	Billing    *services.BillingService
	Hub        *services.RealtimeHub
}

var deps Deps

// Init wires the handlers to their services. Call once before routing.
func Init(d Deps) {
	deps = d
}

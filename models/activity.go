package models

import (
	"time"

	"gorm.io/gorm"
)

// ActivityCategory is the closed set of event kinds surfaced in the
// recent-activity feed.
type ActivityCategory string

const (
	CategoryGoal        ActivityCategory = "goal"
	CategoryWorkout     ActivityCategory = "workout"
	CategoryNutrition   ActivityCategory = "nutrition"
	CategoryRecovery    ActivityCategory = "recovery"
	CategoryStreak      ActivityCategory = "streak"
	CategoryAchievement ActivityCategory = "achievement"
)

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c ActivityCategory) bool {
	switch c {
	case CategoryGoal, CategoryWorkout, CategoryNutrition,
		CategoryRecovery, CategoryStreak, CategoryAchievement:
		return true
	}
	return false
}

// Activity is one append-only entry in a user's activity ledger.
type Activity struct {
	gorm.Model
	UserID    uint             `gorm:"index;not null"`
	EventID   string           `gorm:"uniqueIndex"` // dedup key for queue redelivery
	Category  ActivityCategory `gorm:"not null"`
	Action    string           `gorm:"not null"`
	Details   string
	Timestamp time.Time `gorm:"index;not null"`
}

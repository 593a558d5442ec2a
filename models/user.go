package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email          string `gorm:"uniqueIndex;not null"`
	Password       string `gorm:"not null"`
	Name           string
	Age            int
	Weight         float64
	Height         float64
	FitnessLevel   string `gorm:"default:beginner"` // beginner|intermediate|advanced
	FitnessGoals   string
	ProfilePicture string

	// Billing mirror. Stripe owns the source of truth; these fields are
	// updated from completed purchases and webhooks only.
	Subscription          string `gorm:"default:free"` // free|pro_plan|premium_plan
	SubscriptionStatus    string `gorm:"default:active"`
	SubscriptionExpiresAt *time.Time

	ResetToken    string
	ResetTokenExp time.Time
	Disabled      bool
}

// HasActiveSubscription reports whether the user currently has access to
// paid features. Free accounts are always active.
func (u *User) HasActiveSubscription() bool {
	if u.Subscription == "free" || u.Subscription == "" {
		return true
	}
	if u.SubscriptionExpiresAt == nil {
		return false
	}
	return u.SubscriptionExpiresAt.After(time.Now()) && u.SubscriptionStatus == "active"
}

// ActivePlan returns the plan the user is entitled to right now.
func (u *User) ActivePlan() string {
	if u.Subscription == "" || !u.HasActiveSubscription() {
		return "free"
	}
	return u.Subscription
}

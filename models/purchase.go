package models

import (
	"time"

	"gorm.io/gorm"
)

// Purchase mirrors one checkout attempt against the billing provider.
// Session creation, payment, and webhook verification all happen on the
// Stripe side; this row only tracks the local view of that flow.
type Purchase struct {
	gorm.Model
	UserID    uint   `gorm:"index;not null"`
	UserEmail string `gorm:"index;not null"`

	Plan     string `gorm:"not null"` // pro_plan|premium_plan
	PlanName string `gorm:"not null"`
	Amount   int64  `gorm:"not null"` // cents
	Currency string `gorm:"default:usd"`
	Interval string `gorm:"default:month"`

	Status        string `gorm:"default:pending;index"` // pending|completed|failed|refunded|cancelled
	OrderID       string `gorm:"uniqueIndex;not null"`
	CheckoutID    string `gorm:"index"` // Stripe checkout session id
	PaymentID     string `gorm:"index"` // Stripe payment intent id
	PaymentMethod string `gorm:"default:stripe"`

	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
}

// Active reports whether this purchase still grants access.
func (p *Purchase) Active() bool {
	if p.Status != "completed" {
		return false
	}
	return p.CurrentPeriodEnd == nil || p.CurrentPeriodEnd.After(time.Now())
}

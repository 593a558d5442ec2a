package models

import (
	"time"

	"gorm.io/gorm"
)

// Streak is the per-user check-in record. One row per user, created lazily
// on the first check-in. CurrentStreak counts consecutive calendar days
// ending at LastCheckIn; a nil LastCheckIn means the user never checked in
// and CurrentStreak must be zero.
//
// The weekday flags record whether a check-in ever happened on that weekday.
// They are set and never cleared.
type Streak struct {
	gorm.Model
	UserID        uint `gorm:"uniqueIndex;not null"`
	CurrentStreak int
	LastCheckIn   *time.Time
	TotalCheckIns int
	Monday        bool
	Tuesday       bool
	Wednesday     bool
	Thursday      bool
	Friday        bool
	Saturday      bool
	Sunday        bool
}

// SetWeekdayFlag marks the flag for the given weekday.
func (s *Streak) SetWeekdayFlag(d time.Weekday) {
	switch d {
	case time.Monday:
		s.Monday = true
	case time.Tuesday:
		s.Tuesday = true
	case time.Wednesday:
		s.Wednesday = true
	case time.Thursday:
		s.Thursday = true
	case time.Friday:
		s.Friday = true
	case time.Saturday:
		s.Saturday = true
	case time.Sunday:
		s.Sunday = true
	}
}

// WeeklyCheckIns returns the flags keyed by lowercase weekday name, the
// shape the dashboard client expects.
func (s *Streak) WeeklyCheckIns() map[string]bool {
	return map[string]bool{
		"monday":    s.Monday,
		"tuesday":   s.Tuesday,
		"wednesday": s.Wednesday,
		"thursday":  s.Thursday,
		"friday":    s.Friday,
		"saturday":  s.Saturday,
		"sunday":    s.Sunday,
	}
}

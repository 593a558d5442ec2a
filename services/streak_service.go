package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fittrack/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrAlreadyCheckedIn is returned when a user tries to check in twice on the
// same calendar day. It is an expected, user-retryable condition.
var ErrAlreadyCheckedIn = errors.New("already checked in today")

// StreakService owns the per-user check-in record: consecutive-day streak,
// lifetime check-in count, and the weekday ledger. All calendar-day
// comparisons happen in the configured location so every instance agrees on
// day boundaries.
type StreakService struct {
	db         *gorm.DB
	loc        *time.Location
	now        func() time.Time
	activities *ActivityService
	hub        *RealtimeHub
}

func NewStreakService(db *gorm.DB, loc *time.Location, activities *ActivityService, hub *RealtimeHub) *StreakService {
	if loc == nil {
		loc = time.UTC
	}
	return &StreakService{
		db:         db,
		loc:        loc,
		now:        time.Now,
		activities: activities,
		hub:        hub,
	}
}

// StreakView is the JSON shape the dashboard client consumes.
type StreakView struct {
	CurrentStreak  int             `json:"currentStreak"`
	LastCheckIn    *time.Time      `json:"lastCheckIn"`
	TotalCheckIns  int             `json:"totalCheckIns"`
	WeeklyCheckIns map[string]bool `json:"weeklyCheckIns"`
}

func NewStreakView(rec *models.Streak) StreakView {
	return StreakView{
		CurrentStreak:  rec.CurrentStreak,
		LastCheckIn:    rec.LastCheckIn,
		TotalCheckIns:  rec.TotalCheckIns,
		WeeklyCheckIns: rec.WeeklyCheckIns(),
	}
}

// CheckIn records today's check-in for the user and returns the updated
// record. A second check-in on the same calendar day fails with
// ErrAlreadyCheckedIn and leaves the record untouched.
//
// The write is a conditional update keyed on (user_id, last_check_in): when
// two requests race, only the one that observes the stored last_check_in
// value wins; the loser sees zero rows affected and reports a duplicate.
func (s *StreakService) CheckIn(ctx context.Context, userID uint) (*models.Streak, error) {
	now := s.now().In(s.loc)

	var rec models.Streak
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&rec).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		created, err := s.firstCheckIn(ctx, userID, now)
		if err != nil {
			return nil, err
		}
		rec = *created
	case err != nil:
		return nil, err
	default:
		if err := s.applyCheckIn(ctx, &rec, now); err != nil {
			return nil, err
		}
		if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&rec).Error; err != nil {
			return nil, err
		}
	}

	s.emitCheckIn(ctx, &rec)
	return &rec, nil
}

func (s *StreakService) firstCheckIn(ctx context.Context, userID uint, now time.Time) (*models.Streak, error) {
	rec := models.Streak{
		UserID:        userID,
		CurrentStreak: 1,
		LastCheckIn:   &now,
		TotalCheckIns: 1,
	}
	rec.SetWeekdayFlag(now.Weekday())

	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		// The unique index on user_id means a concurrent first check-in
		// already created the record for today.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, err
	}
	return &rec, nil
}

func (s *StreakService) applyCheckIn(ctx context.Context, rec *models.Streak, now time.Time) error {
	if rec.LastCheckIn == nil {
		// A record without a check-in should not exist, but treat it as a
		// first check-in rather than failing.
		res := s.db.WithContext(ctx).Model(&models.Streak{}).
			Where("user_id = ? AND last_check_in IS NULL", rec.UserID).
			Updates(s.checkInValues(1, rec.TotalCheckIns+1, now))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyCheckedIn
		}
		return nil
	}

	last := rec.LastCheckIn.In(s.loc)
	if sameCalendarDay(last, now) {
		return ErrAlreadyCheckedIn
	}

	streak := 1
	if sameCalendarDay(last, now.AddDate(0, 0, -1)) {
		streak = rec.CurrentStreak + 1
	}

	res := s.db.WithContext(ctx).Model(&models.Streak{}).
		Where("user_id = ? AND last_check_in = ?", rec.UserID, rec.LastCheckIn).
		Updates(s.checkInValues(streak, rec.TotalCheckIns+1, now))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Someone else moved last_check_in between our read and write.
		return ErrAlreadyCheckedIn
	}
	return nil
}

func (s *StreakService) checkInValues(streak, total int, now time.Time) map[string]any {
	return map[string]any{
		"current_streak":              streak,
		"last_check_in":               now,
		"total_check_ins":             total,
		weekdayColumn(now.Weekday()): true,
	}
}

func (s *StreakService) emitCheckIn(ctx context.Context, rec *models.Streak) {
	// The ledger append is a best-effort side effect: a failure here is
	// logged and the check-in still stands.
	if s.activities != nil {
		err := s.activities.Record(ctx, rec.UserID, models.CategoryStreak,
			"Daily check-in", fmt.Sprintf("Streak: %d days", rec.CurrentStreak))
		if err != nil {
			log.Error().Err(err).Uint("user_id", rec.UserID).Msg("check-in ledger append failed")
		}
	}
	if s.hub != nil {
		s.hub.Broadcast(rec.UserID, "streak.checkin", NewStreakView(rec))
	}
}

// ReadStreak returns the user's record, or a zero-value default when the
// user has never checked in. Absence is not an error.
func (s *StreakService) ReadStreak(ctx context.Context, userID uint) (*models.Streak, error) {
	var rec models.Streak
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.Streak{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// NextCheckIn reports whether the user may check in at the given instant,
// and if not, how long until the next calendar-day boundary opens. It is a
// pure projection for display and uses the same calendar-day comparison as
// CheckIn.
func (s *StreakService) NextCheckIn(rec *models.Streak, now time.Time) (eligible bool, wait time.Duration) {
	if rec == nil || rec.LastCheckIn == nil {
		return true, 0
	}
	now = now.In(s.loc)
	last := rec.LastCheckIn.In(s.loc)
	if !sameCalendarDay(last, now) {
		return true, 0
	}
	boundary := nextDayStart(last)
	if !now.Before(boundary) {
		return true, 0
	}
	return false, boundary.Sub(now)
}

// CheckInPreview reports check-in eligibility for display.
type CheckInPreview struct {
	Eligible      bool       `json:"eligible"`
	NextEligible  *time.Time `json:"nextEligible,omitempty"`
	CurrentStreak int        `json:"currentStreak"`
}

// PreviewCheckIn reads the user's record and projects whether a check-in
// right now would succeed. Nothing is written.
func (s *StreakService) PreviewCheckIn(ctx context.Context, userID uint) (*CheckInPreview, error) {
	rec, err := s.ReadStreak(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	eligible, wait := s.NextCheckIn(rec, now)
	preview := &CheckInPreview{Eligible: eligible, CurrentStreak: rec.CurrentStreak}
	if !eligible {
		next := now.Add(wait)
		preview.NextEligible = &next
	}
	return preview, nil
}

// sameCalendarDay compares two instants already expressed in the streak
// location.
func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// nextDayStart returns midnight beginning the day after t, in t's location.
func nextDayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}

func weekdayColumn(d time.Weekday) string {
	switch d {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return "sunday"
	}
}

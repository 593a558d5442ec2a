package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestStreakService returns a service pinned to UTC with a controllable
// clock.
func newTestStreakService(t *testing.T, db *gorm.DB) (*StreakService, *time.Time) {
	t.Helper()
	now := time.Date(2024, time.January, 1, 9, 30, 0, 0, time.UTC) // a Monday
	s := NewStreakService(db, time.UTC, nil, nil)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestCheckInFirstTime(t *testing.T) {
	db := openTestDB(t)
	s, _ := newTestStreakService(t, db)

	rec, err := s.CheckIn(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, rec.CurrentStreak)
	assert.Equal(t, 1, rec.TotalCheckIns)
	require.NotNil(t, rec.LastCheckIn)
	assert.True(t, rec.Monday)
	assert.False(t, rec.Tuesday)
}

func TestCheckInSameDayRejected(t *testing.T) {
	db := openTestDB(t)
	s, now := newTestStreakService(t, db)

	first, err := s.CheckIn(context.Background(), 1)
	require.NoError(t, err)

	// later the same day
	*now = now.Add(6 * time.Hour)
	_, err = s.CheckIn(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)

	// record is untouched
	rec, err := s.ReadStreak(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, first.CurrentStreak, rec.CurrentStreak)
	assert.Equal(t, first.TotalCheckIns, rec.TotalCheckIns)
	assert.True(t, first.LastCheckIn.Equal(*rec.LastCheckIn))
}

func TestCheckInNextDayExtendsStreak(t *testing.T) {
	db := openTestDB(t)
	s, now := newTestStreakService(t, db)

	_, err := s.CheckIn(context.Background(), 1)
	require.NoError(t, err)

	*now = now.AddDate(0, 0, 1)
	rec, err := s.CheckIn(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 2, rec.CurrentStreak)
	assert.Equal(t, 2, rec.TotalCheckIns)
	assert.True(t, rec.Monday)
	assert.True(t, rec.Tuesday)
}

func TestCheckInAfterGapResetsStreak(t *testing.T) {
	db := openTestDB(t)
	s, now := newTestStreakService(t, db)

	_, err := s.CheckIn(context.Background(), 1)
	require.NoError(t, err)

	*now = now.AddDate(0, 0, 1)
	_, err = s.CheckIn(context.Background(), 1)
	require.NoError(t, err)

	// skip two days
	*now = now.AddDate(0, 0, 3)
	rec, err := s.CheckIn(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, rec.CurrentStreak, "streak resets after a missed day")
	assert.Equal(t, 3, rec.TotalCheckIns, "total keeps counting through resets")
}

// Mon Jan 1 -> Tue Jan 2 -> Fri Jan 5: streak goes 1, 2, 1; total reaches 3;
// every touched weekday flag stays set.
func TestCheckInWeekScenario(t *testing.T) {
	db := openTestDB(t)
	s, now := newTestStreakService(t, db)

	rec, err := s.CheckIn(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.CurrentStreak)

	*now = time.Date(2024, time.January, 2, 8, 0, 0, 0, time.UTC)
	rec, err = s.CheckIn(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.CurrentStreak)

	*now = time.Date(2024, time.January, 5, 22, 0, 0, 0, time.UTC)
	rec, err = s.CheckIn(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.CurrentStreak)
	assert.Equal(t, 3, rec.TotalCheckIns)

	week := rec.WeeklyCheckIns()
	assert.True(t, week["monday"])
	assert.True(t, week["tuesday"])
	assert.True(t, week["friday"])
	assert.False(t, week["wednesday"])
	assert.False(t, week["saturday"])
}

func TestCheckInJustBeforeAndAfterMidnight(t *testing.T) {
	db := openTestDB(t)
	s, now := newTestStreakService(t, db)

	*now = time.Date(2024, time.March, 10, 23, 59, 0, 0, time.UTC)
	_, err := s.CheckIn(context.Background(), 1)
	require.NoError(t, err)

	// two minutes later it is a new calendar day
	*now = time.Date(2024, time.March, 11, 0, 1, 0, 0, time.UTC)
	rec, err := s.CheckIn(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.CurrentStreak)
}

func TestReadStreakDefaultsWhenAbsent(t *testing.T) {
	db := openTestDB(t)
	s, _ := newTestStreakService(t, db)

	rec, err := s.ReadStreak(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, 0, rec.CurrentStreak)
	assert.Nil(t, rec.LastCheckIn)
	assert.Equal(t, 0, rec.TotalCheckIns)

	view := NewStreakView(rec)
	assert.Equal(t, 0, view.CurrentStreak)
	assert.Nil(t, view.LastCheckIn)
	for _, set := range view.WeeklyCheckIns {
		assert.False(t, set)
	}
}

func TestStreaksAreIsolatedPerUser(t *testing.T) {
	db := openTestDB(t)
	s, now := newTestStreakService(t, db)

	_, err := s.CheckIn(context.Background(), 1)
	require.NoError(t, err)

	*now = now.AddDate(0, 0, 1)
	_, err = s.CheckIn(context.Background(), 1)
	require.NoError(t, err)

	rec, err := s.CheckIn(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.CurrentStreak)

	other, err := s.ReadStreak(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, other.CurrentStreak)
}

func TestConditionalUpdateGuard(t *testing.T) {
	db := openTestDB(t)
	s, now := newTestStreakService(t, db)

	_, err := s.CheckIn(context.Background(), 1)
	require.NoError(t, err)

	// Simulate a racing writer: the stored last_check_in moved after our
	// read, so the conditional update must match zero rows.
	rec, err := s.ReadStreak(context.Background(), 1)
	require.NoError(t, err)

	moved := now.Add(time.Minute)
	require.NoError(t, db.Model(rec).Update("last_check_in", moved).Error)

	*now = now.AddDate(0, 0, 1)
	err = s.applyCheckIn(context.Background(), rec, s.now().In(s.loc))
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
}

func TestNextCheckInProjection(t *testing.T) {
	db := openTestDB(t)
	s, now := newTestStreakService(t, db)

	// never checked in: eligible immediately
	rec, err := s.ReadStreak(context.Background(), 1)
	require.NoError(t, err)
	eligible, wait := s.NextCheckIn(rec, *now)
	assert.True(t, eligible)
	assert.Zero(t, wait)

	rec, err = s.CheckIn(context.Background(), 1)
	require.NoError(t, err)

	// same day: blocked until midnight
	eligible, wait = s.NextCheckIn(rec, *now)
	assert.False(t, eligible)
	assert.Equal(t, 14*time.Hour+30*time.Minute, wait)

	// next day: open again
	eligible, wait = s.NextCheckIn(rec, now.AddDate(0, 0, 1))
	assert.True(t, eligible)
	assert.Zero(t, wait)
}

func TestPreviewCheckIn(t *testing.T) {
	db := openTestDB(t)
	s, now := newTestStreakService(t, db)

	preview, err := s.PreviewCheckIn(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, preview.Eligible)
	assert.Nil(t, preview.NextEligible)

	_, err = s.CheckIn(context.Background(), 1)
	require.NoError(t, err)

	preview, err = s.PreviewCheckIn(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, preview.Eligible)
	require.NotNil(t, preview.NextEligible)
	assert.Equal(t, 1, preview.CurrentStreak)

	nextDay := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	assert.True(t, preview.NextEligible.Equal(nextDay))

	*now = nextDay.Add(time.Hour)
	preview, err = s.PreviewCheckIn(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, preview.Eligible)
}

func TestCheckInAppendsToLedger(t *testing.T) {
	db := openTestDB(t)
	activities := NewActivityService(db, nil, nil)
	s := NewStreakService(db, time.UTC, activities, nil)
	now := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	_, err := s.CheckIn(context.Background(), 1)
	require.NoError(t, err)

	entries, err := activities.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Daily check-in", entries[0].Action)
	assert.Equal(t, "Streak: 1 days", entries[0].Details)
}

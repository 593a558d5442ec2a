package services

import (
	"context"
	"sync"

	"fittrack/models"

	"gorm.io/gorm"
)

// Dashboard is the aggregate the client renders on its home view.
type Dashboard struct {
	Goals      []models.Goal     `json:"goals"`
	Streak     StreakView        `json:"streak"`
	Activities []models.Activity `json:"activities"`
}

type DashboardService struct {
	db         *gorm.DB
	goals      *GoalService
	streaks    *StreakService
	activities *ActivityService
}

func NewDashboardService(db *gorm.DB, goals *GoalService, streaks *StreakService, activities *ActivityService) *DashboardService {
	return &DashboardService{db: db, goals: goals, streaks: streaks, activities: activities}
}

// Load fetches goals, streak, and the recent-activity feed concurrently and
// joins them in memory. A user with no streak record gets the zero default.
func (s *DashboardService) Load(ctx context.Context, userID uint) (*Dashboard, error) {
	var (
		wg      sync.WaitGroup
		goals   []models.Goal
		streak  *models.Streak
		entries []models.Activity
		errs    [3]error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		goals, errs[0] = s.goals.List(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		streak, errs[1] = s.streaks.ReadStreak(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		entries, errs[2] = s.activities.Recent(ctx, userID)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	if goals == nil {
		goals = []models.Goal{}
	}
	if entries == nil {
		entries = []models.Activity{}
	}

	return &Dashboard{
		Goals:      goals,
		Streak:     NewStreakView(streak),
		Activities: entries,
	}, nil
}

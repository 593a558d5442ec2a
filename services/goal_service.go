package services

import (
	"context"
	"errors"
	"strings"

	"fittrack/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrGoalNotFound  = errors.New("goal not found")
	ErrGoalTextEmpty = errors.New("goal text is required")
)

type GoalService struct {
	db         *gorm.DB
	activities *ActivityService
}

func NewGoalService(db *gorm.DB, activities *ActivityService) *GoalService {
	return &GoalService{db: db, activities: activities}
}

func (s *GoalService) List(ctx context.Context, userID uint) ([]models.Goal, error) {
	var goals []models.Goal
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&goals).Error
	return goals, err
}

func (s *GoalService) Add(ctx context.Context, userID uint, text string) (*models.Goal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrGoalTextEmpty
	}

	goal := models.Goal{UserID: userID, Text: text}
	if err := s.db.WithContext(ctx).Create(&goal).Error; err != nil {
		return nil, err
	}

	s.log(ctx, userID, "Added new goal", text)
	return &goal, nil
}

// Toggle flips the goal's completion state.
func (s *GoalService) Toggle(ctx context.Context, userID, goalID uint) (*models.Goal, error) {
	var goal models.Goal
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", goalID, userID).
		First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	goal.Completed = !goal.Completed
	if err := s.db.WithContext(ctx).Save(&goal).Error; err != nil {
		return nil, err
	}

	action := "Reopened goal"
	if goal.Completed {
		action = "Completed goal"
	}
	s.log(ctx, userID, action, goal.Text)
	return &goal, nil
}

func (s *GoalService) Delete(ctx context.Context, userID, goalID uint) error {
	var goal models.Goal
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", goalID, userID).
		First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrGoalNotFound
	}
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&goal).Error; err != nil {
		return err
	}

	s.log(ctx, userID, "Deleted goal", goal.Text)
	return nil
}

func (s *GoalService) log(ctx context.Context, userID uint, action, details string) {
	if s.activities == nil {
		return
	}
	if err := s.activities.Record(ctx, userID, models.CategoryGoal, action, details); err != nil {
		log.Error().Err(err).Uint("user_id", userID).Msg("goal ledger append failed")
	}
}

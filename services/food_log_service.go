package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fittrack/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var ErrFoodLogNotFound = errors.New("no food log found for this date")

// MealInput is one meal as submitted by the client.
type MealInput struct {
	Name     string  `json:"name" binding:"required"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type FoodLogService struct {
	db         *gorm.DB
	activities *ActivityService
}

func NewFoodLogService(db *gorm.DB, activities *ActivityService) *FoodLogService {
	return &FoodLogService{db: db, activities: activities}
}

// UpsertForDay replaces the meal list for the given calendar day, creating
// the log when none exists yet.
func (s *FoodLogService) UpsertForDay(ctx context.Context, userID uint, date time.Time, meals []MealInput) (*models.FoodLog, error) {
	if len(meals) == 0 {
		return nil, fmt.Errorf("meals are required")
	}
	items := make([]models.FoodLogMeal, 0, len(meals))
	for _, m := range meals {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			return nil, fmt.Errorf("each meal must have a name")
		}
		if m.Calories < 0 || m.Protein < 0 || m.Carbs < 0 || m.Fat < 0 {
			return nil, fmt.Errorf("nutrition values cannot be negative")
		}
		items = append(items, models.FoodLogMeal{
			Name:     name,
			Calories: m.Calories,
			Protein:  m.Protein,
			Carbs:    m.Carbs,
			Fat:      m.Fat,
		})
	}

	start := dayStart(date)
	var logRow models.FoodLog

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND date >= ? AND date < ?", userID, start, start.AddDate(0, 0, 1)).
			First(&logRow).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			logRow = models.FoodLog{UserID: userID, Date: start, Meals: items}
			return tx.Create(&logRow).Error
		case err != nil:
			return err
		}

		if err := tx.Where("food_log_id = ?", logRow.ID).Delete(&models.FoodLogMeal{}).Error; err != nil {
			return err
		}
		logRow.Meals = items
		return tx.Save(&logRow).Error
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx, userID, "Logged daily food intake",
		fmt.Sprintf("Logged %d meals, %.0f total calories", len(items), logRow.TotalCalories()))
	return &logRow, nil
}

// GetByDate returns the log for the calendar day containing date.
func (s *FoodLogService) GetByDate(ctx context.Context, userID uint, date time.Time) (*models.FoodLog, error) {
	start := dayStart(date)
	var logRow models.FoodLog
	err := s.db.WithContext(ctx).
		Preload("Meals").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, start.AddDate(0, 0, 1)).
		First(&logRow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFoodLogNotFound
	}
	if err != nil {
		return nil, err
	}
	return &logRow, nil
}

// List returns every log for the user, newest day first.
func (s *FoodLogService) List(ctx context.Context, userID uint) ([]models.FoodLog, error) {
	var logs []models.FoodLog
	err := s.db.WithContext(ctx).
		Preload("Meals").
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&logs).Error
	return logs, err
}

// DeleteByDate removes the log for the calendar day containing date.
func (s *FoodLogService) DeleteByDate(ctx context.Context, userID uint, date time.Time) error {
	logRow, err := s.GetByDate(ctx, userID, date)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Select("Meals").Delete(logRow).Error; err != nil {
		return err
	}
	s.log(ctx, userID, "Deleted food log",
		fmt.Sprintf("Deleted food log for %s", dayStart(date).Format("2006-01-02")))
	return nil
}

func (s *FoodLogService) log(ctx context.Context, userID uint, action, details string) {
	if s.activities == nil {
		return
	}
	if err := s.activities.Record(ctx, userID, models.CategoryNutrition, action, details); err != nil {
		log.Error().Err(err).Uint("user_id", userID).Msg("nutrition ledger append failed")
	}
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// FoodLog holds one day's meals for a user. Date is truncated to the start
// of the calendar day.
type FoodLog struct {
	gorm.Model
	UserID uint          `gorm:"index;not null"`
	Date   time.Time     `gorm:"index;not null"`
	Meals  []FoodLogMeal `gorm:"constraint:OnDelete:CASCADE"`
}

type FoodLogMeal struct {
	gorm.Model
	FoodLogID uint   `gorm:"index;not null"`
	Name      string `gorm:"not null"`
	Calories  float64
	Protein   float64
	Carbs     float64
	Fat       float64
}

// TotalCalories sums the calories of every meal in the log.
func (f *FoodLog) TotalCalories() float64 {
	var total float64
	for _, m := range f.Meals {
		total += m.Calories
	}
	return total
}

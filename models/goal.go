package models

import (
	"gorm.io/gorm"
)

type Goal struct {
	gorm.Model
	UserID    uint   `gorm:"index;not null"`
	Text      string `gorm:"not null"`
	Completed bool
}

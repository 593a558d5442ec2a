package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"fittrack/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := DB.AutoMigrate(
		&models.User{},
		&models.Goal{},
		&models.Streak{},
		&models.Activity{},
		&models.FoodLog{},
		&models.FoodLogMeal{},
		&models.Purchase{},
	); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
}

// CheckInLocation returns the timezone used for calendar-day comparisons in
// the streak tracker. Day boundaries are pinned to one configured zone
// (CHECKIN_TZ, default UTC) rather than the server's ambient local zone, so
// deployments in different regions agree on what "today" means.
func CheckInLocation() *time.Location {
	name := os.Getenv("CHECKIN_TZ")
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid CHECKIN_TZ %q, falling back to UTC: %v", name, err)
		return time.UTC
	}
	return loc
}

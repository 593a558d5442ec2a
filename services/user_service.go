package services

import (
	"errors"
	"fmt"

	"fittrack/config"
	"fittrack/models"
	"fittrack/utils"
)

type ProfileInput struct {
	Name           string  `json:"name"`
	Age            int     `json:"age"`
	Weight         float64 `json:"weight"`
	Height         float64 `json:"height"`
	FitnessLevel   string  `json:"fitness_level"`
	FitnessGoals   string  `json:"fitness_goals"`
	ProfilePicture string  `json:"profile_picture"` // base64 data URL
}

func GetUserProfile(email string) (map[string]interface{}, error) {
	var user models.User
	result := config.DB.Where("email = ? AND disabled = ?", email, false).First(&user)
	if result.Error != nil {
		return nil, errors.New("user not found or disabled")
	}

	var expiresAt interface{}
	if user.SubscriptionExpiresAt != nil {
		expiresAt = user.SubscriptionExpiresAt.Format("2006-01-02")
	}

	return map[string]interface{}{
		"id":                      user.ID,
		"email":                   user.Email,
		"name":                    user.Name,
		"age":                     user.Age,
		"weight":                  user.Weight,
		"height":                  user.Height,
		"fitness_level":           user.FitnessLevel,
		"fitness_goals":           user.FitnessGoals,
		"profile_picture":         user.ProfilePicture,
		"subscription":            user.ActivePlan(),
		"subscription_expires_at": expiresAt,
	}, nil
}

func UpdateUserProfile(email string, input ProfileInput) error {
	var user models.User
	result := config.DB.Where("email = ? AND disabled = ?", email, false).First(&user)
	if result.Error != nil {
		return errors.New("user not found or disabled")
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Age > 0 {
		user.Age = input.Age
	}
	if input.Weight > 0 {
		user.Weight = input.Weight
	}
	if input.Height > 0 {
		user.Height = input.Height
	}
	if input.FitnessLevel != "" {
		user.FitnessLevel = input.FitnessLevel
	}
	if input.FitnessGoals != "" {
		user.FitnessGoals = input.FitnessGoals
	}
	if input.ProfilePicture != "" {
		url, err := utils.UploadBase64ImageToS3(input.ProfilePicture, user.Email)
		if err != nil {
			return fmt.Errorf("failed to upload image: %v", err)
		}
		user.ProfilePicture = url
	}

	return config.DB.Save(&user).Error
}

func FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	result := config.DB.First(&user, "email = ?", email)
	if result.Error != nil {
		return nil, errors.New("user not found")
	}
	return &user, nil
}

// DeleteUser disables the account instead of removing the row so the
// activity ledger and purchase history stay intact.
func DeleteUser(email string) error {
	var user models.User
	result := config.DB.First(&user, "email = ?", email)
	if result.Error != nil {
		return result.Error
	}
	user.Disabled = true
	return config.DB.Save(&user).Error
}

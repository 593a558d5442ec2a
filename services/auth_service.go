package services

import (
	"errors"
	"time"

	"fittrack/config"
	"fittrack/models"
	"fittrack/utils"

	"github.com/rs/zerolog/log"
)

func RegisterUser(email, password, name string) error {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	user := models.User{
		Email:    email,
		Password: hashedPassword,
		Name:     name,
		Disabled: false,
	}

	if err := config.DB.Create(&user).Error; err != nil {
		return err
	}

	if err := utils.SendWelcomeEmail(user.Email, user.Name); err != nil {
		log.Warn().Err(err).Str("email", user.Email).Msg("welcome email failed")
	}
	return nil
}

func AuthenticateUser(email, password string) (string, error) {
	var user models.User
	result := config.DB.Where("email = ? AND disabled = ?", email, false).First(&user)
	if result.Error != nil {
		return "", errors.New("user not found or disabled")
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return "", errors.New("incorrect password")
	}

	token, err := utils.GenerateJWT(user.Email)
	if err != nil {
		return "", err
	}

	return token, nil
}

// StartPasswordReset issues a short-lived reset code and mails it out.
func StartPasswordReset(email string) error {
	user, err := FindUserByEmail(email)
	if err != nil {
		return err
	}

	token := utils.GenerateRandomToken(6)
	user.ResetToken = token
	user.ResetTokenExp = time.Now().Add(15 * time.Minute)
	if err := config.DB.Save(user).Error; err != nil {
		return err
	}

	return utils.SendResetEmail(user.Email, token)
}

// CompletePasswordReset swaps the password if the code is valid and unexpired.
func CompletePasswordReset(token, newPassword string) error {
	var user models.User
	result := config.DB.Where("reset_token = ?", token).First(&user)
	if result.Error != nil || time.Now().After(user.ResetTokenExp) {
		return errors.New("invalid or expired token")
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.Password = hashed
	user.ResetToken = ""
	user.ResetTokenExp = time.Time{}
	return config.DB.Save(&user).Error
}

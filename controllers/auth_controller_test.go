package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fittrack/config"
	"fittrack/models"
	"fittrack/services"
	"fittrack/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	db, err := gorm.Open(sqlite.Open("file:auth_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	prev := config.DB
	config.DB = db
	t.Cleanup(func() { config.DB = prev })

	r := gin.New()
	r.POST("/auth/login", Login)
	return r
}

func seedUser(t *testing.T, email, password string) {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	require.NoError(t, config.DB.Create(&models.User{Email: email, Password: hash}).Error)
}

func postLogin(r *gin.Engine, email, password string) *httptest.ResponseRecorder {
	body := `{"email":"` + email + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginIssuesToken(t *testing.T) {
	r := setupAuthRouter(t)
	seedUser(t, "user@example.com", "s3cret-password")

	w := postLogin(r, "user@example.com", "s3cret-password")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["token"])
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	r := setupAuthRouter(t)
	seedUser(t, "user@example.com", "s3cret-password")

	w := postLogin(r, "user@example.com", "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// A soft-deleted account must not be able to log back in.
func TestLoginRejectsDisabledAccount(t *testing.T) {
	r := setupAuthRouter(t)
	seedUser(t, "user@example.com", "s3cret-password")

	require.NoError(t, services.DeleteUser("user@example.com"))

	w := postLogin(r, "user@example.com", "s3cret-password")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Invalid email or password", body["error"])
	assert.Empty(t, body["token"])
}

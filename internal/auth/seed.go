package auth

import (
	"errors"
	"strings"

	"github.com/apujo-dev/apujo/db"
	"github.com/apujo-dev/apujo/internal/models"
	"gorm.io/gorm"
)

// EnsureAdminUser inserts the admin account if it does not exist yet. An
// existing user's password is never overwritten.
func EnsureAdminUser(username, password string) error {
	if username == "" || password == "" {
		return errors.New("admin credentials are not configured")
	}

	var existing models.User

	err := db.DB.Where("username = ?", username).First(&existing).Error

	if err == nil {
		return nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := HashPassword(strings.TrimSpace(password))

	if err != nil {
		return err
	}

	user := models.User{
		Username:     username,
		PasswordHash: hash,
	}

	return db.DB.Create(&user).Error
}

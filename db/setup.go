package db

import (
	"github.com/apujo-dev/apujo/internal/config"
	"github.com/apujo-dev/apujo/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(cfg *config.Config) error {
	var dialector gorm.Dialector

	if cfg.DB.Driver == "mysql" {
		dialector = mysql.Open(cfg.DSN())
	} else {
		dialector = postgres.Open(cfg.DSN())
	}

	var err error

	// TranslateError turns driver unique-violation errors into
	// gorm.ErrDuplicatedKey, which handlers map to 409.
	DB, err = gorm.Open(dialector, &gorm.Config{TranslateError: true})

	if err != nil {
		return err
	}

	return nil
}

// MigrateDatabase reconciles the schema on every start. AutoMigrate is
// idempotent, so existing tables pick up new columns instead of being
// skipped.
func MigrateDatabase() error {
	return DB.AutoMigrate(
		&models.User{},
		&models.Thought{},
		&models.Work{},
		&models.Analytic{},
	)
}

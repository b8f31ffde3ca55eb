package db

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kelvinjchung/LittleLemon-api/configs"
	"github.com/kelvinjchung/LittleLemon-api/internal/models"
)

// Open connects with the configured driver. TranslateError is always on so unique
// violations surface as gorm.ErrDuplicatedKey on both drivers.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "", "postgres":
		dialector = postgres.Open(cfg.PostgresDSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Driver, err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.UserRole{},
		&models.Category{},
		&models.MenuItem{},
		&models.Cart{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	log.Println("Database connected and migrated successfully")
	return nil
}

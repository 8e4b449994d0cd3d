package database

import (
	"fmt"

	"github.com/designdesk/backend/internal/config"
	"github.com/designdesk/backend/internal/models"
	"github.com/designdesk/backend/pkg/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if err := seedManagerUser(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.File{},
	)
}

// seedManagerUser creates an initial project manager account on an empty
// database so the deployment is reachable before any registration happens.
func seedManagerUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword("manager123")
	if err != nil {
		return err
	}

	manager := models.User{
		Email:        "manager@designdesk.local",
		PasswordHash: hash,
		Name:         "Project Manager",
		Role:         models.UserRoleProjectManager,
	}

	return db.Create(&manager).Error
}

package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fixmate/internal/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	maxAttempts  = 10
	retryBackoff = 2 * time.Second
)

var ErrAdminExists = errors.New("admin user already exists")

// Open connects to Postgres, retrying while the database comes up.
func Open(dsn string, log *zap.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	for i := 1; i <= maxAttempts; i++ {
		log.Info("connecting to database", zap.Int("attempt", i), zap.Int("max_attempts", maxAttempts))

		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			log.Info("connected to database")
			return db, nil
		}

		log.Warn("database connection failed", zap.Error(err))
		time.Sleep(retryBackoff)
	}

	return nil, fmt.Errorf("connect to database after %d attempts: %w", maxAttempts, err)
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.AdminUser{},
		&models.PricingRule{},
		&models.Lead{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// EnsureAdmin creates the configured admin unless an admin already exists.
func EnsureAdmin(db *gorm.DB, username, password string, log *zap.Logger) error {
	var count int64
	if err := db.Model(&models.AdminUser{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if count > 0 {
		return nil
	}

	if err := CreateAdmin(db, username, password); err != nil {
		return err
	}

	log.Info("created default admin user", zap.String("username", username))
	return nil
}

func CreateAdmin(db *gorm.DB, username, password string) error {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(password) < 8 {
		return errors.New("username must be at least 3 characters and password at least 8")
	}

	var count int64
	if err := db.Model(&models.AdminUser{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check admin user %s: %w", username, err)
	}
	if count > 0 {
		return ErrAdminExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.AdminUser{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin %s: %w", username, err)
	}
	return nil
}

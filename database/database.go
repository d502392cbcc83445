package database

import (
	"fmt"
	"os"

	"trattoria-backend/models"
	"trattoria-backend/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=trattoria port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// gen_random_uuid() needs the pgcrypto extension on older PostgreSQL.
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
			return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
		}
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Category{},
		&models.Product{},
		&models.WeeklySchedule{},
		&models.ScheduleShift{},
		&models.Holiday{},
		&models.Order{},
		&models.OrderItem{},
		&models.LoyaltyProgram{},
		&models.LoyaltyHistory{},
		&models.Campaign{},
	); err != nil {
		return err
	}

	return nil
}

// CreateDefaultAdmin seeds the first admin account so a fresh install can log
// in. Skipped when the email is already taken.
func CreateDefaultAdmin(db *gorm.DB) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" {
		adminEmail = "admin@trattoria.local"
	}
	if adminPassword == "" {
		adminPassword = "admin123"
	}

	var existingUser models.User
	result := db.Where("email = ?", adminEmail).First(&existingUser)
	if result.Error == nil {
		// Admin already exists
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:    adminEmail,
		Password: string(hashedPassword),
		Role:     "admin",
		Name:     "Admin User",
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	utils.Logger.Infof("Default admin created: %s", adminEmail)
	return nil
}

// EnsureLoyaltyProgram materializes the singleton loyalty configuration row so
// the first order and customer registration find it in place.
func EnsureLoyaltyProgram(db *gorm.DB) error {
	_, err := models.GetLoyaltyProgram(db)
	return err
}

// EnsureWeeklySchedule creates any missing weekday entries with the default
// lunch and dinner shifts.
func EnsureWeeklySchedule(db *gorm.DB) error {
	for day := 0; day <= 6; day++ {
		var existing models.WeeklySchedule
		if err := db.Where("day_of_week = ?", day).First(&existing).Error; err == nil {
			continue
		}
		entry := models.DefaultWeeklySchedule(day)
		if err := db.Create(&entry).Error; err != nil {
			return err
		}
	}
	return nil
}

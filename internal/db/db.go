package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tedblog/internal/logging"
	"tedblog/internal/models"
)

// Open connects to Postgres and migrates the blog tables.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			// Postgres keeps microseconds; truncating here keeps the value
			// returned by Create equal to what a later read sees.
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	logging.Info().Msg("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the blog tables and seeds default categories.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Post{},
		&models.PostCategory{},
		&models.Comment{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	logging.Info().Msg("Database migration completed")

	return seedCategories(db)
}

func seedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		logging.Debug().Int64("count", count).Msg("Categories already seeded, skipping")
		return nil
	}

	categories := []models.Category{
		{Name: "Web Development", Slug: "web-development"},
		{Name: "Technology", Slug: "technology"},
		{Name: "Projects", Slug: "projects"},
		{Name: "Notes", Slug: "notes"},
	}
	for _, c := range categories {
		if err := db.Create(&c).Error; err != nil {
			logging.Warn().Err(err).Str("category", c.Name).Msg("Failed to create category")
		}
	}
	logging.Info().Int("count", len(categories)).Msg("Initial categories created")
	return nil
}

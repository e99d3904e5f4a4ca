package database

import (
	"fmt"
	"log"
	"time"

	"social-crm/internal/config"
	"social-crm/internal/domain/account"
	"social-crm/internal/domain/contact"
	"social-crm/internal/domain/conversation"
	"social-crm/internal/domain/message"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	// TranslateError is required so unique-index violations surface as
	// gorm.ErrDuplicatedKey, which the ingestion pipeline relies on to
	// resolve get-or-create races.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get generic database object: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection established")
	return db, nil
}

// Migrate applies the schema for all tables and the uniqueness constraints
// the ingestion pipeline depends on.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&contact.Contact{},
		&conversation.Conversation{},
		&message.Message{},
		&account.PlatformAccount{},
	); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

package db

import (
	"user_management/internal/domain" // Domain models

	"github.com/sirupsen/logrus" // Logging library

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
)

// Migrate performs automatic migration for the database schema
func Migrate(dsn string) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}
	// AutoMigrate creates the addresses and users tables, the unique email
	// index and the address foreign key
	err = db.AutoMigrate(&domain.Address{}, &domain.User{})
	if err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	logrus.Info("Migration completed.")
}

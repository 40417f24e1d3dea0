package database

import (
	"fmt"
	"log"

	"github.com/vishal1145/one-cap-game-sub001/internal/config"
	"github.com/vishal1145/one-cap-game-sub001/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	// TranslateError turns the driver's duplicate-key failures into
	// gorm.ErrDuplicatedKey; the store layer relies on that to report
	// duplicate guesses as a distinct condition.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	log.Println("database connected")
	return db
}

func AutoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Round{},
		&models.Statement{},
		&models.GameSession{},
		&models.SessionRound{},
		&models.Participant{},
		&models.Guess{},
	)
	if err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}
	log.Println("database migrated")
}

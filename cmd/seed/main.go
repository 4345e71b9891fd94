package main

import (
	"log"
	"os"
	"time"

	"promptpix-be/internal/entity"
	"promptpix-be/internal/model"
	"promptpix-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// Admin account
	adminEmail := os.Getenv("SEED_ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@promptpix.local"
	}
	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "changeme123"
	}

	var existing model.User
	err = db.Where("email = ?", adminEmail).First(&existing).Error
	if err == nil {
		color.Yellow("Admin user %s already exists, skipping", adminEmail)
	} else {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Error: Failed to hash admin password: %v", err)
		}
		hashStr := string(hash)

		admin := model.User{
			Id:           uuid.New(),
			Email:        adminEmail,
			PasswordHash: &hashStr,
			FullName:     "PromptPix Admin",
			Role:         string(entity.UserRoleAdmin),
			Status:       string(entity.UserStatusActive),
			Credits:      entity.DefaultStartingCredits,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Fatalf("Error: Failed to create admin user: %v", err)
		}
		color.Green("Created admin user %s", adminEmail)
	}

	// The package catalog is compiled in, not stored; print it for reference.
	color.Cyan("Credit packages:")
	for _, p := range entity.CreditPackages() {
		color.White("  %-10s %-8s Rp %-7d -> %d credits (+%d bonus)",
			p.Id, p.Name, p.Price, p.Credits, p.BonusCredits)
	}

	color.Green("Seeding completed")
}

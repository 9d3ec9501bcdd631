package database

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/rjoshi/todo-manager/model"
	"github.com/rjoshi/todo-manager/utils/auth"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("Starting database seeding...")

	if err := s.SeedDemoUser(); err != nil {
		return fmt.Errorf("failed to seed demo user: %w", err)
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

// SeedDemoUser creates a demo user with a few sample items for local
// development. Credentials come from DEMO_EMAIL / DEMO_PASSWORD.
func (s *Seeder) SeedDemoUser() error {
	demoEmail := os.Getenv("DEMO_EMAIL")
	demoPassword := os.Getenv("DEMO_PASSWORD")

	if demoEmail == "" || demoPassword == "" {
		log.Println("DEMO_EMAIL and DEMO_PASSWORD environment variables not set, skipping demo user creation")
		return nil
	}

	var existing model.User
	err := s.db.Where("email = ?", demoEmail).First(&existing).Error
	if err == nil {
		log.Println("Demo user already exists, skipping...")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	passwordHash, err := auth.HashPassword(demoPassword)
	if err != nil {
		return err
	}

	user := model.User{
		Email:        demoEmail,
		PasswordHash: passwordHash,
		Name:         "Demo User",
	}
	if err := s.db.Create(&user).Error; err != nil {
		return err
	}

	items := []model.TodoItem{
		{UserID: user.ID, Text: "Try adding a todo of your own"},
		{UserID: user.ID, Text: "Mark this item as complete"},
	}
	if err := s.db.Create(&items).Error; err != nil {
		return err
	}

	log.Printf("Created demo user %s with %d sample items", demoEmail, len(items))
	return nil
}

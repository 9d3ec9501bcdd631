package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rjoshi/todo-manager/database"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Open the SQLite database
	store, err := database.StartGORM()
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatalf("Failed to migrate tables: %v", err)
	}

	separator := strings.Repeat("=", 60)
	fmt.Println(separator)
	fmt.Println("Todo Manager - Database Seeding")
	fmt.Println(separator)

	seeder := database.NewSeeder(store.GetDB())
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	fmt.Println(separator)
	fmt.Println("Seeding completed successfully!")
	fmt.Println()
	fmt.Println("Demo user created from DEMO_EMAIL and DEMO_PASSWORD environment variables.")
	fmt.Println("If not set, demo user creation is skipped.")
}

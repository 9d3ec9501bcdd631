package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// This function will Load the ENVIORNMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

type EnviornmentVariable struct {
	// All variables
	GO_ENV  string
	DB_PATH string
	PORT    int
	// Session Configuration
	JWT_SECRET        string
	JWT_ISSUER        string
	SESSION_TTL_HOURS int
	// HTTP Configuration
	ALLOWED_ORIGINS string
}

func Get() (*EnviornmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "todo-manager.db"
	}

	sessionTTL, err := strconv.Atoi(os.Getenv("SESSION_TTL_HOURS"))
	if err != nil || sessionTTL <= 0 {
		sessionTTL = 24
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}

	envVariables := &EnviornmentVariable{
		GO_ENV:  os.Getenv("GO_ENV"),
		DB_PATH: dbPath,
		PORT:    port,
		// Session
		JWT_SECRET:        os.Getenv("JWT_SECRET"),
		JWT_ISSUER:        os.Getenv("JWT_ISSUER"),
		SESSION_TTL_HOURS: sessionTTL,
		// HTTP
		ALLOWED_ORIGINS: allowedOrigins,
	}

	return envVariables, nil
}

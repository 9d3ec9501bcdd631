package database

import (
	"log"
	"time"

	"github.com/rjoshi/todo-manager/config"
	"github.com/rjoshi/todo-manager/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage defines the interface that the database implementation must satisfy
type Storage interface {
	// Lifecycle methods
	Init() error
	Close() error
	HealthCheck() error

	// GORM DB access
	GetDB() *gorm.DB
}

type GORMStore struct {
	db *gorm.DB
}

// StartGORM opens the embedded SQLite database file
func StartGORM() (*GORMStore, error) {
	getEnv, err := config.Get()
	if err != nil {
		return nil, err
	}

	return OpenGORM(getEnv.DB_PATH, getEnv.GO_ENV)
}

// OpenGORM opens a GORM connection for the given SQLite path
func OpenGORM(path string, goEnv string) (*GORMStore, error) {
	// Enforce foreign keys; SQLite leaves them off by default
	dsn := path + "?_foreign_keys=1"

	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Warn)
	if goEnv == "production" {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: false,
	})
	if err != nil {
		log.Println("Unable to open SQLite database with GORM:", err)
		return nil, err
	}

	// Get underlying *sql.DB to configure the connection pool.
	// SQLite serializes writes at the engine level; a single connection
	// avoids SQLITE_BUSY under concurrent handlers.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Successfully opened SQLite database with GORM.")

	return &GORMStore{db: db}, nil
}

// Init runs the AutoMigrate to create/update tables
func (s *GORMStore) Init() error {
	log.Println("Running GORM AutoMigrate for all models...")

	err := s.db.AutoMigrate(
		&model.User{},
		&model.TodoItem{},
		&model.RevokedSession{},
	)

	if err != nil {
		log.Println("Error running AutoMigrate:", err)
		return err
	}

	log.Println("GORM AutoMigrate completed successfully!")
	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	log.Println("Closing SQLite connection...")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the GORM DB instance for use in services/handlers
func (s *GORMStore) GetDB() *gorm.DB {
	return s.db
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

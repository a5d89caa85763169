package database

import (
	"fmt"
	"log"

	"github.com/kiprotich/tillpoint-api/internal/config"
	"github.com/kiprotich/tillpoint-api/internal/domain/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.User{},
		&entity.Product{},
		&entity.RegisterSession{},
		&entity.SaleTransaction{},
		&entity.SaleItem{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// One Open session per register, enforced at the database so two clients
	// racing to open the same till cannot both win.
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_register_sessions_open
		 ON register_sessions (register_number) WHERE status = 0 AND deleted_at IS NULL`,
	).Error; err != nil {
		return fmt.Errorf("failed to create open-session index: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with a default manager account so a
// fresh install can log in.
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	var count int64
	if err := db.Model(&entity.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("change-me"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash default password: %w", err)
	}

	manager := entity.User{
		FirstName: "Store",
		LastName:  "Manager",
		Email:     "manager@tillpoint.local",
		Password:  string(hashed),
		Role:      "manager",
	}
	if err := db.Create(&manager).Error; err != nil {
		return fmt.Errorf("failed to seed manager user: %w", err)
	}

	log.Println("Seeded default manager account (manager@tillpoint.local)")
	return nil
}

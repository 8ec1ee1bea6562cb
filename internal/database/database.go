package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/laptev-dv/diploma-backend/internal/config"
	logging "github.com/laptev-dv/diploma-backend/internal/logging"
	"github.com/laptev-dv/diploma-backend/internal/models"
)

var DB *gorm.DB

func Init(log *zap.Logger) {
	var err error
	dbConf := config.Conf.Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.User, dbConf.Password, dbConf.DBName, dbConf.Port)

	// Create our custom GORM logger
	gormLogger := logging.NewGormZapLogger(log)

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})

	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	log.Info("Database connection established successfully.")
	runMigrations(log)
}

func runMigrations(log *zap.Logger) {
	// GORM's AutoMigrate will create tables, columns, and foreign keys.
	// It will NOT create custom indexes, so we handle that separately.
	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database migrations completed successfully.")

	sessionIndex := `CREATE INDEX IF NOT EXISTS idx_sessions_experiment_created ON sessions (experiment_id, created_at DESC);`
	if err := DB.Exec(sessionIndex).Error; err != nil {
		log.Fatal("Failed to create custom index on sessions table", zap.Error(err))
	}
	log.Info("Custom indexes ensured successfully.")
}

// Migrate applies the schema to the given connection. Split out so tests
// can run it against their own database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.AuthToken{},
		&models.ResetToken{},
		&models.Experiment{},
		&models.Task{},
		&models.Session{},
		&models.TaskResult{},
		&models.Folder{},
	)
}

package database

import (
	"fmt"
	"time"

	"doctor-directory/config"
	"doctor-directory/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewConnection opens the pool for the configured driver, applies the pool
// settings and, when enabled, creates the doctors table.
func NewConnection(cfg config.DBConfig, log *logrus.Logger, logLevel logger.LogLevel) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Driver {
	case config.DriverSQLite:
		db, err = NewSQLiteConnection(cfg.Path, log, logLevel)
	default:
		db, err = NewPostgresConnection(cfg, log, logLevel)
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	if cfg.Driver == config.DriverSQLite {
		// sqlite serialises writers anyway, a single connection avoids SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	}

	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			Close(db)
			return nil, err
		}
		log.Info("Doctors table migrated")
	}

	return db, nil
}

func NewPostgresConnection(cfg config.DBConfig, log *logrus.Logger, logLevel logger.LogLevel) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode, cfg.TimeZone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: newGormLogger(log, logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("Successfully connected to PostgreSQL database")

	return db, nil
}

func NewSQLiteConnection(path string, log *logrus.Logger, logLevel logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: newGormLogger(log, logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	log.Infof("Successfully opened SQLite database at %s", path)

	return db, nil
}

// Migrate creates or updates the doctors table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entity.Doctor{}); err != nil {
		return fmt.Errorf("failed to migrate doctors table: %w", err)
	}
	return nil
}

// Close releases every pooled connection. Safe to call with a nil db.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newGormLogger(log *logrus.Logger, level logger.LogLevel) logger.Interface {
	return logger.New(log, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

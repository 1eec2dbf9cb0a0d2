package store

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/fridgebot/backend/internal/pkg/logger"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds connection and call settings for the store
type Config struct {
	Driver     string
	DSN        string
	Timeout    time.Duration
	MaxRetries int
}

// Store owns the database handle shared by the repositories
type Store struct {
	db   *gorm.DB
	exec *executor
	log  *logger.Logger
}

// Open connects to the configured database
func Open(cfg Config, logg *logger.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}

	if cfg.Driver == DriverSQLite {
		// one connection keeps in-memory databases alive and avoids SQLITE_BUSY
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return New(db, cfg, logg), nil
}

// New wraps an existing gorm handle
func New(db *gorm.DB, cfg Config, logg *logger.Logger) *Store {
	serviceLog := logg.With("service", "Store", "driver", cfg.Driver)
	return &Store{
		db: db,
		exec: &executor{
			timeout:    cfg.Timeout,
			maxRetries: cfg.MaxRetries,
			log:        serviceLog,
		},
		log: serviceLog,
	}
}

// DB exposes the gorm handle for seeding and tests
func (s *Store) DB() *gorm.DB { return s.db }

// Migrate creates or updates all tables
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	s.log.Info("database migrated")
	return nil
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Package storage owns the shared SQLite database handle for the storefront.
package storage

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	catalogdomain "github.com/example/storefront/domain/catalog"
	orderdomain "github.com/example/storefront/domain/order"
	shopdomain "github.com/example/storefront/domain/shop"
	userdomain "github.com/example/storefront/domain/user"
)

// Module opens the database, runs migrations and hands the handle to the
// modules that persist through it.
type Module struct {
	db     *gorm.DB
	dbPath string
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new storage module.
func NewModule() *Module {
	dbPath := os.Getenv("STOREFRONT_DB_PATH")
	if dbPath == "" {
		dbPath = "storefront.db"
	}
	return &Module{dbPath: dbPath}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "storage"
}

// Start opens the database connection and runs migrations.
func (m *Module) Start(_ context.Context) error {
	log.Printf("[storage] Connecting to SQLite database: %s", m.dbPath)

	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "true" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := m.db.AutoMigrate(
		&userdomain.User{},
		&catalogdomain.Category{},
		&catalogdomain.Product{},
		&shopdomain.Shop{},
		&orderdomain.Purchase{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("[storage] Module started")
	return nil
}

// Stop gracefully closes the database connection.
func (m *Module) Stop(_ context.Context) error {
	if m.db == nil {
		return nil
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	log.Println("[storage] Database connection closed")
	return nil
}

// Health performs a health check on the database connection.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get sql.DB: %v", err),
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": "sqlite",
			"path":   m.dbPath,
		},
	}
}

// DB returns the shared database handle. Only valid after Start.
func (m *Module) DB() *gorm.DB {
	return m.db
}

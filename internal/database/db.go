// Package database opens the relational store that holds the enrichment
// cache tables.
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/couchcryptid/home-data-enrichment/internal/cache"
)

// Config contains database connection options.
type Config struct {
	Driver string // "sqlite" (default) or "postgres"
	Path   string // SQLite database path when Driver == sqlite
	DSN    string // Optional DSN override
}

// Open initialises a gorm.DB using the provided configuration.
func Open(cfg Config) (*gorm.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = "sqlite"
	}

	switch driver {
	case "sqlite":
		return openSQLite(cfg)
	case "postgres", "postgresql":
		return openPostgres(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// AutoMigrate creates the property and ZIP cache tables.
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return errors.New("nil database handle")
	}
	for _, table := range []string{cache.PropertyTable, cache.ClimateTable} {
		if err := cache.Migrate(db, table); err != nil {
			return err
		}
	}
	return nil
}

// Readiness reports whether the database answers a ping.
type Readiness struct {
	db *gorm.DB
}

// NewReadiness wraps db as a readiness checker.
func NewReadiness(db *gorm.DB) *Readiness {
	return &Readiness{db: db}
}

// CheckReadiness pings the underlying connection pool.
func (r *Readiness) CheckReadiness(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}
	return nil
}

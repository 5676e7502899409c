package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Table names for the two cache tables.
const (
	PropertyTable = "property_cache"
	ClimateTable  = "zip_cache"
)

// Row is the schema shared by both cache tables.
type Row struct {
	Key       string                      `gorm:"primaryKey;size:512"`
	Payload   []byte                      `gorm:"not null"`
	Sources   datatypes.JSONSlice[string] `gorm:"not null"`
	ExpiresAt time.Time                   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Migrate creates or updates the named cache table.
func Migrate(db *gorm.DB, table string) error {
	if err := db.Table(table).AutoMigrate(&Row{}); err != nil {
		return fmt.Errorf("migrate %s: %w", table, err)
	}
	return nil
}

// SQLStore implements Store on one table of the primary SQL database.
type SQLStore struct {
	db    *gorm.DB
	table string
	ttl   time.Duration
	clock clockwork.Clock
}

// NewSQLStore constructs a database-backed Store for table.
func NewSQLStore(db *gorm.DB, table string, ttl time.Duration, clock clockwork.Clock) *SQLStore {
	if db == nil {
		return nil
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &SQLStore{db: db, table: table, ttl: ttl, clock: clock}
}

// Get retrieves the entry for key without regard to expiry.
func (s *SQLStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	if s == nil {
		return Entry{}, false, ErrNotInitialised
	}

	var row Row
	err := s.db.WithContext(ctx).Table(s.table).Take(&row, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("get %s: %w", s.table, err)
	}

	return Entry{
		Key:       row.Key,
		Payload:   row.Payload,
		Sources:   cloneSources(row.Sources),
		ExpiresAt: row.ExpiresAt,
	}, true, nil
}

// Put upserts the entry for key with expiry now + TTL.
func (s *SQLStore) Put(ctx context.Context, key string, payload []byte, sources []string) error {
	if s == nil {
		return ErrNotInitialised
	}

	row := Row{
		Key:       key,
		Payload:   payload,
		Sources:   datatypes.NewJSONSlice(cloneSources(sources)),
		ExpiresAt: s.clock.Now().Add(s.ttl).UTC(),
	}

	err := s.db.WithContext(ctx).
		Table(s.table).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "sources", "expires_at", "updated_at"}),
		}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("put %s: %w", s.table, err)
	}
	return nil
}

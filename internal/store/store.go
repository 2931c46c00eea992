package store

import (
	"context"
	"log/slog"

	"github.com/ncruces/go-sqlite3/gormlite"
	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/tartampluch/go-birthday-server/internal/config"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "github.com/ncruces/go-sqlite3/embed"
)

// Store is the persistence boundary for birthday records.
type Store interface {
	Create(ctx context.Context, birthday *Birthday) error
	List(ctx context.Context) ([]Birthday, error)
	DeleteByID(ctx context.Context, id string) error
}

// GormStore implements Store on a GORM sqlite database.
type GormStore struct {
	db *gorm.DB
}

// Open connects to the sqlite database at the given DSN, applies the
// operational pragmas and migrates the schema.
func Open(dsn string, logLevel slog.Level) (*GormStore, error) {
	dialector := gormlite.Open(dsn)

	var gormLevel logger.LogLevel
	switch logLevel {
	case slog.LevelWarn:
		gormLevel = logger.Warn
	case slog.LevelInfo:
		gormLevel = logger.Info
	default:
		gormLevel = logger.Error
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(gormLevel),
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	internalDB, err := db.DB()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// sqlite allows a single writer; serializing connections avoids
	// SQLITE_BUSY under concurrent requests.
	internalDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA journal_mode=wal; PRAGMA foreign_keys=on; PRAGMA busy_timeout=5000").Error; err != nil {
		return nil, errors.WithStack(err)
	}

	if err := db.AutoMigrate(&Birthday{}); err != nil {
		return nil, errors.WithStack(err)
	}

	slog.Info(config.MsgStoreReady, config.LogKeyComponent, config.CompStore)

	return &GormStore{db: db}, nil
}

// NewGormStore wraps an existing database handle. Used by tests.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Create persists a new record, assigning its id when empty.
func (s *GormStore) Create(ctx context.Context, birthday *Birthday) error {
	if birthday.ID == "" {
		birthday.ID = xid.New().String()
	}

	if err := s.db.WithContext(ctx).Create(birthday).Error; err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// List returns all records in insertion order.
func (s *GormStore) List(ctx context.Context) ([]Birthday, error) {
	var birthdays []Birthday

	if err := s.db.WithContext(ctx).Order("created_at asc").Find(&birthdays).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	return birthdays, nil
}

// DeleteByID removes a record. Deleting an id that does not exist is not an
// error; the operation is idempotent.
func (s *GormStore) DeleteByID(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&Birthday{}, "id = ?", id).Error; err != nil {
		return errors.WithStack(err)
	}

	return nil
}

var _ Store = &GormStore{}

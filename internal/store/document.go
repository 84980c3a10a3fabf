package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/diewo77/go-pos/internal/errs"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Document is one named collection serialized as a JSON blob.
type Document struct {
	Key   string `gorm:"primaryKey;size:191"`
	Value string `gorm:"type:text"`
}

func (Document) TableName() string { return "pos_documents" }

// DocumentStore persists collections in a two-column table. This is the
// server-backed variant of the store contract; it also provides the
// transactional unit of work used by atomic sale completion.
type DocumentStore struct {
	db *gorm.DB
}

// OpenDocument connects with the given driver ("sqlite" or "postgres") and
// auto-migrates the document table.
func OpenDocument(driver, dsn string) (*DocumentStore, error) {
	var dial gorm.Dialector
	switch driver {
	case "sqlite":
		dial = sqlite.Open(dsn)
	case "postgres":
		dial = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logLevel)})
	if err != nil {
		return nil, &errs.StorageError{Op: "open", Key: dsn, Err: err}
	}
	return NewDocumentStore(db)
}

// NewDocumentStore wraps an existing connection (used by tests).
func NewDocumentStore(db *gorm.DB) (*DocumentStore, error) {
	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, &errs.StorageError{Op: "migrate", Key: Document{}.TableName(), Err: err}
	}
	return &DocumentStore{db: db}, nil
}

func (s *DocumentStore) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	var doc Document
	err := s.db.WithContext(ctx).First(&doc, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &errs.StorageError{Op: "get", Key: key, Err: err}
	}
	return json.RawMessage(doc.Value), true, nil
}

func (s *DocumentStore) Set(ctx context.Context, key string, value json.RawMessage) error {
	doc := Document{Key: key, Value: string(value)}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&doc).Error
	if err != nil {
		return &errs.StorageError{Op: "set", Key: key, Err: err}
	}
	return nil
}

func (s *DocumentStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithTx runs fn against a transaction-bound store; the transaction commits
// only when fn returns nil.
func (s *DocumentStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&DocumentStore{db: tx})
	})
}

package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS triage_entries (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		account_id TEXT NOT NULL,
		collection TEXT NOT NULL,
		value      TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (account_id, collection, value)
	)`

// SQLiteStore is a SQLite implementation of the Backend interface
type SQLiteStore struct {
	sqlStore
}

// NewSQLiteStore opens (or creates) the database at dbPath and ensures the schema exists
func NewSQLiteStore(ctx context.Context, dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	logger.Debug("SQLite store opened", zap.String("path", dbPath))

	return &SQLiteStore{sqlStore{
		db: db,
		insertQuery: `
			INSERT OR IGNORE INTO triage_entries (account_id, collection, value)
			VALUES (?, ?, ?)`,
		logger: logger,
	}}, nil
}

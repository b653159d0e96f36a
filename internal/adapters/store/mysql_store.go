package store

import (
	"context"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const mysqlSchema = `
	CREATE TABLE IF NOT EXISTS triage_entries (
		id         BIGINT AUTO_INCREMENT PRIMARY KEY,
		account_id VARCHAR(191) NOT NULL,
		collection VARCHAR(32) NOT NULL,
		value      VARCHAR(500) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_entry (account_id, collection, value)
	) DEFAULT CHARSET = utf8mb4`

// MySQLStore is a MySQL implementation of the Backend interface
type MySQLStore struct {
	sqlStore
}

// NewMySQLStore connects to MySQL and ensures the schema exists
func NewMySQLStore(ctx context.Context, dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	store, err := newMySQLStoreWithDB(ctx, db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// newMySQLStoreWithDB creates the schema on an open connection
func newMySQLStoreWithDB(ctx context.Context, db *sqlx.DB, logger *zap.Logger) (*MySQLStore, error) {
	if _, err := db.ExecContext(ctx, mysqlSchema); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLStore{sqlStore{
		db: db,
		insertQuery: `
			INSERT IGNORE INTO triage_entries (account_id, collection, value)
			VALUES (?, ?, ?)`,
		logger: logger,
	}}, nil
}

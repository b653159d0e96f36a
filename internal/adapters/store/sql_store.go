package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const (
	listEntriesQuery = `
		SELECT value
		FROM triage_entries
		WHERE account_id = ? AND collection = ?
		ORDER BY id`

	removeEntryQuery = `
		DELETE FROM triage_entries
		WHERE account_id = ? AND collection = ? AND value = ?`
)

// sqlStore holds the queries shared by the SQL backends
type sqlStore struct {
	db          *sqlx.DB
	insertQuery string
	logger      *zap.Logger
}

func (s *sqlStore) List(ctx context.Context, accountID string, collection Collection) ([]string, error) {
	values := []string{}
	if err := s.db.SelectContext(ctx, &values, listEntriesQuery, accountID, string(collection)); err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	return values, nil
}

func (s *sqlStore) Add(ctx context.Context, accountID string, collection Collection, value string) error {
	if _, err := s.db.ExecContext(ctx, s.insertQuery, accountID, string(collection), value); err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

func (s *sqlStore) Remove(ctx context.Context, accountID string, collection Collection, value string) error {
	result, err := s.db.ExecContext(ctx, removeEntryQuery, accountID, string(collection), value)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logger.Warn("Failed to get rows affected during delete", zap.Error(err))
	} else {
		s.logger.Debug("Deleted entries", zap.Int64("count", rowsAffected))
	}
	return nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockMySQLStore(t *testing.T) (*MySQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS triage_entries").
		WillReturnResult(sqlmock.NewResult(0, 0))

	store, err := newMySQLStoreWithDB(context.Background(), sqlx.NewDb(db, "mysql"), zap.NewNop())
	require.NoError(t, err)

	t.Cleanup(func() {
		mock.ExpectClose()
		require.NoError(t, store.Close())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	return store, mock
}

func TestMySQLStore_List(t *testing.T) {
	store, mock := newMockMySQLStore(t)

	mock.ExpectQuery("SELECT value FROM triage_entries").
		WithArgs("work", "rules").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("Delete spam.").AddRow("Archive receipts."))

	got, err := store.List(context.Background(), "work", CollectionRules)

	require.NoError(t, err)
	assert.Equal(t, []string{"Delete spam.", "Archive receipts."}, got)
}

func TestMySQLStore_Add(t *testing.T) {
	store, mock := newMockMySQLStore(t)

	mock.ExpectExec("INSERT IGNORE INTO triage_entries").
		WithArgs("work", "classifications", "Receipts are shopping").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.Add(context.Background(), "work", CollectionClassifications, "Receipts are shopping")

	assert.NoError(t, err)
}

func TestMySQLStore_Remove(t *testing.T) {
	store, mock := newMockMySQLStore(t)

	mock.ExpectExec("DELETE FROM triage_entries").
		WithArgs("work", "rules", "Delete spam.").
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := store.Remove(context.Background(), "work", CollectionRules, "Delete spam.")

	assert.NoError(t, err)
}

func TestMySQLStore_QueryError(t *testing.T) {
	store, mock := newMockMySQLStore(t)

	mock.ExpectQuery("SELECT value FROM triage_entries").
		WithArgs("work", "rules").
		WillReturnError(errors.New("connection lost"))

	_, err := store.List(context.Background(), "work", CollectionRules)

	assert.ErrorContains(t, err, "connection lost")
}

func TestMySQLStore_SchemaError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS triage_entries").
		WillReturnError(errors.New("access denied"))

	_, err = newMySQLStoreWithDB(context.Background(), sqlx.NewDb(db, "mysql"), zap.NewNop())

	assert.ErrorContains(t, err, "failed to create table")
	assert.NoError(t, mock.ExpectationsWereMet())
}

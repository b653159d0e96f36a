package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testBackends returns a fresh instance of every backend that runs without a server
func testBackends(t *testing.T) map[string]Backend {
	t.Helper()
	logger := zap.NewNop()

	fileStore, err := NewFileStore(t.TempDir(), logger)
	require.NoError(t, err)

	sqliteStore, err := NewSQLiteStore(context.Background(), ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })

	return map[string]Backend{
		"memory": NewMemoryStore(logger),
		"file":   fileStore,
		"sqlite": sqliteStore,
	}
}

func TestBackends_AddListRemove(t *testing.T) {
	for name, backend := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rules := NewRuleStore(backend, zap.NewNop())

			got, err := rules.GetAllRules(ctx, "work")
			require.NoError(t, err)
			assert.Empty(t, got)

			require.NoError(t, rules.AddRule(ctx, "Delete spam.", "work"))
			require.NoError(t, rules.AddRule(ctx, "Newsletters go to `News`.", "work"))
			require.NoError(t, rules.AddRule(ctx, "Delete spam.", "work"))

			got, err = rules.GetAllRules(ctx, "work")
			require.NoError(t, err)
			assert.Equal(t, []string{"Delete spam.", "Newsletters go to `News`."}, got)

			require.NoError(t, rules.RemoveRule(ctx, "Delete spam.", "work"))
			got, err = rules.GetAllRules(ctx, "work")
			require.NoError(t, err)
			assert.Equal(t, []string{"Newsletters go to `News`."}, got)

			require.NoError(t, rules.RemoveRule(ctx, "Not there", "work"))
		})
	}
}

func TestBackends_SeparateAccountsAndCollections(t *testing.T) {
	for name, backend := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rules := NewRuleStore(backend, zap.NewNop())
			hints := NewClassificationStore(backend, zap.NewNop())

			require.NoError(t, rules.AddRule(ctx, "Work rule", "work"))
			require.NoError(t, rules.AddRule(ctx, "Home rule", "home"))
			require.NoError(t, hints.AddClassification(ctx, "Work hint", "work"))

			workRules, err := rules.GetAllRules(ctx, "work")
			require.NoError(t, err)
			assert.Equal(t, []string{"Work rule"}, workRules)

			homeRules, err := rules.GetAllRules(ctx, "home")
			require.NoError(t, err)
			assert.Equal(t, []string{"Home rule"}, homeRules)

			workHints, err := hints.GetAllClassifications(ctx, "work")
			require.NoError(t, err)
			assert.Equal(t, []string{"Work hint"}, workHints)
		})
	}
}

func TestEntryValidation(t *testing.T) {
	ctx := context.Background()
	rules := NewRuleStore(NewMemoryStore(zap.NewNop()), zap.NewNop())

	assert.ErrorIs(t, rules.AddRule(ctx, "   ", "work"), ErrInvalidEntry)
	assert.ErrorIs(t, rules.AddRule(ctx, "line one\nline two", "work"), ErrInvalidEntry)
	assert.ErrorIs(t, rules.AddRule(ctx, strings.Repeat("x", MaxEntryLength+1), "work"), ErrInvalidEntry)
	assert.ErrorIs(t, rules.AddRule(ctx, "fine", ""), ErrInvalidAccount)

	_, err := rules.GetAllRules(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidAccount)

	require.NoError(t, rules.AddRule(ctx, "  padded rule  ", "work"))
	got, err := rules.GetAllRules(ctx, "work")
	require.NoError(t, err)
	assert.Equal(t, []string{"padded rule"}, got)
}

func TestFileStore_Layout(t *testing.T) {
	dir := t.TempDir()
	fileStore, err := NewFileStore(dir, zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, fileStore.Add(ctx, "work", CollectionRules, "Delete spam."))
	require.NoError(t, fileStore.Add(ctx, "work", CollectionClassifications, "Hint"))

	content, err := os.ReadFile(filepath.Join(dir, "work", "rules.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Delete spam.\n", string(content))

	content, err = os.ReadFile(filepath.Join(dir, "work", "classifications.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Hint\n", string(content))
}

func TestFileStore_ReadsHandEditedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "work"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "work", "rules.txt"),
		[]byte("  first rule \n\nsecond rule\nfirst rule\nno newline"), 0o644))

	fileStore, err := NewFileStore(dir, zap.NewNop())
	require.NoError(t, err)
	rules := NewRuleStore(fileStore, zap.NewNop())
	ctx := context.Background()

	got, err := rules.GetAllRules(ctx, "work")
	require.NoError(t, err)
	assert.Equal(t, []string{"first rule", "second rule", "no newline"}, got)

	require.NoError(t, rules.AddRule(ctx, "third rule", "work"))
	got, err = rules.GetAllRules(ctx, "work")
	require.NoError(t, err)
	assert.Equal(t, []string{"first rule", "second rule", "no newline", "third rule"}, got)

	require.NoError(t, rules.RemoveRule(ctx, "first rule", "work"))
	got, err = rules.GetAllRules(ctx, "work")
	require.NoError(t, err)
	assert.Equal(t, []string{"second rule", "no newline", "third rule"}, got)
}

func TestFileStore_RejectsUnsafeAccounts(t *testing.T) {
	fileStore, err := NewFileStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	for _, account := range []string{"..", ".", "../escape", `a\b`, "a/b"} {
		t.Run(account, func(t *testing.T) {
			assert.ErrorIs(t, fileStore.Add(ctx, account, CollectionRules, "rule"), ErrInvalidAccount)
		})
	}
}

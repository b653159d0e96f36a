package credential

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/mikey/llm-mail-triage/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyFor(t *testing.T) {
	assert.Equal(t, "imap:work", KeyFor(config.MailAccount{Name: "work"}))
	assert.Equal(t, "custom", KeyFor(config.MailAccount{Name: "work", KeyringKey: "custom"}))
}

func TestPassword_ConfiguredWins(t *testing.T) {
	store := NewStore(keyring.NewArrayKeyring([]keyring.Item{{Key: "imap:work", Data: []byte("stored")}}))

	password, err := store.Password(config.MailAccount{Name: "work", Password: "configured"})

	require.NoError(t, err)
	assert.Equal(t, "configured", password)
}

func TestPassword_SetGetDelete(t *testing.T) {
	store := NewStore(keyring.NewArrayKeyring(nil))
	account := config.MailAccount{Name: "work"}

	_, err := store.Password(account)
	assert.ErrorIs(t, err, ErrNoPassword)

	require.NoError(t, store.SetPassword(account, "s3cret"))
	password, err := store.Password(account)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", password)

	require.NoError(t, store.DeletePassword(account))
	_, err = store.Password(account)
	assert.ErrorIs(t, err, ErrNoPassword)
}

func TestPassword_NilStore(t *testing.T) {
	var store *Store

	_, err := store.Password(config.MailAccount{Name: "work"})

	assert.ErrorIs(t, err, ErrNoPassword)
}

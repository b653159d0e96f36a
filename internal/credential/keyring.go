package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
	"github.com/mikey/llm-mail-triage/internal/config"
)

const serviceName = "llm-mail-triage"

// ErrNoPassword is returned when an account has neither a configured nor a stored password
var ErrNoPassword = errors.New("no password configured or stored")

// Store reads and writes IMAP passwords in the system keyring
type Store struct {
	ring keyring.Keyring
}

// Open returns a Store backed by the first available system keyring
func Open() (*Store, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/llm-mail-triage/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("llm-mail-triage-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &Store{ring: ring}, nil
}

// NewStore wraps an existing keyring
func NewStore(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// KeyFor returns the keyring key holding an account's password
func KeyFor(account config.MailAccount) string {
	if account.KeyringKey != "" {
		return account.KeyringKey
	}
	return "imap:" + account.Name
}

// Password returns the account's configured password, falling back to the keyring
func (s *Store) Password(account config.MailAccount) (string, error) {
	if account.Password != "" {
		return account.Password, nil
	}
	if s == nil || s.ring == nil {
		return "", fmt.Errorf("account %s: %w", account.Name, ErrNoPassword)
	}

	key := KeyFor(account)
	item, err := s.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", fmt.Errorf("account %s: %w", account.Name, ErrNoPassword)
		}
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// SetPassword stores a password for the account
func (s *Store) SetPassword(account config.MailAccount, password string) error {
	key := KeyFor(account)
	err := s.ring.Set(keyring.Item{
		Key:         key,
		Data:        []byte(password),
		Label:       "IMAP password for " + account.Name,
		Description: serviceName,
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

// DeletePassword removes the account's stored password
func (s *Store) DeletePassword(account config.MailAccount) error {
	key := KeyFor(account)
	if err := s.ring.Remove(key); err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}

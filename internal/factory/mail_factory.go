package factory

import (
	"fmt"

	"github.com/mikey/llm-mail-triage/internal/adapters/mail"
	"github.com/mikey/llm-mail-triage/internal/config"
	"github.com/mikey/llm-mail-triage/internal/credential"
	"github.com/mikey/llm-mail-triage/internal/ports"
	"go.uber.org/zap"
)

// MailFactory creates mail clients based on configuration
type MailFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewMailFactory creates a new mail factory
func NewMailFactory(cfg *config.Config, logger *zap.Logger) *MailFactory {
	return &MailFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateMailClient creates an IMAP client for the configured accounts. The
// system keyring is only opened when an account has no password in the config.
func (f *MailFactory) CreateMailClient() (ports.MailClient, error) {
	accounts, err := f.cfg.GetMailAccounts()
	if err != nil {
		return nil, err
	}

	var creds *credential.Store
	for _, account := range accounts {
		if account.Password != "" {
			continue
		}
		creds, err = credential.Open()
		if err != nil {
			return nil, fmt.Errorf("account %s needs a stored password: %w", account.Name, err)
		}
		break
	}

	f.logger.Debug("Creating IMAP client", zap.Int("accounts", len(accounts)))
	return mail.NewIMAPClient(accounts, creds, f.logger), nil
}

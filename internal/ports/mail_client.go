package ports

import (
	"context"
	"time"

	"github.com/mikey/llm-mail-triage/internal/core"
)

// MessageRef identifies a message in an account's inbox
type MessageRef struct {
	UID     uint32
	From    string
	Subject string
	Date    time.Time
}

// MailClient defines the interface for reading and acting on a mailbox
type MailClient interface {
	// Accounts returns the names of the configured accounts
	Accounts() []string

	// ListMessages returns up to limit unread inbox messages, newest first
	ListMessages(ctx context.Context, account string, limit int) ([]MessageRef, error)

	// FetchMessage downloads and parses a message, leaving it unread
	FetchMessage(ctx context.Context, account string, ref MessageRef) (*core.Email, error)

	// MarkSeen flags a message as seen
	MarkSeen(ctx context.Context, account string, ref MessageRef) error

	// Execute carries out a recommended action on a message
	Execute(ctx context.Context, account string, ref MessageRef, action core.EmailAction) error
}

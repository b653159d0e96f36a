package mail

import (
	"context"
	"fmt"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/mikey/llm-mail-triage/internal/config"
	"github.com/mikey/llm-mail-triage/internal/core"
	"github.com/mikey/llm-mail-triage/internal/credential"
	"github.com/mikey/llm-mail-triage/internal/ports"
	"go.uber.org/zap"
)

// IMAPClient is an implementation of the MailClient interface over IMAP.
// Every operation opens its own connection and logs out when done.
type IMAPClient struct {
	accounts    map[string]config.MailAccount
	order       []string
	credentials *credential.Store
	logger      *zap.Logger
	dial        func(account config.MailAccount) (*imapclient.Client, error)
}

var _ ports.MailClient = (*IMAPClient)(nil)

// NewIMAPClient creates a new IMAP client for the configured accounts
func NewIMAPClient(accounts []config.MailAccount, credentials *credential.Store, logger *zap.Logger) *IMAPClient {
	c := &IMAPClient{
		accounts:    make(map[string]config.MailAccount, len(accounts)),
		credentials: credentials,
		logger:      logger,
		dial:        dialAccount,
	}
	for _, account := range accounts {
		c.accounts[account.Name] = account
		c.order = append(c.order, account.Name)
	}
	return c
}

// Accounts returns the configured account names in configuration order
func (c *IMAPClient) Accounts() []string {
	return append([]string(nil), c.order...)
}

// connect dials and authenticates, then selects the account's inbox
func (c *IMAPClient) connect(ctx context.Context, name string, readOnly bool) (*imapclient.Client, config.MailAccount, error) {
	account, ok := c.accounts[name]
	if !ok {
		return nil, config.MailAccount{}, fmt.Errorf("unknown mail account %q", name)
	}
	if err := ctx.Err(); err != nil {
		return nil, account, err
	}

	password, err := c.credentials.Password(account)
	if err != nil {
		return nil, account, err
	}

	addr := account.Address()
	client, err := c.dial(account)
	if err != nil {
		return nil, account, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(account.Username, password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, account, fmt.Errorf("authentication failed for %s: %w", account.Username, err)
	}

	if _, err := client.Select(account.Inbox, &imap.SelectOptions{ReadOnly: readOnly}).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, account, fmt.Errorf("selecting %s: %w", account.Inbox, err)
	}

	c.logger.Debug("Connected to IMAP server",
		zap.String("account", name),
		zap.String("address", addr),
		zap.String("mailbox", account.Inbox))

	return client, account, nil
}

// ListMessages returns up to limit unread messages, newest first
func (c *IMAPClient) ListMessages(ctx context.Context, account string, limit int) ([]ports.MessageRef, error) {
	client, _, err := c.connect(ctx, account, true)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	searchData, err := client.UIDSearch(&imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
	}, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching messages: %w", err)
	}

	uids := newestFirst(searchData.AllUIDs(), limit)
	if len(uids) == 0 {
		return nil, nil
	}

	fetchCmd := client.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		Envelope: true,
		UID:      true,
	})
	defer fetchCmd.Close()

	byUID := make(map[imap.UID]ports.MessageRef, len(uids))
	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}
		buf, err := msg.Collect()
		if err != nil {
			c.logger.Warn("Skipping unreadable message", zap.Error(err))
			continue
		}
		byUID[buf.UID] = refFromBuffer(buf)
	}
	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("fetching envelopes: %w", err)
	}

	refs := make([]ports.MessageRef, 0, len(byUID))
	for _, uid := range uids {
		if ref, ok := byUID[uid]; ok {
			refs = append(refs, ref)
		}
	}

	c.logger.Debug("Listed unread messages", zap.String("account", account), zap.Int("count", len(refs)))
	return refs, nil
}

// FetchMessage downloads and parses a message without marking it as seen
func (c *IMAPClient) FetchMessage(ctx context.Context, account string, ref ports.MessageRef) (*core.Email, error) {
	client, _, err := c.connect(ctx, account, false)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	bodySection := &imap.FetchItemBodySection{Peek: true}
	fetchCmd := client.Fetch(imap.UIDSetNum(imap.UID(ref.UID)), &imap.FetchOptions{
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	})
	defer fetchCmd.Close()

	msg := fetchCmd.Next()
	if msg == nil {
		return nil, fmt.Errorf("message UID %d not found", ref.UID)
	}
	buf, err := msg.Collect()
	if err != nil {
		return nil, fmt.Errorf("collecting message data: %w", err)
	}
	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("closing fetch: %w", err)
	}

	raw := buf.FindBodySection(bodySection)
	if raw == nil {
		return nil, fmt.Errorf("message UID %d has no body", ref.UID)
	}

	return parseRaw(raw)
}

// MarkSeen flags a message as seen once the user is done with it
func (c *IMAPClient) MarkSeen(ctx context.Context, account string, ref ports.MessageRef) error {
	client, _, err := c.connect(ctx, account, false)
	if err != nil {
		return err
	}
	defer func() { _ = client.Logout().Wait() }()

	return addFlags(client, imap.UIDSetNum(imap.UID(ref.UID)), imap.FlagSeen)
}

// Execute carries out an action on a message
func (c *IMAPClient) Execute(ctx context.Context, account string, ref ports.MessageRef, action core.EmailAction) error {
	if action.Action == core.ActionManual {
		return nil
	}
	if !action.Action.Valid() {
		return fmt.Errorf("unknown action %s", action.Action)
	}

	client, acct, err := c.connect(ctx, account, false)
	if err != nil {
		return err
	}
	defer func() { _ = client.Logout().Wait() }()

	mailboxes, err := client.List("", "*", nil).Collect()
	if err != nil {
		return fmt.Errorf("listing mailboxes: %w", err)
	}

	uidSet := imap.UIDSetNum(imap.UID(ref.UID))
	logger := c.logger.With(
		zap.String("account", account),
		zap.Uint32("uid", ref.UID),
		zap.Stringer("action", action.Action))

	switch action.Action {
	case core.ActionDelete:
		if trash, ok := resolveMailbox(mailboxes, acct.TrashFolder, imap.MailboxAttrTrash, trashCandidates); ok {
			logger.Info("Moving message to trash", zap.String("mailbox", trash))
			return move(client, uidSet, trash)
		}
		logger.Info("No trash mailbox, expunging message")
		if err := addFlags(client, uidSet, imap.FlagDeleted); err != nil {
			return err
		}
		if err := client.UIDExpunge(uidSet).Close(); err != nil {
			return fmt.Errorf("expunging message: %w", err)
		}
		return nil

	case core.ActionArchive:
		archive, ok := resolveMailbox(mailboxes, acct.ArchiveFolder, imap.MailboxAttrArchive, archiveCandidates)
		if !ok {
			return fmt.Errorf("archive: %w", ErrMailboxNotFound)
		}
		logger.Info("Archiving message", zap.String("mailbox", archive))
		return move(client, uidSet, archive)

	case core.ActionReportJunk, core.ActionReportPhishing:
		flags := []imap.Flag{flagJunk}
		if action.Action == core.ActionReportPhishing {
			flags = append(flags, flagPhishing)
		}
		if err := addFlags(client, uidSet, flags...); err != nil {
			return err
		}
		junk, ok := resolveMailbox(mailboxes, acct.JunkFolder, imap.MailboxAttrJunk, junkCandidates)
		if !ok {
			logger.Warn("No junk mailbox, message flagged only")
			return nil
		}
		logger.Info("Moving message to junk", zap.String("mailbox", junk))
		return move(client, uidSet, junk)

	case core.ActionMoveToFolder:
		folder, ok := findByName(mailboxes, action.FolderName)
		if !ok {
			return fmt.Errorf("%q: %w", action.FolderName, ErrMailboxNotFound)
		}
		logger.Info("Moving message", zap.String("mailbox", folder))
		return move(client, uidSet, folder)
	}

	return nil
}

func dialAccount(account config.MailAccount) (*imapclient.Client, error) {
	if account.TLS {
		return imapclient.DialTLS(account.Address(), nil)
	}
	return imapclient.DialStartTLS(account.Address(), nil)
}

func move(client *imapclient.Client, uidSet imap.UIDSet, mailbox string) error {
	if _, err := client.Move(uidSet, mailbox).Wait(); err != nil {
		return fmt.Errorf("moving message to %s: %w", mailbox, err)
	}
	return nil
}

func addFlags(client *imapclient.Client, uidSet imap.UIDSet, flags ...imap.Flag) error {
	storeCmd := client.Store(uidSet, &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  flags,
	}, nil)
	if err := storeCmd.Close(); err != nil {
		return fmt.Errorf("setting flags: %w", err)
	}
	return nil
}

// refFromBuffer extracts a MessageRef from fetched envelope data
func refFromBuffer(buf *imapclient.FetchMessageBuffer) ports.MessageRef {
	ref := ports.MessageRef{UID: uint32(buf.UID)}
	if buf.Envelope != nil {
		ref.Subject = buf.Envelope.Subject
		ref.Date = buf.Envelope.Date
		if len(buf.Envelope.From) > 0 {
			from := buf.Envelope.From[0]
			if from.Name != "" {
				ref.From = fmt.Sprintf("%s <%s>", from.Name, from.Addr())
			} else {
				ref.From = from.Addr()
			}
		}
	}
	return ref
}

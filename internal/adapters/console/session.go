package console

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mikey/llm-mail-triage/internal/core"
	"github.com/mikey/llm-mail-triage/internal/ports"
	"go.uber.org/zap"
)

// ErrNoAccounts is returned when no mail account is configured
var ErrNoAccounts = errors.New("no mail accounts configured")

// Session walks the user through an account's unread email one message at a
// time: classify, optionally add a hint, recommend, optionally act, optionally
// add a rule, then move on to the next message.
type Session struct {
	service     *core.TriageService
	mail        ports.MailClient
	prompter    Prompter
	render      *Renderer
	logger      *zap.Logger
	maxMessages int

	// UIDs that failed triage during this run and were left unread
	passed map[uint32]bool
}

var _ ports.TriageRunner = (*Session)(nil)

// NewSession creates a new interactive session
func NewSession(
	service *core.TriageService,
	mail ports.MailClient,
	prompter Prompter,
	render *Renderer,
	logger *zap.Logger,
	maxMessages int,
) *Session {
	return &Session{
		service:     service,
		mail:        mail,
		prompter:    prompter,
		render:      render,
		logger:      logger,
		maxMessages: maxMessages,
	}
}

// Run processes the selected account until the inbox has no unread email or
// the user stops
func (s *Session) Run(ctx context.Context) error {
	s.render.Banner("Process Emails")

	account, err := s.selectAccount()
	if err != nil {
		return err
	}
	s.render.Line("Processing %s", account)
	s.passed = make(map[uint32]bool)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		refs, err := s.mail.ListMessages(ctx, account, s.maxMessages)
		if err != nil {
			return fmt.Errorf("failed to list messages: %w", err)
		}
		if len(refs) == 0 {
			s.render.Notice("No unread emails found in %s", account)
			return nil
		}

		ref, ok := s.nextMessage(refs)
		if !ok {
			s.render.Notice("No more unread emails to process in %s", account)
			return nil
		}

		keepGoing, err := s.processMessage(ctx, account, ref)
		if err != nil {
			return err
		}
		if !keepGoing {
			return nil
		}
	}
}

// nextMessage returns the newest message not already passed over in this run
func (s *Session) nextMessage(refs []ports.MessageRef) (ports.MessageRef, bool) {
	for _, ref := range refs {
		if !s.passed[ref.UID] {
			return ref, true
		}
	}
	return ports.MessageRef{}, false
}

func (s *Session) selectAccount() (string, error) {
	accounts := s.mail.Accounts()
	switch len(accounts) {
	case 0:
		return "", ErrNoAccounts
	case 1:
		return accounts[0], nil
	}

	s.render.Line("Found %d email accounts", len(accounts))
	return s.prompter.Select("Which account would you like to process?", accounts)
}

// processMessage handles one message and reports whether to continue.
// Model failures are shown and only end the current message, which stays
// unread on the server.
func (s *Session) processMessage(ctx context.Context, account string, ref ports.MessageRef) (bool, error) {
	email, err := s.mail.FetchMessage(ctx, account, ref)
	if err != nil {
		return false, fmt.Errorf("failed to fetch message %d: %w", ref.UID, err)
	}

	rules, hints, err := s.service.CountEntries(ctx, account)
	if err != nil {
		return false, err
	}
	s.render.Line("Processing email from %s with %d classifications and %d rules", email.From, hints, rules)

	if s.service.IsTrusted(email) {
		s.render.Notice("Sender domain is trusted, skipping")
		s.markSeen(ctx, account, ref)
		return s.prompter.Confirm("Continue to top email?", true)
	}

	var classification core.EmailClassification
	err = s.prompter.Spin(ctx, "Asking the model to classify...", func(ctx context.Context) error {
		var err error
		classification, err = s.service.Classify(ctx, account, email)
		return err
	})
	if err != nil {
		return s.reportFailure(ref, err)
	}
	s.render.Classification(classification)

	if err := s.offerEntry(ctx, "Do you want to add a classification to improve this in future?",
		"Enter a new classification", func(ctx context.Context, value string) error {
			return s.service.AddClassification(ctx, account, value)
		}); err != nil {
		return false, err
	}

	var action core.EmailAction
	err = s.prompter.Spin(ctx, "Asking the model to determine action...", func(ctx context.Context) error {
		var err error
		action, err = s.service.Recommend(ctx, account, classification)
		return err
	})
	if err != nil {
		return s.reportFailure(ref, err)
	}
	s.render.Action(action)
	s.markSeen(ctx, account, ref)

	if action.Action != core.ActionManual {
		complete, err := s.prompter.Confirm("Do you want to complete the action?", false)
		if err != nil {
			return false, err
		}
		if complete {
			if err := s.mail.Execute(ctx, account, ref, action); err != nil {
				s.logger.Error("Failed to execute action", zap.Error(err), zap.Uint32("uid", ref.UID))
				s.render.Error(err)
			} else {
				s.render.Line("Done: %s", action.Recommendation)
			}
		}
	}

	if err := s.offerEntry(ctx, "Do you want to add a new rule?", "Enter a new rule",
		func(ctx context.Context, value string) error {
			return s.service.AddRule(ctx, account, value)
		}); err != nil {
		return false, err
	}

	return s.prompter.Confirm("Continue to top email?", true)
}

// offerEntry asks whether to add a rule or hint and stores a non-blank answer
func (s *Session) offerEntry(ctx context.Context, question, prompt string, add func(context.Context, string) error) error {
	wanted, err := s.prompter.Confirm(question, false)
	if err != nil || !wanted {
		return err
	}

	value, err := s.prompter.Input(prompt)
	if err != nil {
		return err
	}
	if strings.TrimSpace(value) == "" {
		return nil
	}

	if err := add(ctx, value); err != nil {
		s.render.Error(err)
	}
	return nil
}

// markSeen records that the user has dealt with a message. A message that
// cannot be marked is passed over for the rest of the run.
func (s *Session) markSeen(ctx context.Context, account string, ref ports.MessageRef) {
	if err := s.mail.MarkSeen(ctx, account, ref); err != nil {
		s.logger.Warn("Failed to mark message as seen", zap.Error(err), zap.Uint32("uid", ref.UID))
		s.render.Error(err)
		s.passed[ref.UID] = true
	}
}

func (s *Session) reportFailure(ref ports.MessageRef, err error) (bool, error) {
	s.passed[ref.UID] = true
	s.logger.Error("Triage failed", zap.Error(err), zap.Uint32("uid", ref.UID))
	s.render.Error(err)
	return s.prompter.Confirm("Continue to top email?", true)
}

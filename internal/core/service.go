package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mikey/llm-mail-triage/internal/whitelist"
	"go.uber.org/zap"
)

// TriageService is the core service for email triage. It loads an account's
// rules and hints and hands them to the negotiator, one step at a time.
type TriageService struct {
	negotiator      *ResponseNegotiator
	rules           RuleStore
	classifications ClassificationStore
	trusted         *whitelist.Checker
	logger          *zap.Logger
}

// NewTriageService creates a new triage service
func NewTriageService(
	negotiator *ResponseNegotiator,
	rules RuleStore,
	classifications ClassificationStore,
	trusted *whitelist.Checker,
	logger *zap.Logger,
) *TriageService {
	return &TriageService{
		negotiator:      negotiator,
		rules:           rules,
		classifications: classifications,
		trusted:         trusted,
		logger:          logger,
	}
}

// IsTrusted reports whether the sender's domain is trusted and should not be triaged
func (s *TriageService) IsTrusted(email *Email) bool {
	return s.trusted != nil && s.trusted.IsWhitelisted(email.From)
}

// Classify classifies an email using the account's classification hints
func (s *TriageService) Classify(ctx context.Context, accountID string, email *Email) (EmailClassification, error) {
	hints, err := s.classifications.GetAllClassifications(ctx, accountID)
	if err != nil {
		return EmailClassification{}, fmt.Errorf("failed to load classifications: %w", err)
	}

	return s.negotiator.ClassifyEmail(ctx, email.From, email.Subject, email.Body, hints)
}

// Recommend recommends an action for a classified email using the account's rules
func (s *TriageService) Recommend(ctx context.Context, accountID string, classification EmailClassification) (EmailAction, error) {
	rules, err := s.rules.GetAllRules(ctx, accountID)
	if err != nil {
		return EmailAction{}, fmt.Errorf("failed to load rules: %w", err)
	}

	return s.negotiator.RecommendAction(ctx, classification, rules)
}

// Triage classifies an email and then recommends an action for it.
// Emails from trusted domains are skipped without calling the model.
func (s *TriageService) Triage(ctx context.Context, accountID string, email *Email) (*TriageResult, error) {
	start := time.Now()
	result := &TriageResult{
		ID:          uuid.NewString(),
		Email:       email,
		ProcessedAt: start,
	}
	logger := s.logger.With(zap.String("triage_id", result.ID), zap.String("account", accountID))

	if s.IsTrusted(email) {
		logger.Info("Skipping triage for trusted domain", zap.String("sender", email.From))
		result.Skipped = true
		result.SkipReason = "Sender domain is trusted"
		result.Action = EmailAction{Recommendation: "Sender domain is trusted", Action: ActionManual}
		return result, nil
	}

	classification, err := s.Classify(ctx, accountID, email)
	if err != nil {
		logger.Error("Classification failed", zap.Error(err))
		return nil, err
	}
	result.Classification = classification

	action, err := s.Recommend(ctx, accountID, classification)
	if err != nil {
		logger.Error("Recommendation failed", zap.Error(err))
		return nil, err
	}
	result.Action = action
	result.Duration = time.Since(start)

	logger.Info("Email triaged",
		zap.String("likely_type", classification.LikelyTypeOfEmail),
		zap.Stringer("action", action.Action),
		zap.String("folder", action.FolderName),
		zap.Duration("duration", result.Duration))

	return result, nil
}

// AddRule stores a new rule for the account
func (s *TriageService) AddRule(ctx context.Context, accountID, rule string) error {
	return s.rules.AddRule(ctx, rule, accountID)
}

// AddClassification stores a new classification hint for the account
func (s *TriageService) AddClassification(ctx context.Context, accountID, classification string) error {
	return s.classifications.AddClassification(ctx, classification, accountID)
}

// CountEntries returns how many rules and classification hints an account has
func (s *TriageService) CountEntries(ctx context.Context, accountID string) (rules int, hints int, err error) {
	r, err := s.rules.GetAllRules(ctx, accountID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load rules: %w", err)
	}
	h, err := s.classifications.GetAllClassifications(ctx, accountID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load classifications: %w", err)
	}
	return len(r), len(h), nil
}

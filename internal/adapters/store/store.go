package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mikey/llm-mail-triage/internal/core"
	"go.uber.org/zap"
)

// Collection names the list an entry belongs to
type Collection string

const (
	CollectionRules           Collection = "rules"
	CollectionClassifications Collection = "classifications"
)

// MaxEntryLength is the longest rule or hint accepted, in characters
const MaxEntryLength = 500

var (
	// ErrInvalidEntry is returned for blank, multi-line or oversized entries
	ErrInvalidEntry = errors.New("invalid entry")
	// ErrInvalidAccount is returned for an account id a backend cannot store
	ErrInvalidAccount = errors.New("invalid account id")
)

// Backend persists per-account lists of free-text entries.
// Add is idempotent and Remove deletes every matching entry.
type Backend interface {
	List(ctx context.Context, accountID string, collection Collection) ([]string, error)
	Add(ctx context.Context, accountID string, collection Collection, value string) error
	Remove(ctx context.Context, accountID string, collection Collection, value string) error
	Close() error
}

// entryStore validates entries and de-duplicates reads for one collection
type entryStore struct {
	backend    Backend
	collection Collection
	logger     *zap.Logger
}

func (s *entryStore) list(ctx context.Context, accountID string) ([]string, error) {
	if accountID == "" {
		return nil, ErrInvalidAccount
	}
	values, err := s.backend.List(ctx, accountID, s.collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.collection, err)
	}
	return dedupe(values), nil
}

func (s *entryStore) add(ctx context.Context, accountID, value string) error {
	if accountID == "" {
		return ErrInvalidAccount
	}
	value, err := normalizeEntry(value)
	if err != nil {
		return err
	}
	if err := s.backend.Add(ctx, accountID, s.collection, value); err != nil {
		return fmt.Errorf("failed to add to %s: %w", s.collection, err)
	}
	s.logger.Debug("Entry added",
		zap.String("account", accountID),
		zap.String("collection", string(s.collection)))
	return nil
}

func (s *entryStore) remove(ctx context.Context, accountID, value string) error {
	if accountID == "" {
		return ErrInvalidAccount
	}
	value, err := normalizeEntry(value)
	if err != nil {
		return err
	}
	if err := s.backend.Remove(ctx, accountID, s.collection, value); err != nil {
		return fmt.Errorf("failed to remove from %s: %w", s.collection, err)
	}
	s.logger.Debug("Entry removed",
		zap.String("account", accountID),
		zap.String("collection", string(s.collection)))
	return nil
}

// RuleStore implements core.RuleStore on a Backend
type RuleStore struct {
	entries entryStore
}

var _ core.RuleStore = (*RuleStore)(nil)

// NewRuleStore creates a rule store
func NewRuleStore(backend Backend, logger *zap.Logger) *RuleStore {
	return &RuleStore{entries: entryStore{backend: backend, collection: CollectionRules, logger: logger}}
}

// GetAllRules returns the account's rules in insertion order
func (s *RuleStore) GetAllRules(ctx context.Context, accountID string) ([]string, error) {
	return s.entries.list(ctx, accountID)
}

// AddRule stores a rule; adding an existing rule does nothing
func (s *RuleStore) AddRule(ctx context.Context, rule string, accountID string) error {
	return s.entries.add(ctx, accountID, rule)
}

// RemoveRule removes a rule
func (s *RuleStore) RemoveRule(ctx context.Context, rule string, accountID string) error {
	return s.entries.remove(ctx, accountID, rule)
}

// ClassificationStore implements core.ClassificationStore on a Backend
type ClassificationStore struct {
	entries entryStore
}

var _ core.ClassificationStore = (*ClassificationStore)(nil)

// NewClassificationStore creates a classification hint store
func NewClassificationStore(backend Backend, logger *zap.Logger) *ClassificationStore {
	return &ClassificationStore{entries: entryStore{backend: backend, collection: CollectionClassifications, logger: logger}}
}

// GetAllClassifications returns the account's hints in insertion order
func (s *ClassificationStore) GetAllClassifications(ctx context.Context, accountID string) ([]string, error) {
	return s.entries.list(ctx, accountID)
}

// AddClassification stores a hint; adding an existing hint does nothing
func (s *ClassificationStore) AddClassification(ctx context.Context, classification string, accountID string) error {
	return s.entries.add(ctx, accountID, classification)
}

// RemoveClassification removes a hint
func (s *ClassificationStore) RemoveClassification(ctx context.Context, classification string, accountID string) error {
	return s.entries.remove(ctx, accountID, classification)
}

// normalizeEntry trims surrounding space and rejects values that cannot be
// stored as a single line
func normalizeEntry(value string) (string, error) {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return "", fmt.Errorf("%w: entry is blank", ErrInvalidEntry)
	case strings.ContainsAny(value, "\r\n"):
		return "", fmt.Errorf("%w: entry spans multiple lines", ErrInvalidEntry)
	case utf8.RuneCountInString(value) > MaxEntryLength:
		return "", fmt.Errorf("%w: entry is longer than %d characters", ErrInvalidEntry, MaxEntryLength)
	}
	return value, nil
}

// dedupe keeps the first occurrence of each value
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

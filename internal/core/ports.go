package core

import (
	"context"
)

// Generation is the text produced by a language model for one prompt
type Generation struct {
	// Text is the model output, expected to hold a JSON document
	Text string
	// Raw is the provider response body, kept for diagnostics
	Raw   string
	Model string
}

// TextGenerator submits a prompt to a language model that was asked for JSON output.
// Implementations return *TransportError or *EnvelopeDecodeError on failure.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (*Generation, error)
}

// RuleStore holds the free-text action rules for each account
type RuleStore interface {
	GetAllRules(ctx context.Context, accountID string) ([]string, error)
	AddRule(ctx context.Context, rule string, accountID string) error
	RemoveRule(ctx context.Context, rule string, accountID string) error
}

// ClassificationStore holds the classification hints for each account
type ClassificationStore interface {
	GetAllClassifications(ctx context.Context, accountID string) ([]string, error)
	AddClassification(ctx context.Context, classification string, accountID string) error
	RemoveClassification(ctx context.Context, classification string, accountID string) error
}

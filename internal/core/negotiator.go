package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mikey/llm-mail-triage/internal/utils"
	"go.uber.org/zap"
)

var (
	errNullPayload   = errors.New("response decoded to null")
	errMissingType   = errors.New("likelyTypeOfEmail is missing")
	errMissingAction = errors.New("action is missing")
	errUnknownAction = errors.New("action is not a known action code")
)

// actionResponse is the wire shape of a recommended action
type actionResponse struct {
	Recommendation string      `json:"recommendation"`
	Action         *ActionType `json:"action"`
	FolderName     string      `json:"folderName"`
}

// folderRepairResponse is the wire shape of a repaired folder choice
type folderRepairResponse struct {
	Recommendation string `json:"recommendation"`
	FolderName     string `json:"folderName"`
}

// ResponseNegotiator asks a language model to classify emails and recommend
// actions, and validates what comes back
type ResponseNegotiator struct {
	generator      TextGenerator
	textProcessor  *utils.TextProcessor
	logger         *zap.Logger
	requestTimeout time.Duration
}

// NewResponseNegotiator creates a new response negotiator.
// A requestTimeout of zero leaves model calls unbounded.
func NewResponseNegotiator(
	generator TextGenerator,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
	requestTimeout time.Duration,
) *ResponseNegotiator {
	return &ResponseNegotiator{
		generator:      generator,
		textProcessor:  textProcessor,
		logger:         logger,
		requestTimeout: requestTimeout,
	}
}

// ClassifyEmail asks the model to classify an email. There is no retry: a
// response that cannot be decoded is returned as an error.
func (n *ResponseNegotiator) ClassifyEmail(
	ctx context.Context,
	fromAddress string,
	subject string,
	bodyText string,
	classificationHints []string,
) (EmailClassification, error) {
	body := n.textProcessor.ProcessText(bodyText, MaxBodyChars)
	prompt := buildClassifyPrompt(fromAddress, subject, body, classificationHints)

	n.logger.Debug("Requesting classification",
		zap.String("from", fromAddress),
		zap.Int("hints", len(classificationHints)),
		zap.Int("prompt_size", len(prompt)))

	gen, err := n.generate(ctx, prompt)
	if err != nil {
		return EmailClassification{}, fmt.Errorf("failed to classify email: %w", err)
	}

	classification, err := decodePayload[EmailClassification](gen)
	if err != nil {
		return EmailClassification{}, fmt.Errorf("failed to classify email: %w", err)
	}
	if classification.LikelyTypeOfEmail == "" {
		return EmailClassification{}, fmt.Errorf("failed to classify email: %w",
			&PayloadDecodeError{Raw: gen.Raw, Payload: gen.Text, Err: errMissingType})
	}

	return *classification, nil
}

// RecommendAction asks the model which action the rules call for. A move to a
// folder that no rule references is repaired with exactly one further call.
func (n *ResponseNegotiator) RecommendAction(
	ctx context.Context,
	classification EmailClassification,
	rules []string,
) (EmailAction, error) {
	if len(rules) == 0 {
		rules = []string{DefaultRule}
	}

	label := classificationLabel(classification)
	prompt := buildActionPrompt(label, classification.MainTopics, rules)

	n.logger.Debug("Requesting action",
		zap.String("classification", label),
		zap.Int("rules", len(rules)))

	action, err := n.requestAction(ctx, prompt)
	if err != nil {
		return EmailAction{}, fmt.Errorf("failed to recommend action: %w", err)
	}

	if action.Action != ActionMoveToFolder {
		return action, nil
	}

	if strings.TrimSpace(action.FolderName) == "" {
		return EmailAction{}, fmt.Errorf("failed to recommend action: %w", ErrMissingFolderName)
	}

	folders := ParseFolderSet(rules)
	if folders.Contains(action.FolderName) {
		return action, nil
	}

	n.logger.Warn("Recommended folder is not referenced by any rule, asking again",
		zap.String("folder", action.FolderName),
		zap.Strings("valid_folders", folders.Names()))

	repairPrompt := buildFolderRepairPrompt(label, classification.MainTopics, action.FolderName, rules)
	gen, err := n.generate(ctx, repairPrompt)
	if err != nil {
		return EmailAction{}, fmt.Errorf("failed to repair folder name: %w", err)
	}
	repair, err := decodePayload[folderRepairResponse](gen)
	if err != nil {
		return EmailAction{}, fmt.Errorf("failed to repair folder name: %w", err)
	}

	repaired := action.WithFolder(repair.Recommendation, repair.FolderName)
	if !folders.Contains(repaired.FolderName) {
		return EmailAction{}, fmt.Errorf("failed to repair folder name: %w", &InvalidFolderError{
			Original: action.FolderName,
			Repaired: repaired.FolderName,
		})
	}

	n.logger.Info("Folder name repaired",
		zap.String("original", action.FolderName),
		zap.String("repaired", repaired.FolderName))

	return repaired, nil
}

// requestAction submits an action prompt and validates the action code
func (n *ResponseNegotiator) requestAction(ctx context.Context, prompt string) (EmailAction, error) {
	gen, err := n.generate(ctx, prompt)
	if err != nil {
		return EmailAction{}, err
	}

	resp, err := decodePayload[actionResponse](gen)
	if err != nil {
		return EmailAction{}, err
	}
	if resp.Action == nil {
		return EmailAction{}, &PayloadDecodeError{Raw: gen.Raw, Payload: gen.Text, Err: errMissingAction}
	}
	if !resp.Action.Valid() {
		return EmailAction{}, &PayloadDecodeError{
			Raw:     gen.Raw,
			Payload: gen.Text,
			Err:     fmt.Errorf("%w: %d", errUnknownAction, int(*resp.Action)),
		}
	}

	return EmailAction{
		Recommendation: resp.Recommendation,
		Action:         *resp.Action,
		FolderName:     resp.FolderName,
	}, nil
}

// generate calls the model, bounded by the request timeout when one is set
func (n *ResponseNegotiator) generate(ctx context.Context, prompt string) (*Generation, error) {
	if n.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.requestTimeout)
		defer cancel()
	}

	start := time.Now()
	gen, err := n.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	n.logger.Debug("Model responded",
		zap.String("model", gen.Model),
		zap.Duration("duration", time.Since(start)),
		zap.Int("response_size", len(gen.Text)))

	return gen, nil
}

// decodePayload decodes the model's JSON output into T. Unknown fields are
// ignored; a null document is an error.
func decodePayload[T any](gen *Generation) (*T, error) {
	var out *T
	if err := json.Unmarshal([]byte(gen.Text), &out); err != nil {
		return nil, &PayloadDecodeError{Raw: gen.Raw, Payload: gen.Text, Err: err}
	}
	if out == nil {
		return nil, &PayloadDecodeError{Raw: gen.Raw, Payload: gen.Text, Err: errNullPayload}
	}
	return out, nil
}

package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/llm-mail-triage/internal/core"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const providerName = "gemini"

// GeminiClient is an implementation of the TextGenerator interface using Google Gemini
type GeminiClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	logger    *zap.Logger
}

// NewGeminiClient creates a new Gemini client that asks for JSON output
func NewGeminiClient(
	ctx context.Context,
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
	opts ...option.ClientOption,
) (*GeminiClient, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.ResponseMIMEType = "application/json"

	return &GeminiClient{
		client:    client,
		model:     model,
		modelName: modelName,
		logger:    logger,
	}, nil
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Generate submits the prompt and joins the text parts of the first candidate
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (*core.Generation, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return nil, &core.EnvelopeDecodeError{Raw: blocked.Error(), Err: err}
		}
		return nil, &core.TransportError{Provider: providerName, Err: fmt.Errorf("failed to generate content: %w", err)}
	}

	raw, _ := json.Marshal(resp)
	text := candidateText(resp)
	if text == "" {
		return nil, &core.EnvelopeDecodeError{Raw: string(raw), Err: errors.New("empty response from Gemini")}
	}

	if resp.UsageMetadata != nil {
		c.logger.Debug("Gemini content generated",
			zap.Int32("total_tokens", resp.UsageMetadata.TotalTokenCount))
	}

	return &core.Generation{
		Text:  text,
		Raw:   string(raw),
		Model: c.modelName,
	}, nil
}

// candidateText concatenates the text parts of the first candidate
func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mikey/llm-mail-triage/internal/core"
	"go.uber.org/zap"
)

const providerName = "ollama"

const generatePath = "/api/generate"

var (
	errNullEnvelope    = errors.New("response envelope decoded to null")
	errMissingResponse = errors.New("response envelope has no response field")
)

// generateRequest is the body posted to the generate endpoint
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Format string `json:"format"`
	Stream bool   `json:"stream"`
}

// generateResponse is the envelope returned by the generate endpoint. The
// model's own JSON output is embedded as a string in Response.
type generateResponse struct {
	Model              string    `json:"model"`
	CreatedAt          time.Time `json:"created_at"`
	Response           *string   `json:"response"`
	Done               bool      `json:"done"`
	TotalDuration      int64     `json:"total_duration"`
	LoadDuration       int64     `json:"load_duration"`
	PromptEvalCount    int64     `json:"prompt_eval_count"`
	PromptEvalDuration int64     `json:"prompt_eval_duration"`
	EvalCount          int       `json:"eval_count"`
	EvalDuration       int64     `json:"eval_duration"`
	Error              string    `json:"error,omitempty"`
}

// OllamaClient is an implementation of the TextGenerator interface using a
// local Ollama server
type OllamaClient struct {
	baseURL string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// NewOllamaClient creates a new Ollama client. A nil httpClient uses a client
// without a timeout; bounding requests is left to the caller's context.
func NewOllamaClient(baseURL, model string, httpClient *http.Client, logger *zap.Logger) *OllamaClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &OllamaClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  httpClient,
		logger:  logger,
	}
}

// Generate posts a non-streaming JSON-format generation request and returns
// the embedded response string
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (*core.Generation, error) {
	bodyBytes, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Format: "json",
		Stream: false,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &core.TransportError{Provider: providerName, Err: fmt.Errorf("calling Ollama API: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &core.TransportError{Provider: providerName, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}
	raw := string(respBody)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr generateResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return nil, &core.TransportError{Provider: providerName, StatusCode: resp.StatusCode, Raw: apiErr.Error}
		}
		return nil, &core.TransportError{Provider: providerName, StatusCode: resp.StatusCode, Raw: raw}
	}

	envelope, err := decodeEnvelope(respBody)
	if err != nil {
		return nil, &core.EnvelopeDecodeError{Raw: raw, Err: err}
	}
	if envelope.Error != "" {
		return nil, &core.TransportError{Provider: providerName, StatusCode: resp.StatusCode, Raw: envelope.Error}
	}

	c.logger.Debug("Ollama generation complete",
		zap.String("model", envelope.Model),
		zap.Int("eval_count", envelope.EvalCount),
		zap.Duration("total_duration", time.Duration(envelope.TotalDuration)))

	return &core.Generation{
		Text:  *envelope.Response,
		Raw:   raw,
		Model: envelope.Model,
	}, nil
}

// decodeEnvelope decodes the outer response. A null document or a missing
// response field is an error.
func decodeEnvelope(body []byte) (*generateResponse, error) {
	var envelope *generateResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	if envelope == nil {
		return nil, errNullEnvelope
	}
	if envelope.Response == nil && envelope.Error == "" {
		return nil, errMissingResponse
	}
	return envelope, nil
}

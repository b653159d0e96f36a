package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/mikey/llm-mail-triage/internal/core"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const providerName = "openai"

const systemPrompt = "You are an email triage assistant. Respond only with JSON."

// OpenAIClient is an implementation of the TextGenerator interface using the
// OpenAI chat completions API or any server that speaks it
type OpenAIClient struct {
	client      *openai.Client
	modelName   string
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewOpenAIClient creates a new OpenAI client. An empty baseURL uses the public API.
func NewOpenAIClient(
	apiKey string,
	baseURL string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *OpenAIClient {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	clientConfig.HTTPClient = &http.Client{Transport: &bodyRecorder{next: http.DefaultTransport}}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(clientConfig),
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}
}

// Generate submits the prompt and returns the content of the first choice
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (*core.Generation, error) {
	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	body := &bytes.Buffer{}
	resp, err := c.client.CreateChatCompletion(context.WithValue(ctx, rawBodyKey{}, body), req)
	if err != nil {
		return nil, classifyError(err, body.String())
	}

	raw, _ := json.Marshal(resp)
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, &core.EnvelopeDecodeError{Raw: string(raw), Err: errors.New("empty response from OpenAI")}
	}

	c.logger.Debug("Chat completion received",
		zap.String("id", resp.ID),
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
		zap.Int("total_tokens", resp.Usage.TotalTokens))

	return &core.Generation{
		Text:  resp.Choices[0].Message.Content,
		Raw:   string(raw),
		Model: resp.Model,
	}, nil
}

// classifyError separates an unreadable response body from a failed request
func classifyError(err error, raw string) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &core.TransportError{Provider: providerName, StatusCode: apiErr.HTTPStatusCode, Raw: apiErr.Message, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &core.TransportError{Provider: providerName, StatusCode: reqErr.HTTPStatusCode, Raw: reqErr.HTTPStatus, Err: err}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &core.EnvelopeDecodeError{Raw: raw, Err: err}
	}

	return &core.TransportError{Provider: providerName, Err: fmt.Errorf("failed to create chat completion: %w", err)}
}

type rawBodyKey struct{}

// bodyRecorder copies each response body into the buffer carried by the
// request context, so a body the client cannot decode is still reported.
type bodyRecorder struct {
	next http.RoundTripper
}

func (r *bodyRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := r.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	buf, ok := req.Context().Value(rawBodyKey{}).(*bytes.Buffer)
	if !ok {
		return resp, nil
	}

	data, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	buf.Reset()
	buf.Write(data)
	resp.Body = io.NopCloser(bytes.NewReader(data))
	return resp, nil
}

package openai

import (
	"github.com/mikey/llm-mail-triage/internal/config"
	"github.com/mikey/llm-mail-triage/internal/core"
	"go.uber.org/zap"
)

// Factory creates new instances of OpenAIClient
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for OpenAIClient instances
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateTextGenerator creates a new OpenAIClient
func (f *Factory) CreateTextGenerator() (core.TextGenerator, error) {
	openaiCfg := f.cfg.GetOpenAI()

	f.logger.Info("Using OpenAI compatible provider",
		zap.String("model", openaiCfg.ModelName),
		zap.String("base_url", openaiCfg.BaseURL))

	return NewOpenAIClient(
		openaiCfg.APIKey,
		openaiCfg.BaseURL,
		openaiCfg.ModelName,
		openaiCfg.MaxTokens,
		openaiCfg.Temperature,
		openaiCfg.TopP,
		f.logger,
	), nil
}

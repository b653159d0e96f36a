package ollama

import (
	"github.com/mikey/llm-mail-triage/internal/config"
	"github.com/mikey/llm-mail-triage/internal/core"
	"go.uber.org/zap"
)

// Factory creates new instances of OllamaClient
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for OllamaClient instances
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateTextGenerator creates a new OllamaClient
func (f *Factory) CreateTextGenerator() (core.TextGenerator, error) {
	ollamaCfg := f.cfg.GetOllama()

	f.logger.Info("Using Ollama provider",
		zap.String("model", ollamaCfg.Model),
		zap.String("base_url", ollamaCfg.BaseURL))

	return NewOllamaClient(ollamaCfg.BaseURL, ollamaCfg.Model, nil, f.logger), nil
}

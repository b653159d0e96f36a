package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/mikey/llm-mail-triage/internal/adapters/bedrock"
	"github.com/mikey/llm-mail-triage/internal/adapters/gemini"
	"github.com/mikey/llm-mail-triage/internal/adapters/ollama"
	"github.com/mikey/llm-mail-triage/internal/adapters/openai"
	"github.com/mikey/llm-mail-triage/internal/config"
	"github.com/mikey/llm-mail-triage/internal/core"
	"go.uber.org/zap"
)

// LLMFactory creates text generators
type LLMFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger) *LLMFactory {
	return &LLMFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateTextGenerator creates a text generator for the configured provider
func (f *LLMFactory) CreateTextGenerator(ctx context.Context) (core.TextGenerator, error) {
	llmConfig, err := f.cfg.GetLLM()
	if err != nil {
		return nil, err
	}

	switch llmConfig.Provider {
	case "ollama", "":
		return ollama.NewFactory(f.cfg, f.logger).CreateTextGenerator()
	case "openai":
		return openai.NewFactory(f.cfg, f.logger).CreateTextGenerator()
	case "gemini":
		return gemini.NewFactory(f.cfg, f.logger).CreateTextGenerator(ctx)
	case "bedrock":
		return bedrock.NewFactory(f.cfg, f.logger).CreateTextGenerator(ctx)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmConfig.Provider)
	}
}

// RequestTimeout returns the per-call timeout for model requests; zero means none
func (f *LLMFactory) RequestTimeout() time.Duration {
	llmConfig, err := f.cfg.GetLLM()
	if err != nil {
		return 0
	}
	return llmConfig.RequestTimeout
}

package di

import (
	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/config"
	"github.com/mikey/llm-mail-triage/internal/logging"
)

// Options contains the command line settings that shape the container
type Options struct {
	ConfigFile string
	Verbose    bool
	JSONLog    bool
	Accessible bool

	// Provider and Model override the configured LLM when set
	Provider string
	Model    string
}

// loadConfig reads the configuration and applies command line overrides
func loadConfig(opts Options) (*config.Config, error) {
	cfg, err := config.New(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	applyOptions(cfg, opts)
	return cfg, nil
}

// applyOptions copies command line overrides into the configuration
func applyOptions(cfg *config.Config, opts Options) {
	if opts.JSONLog {
		cfg.Set("logging.format", "json")
	}
	if opts.Provider != "" {
		cfg.Set("llm.provider", opts.Provider)
	}
	if opts.Model == "" {
		return
	}

	switch cfg.GetString("llm.provider") {
	case "ollama":
		cfg.Set("ollama.model", opts.Model)
	case "bedrock":
		cfg.Set("bedrock.model_id", opts.Model)
	case "gemini":
		cfg.Set("gemini.model_name", opts.Model)
	case "openai":
		cfg.Set("openai.model_name", opts.Model)
	}
}

// newLogger builds a debug console logger for --verbose, otherwise the
// configured one
func newLogger(opts Options, cfg *config.Config) (*zap.Logger, error) {
	if opts.Verbose {
		return logging.InitConsoleLogger(true, opts.JSONLog)
	}
	return logging.InitLogger(cfg)
}

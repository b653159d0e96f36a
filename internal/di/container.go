package di

import (
	"context"
	"io"
	"os"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/adapters/console"
	"github.com/mikey/llm-mail-triage/internal/adapters/store"
	"github.com/mikey/llm-mail-triage/internal/config"
	"github.com/mikey/llm-mail-triage/internal/core"
	"github.com/mikey/llm-mail-triage/internal/factory"
	"github.com/mikey/llm-mail-triage/internal/ports"
	"github.com/mikey/llm-mail-triage/internal/utils"
	"github.com/mikey/llm-mail-triage/internal/whitelist"
)

// BuildContainer creates and configures a dependency injection container.
// Providers are lazy, so commands only build what they invoke.
func BuildContainer(opts Options) (*dig.Container, error) {
	container := dig.New()

	// Register options
	if err := container.Provide(func() Options { return opts }); err != nil {
		return nil, err
	}

	// Register cleanup registry
	if err := container.Provide(func() *Cleanup { return &Cleanup{} }); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(loadConfig); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(newLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewMailFactory); err != nil {
		return nil, err
	}

	// Register text generator
	if err := container.Provide(func(f *factory.LLMFactory, cleanup *Cleanup) (core.TextGenerator, error) {
		generator, err := f.CreateTextGenerator(context.Background())
		if err != nil {
			return nil, err
		}
		if closer, ok := generator.(io.Closer); ok {
			cleanup.add("LLM client", closer.Close)
		}
		return generator, nil
	}); err != nil {
		return nil, err
	}

	// Register store backend and the rule and hint stores on top of it
	if err := container.Provide(func(f *factory.StoreFactory, cleanup *Cleanup) (store.Backend, error) {
		backend, err := f.CreateBackend(context.Background())
		if err != nil {
			return nil, err
		}
		cleanup.add("store", backend.Close)
		return backend, nil
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(b store.Backend, logger *zap.Logger) core.RuleStore {
		return store.NewRuleStore(b, logger)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(b store.Backend, logger *zap.Logger) core.ClassificationStore {
		return store.NewClassificationStore(b, logger)
	}); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return nil, err
	}

	// Register response negotiator
	if err := container.Provide(func(
		generator core.TextGenerator,
		textProcessor *utils.TextProcessor,
		logger *zap.Logger,
		f *factory.LLMFactory,
	) *core.ResponseNegotiator {
		return core.NewResponseNegotiator(generator, textProcessor, logger, f.RequestTimeout())
	}); err != nil {
		return nil, err
	}

	// Register trusted domains
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *whitelist.Checker {
		trusted := cfg.GetTriage().TrustedDomains
		if len(trusted) > 0 {
			logger.Info("Loaded trusted domains", zap.Strings("domains", trusted))
		}
		return whitelist.NewChecker(trusted, logger)
	}); err != nil {
		return nil, err
	}

	// Register triage service
	if err := container.Provide(core.NewTriageService); err != nil {
		return nil, err
	}

	// Register mail client
	if err := container.Provide(func(f *factory.MailFactory) (ports.MailClient, error) {
		return f.CreateMailClient()
	}); err != nil {
		return nil, err
	}

	// Register console
	if err := container.Provide(func(opts Options) console.Prompter {
		return console.NewHuhPrompter(opts.Accessible)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func() *console.Renderer {
		return console.NewRenderer(os.Stdout)
	}); err != nil {
		return nil, err
	}

	// Register triage runner
	if err := container.Provide(func(
		service *core.TriageService,
		mail ports.MailClient,
		prompter console.Prompter,
		render *console.Renderer,
		logger *zap.Logger,
		cfg *config.Config,
	) ports.TriageRunner {
		return console.NewSession(service, mail, prompter, render, logger, cfg.GetMaxMessages())
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// Cleanup collects the resources opened by providers so they can be released
// once a command finishes
type Cleanup struct {
	closers []namedCloser
}

type namedCloser struct {
	name  string
	close func() error
}

func (c *Cleanup) add(name string, close func() error) {
	c.closers = append(c.closers, namedCloser{name: name, close: close})
}

// Close releases resources in reverse order of creation
func (c *Cleanup) Close(logger *zap.Logger) {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].close(); err != nil {
			logger.Error("Failed to close resource", zap.String("resource", c.closers[i].name), zap.Error(err))
		}
	}
	c.closers = nil
}

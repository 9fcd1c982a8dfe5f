package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-summarizer/internal/config"
	"github.com/mikey/llm-email-summarizer/internal/core"
	"github.com/mikey/llm-email-summarizer/internal/factory"
	"github.com/mikey/llm-email-summarizer/internal/logging"
	"github.com/mikey/llm-email-summarizer/internal/metrics"
	"github.com/mikey/llm-email-summarizer/internal/ports"
)

// BuildContainer creates a container wired from the configuration file at
// path, or from the default locations when path is empty
func BuildContainer(path string) (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(func() (*config.Config, error) {
		return config.New(path)
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideSummarizer(container); err != nil {
		return nil, err
	}

	return container, nil
}

// provideSummarizer registers everything between the configuration and
// the summarizer. The container must already provide the config and logger.
func provideSummarizer(container *dig.Container) error {
	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) core.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return err
	}

	// Register completion transport
	if err := container.Provide(func(f *factory.LLMFactory) (core.CompletionTransport, error) {
		return f.CreateTransport()
	}); err != nil {
		return err
	}

	// Register summarizer service
	if err := container.Provide(func(
		transport core.CompletionTransport,
		textProcessor core.TextProcessor,
		cfg *config.Config,
		logger *zap.Logger,
	) (*core.SummarizerService, error) {
		summarizerCfg, err := cfg.GetSummarizer()
		if err != nil {
			return nil, err
		}
		return core.NewSummarizerService(transport, textProcessor, logger, core.SummarizerOptions{
			MaxBodySize:   summarizerCfg.MaxBodySize,
			CountTokens:   summarizerCfg.CountTokens,
			EnforceSchema: summarizerCfg.EnforceSchema,
			Timeout:       summarizerCfg.Timeout,
		}), nil
	}); err != nil {
		return err
	}

	// Register metrics
	if err := container.Provide(metrics.NewMetrics); err != nil {
		return err
	}

	// Register the summarizer port
	return container.Provide(func(s *core.SummarizerService, m *metrics.Metrics, cfg *config.Config) ports.EmailSummarizer {
		return metrics.NewInstrumentedSummarizer(s, m, cfg.GetLLM().Provider)
	})
}

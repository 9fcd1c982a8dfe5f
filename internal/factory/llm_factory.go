package factory

import (
	"fmt"

	"github.com/mikey/llm-email-summarizer/internal/adapters/bedrock"
	"github.com/mikey/llm-email-summarizer/internal/adapters/gemini"
	"github.com/mikey/llm-email-summarizer/internal/adapters/openai"
	"github.com/mikey/llm-email-summarizer/internal/config"
	"github.com/mikey/llm-email-summarizer/internal/core"
	"go.uber.org/zap"
)

// LLMFactory creates completion transports
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

// CreateTransport creates a completion transport for the configured provider
func (f *LLMFactory) CreateTransport() (core.CompletionTransport, error) {
	llmConfig := f.cfg.GetLLM()

	f.logger.Debug("Creating completion transport", zap.String("provider", llmConfig.Provider))

	switch llmConfig.Provider {
	case "openai":
		return openai.NewFactory(f.cfg, f.logger).CreateTransport()
	case "bedrock":
		return bedrock.NewFactory(f.cfg, f.logger).CreateTransport()
	case "gemini":
		return gemini.NewFactory(f.cfg, f.logger).CreateTransport()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmConfig.Provider)
	}
}

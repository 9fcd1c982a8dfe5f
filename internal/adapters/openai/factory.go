package openai

import (
	"fmt"

	"github.com/mikey/llm-email-summarizer/internal/config"
	"github.com/mikey/llm-email-summarizer/internal/core"
	"github.com/sashabaranov/go-openai"
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

// CreateTransport creates a new OpenAIClient
func (f *Factory) CreateTransport() (core.CompletionTransport, error) {
	openaiCfg := f.cfg.GetOpenAI()

	switch openaiCfg.CallMode {
	case CallModeFunction, CallModeTool:
	default:
		return nil, fmt.Errorf("unsupported OpenAI call mode: %s", openaiCfg.CallMode)
	}

	// A missing key is reported by the API on the first call
	if openaiCfg.APIKey == "" {
		f.logger.Warn("OpenAI API key is not set")
	}

	clientCfg := openai.DefaultConfig(openaiCfg.APIKey)
	if openaiCfg.BaseURL != "" {
		clientCfg.BaseURL = openaiCfg.BaseURL
	}

	return NewOpenAIClient(
		openai.NewClientWithConfig(clientCfg),
		openaiCfg.ModelName,
		openaiCfg.MaxTokens,
		openaiCfg.Temperature,
		openaiCfg.CallMode,
		f.logger,
	), nil
}

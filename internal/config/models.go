package config

import (
	"fmt"
	"time"
)

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider string
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	BaseURL     string
	MaxTokens   int
	Temperature float32
	// CallMode is "function" for the legacy functions API or "tool" for tools
	CallMode string
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
}

// SummarizerConfig represents the configuration of the summarizer service
type SummarizerConfig struct {
	MaxBodySize   int
	CountTokens   bool
	TokenModel    string
	EnforceSchema bool
	Timeout       time.Duration
}

// MetricsConfig represents the Prometheus Pushgateway settings
type MetricsConfig struct {
	// PushURL is the Pushgateway address; empty disables pushing
	PushURL string
	Job     string
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		BaseURL:     c.GetString("openai.base_url"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		CallMode:    c.GetString("openai.call_mode"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
	}
}

// GetSummarizer returns the summarizer configuration
func (c *Config) GetSummarizer() (SummarizerConfig, error) {
	timeout, err := c.GetDuration("summarizer.timeout")
	if err != nil {
		return SummarizerConfig{}, fmt.Errorf("invalid summarizer timeout: %w", err)
	}
	return SummarizerConfig{
		MaxBodySize:   c.GetInt("summarizer.max_body_size"),
		CountTokens:   c.GetBool("summarizer.count_tokens"),
		TokenModel:    c.GetString("summarizer.token_model"),
		EnforceSchema: c.GetBool("summarizer.enforce_schema"),
		Timeout:       timeout,
	}, nil
}

// GetMetrics returns the metrics configuration
func (c *Config) GetMetrics() MetricsConfig {
	return MetricsConfig{
		PushURL: c.GetString("metrics.push_url"),
		Job:     c.GetString("metrics.job"),
	}
}

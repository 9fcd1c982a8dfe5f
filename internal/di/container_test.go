package di

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/llm-email-summarizer/internal/adapters/cli"
	"github.com/mikey/llm-email-summarizer/internal/config"
	"github.com/mikey/llm-email-summarizer/internal/metrics"
	"github.com/mikey/llm-email-summarizer/internal/ports"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParseFlags(t *testing.T) {
	flags, err := ParseFlags("email-summarizer", []string{"-provider", "bedrock", "-max-tokens", "500", "-strict", "-file", "-"})
	require.NoError(t, err)

	assert.Equal(t, "bedrock", flags.Provider)
	assert.Equal(t, 500, flags.MaxTokens)
	assert.Equal(t, "-", flags.InputFile)
	assert.True(t, flags.Strict)
	assert.Equal(t, "function", flags.CallMode)
	assert.True(t, flags.IsSet("provider"))
	assert.False(t, flags.IsSet("temperature"))

	_, err = ParseFlags("email-summarizer", []string{"-no-such-flag"})
	assert.Error(t, err)
}

func TestApplyFlags(t *testing.T) {
	flags, err := ParseFlags("email-summarizer", []string{
		"-provider", "gemini", "-model", "gemini-1.5-pro", "-temperature", "0.4", "-strict",
	})
	require.NoError(t, err)

	cfg := config.NewFromViper(config.NewEmptyViper())
	applyFlags(cfg, flags)

	assert.Equal(t, "gemini", cfg.GetLLM().Provider)
	assert.Equal(t, "gemini-1.5-pro", cfg.GetGemini().ModelName)
	assert.InDelta(t, 0.4, cfg.GetGemini().Temperature, 1e-6)
	assert.Equal(t, 2000, cfg.GetGemini().MaxTokens)
	assert.Equal(t, "gpt-3.5-turbo", cfg.GetOpenAI().ModelName)

	summarizerCfg, err := cfg.GetSummarizer()
	require.NoError(t, err)
	assert.True(t, summarizerCfg.EnforceSchema)
}

func TestApplyFlagsKeepsConfig(t *testing.T) {
	flags, err := ParseFlags("email-summarizer", nil)
	require.NoError(t, err)

	cfg := config.NewFromViper(config.NewEmptyViper())
	cfg.Set("llm.provider", "bedrock")
	cfg.Set("bedrock.max_tokens", 123)
	applyFlags(cfg, flags)

	assert.Equal(t, "bedrock", cfg.GetLLM().Provider)
	assert.Equal(t, 123, cfg.GetBedrock().MaxTokens)
}

func TestBuildContainer(t *testing.T) {
	path := writeConfig(t, `
llm:
  provider: openai
openai:
  api_key: sk-test
  model_name: gpt-4o-mini
`)

	container, err := BuildContainer(path)
	require.NoError(t, err)

	err = container.Invoke(func(s ports.EmailSummarizer) {
		assert.IsType(t, &metrics.InstrumentedSummarizer{}, s)
	})
	assert.NoError(t, err)
}

func TestBuildContainerUnsupportedProvider(t *testing.T) {
	path := writeConfig(t, "llm:\n  provider: watson\n")

	container, err := BuildContainer(path)
	require.NoError(t, err)

	err = container.Invoke(func(s ports.EmailSummarizer) {})
	assert.ErrorContains(t, err, "unsupported LLM provider")
}

func TestBuildCLIContainer(t *testing.T) {
	path := writeConfig(t, "openai:\n  api_key: sk-test\n")
	flags, err := ParseFlags("email-summarizer", []string{"-config", path, "-call-mode", "tool"})
	require.NoError(t, err)

	var out bytes.Buffer
	container, err := BuildCLIContainer(flags, &out)
	require.NoError(t, err)

	err = container.Invoke(func(runner *cli.CliRunner, cfg *config.Config) {
		assert.NotNil(t, runner)
		assert.Equal(t, "tool", cfg.GetOpenAI().CallMode)
	})
	assert.NoError(t, err)
}

package di

import (
	"flag"
	"io"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-summarizer/internal/adapters/cli"
	"github.com/mikey/llm-email-summarizer/internal/config"
	"github.com/mikey/llm-email-summarizer/internal/logging"
	"github.com/mikey/llm-email-summarizer/internal/ports"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Input flags
	InputFile string
	Message   bool

	// LLM provider flags
	Provider    string
	Model       string
	MaxTokens   int
	Temperature float64
	CallMode    string

	ConfigFile string
	Verbose    bool
	JSONLog    bool
	Strict     bool

	// set records the flags given explicitly on the command line
	set map[string]bool
}

// ParseFlags parses command line arguments into a CLIFlags struct
func ParseFlags(name string, args []string) (*CLIFlags, error) {
	flags := &CLIFlags{set: map[string]bool{}}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	// Input flags
	fs.StringVar(&flags.InputFile, "file", "", "Input email file, - for stdin (built-in sample email if not specified)")
	fs.BoolVar(&flags.Message, "message", false, "Parse the input as an RFC 5322 message and summarize its text content")

	// LLM provider flags
	fs.StringVar(&flags.Provider, "provider", "openai", "LLM provider (openai, bedrock, gemini)")
	fs.StringVar(&flags.Model, "model", "", "Model name or ID for the selected provider")
	fs.IntVar(&flags.MaxTokens, "max-tokens", 2000, "Maximum tokens for LLM response")
	fs.Float64Var(&flags.Temperature, "temperature", 0, "Temperature for LLM generation")
	fs.StringVar(&flags.CallMode, "call-mode", "function", "OpenAI call mode (function, tool)")

	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	fs.BoolVar(&flags.Strict, "strict", false, "Reject summaries that break the tool schema")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		flags.set[f.Name] = true
	})

	return flags, nil
}

// IsSet reports whether the named flag was given on the command line
func (f *CLIFlags) IsSet(name string) bool {
	return f.set[name]
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags, out io.Writer) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		cfg, err := config.New(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		if used := cfg.GetViper().ConfigFileUsed(); used != "" {
			logger.Info("Loaded configuration from file", zap.String("file", used))
		}
		applyFlags(cfg, flags)
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	if err := provideSummarizer(container); err != nil {
		return nil, err
	}

	// Register CLI runner
	if err := container.Provide(func(s ports.EmailSummarizer, flags *CLIFlags, logger *zap.Logger) *cli.CliRunner {
		return cli.NewCliRunner(s, out, logger, flags.Verbose)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// applyFlags overrides the configuration with the flags given explicitly
func applyFlags(cfg *config.Config, flags *CLIFlags) {
	if flags.IsSet("provider") {
		cfg.Set("llm.provider", flags.Provider)
	}
	provider := cfg.GetString("llm.provider")

	modelKey := map[string]string{
		"openai":  "openai.model_name",
		"bedrock": "bedrock.model_id",
		"gemini":  "gemini.model_name",
	}[provider]
	if modelKey != "" && flags.IsSet("model") {
		cfg.Set(modelKey, flags.Model)
	}
	if flags.IsSet("max-tokens") {
		cfg.Set(provider+".max_tokens", flags.MaxTokens)
	}
	if flags.IsSet("temperature") {
		cfg.Set(provider+".temperature", flags.Temperature)
	}
	if flags.IsSet("call-mode") {
		cfg.Set("openai.call_mode", flags.CallMode)
	}
	if flags.Strict {
		cfg.Set("summarizer.enforce_schema", true)
	}
}

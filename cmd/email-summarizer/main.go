package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/llm-email-summarizer/internal/adapters/cli"
	"github.com/mikey/llm-email-summarizer/internal/config"
	"github.com/mikey/llm-email-summarizer/internal/core"
	"github.com/mikey/llm-email-summarizer/internal/di"
	"github.com/mikey/llm-email-summarizer/internal/metrics"
	"go.uber.org/dig"
	"go.uber.org/zap"
)

// errReported means the runner already printed the failure
var errReported = errors.New("email processing failed")

func main() {
	flags, err := di.ParseFlags(os.Args[0], os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	// Build the dependency injection container
	container, err := di.BuildCLIContainer(flags, os.Stdout)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Printf("Error: %v\nFailed to process the email.\n", dig.RootCause(err))
		}
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	flags *di.CLIFlags,
	runner *cli.CliRunner,
	transport core.CompletionTransport,
	cfg *config.Config,
	m *metrics.Metrics,
) error {
	defer logger.Sync()

	// Close any resources that need closing
	defer func() {
		if closer, ok := transport.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				logger.Error("Failed to close LLM client", zap.Error(err))
			}
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	content, err := cli.ReadInput(flags.InputFile, os.Stdin, flags.Message)
	if err != nil {
		logger.Error("Failed to read input", zap.Error(err))
		return err
	}

	runErr := runner.Run(ctx, content)

	if metricsCfg := cfg.GetMetrics(); metricsCfg.PushURL != "" {
		if err := m.Push(context.Background(), metricsCfg.PushURL, metricsCfg.Job); err != nil {
			logger.Warn("Failed to push metrics", zap.Error(err))
		}
	}

	if runErr != nil {
		return errReported
	}
	return nil
}

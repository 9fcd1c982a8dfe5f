package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mikey/llm-email-summarizer/internal/core"
	"github.com/mikey/llm-email-summarizer/internal/ports"
	"go.uber.org/zap"
)

const (
	successLine = "Successfully processed the email."
	failureLine = "Failed to process the email."
)

// CliRunner summarizes one email and prints the outcome
type CliRunner struct {
	summarizer ports.EmailSummarizer
	out        io.Writer
	logger     *zap.Logger
	verbose    bool
}

// NewCliRunner creates a new CLI runner writing to out
func NewCliRunner(summarizer ports.EmailSummarizer, out io.Writer, logger *zap.Logger, verbose bool) *CliRunner {
	return &CliRunner{
		summarizer: summarizer,
		out:        out,
		logger:     logger,
		verbose:    verbose,
	}
}

// Run summarizes content and prints the raw and parsed response.
// Any failure is printed and reported through the returned error.
func (r *CliRunner) Run(ctx context.Context, content string) error {
	r.logger.Debug("Summarizing email", zap.Int("content_size", len(content)))

	startTime := time.Now()
	analysis, err := r.summarizer.Summarize(ctx, content)
	if err != nil {
		r.logger.Error("Failed to summarize email", zap.Error(err))
		r.printFailure(err)
		return err
	}

	pretty, err := json.MarshalIndent(analysis.Result, "", "  ")
	if err != nil {
		r.printFailure(err)
		return err
	}

	fmt.Fprintln(r.out, "Raw function response:")
	fmt.Fprintln(r.out, analysis.RawArguments)
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Parsed JSON response:")
	fmt.Fprintln(r.out, string(pretty))
	if r.verbose {
		fmt.Fprintf(r.out, "Model used: %s\n", analysis.ModelUsed)
		fmt.Fprintf(r.out, "Processing time: %v\n", time.Since(startTime))
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, successLine)

	return nil
}

func (r *CliRunner) printFailure(err error) {
	fmt.Fprintf(r.out, "Error: %v\n", err)

	if errors.Is(err, core.ErrMalformedArguments) {
		if raw, ok := core.RawArguments(err); ok {
			fmt.Fprintln(r.out, "Raw function response:")
			fmt.Fprintln(r.out, raw)
		}
	}
	if errors.Is(err, core.ErrSchemaViolation) {
		for _, v := range core.Violations(err) {
			fmt.Fprintf(r.out, "  - %s\n", v)
		}
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, failureLine)
}

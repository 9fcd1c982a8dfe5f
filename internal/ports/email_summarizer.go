package ports

import (
	"context"

	"github.com/mikey/llm-email-summarizer/internal/core"
)

// EmailSummarizer defines the interface for summarizing a single email
type EmailSummarizer interface {
	// Summarize sends the email content to the model and returns the parsed summary
	Summarize(ctx context.Context, content string) (*core.SummaryAnalysis, error)
}

package metrics

import (
	"context"
	"time"

	"github.com/mikey/llm-email-summarizer/internal/core"
	"github.com/mikey/llm-email-summarizer/internal/ports"
)

// InstrumentedSummarizer records metrics around another EmailSummarizer
type InstrumentedSummarizer struct {
	next     ports.EmailSummarizer
	metrics  *Metrics
	provider string
}

// NewInstrumentedSummarizer wraps next, labelling its metrics with provider
func NewInstrumentedSummarizer(next ports.EmailSummarizer, metrics *Metrics, provider string) *InstrumentedSummarizer {
	return &InstrumentedSummarizer{
		next:     next,
		metrics:  metrics,
		provider: provider,
	}
}

// Summarize delegates to the wrapped summarizer
func (s *InstrumentedSummarizer) Summarize(ctx context.Context, content string) (*core.SummaryAnalysis, error) {
	start := time.Now()
	analysis, err := s.next.Summarize(ctx, content)
	s.metrics.RecordSummary(s.provider, analysis, err, time.Since(start))
	return analysis, err
}

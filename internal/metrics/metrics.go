package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/mikey/llm-email-summarizer/internal/core"
)

// Outcome labels
const (
	OutcomeSuccess            = "success"
	OutcomeAuth               = "auth"
	OutcomeToolMismatch       = "tool_mismatch"
	OutcomeMalformedArguments = "malformed_arguments"
	OutcomeSchemaViolation    = "schema_violation"
	OutcomeTransport          = "transport"
	OutcomeError              = "error"
)

// Metrics holds the summarizer collectors and the registry they live in
type Metrics struct {
	registry *prometheus.Registry

	summaries       *prometheus.CounterVec
	summaryDuration *prometheus.HistogramVec
	levelOfConcern  *prometheus.HistogramVec
}

// NewMetrics creates the collectors on a fresh registry
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.summaries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "email_summarizer_summaries_total",
		Help: "Number of summarization attempts by provider and outcome",
	}, []string{"provider", "outcome"})

	m.summaryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "email_summarizer_summary_duration_seconds",
		Help:    "Duration of summarization round trips",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~51s
	}, []string{"provider"})

	m.levelOfConcern = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "email_summarizer_level_of_concern",
		Help:    "Level of concern reported in successful summaries",
		Buckets: prometheus.LinearBuckets(1, 1, 10),
	}, []string{"provider"})

	m.registry.MustRegister(m.summaries, m.summaryDuration, m.levelOfConcern)
	return m
}

// Registry returns the registry holding the collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordSummary records one summarization attempt
func (m *Metrics) RecordSummary(provider string, analysis *core.SummaryAnalysis, err error, duration time.Duration) {
	outcome := Outcome(err)
	m.summaries.WithLabelValues(provider, outcome).Inc()
	m.summaryDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if err == nil && analysis != nil && analysis.Result != nil {
		m.levelOfConcern.WithLabelValues(provider).Observe(float64(analysis.Result.LevelOfConcern))
	}
}

// Outcome maps a summarization error onto its outcome label
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, core.ErrAuth):
		return OutcomeAuth
	case errors.Is(err, core.ErrToolMismatch):
		return OutcomeToolMismatch
	case errors.Is(err, core.ErrMalformedArguments):
		return OutcomeMalformedArguments
	case errors.Is(err, core.ErrSchemaViolation):
		return OutcomeSchemaViolation
	case errors.Is(err, core.ErrTransport):
		return OutcomeTransport
	default:
		return OutcomeError
	}
}

// Push sends the collected metrics to a Prometheus Pushgateway
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-summarizer/internal/core"
)

type stubSummarizer struct {
	analysis *core.SummaryAnalysis
	err      error
	content  string
}

func (s *stubSummarizer) Summarize(_ context.Context, content string) (*core.SummaryAnalysis, error) {
	s.content = content
	return s.analysis, s.err
}

const rawArguments = `{"summary":"Unhappy with the new interface","escalate_complaint":true,"level_of_concern":7,"overall_sentiment":"Negative","supporting_business_unit":"Customer Service","customer_names":["John Smith"],"sentiment_towards_employees":[{"employee_name":"Sarah","sentiment":"Positive"}]}`

func sampleAnalysis(t *testing.T) *core.SummaryAnalysis {
	t.Helper()
	var result core.SummaryResult
	require.NoError(t, json.Unmarshal([]byte(rawArguments), &result))
	return &core.SummaryAnalysis{
		Result:       &result,
		RawArguments: rawArguments,
		ModelUsed:    "gpt-3.5-turbo",
	}
}

func TestRunSuccess(t *testing.T) {
	stub := &stubSummarizer{analysis: sampleAnalysis(t)}
	var out bytes.Buffer

	err := NewCliRunner(stub, &out, zap.NewNop(), false).Run(context.Background(), "email text")
	require.NoError(t, err)
	assert.Equal(t, "email text", stub.content)

	got := out.String()
	assert.Contains(t, got, "Raw function response:\n"+rawArguments+"\n")
	assert.Contains(t, got, rawArguments+"\n\nParsed JSON response:\n{\n  \"summary\": \"Unhappy with the new interface\",")
	assert.Contains(t, got, "\"level_of_concern\": 7")
	assert.NotContains(t, got, "Model used:")
	assert.True(t, bytes.HasSuffix(out.Bytes(), []byte("}\n\n"+successLine+"\n")))
}

func TestRunVerbose(t *testing.T) {
	stub := &stubSummarizer{analysis: sampleAnalysis(t)}
	var out bytes.Buffer

	require.NoError(t, NewCliRunner(stub, &out, zap.NewNop(), true).Run(context.Background(), "email"))
	assert.Contains(t, out.String(), "Model used: gpt-3.5-turbo\n")
	assert.Contains(t, out.String(), "Processing time: ")
}

func TestRunFailures(t *testing.T) {
	violation := core.CheckConformance(&core.SummaryResult{
		Summary:                   "x",
		LevelOfConcern:            11,
		OverallSentiment:          core.SentimentNegative,
		SupportingBusinessUnit:    core.BusinessUnitSales,
		CustomerNames:             []string{},
		SentimentTowardsEmployees: []core.EmployeeSentiment{},
	})
	require.Error(t, violation)

	cases := []struct {
		name     string
		err      error
		contains []string
		absent   []string
	}{
		{
			name:     "tool mismatch",
			err:      core.NewError("summarize", core.ErrToolMismatch, errors.New("missing expected tool call")),
			contains: []string{"Error: summarize: missing expected tool call"},
			absent:   []string{"Raw function response:"},
		},
		{
			name: "malformed arguments",
			err: &core.SummaryError{
				Op:   "summarize",
				Kind: core.ErrMalformedArguments,
				Raw:  `{"summary": "cut of`,
				Err:  errors.New("unexpected end of JSON input"),
			},
			contains: []string{"Raw function response:\n{\"summary\": \"cut of\n"},
		},
		{
			name:     "schema violation",
			err:      violation,
			contains: []string{"  - ", "LevelOfConcern"},
		},
		{
			name:     "transport",
			err:      core.NewError("openai", core.ErrTransport, errors.New("connection refused")),
			contains: []string{"connection refused"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			runner := NewCliRunner(&stubSummarizer{err: tc.err}, &out, zap.NewNop(), false)

			err := runner.Run(context.Background(), "email")
			assert.ErrorIs(t, err, tc.err)

			got := out.String()
			for _, s := range tc.contains {
				assert.Contains(t, got, s)
			}
			for _, s := range tc.absent {
				assert.NotContains(t, got, s)
			}
			assert.NotContains(t, got, successLine)
			assert.True(t, bytes.HasSuffix(out.Bytes(), []byte("\n\n"+failureLine+"\n")))
		})
	}
}

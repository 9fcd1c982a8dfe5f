package core_test

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-summarizer/internal/core"
)

const sampleArguments = `{"summary":"Customer unhappy with new interface and balance discrepancy","escalate_complaint":true,"level_of_concern":7,"overall_sentiment":"Negative","supporting_business_unit":"Customer Service","customer_names":["John Smith"],"sentiment_towards_employees":[{"employee_name":"Sarah","sentiment":"Positive"}]}`

type stubTransport struct {
	call *core.ToolCall
	err  error

	mu       sync.Mutex
	calls    int
	tool     core.ToolSpec
	messages []core.Message
}

func (s *stubTransport) CallTool(_ context.Context, tool core.ToolSpec, messages []core.Message) (*core.ToolCall, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.tool = tool
	s.messages = messages
	if s.err != nil {
		return nil, s.err
	}
	if s.call == nil {
		return nil, nil
	}
	c := *s.call
	return &c, nil
}

func newService(t *testing.T, transport core.CompletionTransport, opts core.SummarizerOptions) *core.SummarizerService {
	t.Helper()
	return core.NewSummarizerService(transport, nil, zap.NewNop(), opts)
}

func TestSummarizeSampleEmail(t *testing.T) {
	transport := &stubTransport{call: &core.ToolCall{
		Name:       core.SummarizeEmailToolName,
		Arguments:  sampleArguments,
		Model:      "gpt-3.5-turbo",
		ResponseID: "chatcmpl-1",
	}}
	svc := newService(t, transport, core.SummarizerOptions{})

	analysis, err := svc.Summarize(context.Background(), core.SampleEmail)
	require.NoError(t, err)
	require.NotNil(t, analysis)

	expected := &core.SummaryResult{
		Summary:                "Customer unhappy with new interface and balance discrepancy",
		EscalateComplaint:      true,
		LevelOfConcern:         7,
		OverallSentiment:       core.SentimentNegative,
		SupportingBusinessUnit: core.BusinessUnitCustomerService,
		CustomerNames:          []string{"John Smith"},
		SentimentTowardsEmployees: []core.EmployeeSentiment{
			{EmployeeName: "Sarah", Sentiment: core.SentimentPositive},
		},
	}
	assert.Equal(t, expected, analysis.Result)
	assert.Equal(t, sampleArguments, analysis.RawArguments)
	assert.Equal(t, "gpt-3.5-turbo", analysis.ModelUsed)
	assert.Equal(t, "chatcmpl-1", analysis.ResponseID)
	assert.NotEmpty(t, analysis.ID)
	assert.False(t, analysis.AnalyzedAt.IsZero())

	require.Len(t, transport.messages, 2)
	assert.Equal(t, core.RoleUser, transport.messages[0].Role)
	assert.Equal(t, "<content>"+core.SampleEmail+"</content>", transport.messages[0].Content)
	assert.Equal(t, core.RoleSystem, transport.messages[1].Role)
	assert.Contains(t, transport.messages[1].Content, "summarize_email tool")
	assert.Equal(t, core.SummarizeEmailToolName, transport.tool.Name)
}

func TestSummarizeResultKeysMatchSchema(t *testing.T) {
	transport := &stubTransport{call: &core.ToolCall{Name: core.SummarizeEmailToolName, Arguments: sampleArguments}}
	svc := newService(t, transport, core.SummarizerOptions{})

	analysis, err := svc.Summarize(context.Background(), "any email")
	require.NoError(t, err)

	b, err := json.Marshal(analysis.Result)
	require.NoError(t, err)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &fields))

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	required := append([]string(nil), core.SummarizeEmailTool().InputSchema.Required...)
	sort.Strings(required)
	assert.Equal(t, required, keys)
}

func TestSummarizeFailures(t *testing.T) {
	quotedConcern := strings.Replace(sampleArguments, `"level_of_concern":7`, `"level_of_concern":"7"`, 1)
	fractionalConcern := strings.Replace(sampleArguments, `"level_of_concern":7`, `"level_of_concern":7.5`, 1)

	cases := []struct {
		name     string
		call     *core.ToolCall
		err      error
		kind     error
		wantRaw  string
		rawFound bool
	}{
		{
			name: "wrong tool name",
			call: &core.ToolCall{Name: "classify_email", Arguments: sampleArguments},
			kind: core.ErrToolMismatch,
		},
		{
			name: "no tool call",
			kind: core.ErrToolMismatch,
		},
		{
			name:     "truncated arguments",
			call:     &core.ToolCall{Name: core.SummarizeEmailToolName, Arguments: sampleArguments[:40]},
			kind:     core.ErrMalformedArguments,
			wantRaw:  sampleArguments[:40],
			rawFound: true,
		},
		{
			name:     "level of concern as string",
			call:     &core.ToolCall{Name: core.SummarizeEmailToolName, Arguments: quotedConcern},
			kind:     core.ErrMalformedArguments,
			wantRaw:  quotedConcern,
			rawFound: true,
		},
		{
			name:     "fractional level of concern",
			call:     &core.ToolCall{Name: core.SummarizeEmailToolName, Arguments: fractionalConcern},
			kind:     core.ErrMalformedArguments,
			wantRaw:  fractionalConcern,
			rawFound: true,
		},
		{
			name: "plain transport error",
			err:  errors.New("connection reset by peer"),
			kind: core.ErrTransport,
		},
		{
			name: "auth error passes through",
			err:  core.NewError("openai", core.ErrAuth, errors.New("401")),
			kind: core.ErrAuth,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newService(t, &stubTransport{call: tc.call, err: tc.err}, core.SummarizerOptions{})

			var analysis *core.SummaryAnalysis
			var err error
			require.NotPanics(t, func() {
				analysis, err = svc.Summarize(context.Background(), core.SampleEmail)
			})
			assert.Nil(t, analysis)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.kind)

			raw, ok := core.RawArguments(err)
			assert.Equal(t, tc.rawFound, ok)
			assert.Equal(t, tc.wantRaw, raw)
		})
	}
}

func TestSummarizeIsDeterministicUnderStub(t *testing.T) {
	transport := &stubTransport{call: &core.ToolCall{Name: core.SummarizeEmailToolName, Arguments: sampleArguments}}
	svc := newService(t, transport, core.SummarizerOptions{})

	first, err := svc.Summarize(context.Background(), core.SampleEmail)
	require.NoError(t, err)
	second, err := svc.Summarize(context.Background(), core.SampleEmail)
	require.NoError(t, err)

	assert.Equal(t, first.Result, second.Result)
	assert.Equal(t, 2, transport.calls)
}

func TestSummarizeConcurrentCallsAreIndependent(t *testing.T) {
	transport := &stubTransport{call: &core.ToolCall{Name: core.SummarizeEmailToolName, Arguments: sampleArguments}}
	svc := newService(t, transport, core.SummarizerOptions{})

	const n = 16
	results := make([]*core.SummaryAnalysis, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Summarize(context.Background(), core.SampleEmail)
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0].Result, results[i].Result)
	}
	// Results must not share backing arrays.
	results[0].Result.CustomerNames[0] = "changed"
	assert.Equal(t, "John Smith", results[1].Result.CustomerNames[0])
}

func TestSummarizeEnforceSchema(t *testing.T) {
	badArgs := strings.Replace(sampleArguments, `"level_of_concern":7`, `"level_of_concern":12`, 1)
	transport := &stubTransport{call: &core.ToolCall{Name: core.SummarizeEmailToolName, Arguments: badArgs}}

	lenient := newService(t, transport, core.SummarizerOptions{})
	analysis, err := lenient.Summarize(context.Background(), core.SampleEmail)
	require.NoError(t, err)
	assert.Equal(t, 12, analysis.Result.LevelOfConcern)

	strict := newService(t, transport, core.SummarizerOptions{EnforceSchema: true})
	_, err = strict.Summarize(context.Background(), core.SampleEmail)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrSchemaViolation)
	raw, ok := core.RawArguments(err)
	assert.True(t, ok)
	assert.Equal(t, badArgs, raw)
}

type recordingProcessor struct {
	maxSize int
	counted string
}

func (p *recordingProcessor) ProcessText(text string, maxSize int) string {
	p.maxSize = maxSize
	return text[:maxSize]
}

func (p *recordingProcessor) CountTokens(text string) (int, error) {
	p.counted = text
	return len(strings.Fields(text)), nil
}

func TestSummarizeAppliesTextProcessing(t *testing.T) {
	transport := &stubTransport{call: &core.ToolCall{Name: core.SummarizeEmailToolName, Arguments: sampleArguments}}
	proc := &recordingProcessor{}
	svc := core.NewSummarizerService(transport, proc, zap.NewNop(), core.SummarizerOptions{
		MaxBodySize: 5,
		CountTokens: true,
	})

	_, err := svc.Summarize(context.Background(), "Hello world")
	require.NoError(t, err)
	assert.Equal(t, 5, proc.maxSize)
	assert.Equal(t, "Hello", proc.counted)
	assert.Equal(t, "<content>Hello</content>", transport.messages[0].Content)
}

func TestSummarizeSkipsTextProcessingByDefault(t *testing.T) {
	transport := &stubTransport{call: &core.ToolCall{Name: core.SummarizeEmailToolName, Arguments: sampleArguments}}
	proc := &recordingProcessor{}
	svc := core.NewSummarizerService(transport, proc, zap.NewNop(), core.SummarizerOptions{})

	_, err := svc.Summarize(context.Background(), "Hello world")
	require.NoError(t, err)
	assert.Zero(t, proc.maxSize)
	assert.Empty(t, proc.counted)
	assert.Equal(t, "<content>Hello world</content>", transport.messages[0].Content)
}

package core_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/llm-email-summarizer/internal/core"
)

func TestSummarizeEmailTool(t *testing.T) {
	tool := core.SummarizeEmailTool()
	assert.Equal(t, "summarize_email", tool.Name)
	assert.Equal(t, "Summarize email content.", tool.Description)

	s := tool.InputSchema
	require.NotNil(t, s)
	assert.Equal(t, "object", s.Type)
	assert.ElementsMatch(t, []string{
		"summary",
		"escalate_complaint",
		"level_of_concern",
		"overall_sentiment",
		"supporting_business_unit",
		"customer_names",
		"sentiment_towards_employees",
	}, s.Required)
	assert.Len(t, s.Properties, len(s.Required))

	concern := s.Properties["level_of_concern"]
	assert.Equal(t, "integer", concern.Type)
	require.NotNil(t, concern.Minimum)
	require.NotNil(t, concern.Maximum)
	assert.Equal(t, 1, *concern.Minimum)
	assert.Equal(t, 10, *concern.Maximum)

	assert.Equal(t, []string{"Positive", "Neutral", "Negative"}, s.Properties["overall_sentiment"].Enum)
	assert.Equal(t, []string{"Sales", "Operations", "Customer Service", "Fund Management"},
		s.Properties["supporting_business_unit"].Enum)
	assert.Equal(t, "string", s.Properties["customer_names"].Items.Type)

	employees := s.Properties["sentiment_towards_employees"]
	assert.Equal(t, "array", employees.Type)
	require.NotNil(t, employees.Items)
	assert.Equal(t, "object", employees.Items.Type)
	assert.Empty(t, employees.Items.Required)
	assert.Contains(t, employees.Items.Properties, "employee_name")
	assert.Equal(t, []string{"Positive", "Neutral", "Negative"}, employees.Items.Properties["sentiment"].Enum)
}

func TestSummarizeEmailToolIsShared(t *testing.T) {
	a := core.SummarizeEmailTool()
	b := core.SummarizeEmailTool()
	assert.Same(t, a.InputSchema, b.InputSchema)
}

func TestSchemaToMap(t *testing.T) {
	m, err := core.SummarizeEmailTool().InputSchema.ToMap()
	require.NoError(t, err)

	assert.Equal(t, "object", m["type"])
	props, ok := m["properties"].(map[string]interface{})
	require.True(t, ok)
	concern, ok := props["level_of_concern"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), concern["minimum"])
	assert.Equal(t, float64(10), concern["maximum"])

	_, hasMin := props["summary"].(map[string]interface{})["minimum"]
	assert.False(t, hasMin)

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"required"`)
}

func TestSummaryErrorUnwrap(t *testing.T) {
	cause := errors.New("status 401")
	err := core.NewError("openai", core.ErrAuth, cause)

	assert.ErrorIs(t, err, core.ErrAuth)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, core.ErrTransport)
	assert.Equal(t, "openai: authentication failed: status 401", err.Error())

	bare := core.NewError("summarize", core.ErrToolMismatch, nil)
	assert.Equal(t, "summarize: missing expected tool call", bare.Error())
	assert.ErrorIs(t, bare, core.ErrToolMismatch)

	_, ok := core.RawArguments(err)
	assert.False(t, ok)
}

package core

import (
	"encoding/json"
	"fmt"
)

// SummarizeEmailToolName is the name of the single tool the model is forced to call
const SummarizeEmailToolName = "summarize_email"

// Schema is the subset of JSON Schema used to describe tool arguments
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Minimum     *int               `json:"minimum,omitempty"`
	Maximum     *int               `json:"maximum,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// ToolSpec describes a callable tool offered to the model
type ToolSpec struct {
	Name        string
	Description string
	InputSchema *Schema
}

// ToMap renders the schema as a generic JSON document
func (s *Schema) ToMap() (map[string]interface{}, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}
	return m, nil
}

var summarizeEmailTool = buildSummarizeEmailTool()

// SummarizeEmailTool returns the summarize_email tool specification.
// The returned value is shared and must not be modified.
func SummarizeEmailTool() ToolSpec {
	return summarizeEmailTool
}

func buildSummarizeEmailTool() ToolSpec {
	minConcern, maxConcern := 1, 10

	sentiments := make([]string, len(Sentiments))
	for i, s := range Sentiments {
		sentiments[i] = string(s)
	}
	units := make([]string, len(BusinessUnits))
	for i, u := range BusinessUnits {
		units[i] = string(u)
	}

	return ToolSpec{
		Name:        SummarizeEmailToolName,
		Description: "Summarize email content.",
		InputSchema: &Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"summary": {
					Type:        "string",
					Description: "A brief one-line or two-line summary of the email.",
				},
				"escalate_complaint": {
					Type:        "boolean",
					Description: "Indicates if this email is serious enough to be immediately escalated for further review.",
				},
				"level_of_concern": {
					Type:        "integer",
					Description: "Rate the level of concern for the above content on a scale from 1-10",
					Minimum:     &minConcern,
					Maximum:     &maxConcern,
				},
				"overall_sentiment": {
					Type:        "string",
					Description: "The sender's overall sentiment.",
					Enum:        sentiments,
				},
				"supporting_business_unit": {
					Type:        "string",
					Description: "The internal business unit that this email should be routed to.",
					Enum:        units,
				},
				"customer_names": {
					Type:        "array",
					Description: "An array of customer names mentioned in the email.",
					Items:       &Schema{Type: "string"},
				},
				// Employee entries have no required list.
				"sentiment_towards_employees": {
					Type: "array",
					Items: &Schema{
						Type: "object",
						Properties: map[string]*Schema{
							"employee_name": {
								Type:        "string",
								Description: "The employee's name.",
							},
							"sentiment": {
								Type:        "string",
								Description: "The sender's sentiment towards the employee.",
								Enum:        sentiments,
							},
						},
					},
				},
			},
			Required: []string{
				"summary",
				"escalate_complaint",
				"overall_sentiment",
				"supporting_business_unit",
				"level_of_concern",
				"customer_names",
				"sentiment_towards_employees",
			},
		},
	}
}

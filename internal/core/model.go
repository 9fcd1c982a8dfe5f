package core

import (
	"time"
)

// Sentiment is the sender's emotional tone
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
)

// BusinessUnit is the internal unit an email is routed to
type BusinessUnit string

const (
	BusinessUnitSales           BusinessUnit = "Sales"
	BusinessUnitOperations      BusinessUnit = "Operations"
	BusinessUnitCustomerService BusinessUnit = "Customer Service"
	BusinessUnitFundManagement  BusinessUnit = "Fund Management"
)

// Sentiments lists the allowed sentiment values in schema order
var Sentiments = []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative}

// BusinessUnits lists the allowed business units in schema order
var BusinessUnits = []BusinessUnit{
	BusinessUnitSales,
	BusinessUnitOperations,
	BusinessUnitCustomerService,
	BusinessUnitFundManagement,
}

// EmployeeSentiment is the sender's sentiment towards one employee
type EmployeeSentiment struct {
	EmployeeName string    `json:"employee_name,omitempty"`
	Sentiment    Sentiment `json:"sentiment,omitempty" validate:"omitempty,sentiment"`
}

// SummaryResult holds the arguments of a summarize_email tool call
type SummaryResult struct {
	Summary                   string              `json:"summary" validate:"required"`
	EscalateComplaint         bool                `json:"escalate_complaint"`
	LevelOfConcern            int                 `json:"level_of_concern" validate:"min=1,max=10"`
	OverallSentiment          Sentiment           `json:"overall_sentiment" validate:"required,sentiment"`
	SupportingBusinessUnit    BusinessUnit        `json:"supporting_business_unit" validate:"required,business_unit"`
	CustomerNames             []string            `json:"customer_names" validate:"required"`
	SentimentTowardsEmployees []EmployeeSentiment `json:"sentiment_towards_employees" validate:"required,dive"`
}

// SummaryAnalysis is a summary together with the call metadata
type SummaryAnalysis struct {
	// ID identifies this summarization in logs
	ID           string
	Result       *SummaryResult
	RawArguments string
	ModelUsed    string
	ResponseID   string
	AnalyzedAt   time.Time
}

// Message is a role-tagged prompt message
type Message struct {
	Role    string
	Content string
}

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ToolCall is the function call a transport extracted from a completion
type ToolCall struct {
	Name       string
	Arguments  string
	Model      string
	ResponseID string
}

package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const systemPrompt = "Please use the summarize_email tool to generate the email summary JSON based on the content within the <content> tags."

// SummarizerOptions tunes the summarizer service
type SummarizerOptions struct {
	// MaxBodySize truncates the email text before submission; 0 disables it
	MaxBodySize   int
	CountTokens   bool
	EnforceSchema bool
	// Timeout bounds a single call; 0 leaves the context untouched
	Timeout time.Duration
}

// SummarizerService is the core service for email summarization
type SummarizerService struct {
	transport     CompletionTransport
	textProcessor TextProcessor
	logger        *zap.Logger
	opts          SummarizerOptions
	tool          ToolSpec
}

// NewSummarizerService creates a new summarizer service
func NewSummarizerService(
	transport CompletionTransport,
	textProcessor TextProcessor,
	logger *zap.Logger,
	opts SummarizerOptions,
) *SummarizerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummarizerService{
		transport:     transport,
		textProcessor: textProcessor,
		logger:        logger,
		opts:          opts,
		tool:          SummarizeEmailTool(),
	}
}

// BuildMessages wraps the email text in the prompt sent to the model
func BuildMessages(emailText string) []Message {
	return []Message{
		{Role: RoleUser, Content: fmt.Sprintf("<content>%s</content>", emailText)},
		{Role: RoleSystem, Content: systemPrompt},
	}
}

// Summarize sends the email text to the model and parses the forced
// summarize_email call into a SummaryResult
func (s *SummarizerService) Summarize(ctx context.Context, emailText string) (*SummaryAnalysis, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	id := uuid.NewString()
	logger := s.logger.With(zap.String("summary_id", id))

	content := s.prepare(emailText, logger)

	call, err := s.transport.CallTool(ctx, s.tool, BuildMessages(content))
	if err != nil {
		var serr *SummaryError
		if !errors.As(err, &serr) {
			err = NewError("summarize", ErrTransport, err)
		}
		logger.Error("Tool call failed", zap.Error(err))
		return nil, err
	}

	if call == nil || call.Name != s.tool.Name {
		name := ""
		if call != nil {
			name = call.Name
		}
		err := NewError("summarize", ErrToolMismatch,
			fmt.Errorf("expected function call %q not found in the response (got %q)", s.tool.Name, name))
		logger.Error("Missing expected tool call", zap.String("got", name))
		return nil, err
	}

	var result SummaryResult
	if err := json.Unmarshal([]byte(call.Arguments), &result); err != nil {
		logger.Error("Error decoding JSON",
			zap.Error(err),
			zap.String("raw_arguments", call.Arguments))
		serr := NewError("summarize", ErrMalformedArguments, err)
		serr.Raw = call.Arguments
		return nil, serr
	}

	logger.Debug("Raw function response", zap.String("arguments", call.Arguments))
	if pretty, err := json.MarshalIndent(&result, "", "  "); err == nil {
		logger.Debug("Parsed JSON response", zap.ByteString("summary", pretty))
	}

	if s.opts.EnforceSchema {
		if err := CheckConformance(&result); err != nil {
			logger.Warn("Summary violates schema", zap.Strings("violations", Violations(err)))
			var serr *SummaryError
			if errors.As(err, &serr) {
				serr.Raw = call.Arguments
			}
			return nil, err
		}
	}

	return &SummaryAnalysis{
		ID:           id,
		Result:       &result,
		RawArguments: call.Arguments,
		ModelUsed:    call.Model,
		ResponseID:   call.ResponseID,
		AnalyzedAt:   time.Now(),
	}, nil
}

// prepare applies the optional truncation and token accounting
func (s *SummarizerService) prepare(emailText string, logger *zap.Logger) string {
	if s.textProcessor == nil {
		return emailText
	}
	content := emailText
	if s.opts.MaxBodySize > 0 {
		content = s.textProcessor.ProcessText(emailText, s.opts.MaxBodySize)
	}
	if s.opts.CountTokens {
		if n, err := s.textProcessor.CountTokens(content); err != nil {
			logger.Debug("Token count unavailable", zap.Error(err))
		} else {
			logger.Debug("Prompt token count", zap.Int("tokens", n))
		}
	}
	return content
}

package utils

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"
)

const truncationMarker = "\n[... Content truncated due to size limits ...]"

// TextProcessor provides utilities for processing text
type TextProcessor struct {
	logger     *zap.Logger
	tokenModel string

	encOnce sync.Once
	enc     *tiktoken.Tiktoken
	encErr  error
}

// NewTextProcessor creates a new TextProcessor. tokenModel selects the
// tiktoken encoding used by CountTokens.
func NewTextProcessor(logger *zap.Logger, tokenModel string) *TextProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextProcessor{
		logger:     logger,
		tokenModel: tokenModel,
	}
}

// TruncateText safely truncates text to the specified maximum size
// and ensures the result is valid UTF-8
func (tp *TextProcessor) TruncateText(text string, maxSize int) string {
	// If no limit or text is already within limits, return as is
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	truncated := text[:maxSize]

	// Drop a rune split by the byte limit
	for len(truncated) > 0 {
		r, size := utf8.DecodeLastRuneInString(truncated)
		if r != utf8.RuneError || size != 1 {
			break
		}
		truncated = truncated[:len(truncated)-1]
	}

	tp.logger.Debug("Text truncated",
		zap.Int("original_size", len(text)),
		zap.Int("truncated_size", len(truncated)),
		zap.Int("max_size", maxSize))

	return truncated + truncationMarker
}

// SanitizeUTF8 drops invalid UTF-8 sequences from text
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	sanitized := strings.ToValidUTF8(text, "")

	tp.logger.Debug("Text sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(sanitized)))

	return sanitized
}

// ProcessText truncates and sanitizes text in one operation
func (tp *TextProcessor) ProcessText(text string, maxSize int) string {
	return tp.SanitizeUTF8(tp.TruncateText(text, maxSize))
}

// CountTokens counts the tokens of text with the configured model's encoding.
// The encoding is loaded on first use.
func (tp *TextProcessor) CountTokens(text string) (int, error) {
	tp.encOnce.Do(func() {
		tp.enc, tp.encErr = tiktoken.EncodingForModel(tp.tokenModel)
		if tp.encErr != nil {
			tp.encErr = fmt.Errorf("failed to load encoding for %s: %w", tp.tokenModel, tp.encErr)
		}
	})
	if tp.encErr != nil {
		return 0, tp.encErr
	}
	return len(tp.enc.Encode(text, nil, nil)), nil
}

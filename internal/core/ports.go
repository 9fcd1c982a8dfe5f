package core

import (
	"context"
)

// CompletionTransport submits a forced tool call to a language model provider
type CompletionTransport interface {
	// CallTool sends the messages and forces a call of tool. A nil ToolCall
	// with a nil error means the response carried no tool call.
	CallTool(ctx context.Context, tool ToolSpec, messages []Message) (*ToolCall, error)
}

// TextProcessor prepares email text before it is sent to the provider
type TextProcessor interface {
	ProcessText(text string, maxSize int) string
	CountTokens(text string) (int, error)
}

package openai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/mikey/llm-email-summarizer/internal/core"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	// CallModeFunction uses the legacy functions/function_call request fields
	CallModeFunction = "function"
	// CallModeTool uses the tools/tool_choice request fields
	CallModeTool = "tool"
)

// OpenAIClient is an implementation of the CompletionTransport interface using OpenAI
type OpenAIClient struct {
	client      *openai.Client
	modelName   string
	maxTokens   int
	temperature float32
	callMode    string
	logger      *zap.Logger
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	callMode string,
	logger *zap.Logger,
) *OpenAIClient {
	if callMode == "" {
		callMode = CallModeFunction
	}
	return &OpenAIClient{
		client:      client,
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		callMode:    callMode,
		logger:      logger,
	}
}

// buildRequest creates the chat completion request forcing a call of tool
func (c *OpenAIClient) buildRequest(tool core.ToolSpec, messages []core.Message) openai.ChatCompletionRequest {
	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	// The SDK omits a zero temperature, which the API reads as 1
	temperature := c.temperature
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	req := openai.ChatCompletionRequest{
		Model:       c.modelName,
		Messages:    chatMessages,
		MaxTokens:   c.maxTokens,
		Temperature: temperature,
	}

	definition := openai.FunctionDefinition{
		Name:        tool.Name,
		Description: tool.Description,
		Parameters:  tool.InputSchema,
	}

	switch c.callMode {
	case CallModeTool:
		req.Tools = []openai.Tool{{Type: openai.ToolTypeFunction, Function: &definition}}
		req.ToolChoice = openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: tool.Name},
		}
	default:
		req.Functions = []openai.FunctionDefinition{definition}
		req.FunctionCall = openai.FunctionCall{Name: tool.Name}
	}

	return req
}

// CallTool sends the messages to OpenAI and returns the forced function call
func (c *OpenAIClient) CallTool(ctx context.Context, tool core.ToolSpec, messages []core.Message) (*core.ToolCall, error) {
	req := c.buildRequest(tool, messages)

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, classifyError(err)
	}

	if len(resp.Choices) == 0 {
		c.logger.Error("Empty response from OpenAI", zap.Any("response", resp))
		return nil, core.NewError("openai", core.ErrTransport, errors.New("empty response from OpenAI"))
	}

	message := resp.Choices[0].Message
	call := &core.ToolCall{Model: resp.Model, ResponseID: resp.ID}
	switch {
	case message.FunctionCall != nil:
		call.Name = message.FunctionCall.Name
		call.Arguments = message.FunctionCall.Arguments
	case len(message.ToolCalls) > 0:
		call.Name = message.ToolCalls[0].Function.Name
		call.Arguments = message.ToolCalls[0].Function.Arguments
	default:
		c.logger.Error("No function call in OpenAI response", zap.Any("response", resp))
		return nil, nil
	}

	if call.Model == "" {
		call.Model = c.modelName
	}
	return call, nil
}

// classifyError maps OpenAI SDK errors onto the summarizer error kinds
func classifyError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	kind := core.ErrTransport
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		kind = core.ErrAuth
	}
	return core.NewError("openai", kind, fmt.Errorf("failed to create chat completion with OpenAI: %w", err))
}

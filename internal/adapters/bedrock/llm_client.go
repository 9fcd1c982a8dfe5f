package bedrock

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/smithy-go"
	"github.com/mikey/llm-email-summarizer/internal/core"
	"go.uber.org/zap"
)

// ConverseAPI is the part of the Bedrock runtime client used by BedrockClient
type ConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockClient is an implementation of the CompletionTransport interface using Amazon Bedrock
type BedrockClient struct {
	client      ConverseAPI
	modelID     string
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

// NewBedrockClient creates a new Bedrock client
func NewBedrockClient(
	client ConverseAPI,
	modelID string,
	maxTokens int,
	temperature float32,
	logger *zap.Logger,
) *BedrockClient {
	return &BedrockClient{
		client:      client,
		modelID:     modelID,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

// buildInput creates the Converse request forcing a call of tool
func (c *BedrockClient) buildInput(tool core.ToolSpec, messages []core.Message) (*bedrockruntime.ConverseInput, error) {
	inputSchema, err := tool.InputSchema.ToMap()
	if err != nil {
		return nil, err
	}

	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(c.modelID),
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(int32(c.maxTokens)),
			Temperature: aws.Float32(c.temperature),
		},
		ToolConfig: &types.ToolConfiguration{
			Tools: []types.Tool{
				&types.ToolMemberToolSpec{
					Value: types.ToolSpecification{
						Name:        aws.String(tool.Name),
						Description: aws.String(tool.Description),
						InputSchema: &types.ToolInputSchemaMemberJson{
							Value: document.NewLazyDocument(inputSchema),
						},
					},
				},
			},
			ToolChoice: &types.ToolChoiceMemberTool{
				Value: types.SpecificToolChoice{Name: aws.String(tool.Name)},
			},
		},
	}

	// Converse takes system prompts separately from the conversation
	for _, m := range messages {
		switch m.Role {
		case core.RoleSystem:
			input.System = append(input.System, &types.SystemContentBlockMemberText{Value: m.Content})
		default:
			input.Messages = append(input.Messages, types.Message{
				Role:    types.ConversationRoleUser,
				Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: m.Content}},
			})
		}
	}

	return input, nil
}

// CallTool sends the messages to Bedrock and returns the forced tool use
func (c *BedrockClient) CallTool(ctx context.Context, tool core.ToolSpec, messages []core.Message) (*core.ToolCall, error) {
	input, err := c.buildInput(tool, messages)
	if err != nil {
		return nil, core.NewError("bedrock", core.ErrTransport, fmt.Errorf("failed to build Converse request: %w", err))
	}

	resp, err := c.client.Converse(ctx, input)
	if err != nil {
		return nil, classifyError(err)
	}

	msg, ok := resp.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		c.logger.Error("Unexpected Converse output", zap.Any("response", resp))
		return nil, core.NewError("bedrock", core.ErrTransport, fmt.Errorf("unexpected Converse output type %T", resp.Output))
	}

	for _, block := range msg.Value.Content {
		toolUse, ok := block.(*types.ContentBlockMemberToolUse)
		if !ok {
			continue
		}
		if toolUse.Value.Input == nil {
			return nil, core.NewError("bedrock", core.ErrTransport, errors.New("tool use without input"))
		}
		arguments, err := toolUse.Value.Input.MarshalSmithyDocument()
		if err != nil {
			return nil, core.NewError("bedrock", core.ErrTransport, fmt.Errorf("failed to marshal tool input: %w", err))
		}
		return &core.ToolCall{
			Name:       aws.ToString(toolUse.Value.Name),
			Arguments:  string(arguments),
			Model:      c.modelID,
			ResponseID: aws.ToString(toolUse.Value.ToolUseId),
		}, nil
	}

	c.logger.Error("No tool use in Bedrock response",
		zap.String("stop_reason", string(resp.StopReason)),
		zap.Any("response", resp))
	return nil, nil
}

// classifyError maps Bedrock errors onto the summarizer error kinds
func classifyError(err error) error {
	kind := core.ErrTransport

	var accessDenied *types.AccessDeniedException
	var apiErr smithy.APIError
	switch {
	case errors.As(err, &accessDenied):
		kind = core.ErrAuth
	case errors.As(err, &apiErr):
		switch apiErr.ErrorCode() {
		case "UnrecognizedClientException", "InvalidSignatureException", "ExpiredTokenException":
			kind = core.ErrAuth
		}
	}

	return core.NewError("bedrock", kind, fmt.Errorf("failed to invoke Bedrock model: %w", err))
}

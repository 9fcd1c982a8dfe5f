package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/llm-email-summarizer/internal/core"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
)

// generateRequest is everything a single GenerateContent call needs
type generateRequest struct {
	System     string
	Tool       *genai.Tool
	ToolConfig *genai.ToolConfig
	Parts      []genai.Part
}

type generateFunc func(ctx context.Context, req *generateRequest) (*genai.GenerateContentResponse, error)

// GeminiClient is an implementation of the CompletionTransport interface using Google Gemini
type GeminiClient struct {
	client      *genai.Client
	generate    generateFunc
	modelName   string
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(
	client *genai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	logger *zap.Logger,
) *GeminiClient {
	c := &GeminiClient{
		client:      client,
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
	c.generate = c.generateContent
	return c
}

// generateContent builds a model per call so concurrent calls share no state
func (c *GeminiClient) generateContent(ctx context.Context, req *generateRequest) (*genai.GenerateContentResponse, error) {
	model := c.client.GenerativeModel(c.modelName)
	model.SetTemperature(c.temperature)
	model.SetMaxOutputTokens(int32(c.maxTokens))
	model.Tools = []*genai.Tool{req.Tool}
	model.ToolConfig = req.ToolConfig
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	return model.GenerateContent(ctx, req.Parts...)
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// buildRequest converts the tool and messages into a forced function call request
func (c *GeminiClient) buildRequest(tool core.ToolSpec, messages []core.Message) *generateRequest {
	req := &generateRequest{
		Tool: &genai.Tool{
			FunctionDeclarations: []*genai.FunctionDeclaration{{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  convertSchema(tool.InputSchema),
			}},
		},
		ToolConfig: &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode:                 genai.FunctionCallingAny,
				AllowedFunctionNames: []string{tool.Name},
			},
		},
	}

	for _, m := range messages {
		if m.Role == core.RoleSystem {
			if req.System != "" {
				req.System += "\n"
			}
			req.System += m.Content
			continue
		}
		req.Parts = append(req.Parts, genai.Text(m.Content))
	}

	return req
}

// CallTool sends the messages to Gemini and returns the forced function call
func (c *GeminiClient) CallTool(ctx context.Context, tool core.ToolSpec, messages []core.Message) (*core.ToolCall, error) {
	resp, err := c.generate(ctx, c.buildRequest(tool, messages))
	if err != nil {
		return nil, classifyError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		c.logger.Error("Empty response from Gemini", zap.Any("response", resp))
		return nil, core.NewError("gemini", core.ErrTransport, errors.New("empty response from Gemini"))
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		var fc genai.FunctionCall
		switch p := part.(type) {
		case genai.FunctionCall:
			fc = p
		case *genai.FunctionCall:
			fc = *p
		default:
			continue
		}

		arguments, err := json.Marshal(fc.Args)
		if err != nil {
			return nil, core.NewError("gemini", core.ErrTransport, fmt.Errorf("failed to marshal function call args: %w", err))
		}
		return &core.ToolCall{
			Name:      fc.Name,
			Arguments: string(arguments),
			Model:     c.modelName,
		}, nil
	}

	c.logger.Error("No function call in Gemini response", zap.Any("response", resp))
	return nil, nil
}

// convertSchema translates the JSON schema into Gemini's schema type.
// Gemini has no numeric bounds, so minimum and maximum are dropped.
func convertSchema(s *core.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        schemaType(s.Type),
		Description: s.Description,
		Enum:        s.Enum,
		Items:       convertSchema(s.Items),
		Required:    s.Required,
	}
	if len(s.Enum) > 0 {
		out.Format = "enum"
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = convertSchema(prop)
		}
	}
	return out
}

func schemaType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}

// classifyError maps Gemini API errors onto the summarizer error kinds.
// Gemini rejects a bad key with 400 INVALID_ARGUMENT rather than 401.
func classifyError(err error) error {
	kind := core.ErrTransport
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			kind = core.ErrAuth
		case http.StatusBadRequest:
			if invalidAPIKey(gerr) {
				kind = core.ErrAuth
			}
		}
	}
	return core.NewError("gemini", kind, fmt.Errorf("failed to generate content with Gemini: %w", err))
}

const reasonInvalidKey = "API_KEY_INVALID"

func invalidAPIKey(gerr *googleapi.Error) bool {
	if strings.Contains(gerr.Message, reasonInvalidKey) || strings.Contains(gerr.Body, reasonInvalidKey) {
		return true
	}
	for _, item := range gerr.Errors {
		if item.Reason == reasonInvalidKey {
			return true
		}
	}
	for _, d := range gerr.Details {
		if strings.Contains(fmt.Sprint(d), reasonInvalidKey) {
			return true
		}
	}
	return false
}

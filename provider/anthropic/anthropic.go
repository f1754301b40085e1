// Package anthropic implements the engine.ChatProvider contract on the
// Anthropic Messages API.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/lazyeo/careermatch-ai-sub000/core"
	"github.com/lazyeo/careermatch-ai-sub000/engine"
)

// Config configures the provider.
type Config struct {
	// APIKey authenticates against the API. Required.
	APIKey string

	// MaxTokens caps response length per completion. Default: 4096.
	MaxTokens int64
}

// Provider drives the Anthropic Messages endpoint.
type Provider struct {
	client    anthropic.Client
	maxTokens int64
}

// New creates an Anthropic chat provider.
func New(cfg Config) *Provider {
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}
	return &Provider{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		maxTokens: maxTokens,
	}
}

// Complete sends the transcript and tool catalog and returns the model's
// next turn. The Messages API carries the system prompt out of band and
// folds tool results into user messages; both conversions happen here so
// the engine's neutral transcript stays provider-agnostic.
func (p *Provider) Complete(ctx context.Context, req *engine.CompletionRequest) (*core.Completion, error) {
	system, messages := convertMessages(req.Messages)

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   p.maxTokens,
		Messages:    messages,
		Temperature: anthropic.Float(req.Temperature),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if len(req.Tools) > 0 {
		params.Tools = convertTools(req.Tools)
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic messages: %w", err)
	}

	completion := &core.Completion{}
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			completion.Content += block.Text
		case "tool_use":
			completion.ToolCalls = append(completion.ToolCalls, core.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: json.RawMessage(block.Input),
			})
		}
	}
	return completion, nil
}

func convertMessages(messages []core.Message) (string, []anthropic.MessageParam) {
	var system string
	var out []anthropic.MessageParam

	for _, m := range messages {
		switch m.Role {
		case core.RoleSystem:
			system = m.Content
		case core.RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case core.RoleAssistant:
			var blocks []anthropic.ContentBlockParamUnion
			if m.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(m.Content))
			}
			for _, tc := range m.ToolCalls {
				blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, tc.Arguments, tc.Name))
			}
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		case core.RoleTool:
			out = append(out, anthropic.NewUserMessage(
				anthropic.NewToolResultBlock(m.ToolCallID, m.Content, false)))
		}
	}
	return system, out
}

func convertTools(descs []engine.ToolDescriptor) []anthropic.ToolUnionParam {
	tools := make([]anthropic.ToolUnionParam, 0, len(descs))
	for _, d := range descs {
		tool := anthropic.ToolParam{
			Name:        d.Name,
			Description: anthropic.String(d.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: d.InputSchema["properties"],
			},
		}
		if required, ok := d.InputSchema["required"].([]string); ok {
			tool.InputSchema.Required = required
		}
		tools = append(tools, anthropic.ToolUnionParam{OfTool: &tool})
	}
	return tools
}

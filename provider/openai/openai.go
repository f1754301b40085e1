// Package openai implements the engine.ChatProvider contract on the
// OpenAI chat completions API with tool calling. Any OpenAI-compatible
// endpoint works by overriding the base URL.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"

	"github.com/lazyeo/careermatch-ai-sub000/core"
	"github.com/lazyeo/careermatch-ai-sub000/engine"
)

// Config configures the provider.
type Config struct {
	// APIKey authenticates against the API. Required.
	APIKey string

	// BaseURL overrides the endpoint for OpenAI-compatible providers.
	BaseURL string

	// MaxTokens caps response length per completion. Default: 4096.
	MaxTokens int64
}

// Provider drives the OpenAI chat completions endpoint.
type Provider struct {
	client    openai.Client
	maxTokens int64
}

// New creates an OpenAI chat provider.
func New(cfg Config) *Provider {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}
	return &Provider{
		client:    openai.NewClient(opts...),
		maxTokens: maxTokens,
	}
}

// Complete sends the transcript and tool catalog and returns the model's
// next turn.
func (p *Provider) Complete(ctx context.Context, req *engine.CompletionRequest) (*core.Completion, error) {
	params := openai.ChatCompletionNewParams{
		Model:               req.Model,
		Messages:            convertMessages(req.Messages),
		MaxCompletionTokens: param.NewOpt(p.maxTokens),
		Temperature:         param.NewOpt(req.Temperature),
	}

	if len(req.Tools) > 0 {
		params.Tools = convertTools(req.Tools)
		params.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{
			OfAuto: param.NewOpt("auto"),
		}
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai chat: no choices")
	}

	msg := resp.Choices[0].Message
	completion := &core.Completion{Content: msg.Content}
	for _, tc := range msg.ToolCalls {
		completion.ToolCalls = append(completion.ToolCalls, core.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(tc.Function.Arguments),
		})
	}
	return completion, nil
}

func convertMessages(messages []core.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case core.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case core.RoleUser:
			out = append(out, openai.UserMessage(m.Content))
		case core.RoleAssistant:
			out = append(out, assistantMessage(m))
		case core.RoleTool:
			out = append(out, openai.ToolMessage(m.Content, m.ToolCallID))
		}
	}
	return out
}

func assistantMessage(m core.Message) openai.ChatCompletionMessageParamUnion {
	asst := openai.ChatCompletionAssistantMessageParam{}
	if m.Content != "" {
		asst.Content.OfString = param.NewOpt(m.Content)
	}
	for _, tc := range m.ToolCalls {
		asst.ToolCalls = append(asst.ToolCalls, openai.ChatCompletionMessageToolCallParam{
			ID: tc.ID,
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      tc.Name,
				Arguments: string(tc.Arguments),
			},
		})
	}
	return openai.ChatCompletionMessageParamUnion{OfAssistant: &asst}
}

func convertTools(descs []engine.ToolDescriptor) []openai.ChatCompletionToolParam {
	tools := make([]openai.ChatCompletionToolParam, 0, len(descs))
	for _, d := range descs {
		tools = append(tools, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        d.Name,
				Description: param.NewOpt(d.Description),
				Parameters:  openai.FunctionParameters(d.InputSchema),
			},
		})
	}
	return tools
}

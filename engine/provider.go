package engine

import (
	"context"

	"github.com/lazyeo/careermatch-ai-sub000/core"
)

// ChatProvider is the chat-completion boundary the engine drives. The
// engine depends only on this contract so fakes can replace the network
// client in tests; see the provider/openai and provider/anthropic
// implementations.
//
// Provider failures are fatal to the current chat call and are propagated
// to the caller unmodified. Retry and backoff policy belongs to the caller.
type ChatProvider interface {
	// Complete sends the transcript and tool catalog (tool-choice auto)
	// and returns the model's next turn.
	Complete(ctx context.Context, req *CompletionRequest) (*core.Completion, error)
}

// CompletionRequest is one model call.
type CompletionRequest struct {
	Messages    []core.Message
	Tools       []ToolDescriptor
	Model       string
	Temperature float64
}

// ToolDescriptor is the catalog entry fed to the model for one tool.
type ToolDescriptor struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
}

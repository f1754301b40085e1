package core

import "encoding/json"

// Role identifies the author of a transcript message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry in the conversation transcript. The engine keeps the
// transcript in this neutral form; each provider converts it to its own
// wire format.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// ToolCalls is set on assistant messages that request tool invocations.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID correlates a tool-result message (RoleTool) with the
	// assistant tool call that requested it.
	ToolCallID string `json:"tool_call_id,omitempty"`
}

// ToolCall is a single tool invocation requested by the model.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Completion is a provider's answer for one model turn: either final
// content, one or more tool calls, or both (content alongside calls).
type Completion struct {
	Content   string
	ToolCalls []ToolCall
}

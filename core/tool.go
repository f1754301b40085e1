package core

import (
	"context"
	"encoding/json"
	"fmt"
)

// Tool is a capability the model can request by name.
//
// Name is the stable identifier used for call correlation. Description is
// sent verbatim to the model as part of the tool catalog, so its wording is
// part of the contract: changing it changes model behavior. InputSchema is
// a JSON Schema object (see the tools package helpers).
type Tool interface {
	Name() string
	Description() string
	InputSchema() map[string]interface{}

	// Execute performs the tool's side effects. Errors returned here do
	// not abort the loop: the engine serializes them into a tool-result
	// message and the model decides how to proceed.
	Execute(ctx context.Context, params *ToolParams) (*ToolResult, error)
}

// ToolParams carries the arguments and ambient context for one execution.
type ToolParams struct {
	// UserID identifies the user on whose behalf the tool runs.
	UserID string

	// Input is the raw JSON arguments produced by the model.
	Input json.RawMessage

	// Context is the per-call ambient context (session, job, resume ids).
	Context *AgentContext

	// RequestID correlates this execution with the originating chat call.
	RequestID string
}

// ToolResult is the JSON-serializable outcome of a tool execution.
type ToolResult struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ToolExecution records one tool invocation for the caller's benefit
// (auditing, UI traces). It carries no result payload beyond the error.
type ToolExecution struct {
	Tool       string          `json:"tool"`
	CallID     string          `json:"call_id"`
	Input      json.RawMessage `json:"input,omitempty"`
	DurationMs int64           `json:"duration_ms"`
	Error      string          `json:"error,omitempty"`
}

// ToolDefinition declaratively describes a tool. The tools package builds
// the standard CareerMatch catalog from these; custom tools can either use
// NewExecutorTool or implement Tool directly.
type ToolDefinition struct {
	ToolName        string
	ToolDescription string
	InputSchema     map[string]interface{}
}

// ToolExecutor performs the side effects behind the standard tool catalog.
// The scraping, parsing, and record-saving internals live behind this
// boundary (see the executor package for the HTTP implementation).
type ToolExecutor interface {
	// ExecuteAction runs the named action with the given params and
	// returns a JSON-serializable result.
	ExecuteAction(ctx context.Context, action string, params *ToolParams) (*ToolResult, error)
}

// ExecutorTool adapts a ToolDefinition plus a ToolExecutor into a Tool.
type ExecutorTool struct {
	def      ToolDefinition
	executor ToolExecutor
}

// NewExecutorTool creates a Tool from a definition and an executor.
func NewExecutorTool(def ToolDefinition, executor ToolExecutor) *ExecutorTool {
	return &ExecutorTool{def: def, executor: executor}
}

func (t *ExecutorTool) Name() string                        { return t.def.ToolName }
func (t *ExecutorTool) Description() string                 { return t.def.ToolDescription }
func (t *ExecutorTool) InputSchema() map[string]interface{} { return t.def.InputSchema }

func (t *ExecutorTool) Execute(ctx context.Context, params *ToolParams) (*ToolResult, error) {
	if t.executor == nil {
		return nil, fmt.Errorf("tool %s has no executor", t.def.ToolName)
	}
	return t.executor.ExecuteAction(ctx, t.def.ToolName, params)
}

// Package engine runs the agent loop: it assembles context, drives the
// chat provider, dispatches tool calls, and bounds the whole exchange so a
// confused model can never spin forever.
package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/lazyeo/careermatch-ai-sub000/core"
	"github.com/lazyeo/careermatch-ai-sub000/memory"
	"github.com/lazyeo/careermatch-ai-sub000/prompt"
)

// State is the terminal state of a chat call.
type State int

const (
	// StateDone means the model returned a tool-free response within the
	// turn budget.
	StateDone State = iota

	// StateExhausted means the turn budget ran out while the model was
	// still requesting tools. The output carries best-effort content and
	// the caller decides how to present it; it is never conflated with a
	// normal completion.
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateDone:
		return "done"
	case StateExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Config holds engine configuration. Model and temperature are
// configuration, not constants.
type Config struct {
	// Model is the chat model identifier passed to the provider.
	Model string

	// Temperature for every completion call.
	Temperature float64

	// MaxTurns bounds the planning loop. Default: 5.
	MaxTurns int

	// MemoryLimit / MemoryThreshold control context retrieval.
	// Defaults: 5 and 0.7.
	MemoryLimit     int
	MemoryThreshold float32
}

// DefaultConfig returns the stock configuration.
var DefaultConfig = Config{
	Model:           "gpt-4o",
	Temperature:     0.7,
	MaxTurns:        5,
	MemoryLimit:     5,
	MemoryThreshold: 0.7,
}

// Engine coordinates one chat call end to end. Engines are stateless
// between calls: concurrent calls for different users share nothing but
// the injected collaborators.
type Engine struct {
	provider  ChatProvider
	registry  *ToolRegistry
	memory    *memory.Service
	reflector *Reflector
	config    Config
}

// Option configures the engine.
type Option func(*Engine)

// WithMemory enables context retrieval and reflection persistence.
func WithMemory(svc *memory.Service) Option {
	return func(e *Engine) {
		e.memory = svc
	}
}

// WithReflector sets a custom reflection pool. Ignored without WithMemory.
func WithReflector(r *Reflector) Option {
	return func(e *Engine) {
		e.reflector = r
	}
}

// WithConfig overrides the default configuration.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.config = cfg
	}
}

// New creates an engine with the given provider and registry.
func New(provider ChatProvider, registry *ToolRegistry, opts ...Option) *Engine {
	e := &Engine{
		provider: provider,
		registry: registry,
		config:   DefaultConfig,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.config.MaxTurns <= 0 {
		e.config.MaxTurns = DefaultConfig.MaxTurns
	}
	if e.config.MemoryLimit <= 0 {
		e.config.MemoryLimit = DefaultConfig.MemoryLimit
	}
	if e.memory != nil && e.reflector == nil {
		e.reflector = NewReflector(e.memory, 0, 0)
	}
	return e
}

// Registry returns the engine's tool registry.
func (e *Engine) Registry() *ToolRegistry {
	return e.registry
}

// Close shuts down the reflection pool, draining queued writes.
func (e *Engine) Close() {
	if e.reflector != nil {
		e.reflector.Close()
	}
}

// Input is one chat call.
type Input struct {
	// UserID identifies the user. Required.
	UserID string

	// Message is the user's message. Required.
	Message string

	// Context is the ambient per-call data merged into each tool's
	// execution context.
	Context *core.AgentContext

	// Profile is an optional snapshot used to ground the system prompt.
	Profile *core.Profile

	// AvailableTools restricts the catalog to the named tools. Empty
	// means all registered tools.
	AvailableTools []string
}

// Output is the result of a chat call.
type Output struct {
	// State is DONE or EXHAUSTED; provider failures return an error
	// instead of an Output.
	State State

	// Response is always set: parsed from the model's final content, or
	// the raw text wrapped as a plain content response.
	Response *core.AgentResponse

	// Fallback reports that Response was wrapped rather than parsed.
	Fallback bool

	// ToolsUsed records every dispatched tool call, in dispatch order.
	ToolsUsed []core.ToolExecution

	// Turns is the number of provider calls made.
	Turns int
}

// Chat runs the bounded planning loop and returns once the model produces
// a tool-free response (DONE) or the turn budget runs out (EXHAUSTED).
// Reflection persistence is scheduled without delaying the return.
//
// Provider and embedding failures are fatal to the call and returned
// unwrapped of any retry policy; tool failures are fed back to the model
// inside the transcript and never surface here.
func (e *Engine) Chat(ctx context.Context, input *Input) (*Output, error) {
	actx := input.Context
	if actx == nil {
		actx = &core.AgentContext{}
	}
	sessionID := actx.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	systemPrompt, err := e.buildSystemPrompt(ctx, input)
	if err != nil {
		return nil, err
	}

	session := NewSession(input.UserID, sessionID, systemPrompt, input.Message)

	catalog := e.registry.Descriptors()
	if len(input.AvailableTools) > 0 {
		catalog = e.registry.DescriptorsFiltered(input.AvailableTools...)
	}

	var toolsUsed []core.ToolExecution
	lastContent := ""

	for turn := 0; turn < e.config.MaxTurns; turn++ {
		// Once cancelled, stop issuing new iterations even if an
		// in-flight tool could not be interrupted.
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("chat cancelled after %d turns: %w", turn, err)
		}

		completion, err := e.provider.Complete(ctx, &CompletionRequest{
			Messages:    session.Messages(),
			Tools:       catalog,
			Model:       e.config.Model,
			Temperature: e.config.Temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("chat completion: %w", err)
		}

		session.TurnCount++
		session.AddAssistant(completion)
		if completion.Content != "" {
			lastContent = completion.Content
		}

		if len(completion.ToolCalls) == 0 {
			// Final content: the loop is done.
			parsed := ParseAgentResponse(completion.Content)
			e.scheduleReflection(input, sessionID, parsed.Response.Content)
			return &Output{
				State:     StateDone,
				Response:  parsed.Response,
				Fallback:  parsed.Fallback,
				ToolsUsed: toolsUsed,
				Turns:     session.TurnCount,
			}, nil
		}

		// Dispatch sequentially in provider order; some tools perform
		// order-sensitive writes. Each result stays correlated to the
		// call id that requested it.
		for _, call := range completion.ToolCalls {
			start := time.Now()
			content, result := e.registry.Dispatch(ctx, call, &core.ToolParams{
				UserID:    input.UserID,
				Input:     call.Arguments,
				Context:   actx,
				RequestID: sessionID,
			})
			session.AddToolResult(call.ID, content)

			exec := core.ToolExecution{
				Tool:       call.Name,
				CallID:     call.ID,
				Input:      call.Arguments,
				DurationMs: time.Since(start).Milliseconds(),
			}
			if !result.Success {
				exec.Error = result.Error
			}
			toolsUsed = append(toolsUsed, exec)
		}
	}

	// Turn budget exhausted while the model was still requesting tools.
	log.Printf("[ENGINE] Exhausted %d turns for user=%s session=%s",
		e.config.MaxTurns, input.UserID, sessionID)
	parsed := ParseAgentResponse(lastContent)
	e.scheduleReflection(input, sessionID, parsed.Response.Content)
	return &Output{
		State:     StateExhausted,
		Response:  parsed.Response,
		Fallback:  parsed.Fallback,
		ToolsUsed: toolsUsed,
		Turns:     session.TurnCount,
	}, nil
}

// buildSystemPrompt gathers facts and similar memories and renders the
// system prompt. Without a memory service the prompt still renders with
// explicit placeholders.
func (e *Engine) buildSystemPrompt(ctx context.Context, input *Input) (string, error) {
	var facts []memory.Fact
	var memories []memory.SearchResult

	if e.memory != nil {
		var err error
		facts, err = e.memory.GetFacts(ctx, input.UserID, "")
		if err != nil {
			return "", fmt.Errorf("load facts: %w", err)
		}
		memories, err = e.memory.SearchMemories(ctx, input.UserID, input.Message,
			e.config.MemoryLimit, e.config.MemoryThreshold)
		if err != nil {
			return "", fmt.Errorf("search memories: %w", err)
		}
		log.Printf("[ENGINE] Context for user=%s: %d facts, %d memories",
			input.UserID, len(facts), len(memories))
	}

	return prompt.Build(input.Profile, facts, memories), nil
}

func (e *Engine) scheduleReflection(input *Input, sessionID, assistantContent string) {
	if e.reflector == nil || assistantContent == "" {
		return
	}
	e.reflector.Schedule(input.UserID, sessionID, input.Message, assistantContent)
}

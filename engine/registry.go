package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/lazyeo/careermatch-ai-sub000/core"
)

// ToolRegistry holds the fixed set of tools available to the model. Tools
// are registered at startup; the registry is immutable for the lifetime of
// the process once the engine starts using it.
type ToolRegistry struct {
	tools map[string]core.Tool
	order []string
}

// NewToolRegistry creates an empty registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]core.Tool)}
}

// Register adds a tool. A duplicate name is a configuration error surfaced
// at startup, not a runtime condition.
func (r *ToolRegistry) Register(tool core.Tool) error {
	name := tool.Name()
	if name == "" {
		return fmt.Errorf("tool has empty name")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("duplicate tool name: %s", name)
	}
	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

// MustRegister registers tools and panics on configuration errors. Meant
// for static startup wiring.
func (r *ToolRegistry) MustRegister(tools ...core.Tool) {
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
}

// Get returns the tool with the given name.
func (r *ToolRegistry) Get(name string) (core.Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names in registration order.
func (r *ToolRegistry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Descriptors returns the tool catalog fed to the model, in registration
// order.
func (r *ToolRegistry) Descriptors() []ToolDescriptor {
	descs := make([]ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		descs = append(descs, ToolDescriptor{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.InputSchema(),
		})
	}
	return descs
}

// DescriptorsFiltered returns the catalog restricted to the given names.
func (r *ToolRegistry) DescriptorsFiltered(names ...string) []ToolDescriptor {
	allowed := make(map[string]bool, len(names))
	for _, n := range names {
		allowed[n] = true
	}
	var descs []ToolDescriptor
	for _, d := range r.Descriptors() {
		if allowed[d.Name] {
			descs = append(descs, d)
		}
	}
	return descs
}

// Dispatch executes the named tool and serializes the outcome as the
// tool-result message content. It never returns an error to the loop:
//
//   - unknown tool names resolve to a structured not-found result, so the
//     model can recover instead of the call vanishing from the transcript;
//   - Execute errors and panics are captured into {success:false, error}.
//
// The returned string is appended to the transcript correlated to the
// originating call id; the ToolResult is returned alongside for the
// caller's execution record.
func (r *ToolRegistry) Dispatch(ctx context.Context, call core.ToolCall, params *core.ToolParams) (string, *core.ToolResult) {
	tool, ok := r.tools[call.Name]
	if !ok {
		log.Printf("[ENGINE] Unknown tool requested: %s", call.Name)
		result := &core.ToolResult{
			Success: false,
			Error:   fmt.Sprintf("tool not found: %s", call.Name),
		}
		return encodeResult(result), result
	}

	result := r.execute(ctx, tool, params)
	return encodeResult(result), result
}

// execute isolates one tool execution, converting panics into structured
// failures.
func (r *ToolRegistry) execute(ctx context.Context, tool core.Tool, params *core.ToolParams) (result *core.ToolResult) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[ENGINE] Tool %s panicked: %v", tool.Name(), rec)
			result = &core.ToolResult{
				Success: false,
				Error:   fmt.Sprintf("tool %s panicked: %v", tool.Name(), rec),
			}
		}
	}()

	res, err := tool.Execute(ctx, params)
	if err != nil {
		return &core.ToolResult{Success: false, Error: err.Error()}
	}
	if res == nil {
		return &core.ToolResult{Success: true}
	}
	return res
}

func encodeResult(result *core.ToolResult) string {
	b, err := json.Marshal(result)
	if err != nil {
		// ToolResult data must be JSON-serializable; a tool violating
		// that is reported like any other failure.
		fallback, _ := json.Marshal(&core.ToolResult{
			Success: false,
			Error:   fmt.Sprintf("encode tool result: %v", err),
		})
		return string(fallback)
	}
	return string(b)
}

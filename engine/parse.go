package engine

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/lazyeo/careermatch-ai-sub000/core"
)

// ParsedResponse is the discriminated outcome of final-content parsing:
// either the model honored the structured contract (Fallback false) or the
// raw text was wrapped as a plain content response (Fallback true).
type ParsedResponse struct {
	Response *core.AgentResponse
	Fallback bool
}

// ParseAgentResponse interprets the model's final content. Content that
// begins with '{' is parsed as an AgentResponse, repairing near-JSON
// (trailing commas, unquoted keys) before giving up. Anything else, and
// any parse that does not yield a content field, falls back to wrapping
// the raw text. This never fails: some AgentResponse always comes back.
func ParseAgentResponse(raw string) ParsedResponse {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return fallback(raw)
	}

	if resp, ok := decodeResponse(trimmed); ok {
		return ParsedResponse{Response: resp}
	}

	// The model often emits almost-JSON. Repair and retry once.
	if fixed, err := jsonrepair.JSONRepair(trimmed); err == nil {
		if resp, ok := decodeResponse(fixed); ok {
			return ParsedResponse{Response: resp}
		}
	}

	return fallback(raw)
}

func decodeResponse(s string) (*core.AgentResponse, bool) {
	var resp core.AgentResponse
	if err := json.Unmarshal([]byte(s), &resp); err != nil {
		return nil, false
	}
	// An object without content is not a usable response; treat it as
	// free-form text rather than returning an empty message.
	if resp.Content == "" {
		return nil, false
	}
	return &resp, true
}

func fallback(raw string) ParsedResponse {
	return ParsedResponse{
		Response: &core.AgentResponse{Content: raw},
		Fallback: true,
	}
}

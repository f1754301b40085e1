package engine_test

import (
	"testing"

	"github.com/lazyeo/careermatch-ai-sub000/core"
	"github.com/lazyeo/careermatch-ai-sub000/engine"
)

func TestParseAgentResponse_ValidJSON(t *testing.T) {
	parsed := engine.ParseAgentResponse(`{"content":"hi","actions":[]}`)
	if parsed.Fallback {
		t.Fatal("expected parsed response")
	}
	if parsed.Response.Content != "hi" {
		t.Errorf("content = %q", parsed.Response.Content)
	}
	if parsed.Response.Actions == nil || len(parsed.Response.Actions) != 0 {
		t.Errorf("actions = %v", parsed.Response.Actions)
	}
}

func TestParseAgentResponse_FullShape(t *testing.T) {
	parsed := engine.ParseAgentResponse(`{
		"content": "Found it.",
		"actions": [{"type":"navigate","target":"/jobs/7","label":"View"}],
		"suggestions": ["Analyze the match"],
		"metadata": {"job_id": "7"}
	}`)
	if parsed.Fallback {
		t.Fatal("expected parsed response")
	}
	resp := parsed.Response
	if resp.Content != "Found it." {
		t.Errorf("content = %q", resp.Content)
	}
	if len(resp.Actions) != 1 || resp.Actions[0].Type != core.ActionNavigate || resp.Actions[0].Target != "/jobs/7" {
		t.Errorf("actions = %+v", resp.Actions)
	}
	if len(resp.Suggestions) != 1 {
		t.Errorf("suggestions = %v", resp.Suggestions)
	}
	if resp.Metadata["job_id"] != "7" {
		t.Errorf("metadata = %v", resp.Metadata)
	}
}

func TestParseAgentResponse_PlainText(t *testing.T) {
	parsed := engine.ParseAgentResponse("hello")
	if !parsed.Fallback {
		t.Fatal("expected fallback")
	}
	if parsed.Response.Content != "hello" {
		t.Errorf("content = %q", parsed.Response.Content)
	}
}

func TestParseAgentResponse_MalformedJSONFallsBack(t *testing.T) {
	raw := `{not valid json`
	parsed := engine.ParseAgentResponse(raw)
	if !parsed.Fallback {
		t.Fatal("expected fallback")
	}
	if parsed.Response.Content != raw {
		t.Errorf("content = %q, want raw text back", parsed.Response.Content)
	}
}

func TestParseAgentResponse_RepairableJSON(t *testing.T) {
	// Trailing comma: invalid JSON, but repairable, and it carries a
	// usable content field.
	parsed := engine.ParseAgentResponse(`{"content":"hi","suggestions":["a","b",],}`)
	if parsed.Fallback {
		t.Fatal("expected repaired parse")
	}
	if parsed.Response.Content != "hi" || len(parsed.Response.Suggestions) != 2 {
		t.Errorf("response = %+v", parsed.Response)
	}
}

func TestParseAgentResponse_ObjectWithoutContentFallsBack(t *testing.T) {
	raw := `{"actions":[{"type":"navigate","target":"/x","label":"X"}]}`
	parsed := engine.ParseAgentResponse(raw)
	if !parsed.Fallback {
		t.Fatal("expected fallback for object without content")
	}
	if parsed.Response.Content != raw {
		t.Errorf("content = %q", parsed.Response.Content)
	}
}

func TestParseAgentResponse_EmptyString(t *testing.T) {
	parsed := engine.ParseAgentResponse("")
	if !parsed.Fallback || parsed.Response == nil {
		t.Fatal("expected fallback response, even for empty input")
	}
}

// Package executor implements the ToolExecutor boundary against the
// CareerMatch backend API. Scraping heuristics, resume parsing, and the
// tracker schema live server-side; this package only posts arguments and
// relays JSON results.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lazyeo/careermatch-ai-sub000/core"
)

// actionPaths maps tool names to backend endpoints. Every standard tool
// resolves here; unknown actions are rejected before any request is made.
var actionPaths = map[string]string{
	"scrape_job_posting": "/api/v1/jobs/scrape",
	"save_job":           "/api/v1/jobs",
	"analyze_job_match":  "/api/v1/analysis/job-match",
	"parse_resume_text":  "/api/v1/resumes/parse",
	"import_jobs":        "/api/v1/jobs/import",
	"list_saved_jobs":    "/api/v1/jobs/list",
}

// HTTPExecutorConfig configures the executor.
type HTTPExecutorConfig struct {
	// BaseURL is the backend API root, e.g. https://api.careermatch.app.
	BaseURL string

	// APIKey authenticates service-to-service calls. Optional when the
	// backend trusts the network.
	APIKey string

	// Timeout per request. Default: 30s.
	Timeout time.Duration

	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// HTTPExecutor performs tool side effects over the backend REST API.
type HTTPExecutor struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPExecutor creates an executor for the given backend.
func NewHTTPExecutor(cfg HTTPExecutorConfig) *HTTPExecutor {
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPExecutor{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  client,
	}
}

// request is the envelope posted for every action. Tool arguments pass
// through untouched; ambient context rides alongside.
type request struct {
	UserID    string             `json:"user_id"`
	RequestID string             `json:"request_id,omitempty"`
	Context   *core.AgentContext `json:"context,omitempty"`
	Arguments json.RawMessage    `json:"arguments"`
}

// ExecuteAction posts the action to its backend endpoint and returns the
// decoded result. Transport and API errors come back as plain errors; the
// engine's dispatch boundary converts them into recoverable tool results.
func (e *HTTPExecutor) ExecuteAction(ctx context.Context, action string, params *core.ToolParams) (*core.ToolResult, error) {
	path, ok := actionPaths[action]
	if !ok {
		return nil, fmt.Errorf("unsupported action: %s", action)
	}

	args := params.Input
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	body, err := json.Marshal(request{
		UserID:    params.UserID,
		RequestID: params.RequestID,
		Context:   params.Context,
		Arguments: args,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", action, err)
	}

	if resp.StatusCode >= 400 {
		return &core.ToolResult{
			Success: false,
			Error:   apiErrorMessage(resp.StatusCode, payload),
		}, nil
	}

	var data interface{}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &data); err != nil {
			return nil, fmt.Errorf("%s: decode response: %w", action, err)
		}
	}
	return &core.ToolResult{Success: true, Data: data}, nil
}

// apiErrorMessage extracts the backend's error message, falling back to
// the HTTP status.
func apiErrorMessage(status int, payload []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return fmt.Sprintf("backend returned status %d", status)
}

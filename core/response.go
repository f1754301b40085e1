package core

// ActionType classifies a follow-up action suggested by the agent.
type ActionType string

const (
	ActionNavigate  ActionType = "navigate"
	ActionExecute   ActionType = "execute"
	ActionShowModal ActionType = "show_modal"
	ActionConfirm   ActionType = "confirm"
)

// Action is a UI-facing follow-up the caller may render alongside the
// agent's text (e.g. a button navigating to a saved job).
type Action struct {
	Type   ActionType `json:"type"`
	Target string     `json:"target"`
	Label  string     `json:"label"`
}

// AgentResponse is the structured contract the model must honor when it is
// not requesting a tool. The engine tolerates deviation: free-form text is
// wrapped as {Content: rawText} rather than rejected.
type AgentResponse struct {
	Content     string                 `json:"content"`
	Actions     []Action               `json:"actions,omitempty"`
	Suggestions []string               `json:"suggestions,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

package engine

import (
	"github.com/lazyeo/careermatch-ai-sub000/core"
)

// Session is the transcript for one chat call. Messages are strictly
// ordered by loop iteration; tool-result messages keep a 1:1 correlation
// to the call id that requested them.
//
// Sessions are per-call values. The engine holds no session registry;
// identity flows through explicit parameters.
type Session struct {
	UserID    string
	SessionID string
	TurnCount int

	messages []core.Message
}

// NewSession creates a session seeded with the system prompt and the
// user's message.
func NewSession(userID, sessionID, systemPrompt, userMessage string) *Session {
	s := &Session{
		UserID:    userID,
		SessionID: sessionID,
	}
	s.messages = append(s.messages,
		core.Message{Role: core.RoleSystem, Content: systemPrompt},
		core.Message{Role: core.RoleUser, Content: userMessage},
	)
	return s
}

// Messages returns the transcript in order.
func (s *Session) Messages() []core.Message {
	return s.messages
}

// AddAssistant appends the provider's message.
func (s *Session) AddAssistant(c *core.Completion) {
	s.messages = append(s.messages, core.Message{
		Role:      core.RoleAssistant,
		Content:   c.Content,
		ToolCalls: c.ToolCalls,
	})
}

// AddToolResult appends a tool-result message correlated to callID.
func (s *Session) AddToolResult(callID, content string) {
	s.messages = append(s.messages, core.Message{
		Role:       core.RoleTool,
		Content:    content,
		ToolCallID: callID,
	})
}

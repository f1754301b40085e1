// Package server exposes the agent over a websocket chat endpoint. One
// connection carries one conversation; frames are JSON both ways.
package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lazyeo/careermatch-ai-sub000/core"
	"github.com/lazyeo/careermatch-ai-sub000/engine"
)

// ChatFrame is an inbound message from the client.
type ChatFrame struct {
	UserID  string             `json:"user_id"`
	Message string             `json:"message"`
	Context *core.AgentContext `json:"context,omitempty"`
	Profile *core.Profile      `json:"profile,omitempty"`
}

// ResponseFrame is the reply for one chat frame.
type ResponseFrame struct {
	Type      string               `json:"type"` // "response" or "error"
	State     string               `json:"state,omitempty"`
	Response  *core.AgentResponse  `json:"response,omitempty"`
	ToolsUsed []core.ToolExecution `json:"tools_used,omitempty"`
	Error     string               `json:"error,omitempty"`
}

// Config configures the server.
type Config struct {
	// Engine handles chat calls. Required.
	Engine *engine.Engine

	// RequestTimeout bounds one chat call. Default: 2m.
	RequestTimeout time.Duration

	// CheckOrigin overrides the upgrade origin check. Default allows all,
	// matching a backend deployed behind the product's gateway.
	CheckOrigin func(r *http.Request) bool
}

// Server handles websocket chat connections.
type Server struct {
	engine   *engine.Engine
	timeout  time.Duration
	upgrader websocket.Upgrader
}

// New creates a server.
func New(cfg Config) *Server {
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 2 * time.Minute
	}
	checkOrigin := cfg.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Server{
		engine:  cfg.Engine,
		timeout: timeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
	}
}

// ServeHTTP upgrades the connection and runs the read loop until the
// client disconnects.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[SERVER] Upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// A stable session id ties the whole connection's turns together.
	sessionID := uuid.New().String()
	log.Printf("[SERVER] Connection opened, session=%s", sessionID)

	for {
		var frame ChatFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[SERVER] Read error, session=%s: %v", sessionID, err)
			}
			return
		}

		reply := s.handle(r.Context(), sessionID, &frame)
		if err := conn.WriteJSON(reply); err != nil {
			log.Printf("[SERVER] Write error, session=%s: %v", sessionID, err)
			return
		}
	}
}

func (s *Server) handle(ctx context.Context, sessionID string, frame *ChatFrame) *ResponseFrame {
	if frame.UserID == "" || frame.Message == "" {
		return &ResponseFrame{Type: "error", Error: "user_id and message are required"}
	}

	actx := frame.Context
	if actx == nil {
		actx = &core.AgentContext{}
	}
	if actx.SessionID == "" {
		actx.SessionID = sessionID
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	output, err := s.engine.Chat(ctx, &engine.Input{
		UserID:  frame.UserID,
		Message: frame.Message,
		Context: actx,
		Profile: frame.Profile,
	})
	if err != nil {
		// Provider failures surface as a generic condition; transcript
		// contents and tool arguments never leak to the client.
		log.Printf("[SERVER] Chat failed, session=%s: %v", actx.SessionID, err)
		return &ResponseFrame{Type: "error", Error: "request failed"}
	}

	return &ResponseFrame{
		Type:      "response",
		State:     output.State.String(),
		Response:  output.Response,
		ToolsUsed: output.ToolsUsed,
	}
}

// Close shuts down the engine's background work.
func (s *Server) Close() {
	s.engine.Close()
}

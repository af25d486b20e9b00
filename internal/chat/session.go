package chat

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"repox/internal/mcp"
)

// Model produces the assistant's reply to the conversation so far. It may
// call tools any number of times before answering.
type Model interface {
	Reply(ctx context.Context, history []Message, tools ToolBox) (string, error)
}

// ToolBox is the set of tools a Model may call.
type ToolBox interface {
	Tools() []mcp.Tool
	// Call runs a tool and returns its text output. A tool that fails
	// reports the failure in the text; err is reserved for transport problems.
	Call(ctx context.Context, name string, args map[string]interface{}) (string, error)
}

// Session is one conversation.
type Session struct {
	id         string
	model      Model
	tools      ToolBox
	transcript *Transcript
	logger     *slog.Logger
}

// NewSession starts a conversation keeping at most maxMessages of history.
func NewSession(model Model, tools ToolBox, maxMessages int, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	id := uuid.NewString()
	return &Session{
		id:         id,
		model:      model,
		tools:      tools,
		transcript: NewTranscript(maxMessages),
		logger:     logger.With("session", id),
	}
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id
}

// History returns the retained messages.
func (s *Session) History() []Message {
	return s.transcript.Messages()
}

// Ask sends input to the model and returns its reply. On failure the
// question is removed from the history so the next Ask starts clean.
func (s *Session) Ask(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	s.transcript.Append(RoleHuman, input)

	start := time.Now()
	reply, err := s.model.Reply(ctx, s.transcript.Messages(), s.tools)
	if err != nil {
		s.transcript.DropLast()
		s.logger.Warn("Model failed", "error", err.Error(), "elapsed", time.Since(start))
		return "", err
	}

	s.transcript.Append(RoleAssistant, reply)
	s.transcript.Trim()
	s.logger.Debug("Model replied",
		"elapsed", time.Since(start),
		"chars", len(reply),
		"history", s.transcript.Len(),
	)
	return reply, nil
}

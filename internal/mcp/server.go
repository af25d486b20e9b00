package mcp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"repox/internal/explorer"
	"repox/internal/journal"
)

// Recorder persists tool calls. *journal.Store implements it.
type Recorder interface {
	Record(e *journal.Entry) error
}

// MCPServer represents the MCP server
type MCPServer struct {
	stdin   io.Reader
	stdout  io.Writer
	scanner *bufio.Scanner
	writeMu sync.Mutex
	logger  *slog.Logger
	version string
	tools   map[string]ToolHandler

	explorer          *explorer.Explorer
	journal           Recorder
	sessionID         string
	defaultMaxResults int
}

// DefaultMaxResults caps search_in_repo and find_files when the caller
// passes no max_results.
const DefaultMaxResults = 50

// NewMCPServer creates a new MCP server answering from exp.
func NewMCPServer(version string, exp *explorer.Explorer, logger *slog.Logger) *MCPServer {
	server := &MCPServer{
		stdin:             os.Stdin,
		stdout:            os.Stdout,
		logger:            logger,
		version:           version,
		tools:             make(map[string]ToolHandler),
		explorer:          exp,
		sessionID:         journal.NewSessionID(),
		defaultMaxResults: DefaultMaxResults,
	}

	server.RegisterTools()

	return server
}

// SetJournal records every tool call to r. A nil r disables recording.
func (s *MCPServer) SetJournal(r Recorder) {
	s.journal = r
}

// SetDefaultMaxResults overrides the max_results default.
func (s *MCPServer) SetDefaultMaxResults(n int) {
	if n > 0 {
		s.defaultMaxResults = n
	}
}

// SessionID identifies this server run in the journal.
func (s *MCPServer) SessionID() string {
	return s.sessionID
}

// Start starts the MCP server and begins processing messages. It returns
// nil when stdin is closed.
func (s *MCPServer) Start() error {
	s.logger.Info("MCP server starting",
		"version", s.version,
		"projectsRoot", s.explorer.ProjectsRoot(),
		"session", s.sessionID,
	)

	for {
		msg, err := s.readMessage()
		if err != nil {
			if err == io.EOF {
				s.logger.Info("MCP server shutting down (EOF)")
				return nil
			}

			var perr *parseError
			if errors.As(err, &perr) {
				s.logger.Warn("Dropping malformed message", "error", err.Error())
				_ = s.writeError(nil, ParseError, fmt.Sprintf("Failed to parse message: %v", err))
				continue
			}

			s.logger.Error("Error reading message", "error", err.Error())
			return err
		}

		response := s.handleMessage(msg)

		// Notifications don't generate responses
		if response != nil {
			if err := s.writeMessage(response); err != nil {
				s.logger.Error("Error writing response", "error", err.Error())
			}
		}
	}
}

// SetStdin sets the input stream (for testing)
func (s *MCPServer) SetStdin(r io.Reader) {
	s.stdin = r
	s.scanner = nil
}

// SetStdout sets the output stream (for testing)
func (s *MCPServer) SetStdout(w io.Writer) {
	s.stdout = w
}

package mcp

import (
	"encoding/json"
	"fmt"
	"runtime/debug"
	"time"

	"repox/internal/envelope"
	"repox/internal/errors"
	"repox/internal/journal"
)

// handleMessage processes an incoming MCP message and returns a response
func (s *MCPServer) handleMessage(msg *MCPMessage) *MCPMessage {
	if msg.Jsonrpc != "2.0" {
		if msg.Id == nil {
			return nil
		}
		return NewErrorMessage(msg.Id, InvalidRequest, "Invalid message: jsonrpc must be \"2.0\"", nil)
	}

	if msg.IsRequest() {
		return s.handleRequest(msg)
	}

	if msg.IsNotification() {
		s.handleNotification(msg)
		return nil
	}

	// We never send requests, so responses are unexpected.
	if msg.IsResponse() {
		s.logger.Debug("Ignoring response from client", "id", msg.Id)
		return nil
	}

	return NewErrorMessage(msg.Id, InvalidRequest, "Invalid message: not a request or notification", nil)
}

// handleRequest handles a JSON-RPC request
func (s *MCPServer) handleRequest(msg *MCPMessage) *MCPMessage {
	s.logger.Debug("Handling request",
		"method", msg.Method,
		"id", msg.Id,
	)

	switch msg.Method {
	case "initialize":
		return s.handleInitializeRequest(msg)
	case "ping":
		return NewResultMessage(msg.Id, map[string]interface{}{})
	case "tools/list":
		return s.handleListToolsRequest(msg)
	case "tools/call":
		return s.handleCallToolRequest(msg)
	default:
		return NewErrorMessage(msg.Id, MethodNotFound, fmt.Sprintf("Method not found: %s", msg.Method), nil)
	}
}

// handleNotification handles a JSON-RPC notification
func (s *MCPServer) handleNotification(msg *MCPMessage) {
	switch msg.Method {
	case "notifications/initialized":
		s.logger.Info("Client initialized")
	default:
		s.logger.Debug("Unknown notification",
			"method", msg.Method,
		)
	}
}

// handleInitializeRequest handles the initialize request
func (s *MCPServer) handleInitializeRequest(msg *MCPMessage) *MCPMessage {
	params, ok := msg.Params.(map[string]interface{})
	if !ok {
		params = make(map[string]interface{})
	}

	result, err := s.handleInitialize(params)
	if err != nil {
		return NewErrorMessage(msg.Id, InternalError, err.Error(), nil)
	}

	return NewResultMessage(msg.Id, result)
}

// handleListToolsRequest handles the tools/list request. All tools fit on
// one page so the cursor is ignored.
func (s *MCPServer) handleListToolsRequest(msg *MCPMessage) *MCPMessage {
	return NewResultMessage(msg.Id, &ListToolsResult{Tools: s.GetToolDefinitions()})
}

// handleCallToolRequest handles the tools/call request
func (s *MCPServer) handleCallToolRequest(msg *MCPMessage) *MCPMessage {
	params, ok := msg.Params.(map[string]interface{})
	if !ok {
		return NewErrorMessage(msg.Id, InvalidParams, "Invalid params: expected object", nil)
	}

	toolName, ok := params["name"].(string)
	if !ok || toolName == "" {
		return NewErrorMessage(msg.Id, InvalidParams, "Invalid params: missing tool name", nil)
	}

	toolParams, ok := params["arguments"].(map[string]interface{})
	if !ok {
		toolParams = make(map[string]interface{})
	}

	result, err := s.handleCallTool(toolName, toolParams)
	if err != nil {
		return NewErrorMessage(msg.Id, InternalError, err.Error(), nil)
	}

	return NewResultMessage(msg.Id, result)
}

// handleCallTool executes a tool. Tool failures come back as an error
// envelope with IsError set; only a marshal failure is returned as an error.
func (s *MCPServer) handleCallTool(toolName string, toolParams map[string]interface{}) (*CallToolResult, error) {
	s.logger.Info("Calling tool",
		"tool", toolName,
		"params", toolParams,
	)

	start := time.Now()
	resp := s.invokeTool(toolName, toolParams)
	elapsed := time.Since(start)

	jsonBytes, err := json.Marshal(resp)
	if err != nil {
		return nil, errors.NewOperationError("marshal response", err)
	}

	if resp.IsError() {
		s.logger.Warn("Tool failed",
			"tool", toolName,
			"code", resp.ErrorCode,
			"error", *resp.Error,
		)
	}
	s.record(toolName, toolParams, resp, jsonBytes, elapsed)

	return &CallToolResult{
		Content: []Content{{Type: "text", Text: string(jsonBytes)}},
		IsError: resp.IsError(),
	}, nil
}

// invokeTool runs the handler and converts errors and panics into error
// envelopes so a single bad call never takes the server down.
func (s *MCPServer) invokeTool(toolName string, toolParams map[string]interface{}) (resp *envelope.Response) {
	handler, exists := s.tools[toolName]
	if !exists {
		return envelope.FromError(errors.NewToolNotFoundError(toolName))
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Tool panicked",
				"tool", toolName,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			resp = envelope.FromError(errors.NewRepoxError(errors.InternalError, fmt.Sprintf("tool %s failed: %v", toolName, r), nil))
		}
	}()

	result, err := handler(toolParams)
	if err != nil {
		return envelope.FromError(err)
	}
	if result == nil {
		return envelope.Operational(nil)
	}
	return result
}

func (s *MCPServer) record(toolName string, toolParams map[string]interface{}, resp *envelope.Response, raw []byte, elapsed time.Duration) {
	if s.journal == nil {
		return
	}

	paramsJSON, err := json.Marshal(toolParams)
	if err != nil {
		paramsJSON = []byte("{}")
	}

	entry := &journal.Entry{
		SessionID:  s.sessionID,
		Tool:       toolName,
		Params:     string(paramsJSON),
		Status:     journal.StatusOK,
		DurationMs: elapsed.Milliseconds(),
		Result:     raw,
	}
	if resp.IsError() {
		entry.Status = journal.StatusError
		entry.ErrorCode = resp.ErrorCode
	}

	if err := s.journal.Record(entry); err != nil {
		s.logger.Warn("Failed to record tool call", "tool", toolName, "error", err.Error())
	}
}

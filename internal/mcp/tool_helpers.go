package mcp

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"repox/internal/envelope"
	"repox/internal/errors"
)

// ToolResponse is a convenience builder for MCP tool responses.
type ToolResponse struct {
	builder *envelope.Builder
}

// NewToolResponse creates a new tool response builder.
func NewToolResponse() *ToolResponse {
	return &ToolResponse{
		builder: envelope.New(),
	}
}

// Data sets the payload.
func (t *ToolResponse) Data(data interface{}) *ToolResponse {
	t.builder.Data(data)
	return t
}

// Repository records the repository that answered.
func (t *ToolResponse) Repository(path string) *ToolResponse {
	t.builder.Repository(path)
	return t
}

// WithTruncation adds truncation info.
func (t *ToolResponse) WithTruncation(truncated bool, shown, limit int, reason string) *ToolResponse {
	t.builder.WithTruncation(truncated, shown, limit, reason)
	return t
}

// Warning adds a warning message.
func (t *ToolResponse) Warning(msg string) *ToolResponse {
	t.builder.Warning(msg)
	return t
}

// Suggest adds a follow-up call.
func (t *ToolResponse) Suggest(tool string, params map[string]interface{}, reason string) *ToolResponse {
	t.builder.Suggest(tool, params, reason)
	return t
}

// Build returns the envelope response.
func (t *ToolResponse) Build() *envelope.Response {
	return t.builder.Build()
}

// OperationalResponse creates a simple envelope for tools that do not
// depend on the active repository.
func OperationalResponse(data interface{}) *envelope.Response {
	return envelope.Operational(data)
}

// requireString returns a mandatory string parameter. The empty string is
// accepted.
func requireString(params map[string]interface{}, name string) (string, error) {
	v, ok := params[name]
	if !ok || v == nil {
		return "", errors.NewInvalidParameterError(name, "required")
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.NewInvalidParameterError(name, fmt.Sprintf("expected string, got %T", v))
	}
	return s, nil
}

// optionalString returns def when the parameter is absent or null.
func optionalString(params map[string]interface{}, name, def string) (string, error) {
	v, ok := params[name]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.NewInvalidParameterError(name, fmt.Sprintf("expected string, got %T", v))
	}
	return s, nil
}

// intParam returns def when the parameter is absent or null. JSON numbers
// arrive as float64 and must be whole; numeric strings are accepted.
func intParam(params map[string]interface{}, name string, def int) (int, error) {
	v, ok := params[name]
	if !ok || v == nil {
		return def, nil
	}

	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, errors.NewInvalidParameterError(name, "expected an integer")
		}
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, errors.NewInvalidParameterError(name, "expected an integer")
		}
		return int(i), nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, errors.NewInvalidParameterError(name, "expected an integer")
		}
		return i, nil
	default:
		return 0, errors.NewInvalidParameterError(name, fmt.Sprintf("expected integer, got %T", v))
	}
}

// Package envelope provides a standardized response wrapper for all MCP tool responses.
// Every tool response carries its payload plus metadata about which repository
// answered, truncation, warnings, and suggested next calls.
package envelope

// Truncation describes result trimming.
type Truncation struct {
	IsTruncated bool   `json:"isTruncated"`
	Shown       int    `json:"shown,omitempty"`  // items returned
	Limit       int    `json:"limit,omitempty"`  // cap that was hit
	Reason      string `json:"reason,omitempty"` // "max-results"
}

// Meta holds response metadata.
type Meta struct {
	Repository string      `json:"repository,omitempty"` // active repository that answered
	Truncation *Truncation `json:"truncation,omitempty"`
}

// SuggestedCall represents a recommended follow-up tool call.
type SuggestedCall struct {
	Tool   string                 `json:"tool"`             // tool name
	Params map[string]interface{} `json:"params,omitempty"` // pre-filled parameters
	Reason string                 `json:"reason,omitempty"` // why this is suggested
}

// Warning represents a non-fatal issue.
type Warning struct {
	Code    string `json:"code,omitempty"` // machine-readable code
	Message string `json:"message"`        // human-readable message
}

// Response is the standard envelope for all MCP tool responses.
type Response struct {
	SchemaVersion      string          `json:"schemaVersion"`
	Data               interface{}     `json:"data"`
	Meta               *Meta           `json:"meta,omitempty"`
	Warnings           []Warning       `json:"warnings,omitempty"`
	Error              *string         `json:"error,omitempty"`
	ErrorCode          string          `json:"errorCode,omitempty"`
	SuggestedNextCalls []SuggestedCall `json:"suggestedNextCalls,omitempty"`
}

// IsError reports whether the response carries an error.
func (r *Response) IsError() bool {
	return r != nil && r.Error != nil
}

// CurrentSchemaVersion is the current envelope schema version.
const CurrentSchemaVersion = "1.0"

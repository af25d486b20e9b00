// Package errors defines the typed failures repox reports to callers.
// Every failure carries a stable ErrorCode so that transports can surface
// it as data instead of aborting the request.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// NoActiveRepository indicates no valid repository is selected
	NoActiveRepository ErrorCode = "NO_ACTIVE_REPOSITORY"
	// PathNotFound indicates a repository path does not exist
	PathNotFound ErrorCode = "PATH_NOT_FOUND"
	// NotADirectory indicates a repository path is not a directory
	NotADirectory ErrorCode = "NOT_A_DIRECTORY"
	// FileNotFound indicates a file inside the repository does not exist
	FileNotFound ErrorCode = "FILE_NOT_FOUND"
	// NotAFile indicates a path inside the repository is not a regular file
	NotAFile ErrorCode = "NOT_A_FILE"
	// ReadError indicates an I/O or decoding failure while reading a file
	ReadError ErrorCode = "READ_ERROR"
	// InvalidParameter indicates a malformed tool argument
	InvalidParameter ErrorCode = "INVALID_PARAMETER"
	// ToolNotFound indicates an unknown tool name
	ToolNotFound ErrorCode = "TOOL_NOT_FOUND"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// CallTool suggests calling another tool
	CallTool FixActionType = "call-tool"
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Tool        string        `json:"tool,omitempty"`
	Command     string        `json:"command,omitempty"`
	Description string        `json:"description,omitempty"`
}

// RepoxError is an error with a stable code, message and suggested fixes.
type RepoxError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error
}

// NewRepoxError creates a new RepoxError. Suggested fixes default to the
// entry in ErrorActions for the code.
func NewRepoxError(code ErrorCode, message string, cause error) *RepoxError {
	return &RepoxError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Error implements the error interface
func (e *RepoxError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *RepoxError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *RepoxError) WithDetails(details interface{}) *RepoxError {
	e.Details = details
	return e
}

// NewNoActiveRepositoryError reports a missing or stale repository selection.
func NewNoActiveRepositoryError() *RepoxError {
	return NewRepoxError(NoActiveRepository, "No valid active repository. Use set_repo(path) first.", nil)
}

// NewPathNotFoundError reports a repository path that does not exist.
func NewPathNotFoundError(path string) *RepoxError {
	return NewRepoxError(PathNotFound, "Path does not exist: "+path, nil).
		WithDetails(map[string]string{"path": path})
}

// NewNotADirectoryError reports a repository path that is not a directory.
func NewNotADirectoryError(path string) *RepoxError {
	return NewRepoxError(NotADirectory, "Path is not a directory: "+path, nil).
		WithDetails(map[string]string{"path": path})
}

// NewFileNotFoundError reports a missing file inside the active repository.
func NewFileNotFoundError(relativePath string) *RepoxError {
	return NewRepoxError(FileNotFound, "File does not exist: "+relativePath, nil).
		WithDetails(map[string]string{"path": relativePath})
}

// NewNotAFileError reports a path inside the active repository that is not a regular file.
func NewNotAFileError(relativePath string) *RepoxError {
	return NewRepoxError(NotAFile, "Not a file: "+relativePath, nil).
		WithDetails(map[string]string{"path": relativePath})
}

// NewReadError wraps an I/O or decoding failure.
func NewReadError(relativePath string, cause error) *RepoxError {
	return NewRepoxError(ReadError, "Error reading file "+relativePath, cause).
		WithDetails(map[string]string{"path": relativePath})
}

// NewInvalidParameterError reports a missing or malformed parameter.
func NewInvalidParameterError(param, reason string) *RepoxError {
	msg := "Invalid parameter: " + param
	if reason != "" {
		msg += " (" + reason + ")"
	}
	return NewRepoxError(InvalidParameter, msg, nil)
}

// NewToolNotFoundError reports an unknown tool.
func NewToolNotFoundError(name string) *RepoxError {
	return NewRepoxError(ToolNotFound, "Unknown tool: "+name, nil)
}

// NewOperationError wraps an unexpected failure of a named operation.
func NewOperationError(operation string, cause error) *RepoxError {
	return NewRepoxError(InternalError, operation+" failed", cause)
}

// CodeOf returns the ErrorCode carried by err, or "" when err is not a RepoxError.
func CodeOf(err error) ErrorCode {
	var re *RepoxError
	if stderrors.As(err, &re) {
		return re.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	NoActiveRepository: {
		{
			Type:        CallTool,
			Tool:        "list_projects",
			Description: "List candidate repositories under the projects root",
		},
		{
			Type:        CallTool,
			Tool:        "set_repo",
			Description: "Select a repository by name or absolute path",
		},
	},
	PathNotFound: {
		{
			Type:        CallTool,
			Tool:        "list_projects",
			Description: "Check the available repository names",
		},
	},
	FileNotFound: {
		{
			Type:        CallTool,
			Tool:        "find_files",
			Description: "Look the file up by name",
		},
	},
	NotAFile: {
		{
			Type:        CallTool,
			Tool:        "list_all_files",
			Description: "List regular files in the repository",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}

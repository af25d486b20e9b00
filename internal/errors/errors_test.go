package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRepoxError_Error(t *testing.T) {
	tests := []struct {
		name      string
		err       *RepoxError
		wantParts []string
	}{
		{
			name:      "with cause",
			err:       NewReadError("a.bin", errors.New("invalid UTF-8")),
			wantParts: []string{"READ_ERROR", "a.bin", "invalid UTF-8"},
		},
		{
			name:      "without cause",
			err:       NewFileNotFoundError("missing.txt"),
			wantParts: []string{"FILE_NOT_FOUND", "File does not exist: missing.txt"},
		},
		{
			name:      "no active repository",
			err:       NewNoActiveRepositoryError(),
			wantParts: []string{"NO_ACTIVE_REPOSITORY", "set_repo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Error() = %q, want to contain %q", got, part)
				}
			}
		})
	}
}

func TestRepoxError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewOperationError("walk", cause)

	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}

	if NewNotAFileError("dir").Unwrap() != nil {
		t.Error("Unwrap() on error without cause should return nil")
	}
}

func TestRepoxError_WithDetails(t *testing.T) {
	err := NewRepoxError(InternalError, "boom", nil)
	if err.WithDetails("x") != err {
		t.Error("WithDetails should return the same error for chaining")
	}
	if err.Details != "x" {
		t.Errorf("Details = %v, want x", err.Details)
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("plain"), ""},
		{"direct", NewPathNotFoundError("/x"), PathNotFound},
		{"wrapped", fmt.Errorf("select: %w", NewNotADirectoryError("/x")), NotADirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}

	if !Is(NewNoActiveRepositoryError(), NoActiveRepository) {
		t.Error("Is should match NoActiveRepository")
	}
	if Is(nil, InternalError) {
		t.Error("Is(nil) should be false")
	}
}

func TestErrorCodesUnique(t *testing.T) {
	codes := []ErrorCode{
		NoActiveRepository, PathNotFound, NotADirectory, FileNotFound,
		NotAFile, ReadError, InvalidParameter, ToolNotFound, InternalError,
	}

	seen := make(map[ErrorCode]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %v", code)
		}
		seen[code] = true
	}
}

func TestGetSuggestedFixes(t *testing.T) {
	tests := []struct {
		code    ErrorCode
		wantLen int
	}{
		{NoActiveRepository, 2},
		{PathNotFound, 1},
		{FileNotFound, 1},
		{ReadError, 0},
		{InternalError, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := len(GetSuggestedFixes(tt.code)); got != tt.wantLen {
				t.Errorf("len(GetSuggestedFixes(%v)) = %d, want %d", tt.code, got, tt.wantLen)
			}
		})
	}

	for code, fixes := range ErrorActions {
		for i, fix := range fixes {
			if fix.Type == "" {
				t.Errorf("ErrorActions[%v][%d].Type is empty", code, i)
			}
		}
	}
}

func TestConstructorsAttachFixes(t *testing.T) {
	err := NewNoActiveRepositoryError()
	if len(err.SuggestedFixes) == 0 {
		t.Fatal("expected suggested fixes")
	}
	if err.SuggestedFixes[0].Tool != "list_projects" {
		t.Errorf("first fix tool = %q, want list_projects", err.SuggestedFixes[0].Tool)
	}
}

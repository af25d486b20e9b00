package envelope

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"repox/internal/errors"
)

func TestBuilder_Data(t *testing.T) {
	resp := New().Data([]string{"a.txt"}).Repository("/repo").Build()

	if resp.SchemaVersion != CurrentSchemaVersion {
		t.Errorf("SchemaVersion = %q, want %q", resp.SchemaVersion, CurrentSchemaVersion)
	}
	if resp.Meta == nil || resp.Meta.Repository != "/repo" {
		t.Errorf("Meta = %+v, want repository /repo", resp.Meta)
	}
	if resp.IsError() {
		t.Error("IsError() = true for data response")
	}
}

func TestBuilder_RepositoryEmpty(t *testing.T) {
	resp := New().Repository("").Build()
	if resp.Meta != nil {
		t.Errorf("Meta = %+v, want nil", resp.Meta)
	}
}

func TestBuilder_WithTruncation(t *testing.T) {
	tests := []struct {
		name      string
		truncated bool
		wantMeta  bool
	}{
		{"truncated", true, true},
		{"not truncated", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := New().WithTruncation(tt.truncated, 5, 5, "max-results").Build()
			if (resp.Meta != nil) != tt.wantMeta {
				t.Fatalf("Meta = %+v, wantMeta %v", resp.Meta, tt.wantMeta)
			}
			if tt.wantMeta {
				tr := resp.Meta.Truncation
				if !tr.IsTruncated || tr.Shown != 5 || tr.Limit != 5 || tr.Reason != "max-results" {
					t.Errorf("Truncation = %+v", tr)
				}
			}
		})
	}
}

func TestBuilder_ErrorPlain(t *testing.T) {
	resp := New().Error(stderrors.New("boom")).Build()

	if !resp.IsError() || *resp.Error != "boom" {
		t.Errorf("Error = %v, want boom", resp.Error)
	}
	if resp.ErrorCode != "" {
		t.Errorf("ErrorCode = %q, want empty", resp.ErrorCode)
	}
}

func TestBuilder_ErrorRepox(t *testing.T) {
	err := fmt.Errorf("tool: %w", errors.NewNoActiveRepositoryError())
	resp := New().Error(err).Build()

	if resp.ErrorCode != string(errors.NoActiveRepository) {
		t.Errorf("ErrorCode = %q", resp.ErrorCode)
	}
	if *resp.Error != "No valid active repository. Use set_repo(path) first." {
		t.Errorf("Error = %q", *resp.Error)
	}
	if len(resp.SuggestedNextCalls) != 2 {
		t.Fatalf("SuggestedNextCalls = %+v, want 2", resp.SuggestedNextCalls)
	}
	if resp.SuggestedNextCalls[0].Tool != "list_projects" {
		t.Errorf("first suggestion = %q, want list_projects", resp.SuggestedNextCalls[0].Tool)
	}
}

func TestBuilder_ErrorIncludesCause(t *testing.T) {
	resp := New().Error(errors.NewReadError("a.bin", stderrors.New("invalid UTF-8"))).Build()
	if !strings.Contains(*resp.Error, "a.bin") || !strings.HasSuffix(*resp.Error, ": invalid UTF-8") {
		t.Errorf("Error = %q", *resp.Error)
	}
}

func TestBuilder_ErrorNil(t *testing.T) {
	if New().Error(nil).Build().IsError() {
		t.Error("nil error should not mark the response")
	}
}

func TestFromFix(t *testing.T) {
	tests := []struct {
		name string
		fix  errors.FixAction
		want *SuggestedCall
	}{
		{"call tool", errors.FixAction{Type: errors.CallTool, Tool: "find_files", Description: "look"}, &SuggestedCall{Tool: "find_files", Reason: "look"}},
		{"run command", errors.FixAction{Type: errors.RunCommand, Command: "ls"}, nil},
		{"missing tool", errors.FixAction{Type: errors.CallTool}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromFix(tt.fix)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("FromFix() = %+v, want %+v", got, tt.want)
			}
			if got != nil && (got.Tool != tt.want.Tool || got.Reason != tt.want.Reason) {
				t.Errorf("FromFix() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResponse_JSON(t *testing.T) {
	resp := New().Data(map[string]int{"count": 2}).Suggest("read_file", map[string]interface{}{"relative_path": "a.txt"}, "open it").Build()

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, key := range []string{"schemaVersion", "data", "suggestedNextCalls"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing %q in %s", key, raw)
		}
	}
	for _, key := range []string{"meta", "error", "errorCode", "warnings"} {
		if _, ok := decoded[key]; ok {
			t.Errorf("unexpected %q in %s", key, raw)
		}
	}
}

func TestOperational(t *testing.T) {
	resp := Operational([]string{"alpha"})
	if resp.SchemaVersion != CurrentSchemaVersion || resp.Meta != nil || resp.IsError() {
		t.Errorf("Operational() = %+v", resp)
	}

	if !FromError(stderrors.New("x")).IsError() {
		t.Error("FromError() should be an error response")
	}
}

package mcp

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"repox/internal/envelope"
	"repox/internal/explorer"
	"repox/internal/slogutil"
	"repox/internal/testutil"
)

// newTestMCPServer creates a server whose projects root holds one
// repository, "demo", with a few files.
func newTestMCPServer(t *testing.T) (*MCPServer, string) {
	t.Helper()

	root := testutil.ProjectsRoot(t, map[string]map[string]string{
		"demo":  testutil.DemoRepo,
		"other": {"placeholder.txt": ""},
	})

	logger := slogutil.NewDiscardLogger()
	server := NewMCPServer("test", explorer.New(root, logger), logger)
	return server, root
}

// runSession feeds requests to the server until EOF and returns every
// message it wrote.
func runSession(t *testing.T, server *MCPServer, requests ...interface{}) []response {
	t.Helper()

	var in bytes.Buffer
	for _, req := range requests {
		data, err := json.Marshal(req)
		if err != nil {
			t.Fatalf("Failed to marshal request: %v", err)
		}
		in.Write(data)
		in.WriteByte('\n')
	}

	var out bytes.Buffer
	server.SetStdin(&in)
	server.SetStdout(&out)
	if err := server.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	var responses []response
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var resp response
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			t.Fatalf("Failed to parse response %q: %v", line, err)
		}
		responses = append(responses, resp)
	}
	return responses
}

// sendRequest sends a single request and returns its response
func sendRequest(t *testing.T, server *MCPServer, method string, id int, params interface{}) response {
	t.Helper()

	responses := runSession(t, server, MCPMessage{Jsonrpc: "2.0", Id: id, Method: method, Params: params})
	if len(responses) != 1 {
		t.Fatalf("got %d responses, want 1", len(responses))
	}
	return responses[0]
}

// callTool invokes a tool and decodes the envelope inside the result.
func callTool(t *testing.T, server *MCPServer, name string, args map[string]interface{}) (*CallToolResult, *envelope.Response) {
	t.Helper()

	resp := sendRequest(t, server, "tools/call", 1, map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	if resp.Error != nil {
		t.Fatalf("tools/call %s returned JSON-RPC error: %v", name, resp.Error)
	}
	return decodeToolResult(t, resp.Result)
}

func decodeToolResult(t *testing.T, raw json.RawMessage) (*CallToolResult, *envelope.Response) {
	t.Helper()

	var result CallToolResult
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("Failed to decode tool result: %v", err)
	}
	if len(result.Content) != 1 || result.Content[0].Type != "text" {
		t.Fatalf("unexpected content: %+v", result.Content)
	}

	var env envelope.Response
	if err := json.Unmarshal([]byte(result.Text()), &env); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	return &result, &env
}

// dataAs re-decodes an envelope's data into out.
func dataAs(t *testing.T, env *envelope.Response, out interface{}) {
	t.Helper()
	raw, err := json.Marshal(env.Data)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("Failed to decode data %s: %v", raw, err)
	}
}

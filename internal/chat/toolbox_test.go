package chat

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repox/internal/explorer"
	"repox/internal/mcp"
	"repox/internal/slogutil"
	"repox/internal/testutil"
)

func newToolBox(t *testing.T) *MCPToolBox {
	t.Helper()

	root := testutil.ProjectsRoot(t, map[string]map[string]string{
		"demo": {"a.txt": "alpha\n"},
	})

	logger := slogutil.NewDiscardLogger()
	server := mcp.NewMCPServer("test", explorer.New(root, logger), logger)

	serverIn, clientOut := io.Pipe()
	clientIn, serverOut := io.Pipe()
	server.SetStdin(serverIn)
	server.SetStdout(serverOut)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = server.Start()
		_ = serverOut.Close()
	}()
	t.Cleanup(func() {
		_ = clientOut.Close()
		<-done
	})

	client := mcp.NewClient(clientIn, clientOut)
	_, err := client.Initialize(context.Background(), "chat-test", "0")
	require.NoError(t, err)

	box, err := NewMCPToolBox(context.Background(), client)
	require.NoError(t, err)
	return box
}

func TestMCPToolBox(t *testing.T) {
	box := newToolBox(t)
	ctx := context.Background()

	names := make([]string, 0, len(box.Tools()))
	for _, tool := range box.Tools() {
		names = append(names, tool.Name)
	}
	assert.Contains(t, names, "set_repo")
	assert.Contains(t, names, "read_file")

	out, err := box.Call(ctx, "read_file", map[string]interface{}{"relative_path": "a.txt"})
	require.NoError(t, err)
	assert.Contains(t, out, "NO_ACTIVE_REPOSITORY")

	_, err = box.Call(ctx, "set_repo", map[string]interface{}{"path": "demo"})
	require.NoError(t, err)

	out, err = box.Call(ctx, "read_file", map[string]interface{}{"relative_path": "a.txt"})
	require.NoError(t, err)

	var env struct {
		Data string `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &env))
	assert.Equal(t, "alpha\n", env.Data)
}

func TestMCPToolBoxSchemasConvert(t *testing.T) {
	box := newToolBox(t)

	decls := functionDeclarations(box.Tools())
	for _, d := range decls {
		if d.Name == "set_repo" {
			require.NotNil(t, d.Parameters)
			assert.Equal(t, []string{"path"}, d.Parameters.Required)
			return
		}
	}
	t.Fatal("set_repo declaration not found")
}

package chat

import (
	"context"

	"repox/internal/mcp"
)

// MCPToolBox exposes the tools of an MCP server.
type MCPToolBox struct {
	client *mcp.Client
	tools  []mcp.Tool
}

// NewMCPToolBox lists the server's tools once; the set is fixed for the
// lifetime of the box.
func NewMCPToolBox(ctx context.Context, client *mcp.Client) (*MCPToolBox, error) {
	tools, err := client.ListTools(ctx)
	if err != nil {
		return nil, err
	}
	return &MCPToolBox{client: client, tools: tools}, nil
}

// Tools returns the server's tool definitions.
func (b *MCPToolBox) Tools() []mcp.Tool {
	return b.tools
}

// Call invokes a tool and returns the text of its result envelope.
func (b *MCPToolBox) Call(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	result, err := b.client.CallTool(ctx, name, args)
	if err != nil {
		return "", err
	}
	return result.Text(), nil
}

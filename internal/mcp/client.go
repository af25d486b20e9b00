package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"
)

// Client speaks MCP to a server over a pair of streams. Calls are
// serialized; each waits for the response with the matching id.
//
// Responses are read whole with no size cap: read_file and list_all_files
// are not truncated, and their doubly escaped envelopes can exceed
// MaxMessageSize.
//
// Reads block. A context is checked before every call, and cancelling the
// context given to StartProcess kills the server, which unblocks a pending
// read with EOF.
type Client struct {
	w       io.Writer
	r       *bufio.Reader
	closeFn func() error

	mu      sync.Mutex
	nextID  int64
	readErr error // sticky: the stream is unusable after a failed read
}

// NewClient creates a client reading responses from r and writing requests to w.
func NewClient(r io.Reader, w io.Writer) *Client {
	return &Client{
		w: w,
		r: bufio.NewReaderSize(r, 64*1024),
	}
}

// StartProcess launches an MCP server subprocess and connects to its
// stdin/stdout. The server's stderr is copied to stderr when non-nil.
func StartProcess(ctx context.Context, name string, args []string, stderr io.Writer) (*Client, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start MCP server %s: %w", name, err)
	}

	c := NewClient(stdout, stdin)
	c.closeFn = func() error {
		_ = stdin.Close()
		err := cmd.Wait()
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	return c, nil
}

// Close shuts down a server started with StartProcess. It is a no-op for
// clients built with NewClient.
func (c *Client) Close() error {
	if c.closeFn == nil {
		return nil
	}
	fn := c.closeFn
	c.closeFn = nil
	return fn()
}

// Initialize performs the MCP handshake.
func (c *Client) Initialize(ctx context.Context, name, version string) (*InitializeResult, error) {
	params := map[string]interface{}{
		"protocolVersion": ProtocolVersion,
		"capabilities":    map[string]interface{}{},
		"clientInfo":      ServerInfo{Name: name, Version: version},
	}

	var result InitializeResult
	if err := c.call(ctx, "initialize", params, &result); err != nil {
		return nil, err
	}
	if err := c.notify("notifications/initialized", nil); err != nil {
		return nil, err
	}
	return &result, nil
}

// Ping checks that the server is responsive.
func (c *Client) Ping(ctx context.Context) error {
	return c.call(ctx, "ping", nil, nil)
}

// ListTools returns the server's tools.
func (c *Client) ListTools(ctx context.Context) ([]Tool, error) {
	var result ListToolsResult
	if err := c.call(ctx, "tools/list", nil, &result); err != nil {
		return nil, err
	}
	return result.Tools, nil
}

// CallTool invokes a tool. A tool-level failure is not an error: it is
// reported through CallToolResult.IsError.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]interface{}) (*CallToolResult, error) {
	if args == nil {
		args = map[string]interface{}{}
	}
	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}

	var result CallToolResult
	if err := c.call(ctx, "tools/call", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) call(ctx context.Context, method string, params interface{}, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.readErr != nil {
		return fmt.Errorf("%s: %w", method, c.readErr)
	}

	c.nextID++
	id := c.nextID
	if err := c.send(&MCPMessage{Jsonrpc: "2.0", Id: id, Method: method, Params: params}); err != nil {
		return err
	}

	want := strconv.FormatInt(id, 10)
	for {
		resp, err := c.receive()
		if err != nil {
			return fmt.Errorf("%s: %w", method, err)
		}
		// Skip server notifications and stale responses.
		if resp.Method != "" || string(resp.Id) != want {
			continue
		}
		if resp.Error != nil {
			return resp.Error
		}
		if out == nil || len(resp.Result) == 0 {
			return nil
		}
		if err := json.Unmarshal(resp.Result, out); err != nil {
			return fmt.Errorf("%s: bad result: %w", method, err)
		}
		return nil
	}
}

func (c *Client) notify(method string, params interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.send(NewNotificationMessage(method, params))
}

func (c *Client) send(msg *MCPMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = c.w.Write(data)
	return err
}

func (c *Client) receive() (*response, error) {
	for {
		line, err := c.r.ReadBytes('\n')
		if err != nil && (err != io.EOF || len(bytes.TrimSpace(line)) == 0) {
			c.readErr = err
			return nil, err
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var resp response
		if err := json.Unmarshal(line, &resp); err != nil {
			return nil, fmt.Errorf("error parsing JSON-RPC message: %w", err)
		}
		return &resp, nil
	}
}

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/google/uuid"
)

type Method string

func (m Method) String() string {
	return string(m)
}

const (
	MethodInitialize              Method = "initialize"
	MethodNotificationInitialized Method = "notifications/initialized"
	MethodToolsList               Method = "tools/list"
	MethodToolCall                Method = "tools/call"
)

type JSONRPCRequest struct {
	ID         string         `json:"id,omitempty"`
	RPCVersion string         `json:"jsonrpc"`
	Method     string         `json:"method"`
	Params     map[string]any `json:"params,omitempty"`
}

type JSONRPCResult struct {
	ID         string         `json:"id,omitempty"`
	RPCVersion string         `json:"jsonrpc"`
	Result     map[string]any `json:"result,omitempty"`
	Error      *JSONRPCError  `json:"error,omitempty"`
}

type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Tool describes one callable operation exported by a tool server.
type Tool struct {
	Name        string
	Description string
	InputSchema ToolInputSchema
}

type ToolInputSchema struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
	Required   []string       `json:"required,omitempty"`
}

// ToolResult is the payload a server returned for one tools/call. IsError
// marks a failure of the tool itself, as opposed to a protocol failure.
type ToolResult struct {
	Content string
	IsError bool
}

// Client speaks JSON-RPC 2.0 with a single tool server over its stdio.
// Calls are sequential; the client is not safe for concurrent use.
type Client struct {
	name   string
	config ServerConfig

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser
	dec    *json.Decoder

	// https://modelcontextprotocol.io/docs/concepts/architecture#1-initialization
	initialized bool
	closed      bool
}

func NewClient(name string, config ServerConfig) *Client {
	return &Client{
		name:   name,
		config: config,
	}
}

// Name returns the server name this client was configured with.
func (c *Client) Name() string {
	return c.name
}

// Connect spawns the server subprocess and wires its stdio as the duplex
// channel. The process is started but not yet initialized.
func (c *Client) Connect(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, c.config.Command, c.config.Args...)
	if c.config.Env != nil {
		env := os.Environ()
		for k, v := range c.config.Env {
			env = append(env, k+"="+v)
		}
		cmd.Env = env
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return &ConnectionError{Server: c.name, Err: err}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &ConnectionError{Server: c.name, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return &ConnectionError{Server: c.name, Err: err}
	}

	if err := cmd.Start(); err != nil {
		return &ConnectionError{Server: c.name, Err: err}
	}

	// A server that logs more than the pipe buffer to stderr would block
	// mid-call; keep the pipe drained for the life of the process.
	go func() {
		_, _ = io.Copy(io.Discard, stderr)
	}()

	c.cmd = cmd
	c.stdin = stdin
	c.stdout = stdout
	c.stderr = stderr
	c.dec = json.NewDecoder(stdout)

	return nil
}

// Close tears down the server subprocess. Idempotent, and safe to call
// after a partially failed Connect.
func (c *Client) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	var errs []error
	if c.stdin != nil {
		if err := c.stdin.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.stdout != nil {
		if err := c.stdout.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.stderr != nil {
		if err := c.stderr.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.cmd != nil && c.cmd.Process != nil {
		if err := c.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			errs = append(errs, err)
		}
		_ = c.cmd.Wait()
	}

	return errors.Join(errs...)
}

// https://modelcontextprotocol.io/docs/concepts/architecture#connection-lifecycle
func (c *Client) Initialize(ctx context.Context) error {
	request := JSONRPCRequest{
		ID:         uuid.New().String(),
		RPCVersion: "2.0",
		Method:     MethodInitialize.String(),
		Params: map[string]any{
			"protocolVersion": "2025-03-26",
			"clientInfo": map[string]any{
				"name":    "mcp-chat",
				"version": "0.1.0",
			},
			"capabilities": map[string]any{},
		},
	}

	result, err := c.sendRequest(ctx, request)
	if err != nil {
		return err
	}

	if result.Error != nil {
		return &ConnectionError{Server: c.name, Err: errors.New(result.Error.Message)}
	}

	notificationInitializedRequest := JSONRPCRequest{
		RPCVersion: "2.0",
		Method:     MethodNotificationInitialized.String(),
	}

	if err := c.sendNotification(ctx, notificationInitializedRequest); err != nil {
		return err
	}

	c.initialized = true

	return nil
}

func (c *Client) sendRequest(ctx context.Context, request JSONRPCRequest) (*JSONRPCResult, error) {
	if c.stdin == nil {
		return nil, &ConnectionError{Server: c.name, Err: errors.New("stdin is not connected")}
	}

	requestJSON, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}

	requestJSON = append(requestJSON, '\n')
	if _, err := c.stdin.Write(requestJSON); err != nil {
		return nil, err
	}

	response := JSONRPCResult{}
	if err := c.dec.Decode(&response); err != nil {
		return nil, &ProtocolError{Method: request.Method, Reason: "decode response: " + err.Error()}
	}

	return &response, nil
}

func (c *Client) sendNotification(ctx context.Context, request JSONRPCRequest) error {
	if c.stdin == nil {
		return &ConnectionError{Server: c.name, Err: errors.New("stdin is not connected")}
	}

	requestJSON, err := json.Marshal(request)
	if err != nil {
		return err
	}

	requestJSON = append(requestJSON, '\n')
	if _, err := c.stdin.Write(requestJSON); err != nil {
		return err
	}

	return nil
}

// ListTools fetches the server's tool descriptors.
func (c *Client) ListTools(ctx context.Context) ([]Tool, error) {
	request := JSONRPCRequest{
		ID:         uuid.New().String(),
		RPCVersion: "2.0",
		Method:     MethodToolsList.String(),
		Params:     map[string]any{},
	}

	result, err := c.sendRequest(ctx, request)
	if err != nil {
		return nil, err
	}

	if result.Error != nil {
		return nil, &ProtocolError{Method: request.Method, Reason: result.Error.Message}
	}

	rawTools, ok := result.Result["tools"].([]any)
	if !ok {
		return nil, &ProtocolError{Method: request.Method, Reason: "result has no tools array"}
	}

	tools := make([]Tool, 0, len(rawTools))
	for _, raw := range rawTools {
		tool, err := parseTool(raw)
		if err != nil {
			return nil, err
		}
		tools = append(tools, tool)
	}

	return tools, nil
}

// parseTool reads one tools/list entry without trusting its shape. A
// missing name or schema is left for the catalog adapter to judge.
func parseTool(raw any) (Tool, error) {
	entry, ok := raw.(map[string]any)
	if !ok {
		return Tool{}, &ProtocolError{Method: MethodToolsList.String(), Reason: "tool entry is not an object"}
	}

	tool := Tool{}
	tool.Name, _ = entry["name"].(string)
	tool.Description, _ = entry["description"].(string)

	if rawSchema, ok := entry["inputSchema"].(map[string]any); ok {
		tool.InputSchema.Type, _ = rawSchema["type"].(string)
		tool.InputSchema.Properties, _ = rawSchema["properties"].(map[string]any)
		if rawRequired, ok := rawSchema["required"].([]any); ok {
			for _, item := range rawRequired {
				if s, ok := item.(string); ok {
					tool.InputSchema.Required = append(tool.InputSchema.Required, s)
				}
			}
		}
	}

	return tool, nil
}

// CallTool forwards one invocation to the server and waits for its reply.
// A JSON-RPC error reply becomes a ToolError; a reply flagged isError is
// returned as a failed ToolResult, not an error.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (*ToolResult, error) {
	request := JSONRPCRequest{
		ID:         uuid.New().String(),
		RPCVersion: "2.0",
		Method:     MethodToolCall.String(),
		Params: map[string]any{
			"name":      name,
			"arguments": args,
		},
	}

	result, err := c.sendRequest(ctx, request)
	if err != nil {
		return nil, err
	}

	if result.Error != nil {
		return nil, &ToolError{Tool: name, Msg: result.Error.Message}
	}

	return parseToolResult(result.Result), nil
}

func parseToolResult(result map[string]any) *ToolResult {
	isError, _ := result["isError"].(bool)

	items, ok := result["content"].([]any)
	if !ok {
		// Some servers answer with a bare result object; hand it to the
		// model verbatim.
		raw, _ := json.Marshal(result)
		return &ToolResult{Content: string(raw), IsError: isError}
	}

	var sb strings.Builder
	for _, item := range items {
		block, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if text, ok := block["text"].(string); ok {
			sb.WriteString(text)
		} else {
			sb.WriteString("[non-text content]")
		}
	}

	return &ToolResult{Content: sb.String(), IsError: isError}
}

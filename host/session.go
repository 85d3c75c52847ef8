package host

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/toolbridge/mcp-chat-go/mcp"
)

// ToolTransport is the consumed tool-server boundary: a catalog cached at
// connect time and name-based invocation. *mcp.Router satisfies it.
type ToolTransport interface {
	Tools() []mcp.Tool
	CallTool(ctx context.Context, name string, args map[string]any) (*mcp.ToolResult, error)
	Close()
}

// Session owns one transport, one model backend and the conversation
// history for a single process run. History lives and dies with the
// session; nothing is persisted. Not safe for concurrent use.
type Session struct {
	transport ToolTransport
	backend   ModelBackend
	catalog   []anthropic.ToolUnionParam
	maxTurns  int

	history   []Message
	closeOnce sync.Once
}

// Connect launches the configured tool servers, adapts their catalog and
// wires the model backend. The caller must Close the returned session.
func Connect(ctx context.Context, settings Settings, config *mcp.Config) (*Session, error) {
	router, err := mcp.Connect(ctx, config)
	if err != nil {
		return nil, err
	}

	session, err := NewSession(router, NewAnthropicBackend(settings), settings.MaxTurns)
	if err != nil {
		router.Close()
		return nil, err
	}
	return session, nil
}

// NewSession assembles a session from already acquired collaborators.
func NewSession(transport ToolTransport, backend ModelBackend, maxTurns int) (*Session, error) {
	catalog, err := AdaptTools(transport.Tools())
	if err != nil {
		return nil, err
	}
	return &Session{
		transport: transport,
		backend:   backend,
		catalog:   catalog,
		maxTurns:  maxTurns,
	}, nil
}

// ToolNames lists the adapted catalog in order.
func (s *Session) ToolNames() []string {
	names := make([]string, 0, len(s.catalog))
	for _, tool := range s.catalog {
		names = append(names, tool.OfTool.Name)
	}
	return names
}

// History returns the conversation history accumulated so far.
func (s *Session) History() []Message {
	return s.history
}

// Close releases the acquired resources in reverse-acquisition order,
// exactly once. The backend handle holds nothing to release; the transport
// does. Release failures are logged inside the transport, never returned,
// so cleanup cannot mask the failure that triggered it.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.transport.Close()
	})
}

// ProcessQuery runs one query to completion: model turns and sequential
// tool dispatch alternate until the model answers without requesting a
// tool. The returned string is the turn's text plus one trace line per
// tool invocation.
func (s *Session) ProcessQuery(ctx context.Context, query string) (string, error) {
	s.history = append(s.history, Message{
		Role:    RoleUser,
		Content: []ContentBlock{NewTextBlock(query)},
	})

	var answer strings.Builder
	for turn := 0; ; turn++ {
		if turn >= s.maxTurns {
			return "", &TurnLimitError{Limit: s.maxTurns}
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}

		blocks, err := s.backend.CreateTurn(ctx, s.history, s.catalog)
		if err != nil {
			return "", &OrchestrationError{Err: err}
		}
		if len(blocks) == 0 {
			// An empty turn happens, e.g. on an immediate max_tokens stop.
			// Appending an assistant message with no content would make
			// every later request payload invalid, so finish without one.
			slog.Warn("model returned an empty turn")
			return answer.String(), nil
		}

		assistant := Message{Role: RoleAssistant}
		var results []ContentBlock
		for _, block := range blocks {
			switch {
			case block.Text != nil:
				answer.WriteString(block.Text.Text)
				assistant.Content = append(assistant.Content, block)
			case block.ToolUse != nil:
				use := block.ToolUse
				fmt.Fprintf(&answer, "[Calling tool %s with args %s]", use.Name, formatArgs(use.Input))
				assistant.Content = append(assistant.Content, block)
				results = append(results, s.dispatchTool(ctx, use))
			default:
				return "", &OrchestrationError{Err: fmt.Errorf("model emitted a block with no known variant")}
			}
		}

		s.history = append(s.history, assistant)
		if len(results) == 0 {
			return answer.String(), nil
		}

		// Every tool use above is answered here, before the next model
		// call, in emission order.
		s.history = append(s.history, Message{Role: RoleUser, Content: results})
	}
}

// dispatchTool invokes one tool synchronously. An invocation failure is
// encoded into the result block so the model can react; it never aborts
// the query.
func (s *Session) dispatchTool(ctx context.Context, use *ToolUseBlock) ContentBlock {
	slog.Info("calling tool", slog.String("tool", use.Name))

	result, err := s.transport.CallTool(ctx, use.Name, use.Input)
	if err != nil {
		slog.Warn("tool invocation failed",
			slog.String("tool", use.Name),
			slog.Any("error", err))
		return NewToolResultBlock(use.ID, err.Error(), true)
	}

	return NewToolResultBlock(use.ID, result.Content, result.IsError)
}

// formatArgs renders tool arguments for the trace line as a dict-style
// literal with sorted keys, e.g. {'a': 2, 'b': 2}.
func formatArgs(args map[string]any) string {
	keys := make([]string, 0, len(args))
	for key := range args {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("'" + key + "': ")
		sb.WriteString(formatArgValue(args[key]))
	}
	sb.WriteByte('}')
	return sb.String()
}

func formatArgValue(value any) string {
	switch v := value.(type) {
	case string:
		return "'" + v + "'"
	case bool:
		if v {
			return "True"
		}
		return "False"
	case nil:
		return "None"
	case float64:
		// JSON numbers decode as float64; print whole numbers without a
		// fractional part.
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

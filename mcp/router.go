package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Router presents a set of tool servers as one transport session: a merged
// tool catalog, fetched once at connect time, and name-based dispatch for
// invocations.
type Router struct {
	clients []*Client // connect order, for reverse-order release
	byTool  map[string]*Client
	tools   []Tool

	closeOnce sync.Once
}

// Connect launches every configured server, performs the protocol
// handshake, and fetches the merged tool catalog. On any failure the
// already connected servers are shut down before returning.
func Connect(ctx context.Context, config *Config) (*Router, error) {
	r := &Router{byTool: make(map[string]*Client)}

	names := make([]string, 0, len(config.Servers))
	for name := range config.Servers {
		names = append(names, name)
	}
	sort.Strings(names)

	// client and server are 1:1
	for _, name := range names {
		client := NewClient(name, config.Servers[name])
		if err := client.Connect(ctx); err != nil {
			r.Close()
			return nil, err
		}
		r.clients = append(r.clients, client)

		if err := client.Initialize(ctx); err != nil {
			r.Close()
			return nil, err
		}
	}

	if err := r.loadCatalog(ctx); err != nil {
		r.Close()
		return nil, err
	}

	return r, nil
}

// loadCatalog fans out tools/list across the connected servers and merges
// the results in server order. Tool names must be unique across servers so
// that dispatch by name stays unambiguous.
func (r *Router) loadCatalog(ctx context.Context) error {
	lists := make([][]Tool, len(r.clients))

	var wg errgroup.Group
	for i, client := range r.clients {
		i, client := i, client
		wg.Go(func() error {
			tools, err := client.ListTools(ctx)
			if err != nil {
				return fmt.Errorf("list tools for %s: %w", client.Name(), err)
			}
			lists[i] = tools
			return nil
		})
	}
	if err := wg.Wait(); err != nil {
		return err
	}

	for i, tools := range lists {
		client := r.clients[i]
		for _, tool := range tools {
			if other, ok := r.byTool[tool.Name]; ok {
				return &ProtocolError{
					Method: MethodToolsList.String(),
					Reason: fmt.Sprintf("tool %q exported by both %s and %s", tool.Name, other.Name(), client.Name()),
				}
			}
			r.byTool[tool.Name] = client
			r.tools = append(r.tools, tool)
		}
	}

	return nil
}

// Tools returns the catalog fetched at connect time. The slice is shared;
// callers must not mutate it.
func (r *Router) Tools() []Tool {
	return r.tools
}

// CallTool routes one invocation to the server exporting the named tool.
func (r *Router) CallTool(ctx context.Context, name string, args map[string]any) (*ToolResult, error) {
	client, ok := r.byTool[name]
	if !ok {
		return nil, &ToolError{Tool: name, Msg: "no connected server exports this tool"}
	}
	return client.CallTool(ctx, name, args)
}

// Close shuts down every server in reverse-connect order, exactly once.
// Failures are logged, not returned, so cleanup cannot mask the error that
// triggered it.
func (r *Router) Close() {
	r.closeOnce.Do(func() {
		for i := len(r.clients) - 1; i >= 0; i-- {
			if err := r.clients[i].Close(); err != nil {
				slog.Warn("failed to close tool server",
					slog.String("server", r.clients[i].Name()),
					slog.Any("error", err))
			}
		}
	})
}

package mcp

import "fmt"

// ConnectionError reports a failure to spawn or handshake with a tool
// server. It is fatal to session startup.
type ConnectionError struct {
	Server string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect to server %s: %v", e.Server, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ProtocolError reports malformed or unexpected data from a tool server.
// The session stays usable after one.
type ProtocolError struct {
	Method string
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Method, e.Reason)
}

// ToolError reports that an invoked tool itself failed. The conversation
// recovers by handing the failure back to the model as a tool result.
type ToolError struct {
	Tool string
	Msg  string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s failed: %s", e.Tool, e.Msg)
}

package host

import "fmt"

// SchemaError reports a malformed tool descriptor. A single bad descriptor
// excludes that tool from the catalog; the session starts without it.
type SchemaError struct {
	Tool   string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Tool == "" {
		return "tool schema: " + e.Reason
	}
	return fmt.Sprintf("tool schema %s: %s", e.Tool, e.Reason)
}

// OrchestrationError wraps a model-backend failure during a turn. It is
// fatal to the current query, not to the session.
type OrchestrationError struct {
	Err error
}

func (e *OrchestrationError) Error() string {
	return fmt.Sprintf("model turn failed: %v", e.Err)
}

func (e *OrchestrationError) Unwrap() error { return e.Err }

// TurnLimitError reports that one query exceeded the configured number of
// model-call cycles without the model settling on an answer.
type TurnLimitError struct {
	Limit int
}

func (e *TurnLimitError) Error() string {
	return fmt.Sprintf("query exceeded %d model turns", e.Limit)
}

package host

// Role identifies who authored a message in the conversation history.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in the conversation history. History is ordered and
// append-only; it is the literal context window sent to the model.
type Message struct {
	Role    Role
	Content []ContentBlock
}

// ContentBlock is a tagged union: exactly one of Text, ToolUse or
// ToolResult is set.
type ContentBlock struct {
	Text       *TextBlock
	ToolUse    *ToolUseBlock
	ToolResult *ToolResultBlock
}

type TextBlock struct {
	Text string
}

// ToolUseBlock is a model-emitted request to invoke a named tool.
type ToolUseBlock struct {
	ID    string
	Name  string
	Input map[string]any
}

// ToolResultBlock answers the earlier ToolUseBlock with the matching ID.
type ToolResultBlock struct {
	ToolUseID string
	Content   string
	IsError   bool
}

func NewTextBlock(text string) ContentBlock {
	return ContentBlock{Text: &TextBlock{Text: text}}
}

func NewToolUseBlock(id, name string, input map[string]any) ContentBlock {
	return ContentBlock{ToolUse: &ToolUseBlock{ID: id, Name: name, Input: input}}
}

func NewToolResultBlock(toolUseID, content string, isError bool) ContentBlock {
	return ContentBlock{ToolResult: &ToolResultBlock{ToolUseID: toolUseID, Content: content, IsError: isError}}
}

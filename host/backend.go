package host

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ModelBackend is the consumed model API boundary: full history plus tool
// catalog in, one complete turn of content blocks out. No streaming.
type ModelBackend interface {
	CreateTurn(ctx context.Context, history []Message, tools []anthropic.ToolUnionParam) ([]ContentBlock, error)
}

// AnthropicBackend drives the Anthropic Messages API.
type AnthropicBackend struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

func NewAnthropicBackend(settings Settings, opts ...option.RequestOption) *AnthropicBackend {
	opts = append([]option.RequestOption{option.WithAPIKey(settings.APIKey)}, opts...)
	return &AnthropicBackend{
		client:    anthropic.NewClient(opts...),
		model:     anthropic.Model(settings.Model),
		maxTokens: settings.MaxTokens,
	}
}

// CreateTurn sends the history and returns the model's content blocks in
// emission order. An unrecognized block variant fails the turn rather than
// being silently dropped.
func (b *AnthropicBackend) CreateTurn(ctx context.Context, history []Message, tools []anthropic.ToolUnionParam) ([]ContentBlock, error) {
	messages, err := toMessageParams(history)
	if err != nil {
		return nil, err
	}

	message, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     b.model,
		MaxTokens: b.maxTokens,
		Messages:  messages,
		Tools:     tools,
	})
	if err != nil {
		return nil, err
	}

	blocks := make([]ContentBlock, 0, len(message.Content))
	for _, block := range message.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			blocks = append(blocks, NewTextBlock(v.Text))
		case anthropic.ToolUseBlock:
			var input map[string]any
			if err := json.Unmarshal([]byte(v.JSON.Input.Raw()), &input); err != nil {
				return nil, fmt.Errorf("decode input for tool %s: %w", v.Name, err)
			}
			blocks = append(blocks, NewToolUseBlock(v.ID, v.Name, input))
		default:
			return nil, fmt.Errorf("unrecognized content block type %q", block.Type)
		}
	}

	return blocks, nil
}

// toMessageParams converts the neutral history into Messages API params. A
// content block with no variant set is a programming error, not something
// to skip.
func toMessageParams(history []Message) ([]anthropic.MessageParam, error) {
	params := make([]anthropic.MessageParam, 0, len(history))
	for _, message := range history {
		content := make([]anthropic.ContentBlockParamUnion, 0, len(message.Content))
		for _, block := range message.Content {
			switch {
			case block.Text != nil:
				content = append(content, anthropic.NewTextBlock(block.Text.Text))
			case block.ToolUse != nil:
				content = append(content, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    block.ToolUse.ID,
						Name:  block.ToolUse.Name,
						Input: block.ToolUse.Input,
					},
				})
			case block.ToolResult != nil:
				content = append(content, anthropic.NewToolResultBlock(
					block.ToolResult.ToolUseID,
					block.ToolResult.Content,
					block.ToolResult.IsError,
				))
			default:
				return nil, fmt.Errorf("content block in %s message has no variant set", message.Role)
			}
		}
		params = append(params, anthropic.MessageParam{
			Role:    anthropic.MessageParamRole(message.Role),
			Content: content,
		})
	}
	return params, nil
}

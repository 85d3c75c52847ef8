package host

import (
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/toolbridge/mcp-chat-go/mcp"
)

// AdaptTools converts server tool descriptors into the schema shape the
// Messages API expects. A malformed descriptor excludes that tool only;
// the skip is logged. Adapting fails outright when a non-empty catalog
// yields nothing usable.
func AdaptTools(tools []mcp.Tool) ([]anthropic.ToolUnionParam, error) {
	adapted := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, tool := range tools {
		if err := validateTool(tool); err != nil {
			slog.Warn("skipping tool with malformed descriptor",
				slog.String("tool", tool.Name),
				slog.Any("error", err))
			continue
		}

		adapted = append(adapted, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        tool.Name,
				Description: anthropic.String(tool.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: tool.InputSchema.Properties,
				},
			},
		})
	}

	if len(tools) > 0 && len(adapted) == 0 {
		return nil, &SchemaError{Reason: "no usable tool descriptors in catalog"}
	}

	return adapted, nil
}

func validateTool(tool mcp.Tool) error {
	if tool.Name == "" {
		return &SchemaError{Reason: "missing name"}
	}
	if tool.InputSchema.Properties == nil {
		return &SchemaError{Tool: tool.Name, Reason: "missing input schema"}
	}
	return nil
}

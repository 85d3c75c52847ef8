package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolbridge/mcp-chat-go/mcp"
)

func TestAdaptTools_PreservesNameAndSchema(t *testing.T) {
	properties := map[string]any{
		"a": map[string]any{"type": "number"},
		"b": map[string]any{"type": "number"},
	}
	tools := []mcp.Tool{{
		Name:        "add",
		Description: "Add two numbers",
		InputSchema: mcp.ToolInputSchema{Type: "object", Properties: properties},
	}}

	adapted, err := AdaptTools(tools)
	require.NoError(t, err)
	require.Len(t, adapted, 1)

	tool := adapted[0].OfTool
	require.NotNil(t, tool)
	assert.Equal(t, "add", tool.Name)
	assert.Equal(t, "Add two numbers", tool.Description.Value)
	assert.Equal(t, properties, tool.InputSchema.Properties)
}

func TestAdaptTools_SkipsMalformedDescriptor(t *testing.T) {
	tools := []mcp.Tool{
		{Name: "", InputSchema: mcp.ToolInputSchema{Properties: map[string]any{}}},
		{Name: "echo", InputSchema: mcp.ToolInputSchema{Properties: map[string]any{}}},
		{Name: "no-schema"},
	}

	adapted, err := AdaptTools(tools)
	require.NoError(t, err)
	require.Len(t, adapted, 1)
	assert.Equal(t, "echo", adapted[0].OfTool.Name)
}

func TestAdaptTools_AllMalformed(t *testing.T) {
	tools := []mcp.Tool{{Name: ""}, {Name: "bad"}}

	_, err := AdaptTools(tools)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestAdaptTools_EmptyCatalog(t *testing.T) {
	adapted, err := AdaptTools(nil)
	require.NoError(t, err)
	assert.Empty(t, adapted)
}

package mcp

import (
	"encoding/json"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/striderml/strider"
)

func TestFromMCPTool(t *testing.T) {
	t.Run("prefers raw input schema", func(t *testing.T) {
		schema := json.RawMessage(`{"type":"object","properties":{"q":{"type":"string"}}}`)
		converted := FromMCPTool(mcplib.NewToolWithRawSchema("search", "Search things", schema))

		assert.Equal(t, "search", converted.Name)
		assert.Equal(t, "Search things", converted.Description)
		assert.JSONEq(t, string(schema), string(converted.Parameters))
	})
}

func TestToCallToolRequest(t *testing.T) {
	t.Run("parses JSON arguments", func(t *testing.T) {
		req := ToCallToolRequest(ai.ToolCall{
			ID:        "call_1",
			Name:      "search",
			Arguments: `{"q":"weather"}`,
		})

		assert.Equal(t, "search", req.Params.Name)
		args, ok := req.Params.Arguments.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "weather", args["q"])
	})

	t.Run("non-JSON arguments pass through as string", func(t *testing.T) {
		req := ToCallToolRequest(ai.ToolCall{Name: "echo", Arguments: "plain text"})
		assert.Equal(t, "plain text", req.Params.Arguments)
	})

	t.Run("empty arguments stay nil", func(t *testing.T) {
		req := ToCallToolRequest(ai.ToolCall{Name: "noop"})
		assert.Nil(t, req.Params.Arguments)
	})
}

func TestResultText(t *testing.T) {
	t.Run("joins text blocks", func(t *testing.T) {
		result := &mcplib.CallToolResult{
			Content: []mcplib.Content{
				mcplib.TextContent{Type: "text", Text: "first"},
				mcplib.TextContent{Type: "text", Text: "second"},
			},
		}
		assert.Equal(t, "first\nsecond", ResultText(result))
	})

	t.Run("nil result is empty", func(t *testing.T) {
		assert.Equal(t, "", ResultText(nil))
	})
}

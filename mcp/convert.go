package mcp

import (
	"encoding/json"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	ai "github.com/striderml/strider"
)

// ToMCPTool converts a strider Tool to an MCP Tool.
// The Tool.Parameters JSON schema is used as the MCP Tool's RawInputSchema.
func ToMCPTool(t ai.Tool) mcplib.Tool {
	return mcplib.NewToolWithRawSchema(t.Name, t.Description, t.Parameters)
}

// FromMCPTool converts an MCP Tool to a strider Tool.
// It extracts the JSON schema from either RawInputSchema or InputSchema.
func FromMCPTool(t mcplib.Tool) ai.Tool {
	var schema json.RawMessage

	if len(t.RawInputSchema) > 0 {
		schema = t.RawInputSchema
	} else {
		data, err := json.Marshal(t.InputSchema)
		if err == nil {
			schema = data
		}
	}

	return ai.Tool{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  schema,
	}
}

// ToCallToolRequest converts a strider ToolCall to an MCP CallToolRequest.
func ToCallToolRequest(call ai.ToolCall) mcplib.CallToolRequest {
	var args any
	if call.Arguments != "" {
		// Arguments should be JSON; fall back to the raw string if not.
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			args = call.Arguments
		}
	}

	return mcplib.CallToolRequest{
		Params: mcplib.CallToolParams{
			Name:      call.Name,
			Arguments: args,
		},
	}
}

// ResultText extracts the textual content of an MCP tool result,
// concatenating text blocks and JSON-encoding anything else.
func ResultText(result *mcplib.CallToolResult) string {
	if result == nil {
		return ""
	}

	var textParts []string
	for _, c := range result.Content {
		switch content := c.(type) {
		case mcplib.TextContent:
			textParts = append(textParts, content.Text)
		case *mcplib.TextContent:
			textParts = append(textParts, content.Text)
		default:
			if data, err := json.Marshal(content); err == nil {
				textParts = append(textParts, string(data))
			}
		}
	}

	if result.StructuredContent != nil {
		if data, err := json.Marshal(result.StructuredContent); err == nil {
			textParts = append(textParts, string(data))
		}
	}

	return strings.Join(textParts, "\n")
}

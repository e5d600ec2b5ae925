// Command mcpserve is a reference MCP server that exposes a tool registry
// over stdio, letting MCP clients discover and call the tools.
//
// Usage:
//
//	go run ./cmd/mcpserve
//
// Example client configuration:
//
//	{
//	    "mcpServers": {
//	        "strider-tools": {
//	            "command": "go",
//	            "args": ["run", "./cmd/mcpserve"],
//	            "cwd": "/path/to/strider"
//	        }
//	    }
//	}
package main

import (
	"context"
	"log"

	"github.com/striderml/strider/mcp"
	"github.com/striderml/strider/schema"
	"github.com/striderml/strider/tool"
)

func main() {
	registry := tool.NewRegistry().AddTools(
		echoTool(),
		reverseTool(),
	)

	if err := mcp.ServeStdio(registry,
		mcp.WithName("strider-tools"),
		mcp.WithVersion("1.0.0"),
	); err != nil {
		log.Fatal(err)
	}
}

type echoArgs struct {
	Text string `json:"text"`
}

func echoTool() tool.Registration {
	params := schema.Object().
		Field("text", schema.String().Desc("The text to echo back.").Required()).
		MustBuild()

	return tool.Func("echo", "Echo back the input text.", params,
		func(ctx context.Context, args echoArgs) (string, error) {
			return args.Text, nil
		})
}

type reverseArgs struct {
	Text string `json:"text"`
}

func reverseTool() tool.Registration {
	params := schema.Object().
		Field("text", schema.String().Desc("The text to reverse.").Required()).
		MustBuild()

	return tool.Func("reverse", "Reverse the input text.", params,
		func(ctx context.Context, args reverseArgs) (string, error) {
			runes := []rune(args.Text)
			for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
				runes[i], runes[j] = runes[j], runes[i]
			}
			return string(runes), nil
		})
}

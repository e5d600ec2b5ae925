// Package strider is a small orchestration library for language-model-driven
// agents. It provides the core of an iterative think/act/observe loop: an
// ordered tool registry with ownership tagging, a connection manager for
// remote MCP tool servers, stuck-state detection, and an event-streaming
// wrapper with deterministic cleanup.
//
// The root package holds the shared data model used by every subpackage:
// messages, tool definitions, tool calls and results, chat options, and
// categorized errors.
//
// # Basic Usage
//
//	registry := tool.NewRegistry().AddTools(tool.Terminate())
//
//	a := agent.New(client,
//	    agent.WithRegistry(registry),
//	    agent.WithMaxSteps(10),
//	)
//
//	for ev := range a.Stream(ctx, "Summarize the latest release notes") {
//	    switch ev.Type {
//	    case agent.EventContent:
//	        fmt.Println(ev.Content)
//	    case agent.EventError:
//	        log.Fatal(ev.Err)
//	    }
//	}
//
// Concrete model access lives in provider/anthropic and provider/openai;
// remote tools are attached through the mcp package.
package strider

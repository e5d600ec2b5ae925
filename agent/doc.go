// Package agent implements the think/act/observe loop at the heart of strider.
//
// An Agent owns its conversation memory and a tool registry, and drives a
// strictly sequential loop: the model produces the next message (think), any
// requested tool calls are dispatched through the registry (act), and the
// results are reconciled into memory (observe). The loop ends when a terminal
// tool reports success, the model stops requesting tools, the step budget is
// exhausted, repeated identical states trip the stuck detector, or an error
// occurs.
//
// # Streaming
//
// Stream returns a channel of events, one or more per completed step, and
// guarantees that cleanup (closing remote tool-server sessions and releasing
// stateful tool resources) runs exactly once on every exit path, including
// consumer-initiated cancellation:
//
//	a := agent.New(client, agent.WithMaxSteps(10))
//	for ev := range a.Stream(ctx, "Find the cheapest flight to Lisbon") {
//	    switch ev.Type {
//	    case agent.EventContent:
//	        fmt.Println(ev.Content)
//	    case agent.EventError:
//	        log.Println("run failed:", ev.Err)
//	    }
//	}
//
// Agents are single-use: once a run finishes, construct a new Agent for the
// next one. Multiple agents are fully independent and share no mutable state.
package agent

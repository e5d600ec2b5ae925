package agent

import (
	"log/slog"

	ai "github.com/striderml/strider"
	"github.com/striderml/strider/mcp"
	"github.com/striderml/strider/tool"
)

// Defaults applied when the corresponding option is not set.
const (
	DefaultMaxSteps   = 10
	DefaultMaxObserve = 10000
	DefaultMaxStuck   = 3
)

// Option is a functional option for configuring an Agent at construction.
// All limits are fixed once the agent is created; there is no runtime mutation.
type Option func(*Agent)

// WithID sets the agent's identifier. A random one is generated otherwise.
func WithID(id string) Option {
	return func(a *Agent) {
		a.id = id
	}
}

// WithRegistry supplies the tool registry. When omitted, the agent creates
// its own registry containing only the built-in terminate tool.
func WithRegistry(registry *tool.Registry) Option {
	return func(a *Agent) {
		a.registry = registry
	}
}

// WithServerManager attaches a remote tool-server manager whose sessions are
// torn down during cleanup.
func WithServerManager(m *mcp.Manager) Option {
	return func(a *Agent) {
		a.servers = m
	}
}

// WithSystemPrompt overrides the default system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(a *Agent) {
		a.systemPrompt = prompt
	}
}

// WithNextStepPrompt overrides the default per-step prompt.
func WithNextStepPrompt(prompt string) Option {
	return func(a *Agent) {
		a.nextStepPrompt = prompt
	}
}

// WithMaxSteps limits the number of think/act/observe cycles.
func WithMaxSteps(n int) Option {
	return func(a *Agent) {
		a.maxSteps = n
	}
}

// WithMaxObserve caps the length of a single tool observation recorded in
// memory. Longer output is truncated and marked partial. 0 disables the cap.
func WithMaxObserve(n int) Option {
	return func(a *Agent) {
		a.maxObserve = n
	}
}

// WithMaxStuck sets how many consecutive identical loop states end the run.
func WithMaxStuck(n int) Option {
	return func(a *Agent) {
		a.stuck = NewStuckDetector(n)
	}
}

// WithStatefulTool designates a session-holding tool. After the named tool
// appears in recent tool calls, the next reasoning step receives an augmented
// prompt built from the provider's current context; the provider's Cleanup is
// invoked when the run ends.
func WithStatefulTool(name string, provider tool.Stateful) Option {
	return func(a *Agent) {
		a.statefulName = name
		a.stateful = provider
	}
}

// WithChatOptions passes options through to every model call (model
// selection, temperature, token limits).
func WithChatOptions(opts ...ai.Option) Option {
	return func(a *Agent) {
		a.chatOpts = append(a.chatOpts, opts...)
	}
}

// WithLogger sets the structured logger used for loop diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

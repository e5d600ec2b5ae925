package agent

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	ai "github.com/striderml/strider"
	"github.com/striderml/strider/chat"
	"github.com/striderml/strider/internal/memory"
	"github.com/striderml/strider/mcp"
	"github.com/striderml/strider/tool"
)

// recentWindow is how many trailing memory entries are scanned for stateful
// tool use when deciding whether to augment the next-step prompt.
const recentWindow = 3

// Agent drives one think/act/observe run. It owns its memory exclusively;
// nothing is shared between agent instances.
type Agent struct {
	id     string
	client chat.Client

	registry *tool.Registry
	servers  *mcp.Manager
	memory   *memory.Store
	logger   *slog.Logger

	systemPrompt   string
	nextStepPrompt string

	statefulName string
	stateful     tool.Stateful

	chatOpts []ai.Option

	maxSteps   int
	maxObserve int
	stuck      *StuckDetector

	state  State
	reason TerminationReason
	step   int

	// pending holds tool results produced by Act and not yet reconciled
	// into memory by Observe.
	pending []ai.ToolResult

	cleanupOnce sync.Once
}

// New creates an Agent around the given model client.
func New(client chat.Client, opts ...Option) *Agent {
	a := &Agent{
		id:             "agent-" + uuid.New().String(),
		client:         client,
		memory:         memory.New(),
		logger:         slog.Default(),
		systemPrompt:   DefaultSystemPrompt,
		nextStepPrompt: DefaultNextStepPrompt,
		maxSteps:       DefaultMaxSteps,
		maxObserve:     DefaultMaxObserve,
		state:          StateIdle,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.registry == nil {
		a.registry = tool.NewRegistry().AddTools(tool.Terminate())
	}
	if a.stuck == nil {
		a.stuck = NewStuckDetector(DefaultMaxStuck)
	}
	return a
}

// ID returns the agent's identifier.
func (a *Agent) ID() string { return a.id }

// State returns the agent's lifecycle state.
func (a *Agent) State() State { return a.state }

// Reason returns why the run stopped; empty while the agent has not reached
// a terminal state.
func (a *Agent) Reason() TerminationReason { return a.reason }

// Registry returns the agent's tool registry.
func (a *Agent) Registry() *tool.Registry { return a.registry }

// Messages returns a copy of the conversation memory.
func (a *Agent) Messages() []ai.Message { return a.memory.Messages() }

// Steps returns the number of completed loop iterations.
func (a *Agent) Steps() int { return a.step }

// ConnectServers connects the attached server manager to each described
// remote tool server, isolating failures per server. It returns the number
// of servers connected, or 0 when no manager is attached.
func (a *Agent) ConnectServers(ctx context.Context, servers []mcp.ServerConfig) int {
	if a.servers == nil {
		return 0
	}
	return a.servers.InitializeFromConfig(ctx, servers)
}

// Think asks the model for the next message and appends it to memory.
// When the designated stateful tool was invoked within the last few memory
// entries, the next-step prompt is augmented with that tool's current
// context for this call only; the configured prompt itself is never mutated,
// so the substitution cannot leak into later steps.
//
// Returns false when the model requested no tool calls, meaning the loop may
// end without acting.
func (a *Agent) Think(ctx context.Context) (bool, error) {
	prompt := a.nextStepPrompt
	if a.stateful != nil && a.statefulInRecentUse() {
		snapshot, err := a.stateful.CurrentContext(ctx)
		if err != nil {
			a.logger.Warn("stateful tool context unavailable", "agent", a.id, "tool", a.statefulName, "error", err)
		} else {
			prompt = renderStatefulPrompt(snapshot, a.nextStepPrompt)
		}
	}

	msgs := make([]ai.Message, 0, a.memory.Len()+2)
	if a.systemPrompt != "" {
		msgs = append(msgs, ai.NewSystemMessage(a.systemPrompt))
	}
	msgs = append(msgs, a.memory.Messages()...)
	if prompt != "" {
		msgs = append(msgs, ai.NewUserMessage(prompt))
	}

	opts := append(append([]ai.Option{}, a.chatOpts...), ai.WithTools(a.registry.Specs()))
	resp, err := a.client.Chat(ctx, msgs, opts...)
	if err != nil {
		return false, err
	}

	a.memory.Append(ai.Message{
		ID:        ai.GenerateMessageID(),
		Role:      ai.RoleAssistant,
		Content:   resp.Content,
		ToolCalls: resp.ToolCalls,
	})
	a.stuck.Observe(fingerprint(resp))

	return len(resp.ToolCalls) > 0, nil
}

// statefulInRecentUse reports whether the designated stateful tool appears
// among the tool calls of the last few memory entries.
func (a *Agent) statefulInRecentUse() bool {
	for _, msg := range a.memory.Last(recentWindow) {
		for _, tc := range msg.ToolCalls {
			if tc.Name == a.statefulName {
				return true
			}
		}
	}
	return false
}

// fingerprint reduces a model response to the high-level loop state used for
// stuck detection: identical content plus identical tool requests mean the
// reasoning has not moved.
func fingerprint(resp *ai.Response) string {
	var b strings.Builder
	b.WriteString(resp.Content)
	for _, tc := range resp.ToolCalls {
		b.WriteByte('\x1f')
		b.WriteString(tc.Name)
		b.WriteByte('\x1f')
		b.WriteString(tc.Arguments)
	}
	return b.String()
}

// Act dispatches each tool call from the most recent assistant message
// through the registry and returns the combined non-empty outputs. Results
// are staged for Observe rather than written to memory directly.
//
// A successful result from a terminal tool, or a result whose content is
// exactly the termination sentinel, moves the agent to StateFinished and
// stops dispatching the remaining calls.
func (a *Agent) Act(ctx context.Context) (string, error) {
	last := a.memory.LastAssistant()
	if last == nil || len(last.ToolCalls) == 0 {
		return "", nil
	}

	var outputs []string
	for _, call := range last.ToolCalls {
		a.logger.Debug("dispatching tool", "agent", a.id, "step", a.step, "tool", call.Name)

		result, err := a.registry.Execute(ctx, call)
		if err != nil {
			return "", err
		}

		a.pending = append(a.pending, result)
		if result.Content != "" {
			outputs = append(outputs, result.Content)
		}

		if a.isTermination(call.Name, result) {
			a.logger.Info("termination signal received", "agent", a.id, "step", a.step, "tool", call.Name)
			a.finish(TerminationTerminated)
			break
		}
	}

	return strings.Join(outputs, "\n\n"), nil
}

// isTermination reports whether a tool result ends the run. The structured
// check covers tools registered as terminal; the sentinel comparison covers
// remote tools that can only signal through their content text.
func (a *Agent) isTermination(toolName string, result ai.ToolResult) bool {
	if result.Status == ai.StatusSuccess && a.registry.IsTerminal(toolName) {
		return true
	}
	return strings.TrimSpace(result.Content) == ai.TerminationSentinel
}

// Observe reconciles staged tool results into memory, clamping each
// observation to the configured ceiling. No-op when nothing is staged.
func (a *Agent) Observe(ctx context.Context) error {
	if len(a.pending) == 0 {
		return nil
	}

	results := a.pending
	a.pending = nil

	for i := range results {
		if a.maxObserve > 0 && len(results[i].Content) > a.maxObserve {
			a.logger.Debug("truncating observation", "agent", a.id, "tool_call", results[i].ToolCallID,
				"size", len(results[i].Content), "ceiling", a.maxObserve)
			results[i].Content = results[i].Content[:a.maxObserve]
			results[i].Status = ai.StatusPartial
		}
	}

	a.memory.Append(ai.NewToolResultMessage(results...))
	return nil
}

// Cleanup releases all resources held by the run: the stateful tool's live
// session and every open remote tool-server session. It is idempotent and
// safe to call when nothing was ever initialized.
func (a *Agent) Cleanup(ctx context.Context) error {
	var err error
	a.cleanupOnce.Do(func() {
		if a.stateful != nil {
			if cerr := a.stateful.Cleanup(ctx); cerr != nil {
				a.logger.Warn("stateful tool cleanup failed", "agent", a.id, "tool", a.statefulName, "error", cerr)
			}
		}
		if a.servers != nil {
			err = a.servers.DisconnectAll(ctx)
		}
	})
	return err
}

// begin transitions Idle → Running and seeds memory with the user prompt.
func (a *Agent) begin(prompt string) error {
	if a.state != StateIdle {
		return ErrRunConsumed
	}
	a.state = StateRunning
	a.memory.Append(ai.Message{
		ID:      ai.GenerateMessageID(),
		Role:    ai.RoleUser,
		Content: prompt,
	})
	return nil
}

// finish records a normal terminal transition.
func (a *Agent) finish(reason TerminationReason) {
	if a.state.Terminal() {
		return
	}
	a.state = StateFinished
	a.reason = reason
}

// fail records an error terminal transition.
func (a *Agent) fail(err error) {
	if a.state.Terminal() {
		return
	}
	a.state = StateError
	a.reason = TerminationError
	if ai.IsContextBudget(err) {
		a.logger.Error("context budget exceeded", "agent", a.id, "step", a.step, "error", err)
	} else {
		a.logger.Error("run failed", "agent", a.id, "step", a.step, "error", err)
	}
}

// Package tool provides the ordered tool registry used by the agent loop.
//
// The registry maps tool names to callable capabilities. Enumeration order is
// insertion order, so the tool catalogue presented to the model is
// deterministic across runs. Tools carry an owner tag: locally registered
// tools have an empty owner, while tools advertised by a remote server are
// tagged with that server's ID so they can be evicted precisely when the
// server disconnects.
package tool

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	ai "github.com/striderml/strider"
)

// Handler is a function that executes a tool call and returns a result.
// The context supports cancellation and timeout.
// The call contains the tool name, ID, and arguments as a JSON string.
// Returns the result content string, or an error if execution failed.
type Handler func(ctx context.Context, call ai.ToolCall) (string, error)

// TypedHandler is a function that executes a tool call with typed arguments.
type TypedHandler[T any] func(ctx context.Context, args T) (string, error)

// Registration holds a tool definition together with its handler and metadata.
type Registration struct {
	Tool    ai.Tool
	Handler Handler
	// Owner is the ID of the remote server that contributed this tool,
	// or empty for locally registered tools.
	Owner string
	// Terminal marks a tool whose successful execution ends the agent run.
	Terminal bool
}

// Registry manages registered tools and their handlers.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]Registration
	logger  *slog.Logger
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Registration),
		logger:  slog.Default(),
	}
}

// WithLogger sets the logger used for collision warnings.
// Returns the registry for fluent chaining.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if logger != nil {
		r.logger = logger
	}
	return r
}

// AddTools upserts registrations by name. A name not previously present is
// appended to the enumeration order; re-adding an existing name replaces the
// entry in place, keeping its original position. Replacing a tool that
// belongs to a different owner is legal (last write wins) but logged, since
// two servers advertising the same name silently shadow each other otherwise.
// Returns the registry for fluent chaining.
func (r *Registry) AddTools(regs ...Registration) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, reg := range regs {
		name := reg.Tool.Name
		prev, exists := r.entries[name]
		if !exists {
			r.order = append(r.order, name)
		} else if prev.Owner != reg.Owner {
			r.logger.Warn("tool name collision, replacing",
				"tool", name,
				"previous_owner", ownerLabel(prev.Owner),
				"new_owner", ownerLabel(reg.Owner),
			)
		}
		r.entries[name] = reg
	}
	return r
}

func ownerLabel(owner string) string {
	if owner == "" {
		return "local"
	}
	return owner
}

// RemoveTools evicts every registration matching the predicate and returns
// the number removed. Linear over the registry size, which stays small.
func (r *Registry) RemoveTools(pred func(Registration) bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.order[:0]
	removed := 0
	for _, name := range r.order {
		if pred(r.entries[name]) {
			delete(r.entries, name)
			removed++
			continue
		}
		kept = append(kept, name)
	}
	r.order = kept
	return removed
}

// RemoveByOwner evicts exactly the tools contributed by the given owner,
// leaving local tools and other owners' tools untouched.
func (r *Registry) RemoveByOwner(owner string) int {
	return r.RemoveTools(func(reg Registration) bool {
		return reg.Owner == owner
	})
}

// Lookup retrieves a registration by tool name.
func (r *Registry) Lookup(name string) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.entries[name]
	return reg, ok
}

// Specs returns all registered tool definitions in insertion order.
// This is the deterministic catalogue passed to the model on every step.
func (r *Registry) Specs() []ai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]ai.Tool, 0, len(r.order))
	for _, name := range r.order {
		specs = append(specs, r.entries[name].Tool)
	}
	return specs
}

// Names returns the names of all registered tools in insertion order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// IsTerminal reports whether the named tool ends the agent run on success.
func (r *Registry) IsTerminal(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.entries[name]
	return ok && reg.Terminal
}

// Execute runs the handler for a tool call and returns a ToolResult.
// A call naming an unknown tool fails with *ErrToolNotFound. A handler
// failure is wrapped uniformly in *ErrToolExecution regardless of whether
// the tool is local or a remote proxy, so callers never special-case origin.
func (r *Registry) Execute(ctx context.Context, call ai.ToolCall) (ai.ToolResult, error) {
	reg, ok := r.Lookup(call.Name)
	if !ok {
		return ai.ToolResult{}, &ErrToolNotFound{Name: call.Name}
	}

	content, err := reg.Handler(ctx, call)
	if err != nil {
		return ai.ToolResult{}, &ErrToolExecution{Name: call.Name, Err: err}
	}

	return ai.ToolResult{
		ToolCallID: call.ID,
		Content:    content,
		Status:     ai.StatusSuccess,
	}, nil
}

// Func creates a local Registration with a typed handler that automatically
// unmarshals the arguments JSON into the specified type T.
//
// Example:
//
//	registry := tool.NewRegistry().AddTools(
//	    tool.Func("search", "Search the web", schema,
//	        func(ctx context.Context, args SearchArgs) (string, error) {
//	            return doSearch(args.Query), nil
//	        },
//	    ),
//	)
func Func[T any](name, description string, params json.RawMessage, fn TypedHandler[T]) Registration {
	handler := func(ctx context.Context, call ai.ToolCall) (string, error) {
		var args T
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return "", err
		}
		return fn(ctx, args)
	}
	return Registration{
		Tool: ai.Tool{
			Name:        name,
			Description: description,
			Parameters:  params,
		},
		Handler: handler,
	}
}

// WithHandler creates a local Registration from a pre-built Handler.
func WithHandler(name, description string, schema json.RawMessage, h Handler) Registration {
	return Registration{
		Tool: ai.Tool{
			Name:        name,
			Description: description,
			Parameters:  schema,
		},
		Handler: h,
	}
}

// Package mcp connects the agent to remote tool providers speaking the
// Model Context Protocol.
//
// The Manager owns one session per configured server. On connect, the server
// advertises its tools; each is registered into the shared tool registry as a
// proxy tagged with the server's ID. On disconnect, exactly that server's
// tools are evicted, leaving local tools and other servers' tools untouched.
// Connection failures are isolated per server: one unreachable provider never
// blocks tools from any other provider.
//
// The package also exposes the other direction: Server wraps a local registry
// as an MCP server so external clients can discover and call its tools.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	mcplib "github.com/mark3labs/mcp-go/mcp"

	ai "github.com/striderml/strider"
	"github.com/striderml/strider/tool"
)

// Transport selects how a session to a remote tool server is established.
type Transport string

const (
	// TransportSSE connects over a long-lived HTTP event stream.
	TransportSSE Transport = "sse"
	// TransportStdio spawns the server as a subprocess communicating
	// over standard pipes.
	TransportStdio Transport = "stdio"
)

// ServerConfig describes one remote tool server.
type ServerConfig struct {
	// ID identifies the server; contributed tools are tagged with it.
	ID string `json:"id"`
	// Type is the transport: "sse" or "stdio".
	Type Transport `json:"type"`
	// URL is the endpoint for SSE servers.
	URL string `json:"url,omitempty"`
	// Command is the executable for stdio servers.
	Command string `json:"command,omitempty"`
	// Args are passed to the stdio server command.
	Args []string `json:"args,omitempty"`
}

// conn is the subset of the MCP client used by the Manager.
// It exists so tests can substitute a fake session.
type conn interface {
	ListTools(ctx context.Context, req mcplib.ListToolsRequest) (*mcplib.ListToolsResult, error)
	CallTool(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error)
	Close() error
}

type session struct {
	id    string
	conn  conn
	tools []string // tool names this server contributed, as advertised at connect time
}

// Manager establishes and tears down sessions with remote tool servers and
// keeps the shared tool registry consistent as servers come and go.
// It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	registry *tool.Registry
	logger   *slog.Logger
	sessions map[string]*session

	// dial opens a session for a server config. Overridable in tests.
	dial func(ctx context.Context, cfg ServerConfig) (conn, error)
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger used for connection and eviction events.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a Manager that registers remote tools into the given registry.
func NewManager(registry *tool.Registry, opts ...ManagerOption) *Manager {
	m := &Manager{
		registry: registry,
		logger:   slog.Default(),
		sessions: make(map[string]*session),
		dial:     dialServer,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// dialServer opens a real MCP session: create the transport-specific client,
// start it, and complete the protocol handshake.
func dialServer(ctx context.Context, cfg ServerConfig) (conn, error) {
	var c *client.Client
	var err error

	switch cfg.Type {
	case TransportStdio:
		if cfg.Command == "" {
			return nil, fmt.Errorf("server %s: stdio transport requires a command", cfg.ID)
		}
		c, err = client.NewStdioMCPClient(cfg.Command, nil, cfg.Args...)
	case TransportSSE:
		if cfg.URL == "" {
			return nil, fmt.Errorf("server %s: sse transport requires a url", cfg.ID)
		}
		c, err = client.NewSSEMCPClient(cfg.URL)
	default:
		return nil, fmt.Errorf("server %s: unknown transport %q", cfg.ID, cfg.Type)
	}
	if err != nil {
		return nil, err
	}

	if err := c.Start(ctx); err != nil {
		return nil, err
	}

	_, err = c.Initialize(ctx, mcplib.InitializeRequest{
		Params: mcplib.InitializeParams{
			ProtocolVersion: mcplib.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcplib.ClientCapabilities{},
			ClientInfo: mcplib.Implementation{
				Name:    "strider-mcp-client",
				Version: "1.0.0",
			},
		},
	})
	if err != nil {
		c.Close()
		return nil, err
	}

	return c, nil
}

// Connect opens a session to the described server, fetches its advertised
// tools, and registers each into the registry tagged with the server's ID.
// An existing session with the same ID is torn down first.
//
// A failure here affects only this connection attempt; sessions to other
// servers are untouched.
func (m *Manager) Connect(ctx context.Context, cfg ServerConfig) error {
	if cfg.ID == "" {
		return &ConnectionError{ServerID: cfg.ID, Err: fmt.Errorf("server id is required")}
	}

	// Reconnecting replaces the previous session and its tools.
	if err := m.Disconnect(ctx, cfg.ID); err != nil {
		m.logger.Warn("failed to close previous session", "server", cfg.ID, "error", err)
	}

	c, err := m.dial(ctx, cfg)
	if err != nil {
		return &ConnectionError{ServerID: cfg.ID, Err: err}
	}

	listed, err := c.ListTools(ctx, mcplib.ListToolsRequest{})
	if err != nil {
		c.Close()
		return &ConnectionError{ServerID: cfg.ID, Err: fmt.Errorf("list tools: %w", err)}
	}

	sess := &session{id: cfg.ID, conn: c}
	regs := make([]tool.Registration, 0, len(listed.Tools))
	for _, t := range listed.Tools {
		spec := FromMCPTool(t)
		sess.tools = append(sess.tools, spec.Name)
		regs = append(regs, tool.Registration{
			Tool:    spec,
			Handler: proxyHandler(c, cfg.ID),
			Owner:   cfg.ID,
		})
	}

	m.mu.Lock()
	m.sessions[cfg.ID] = sess
	m.mu.Unlock()

	m.registry.AddTools(regs...)
	m.logger.Info("connected to tool server", "server", cfg.ID, "transport", string(cfg.Type), "tools", len(sess.tools))
	return nil
}

// proxyHandler forwards a tool call to the remote session. A server-side
// error result is surfaced as a handler error so the registry wraps it the
// same way as a local tool failure.
func proxyHandler(c conn, serverID string) tool.Handler {
	return func(ctx context.Context, call ai.ToolCall) (string, error) {
		result, err := c.CallTool(ctx, ToCallToolRequest(call))
		if err != nil {
			return "", fmt.Errorf("server %s: %w", serverID, err)
		}

		content := ResultText(result)
		if result.IsError {
			return "", fmt.Errorf("server %s: %s", serverID, content)
		}
		return content, nil
	}
}

// Disconnect closes the session with the given server, if open, and evicts
// exactly the tools it contributed. Disconnecting a never-connected ID is a
// no-op.
func (m *Manager) Disconnect(ctx context.Context, serverID string) error {
	m.mu.Lock()
	sess, ok := m.sessions[serverID]
	if ok {
		delete(m.sessions, serverID)
	}
	m.mu.Unlock()

	if !ok {
		return nil
	}

	evicted := m.registry.RemoveByOwner(serverID)
	err := sess.conn.Close()
	m.logger.Info("disconnected from tool server", "server", serverID, "tools_evicted", evicted)
	return err
}

// DisconnectAll tears down every open session and evicts all remote-sourced
// tools, leaving locally registered tools untouched. Safe to call when no
// session was ever opened.
func (m *Manager) DisconnectAll(ctx context.Context) error {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	var firstErr error
	for _, id := range ids {
		if err := m.Disconnect(ctx, id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// InitializeFromConfig attempts to connect to each described server
// independently. A failure on one entry is logged and does not abort the
// remaining entries. Returns the number of servers successfully connected.
func (m *Manager) InitializeFromConfig(ctx context.Context, servers []ServerConfig) int {
	connected := 0
	for _, cfg := range servers {
		if err := m.Connect(ctx, cfg); err != nil {
			m.logger.Error("failed to connect to tool server", "server", cfg.ID, "error", err)
			continue
		}
		connected++
	}
	return connected
}

// Connected returns the IDs of currently connected servers.
func (m *Manager) Connected() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}

// ContributedTools returns the tool names a connected server advertised at
// connect time, or nil for an unknown ID.
func (m *Manager) ContributedTools(serverID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[serverID]
	if !ok {
		return nil
	}
	names := make([]string, len(sess.tools))
	copy(names, sess.tools)
	return names
}

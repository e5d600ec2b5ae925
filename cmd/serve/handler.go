package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/striderml/strider/agent"
	"github.com/striderml/strider/chat"
	"github.com/striderml/strider/mcp"
	"github.com/striderml/strider/store"
	"github.com/striderml/strider/tool"
)

// PromptHandler runs one agent per request and streams its events over SSE.
type PromptHandler struct {
	client  chat.Client
	servers []mcp.ServerConfig
	config  *Config
	logger  *slog.Logger
	runs    *store.RunStore
}

// NewPromptHandler creates the handler for POST /api/v1/prompt.
func NewPromptHandler(client chat.Client, servers []mcp.ServerConfig, cfg *Config, logger *slog.Logger, runs *store.RunStore) *PromptHandler {
	return &PromptHandler{client: client, servers: servers, config: cfg, logger: logger, runs: runs}
}

type promptRequest struct {
	Prompt string `json:"prompt"`
}

func (h *PromptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		h.logger.Warn("method not allowed", "method", r.Method, "path", r.URL.Path)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req promptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid request body", "error", err)
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Prompt == "" {
		http.Error(w, "prompt is required", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.logger.Error("streaming not supported")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	a := h.buildAgent(ctx)
	log := h.logger.With("agent", a.ID())
	log.Info("run requested", "prompt_len", len(req.Prompt))

	var eventCount int
	for ev := range a.Stream(ctx, req.Prompt) {
		eventCount++
		if err := writeSSE(w, flusher, ev); err != nil {
			log.Error("failed to write SSE event", "error", err)
			return
		}
	}

	record := store.Record{
		ID:         a.ID(),
		Prompt:     req.Prompt,
		State:      string(a.State()),
		Reason:     string(a.Reason()),
		Steps:      a.Steps(),
		Messages:   a.Messages(),
		StartedAt:  start,
		FinishedAt: time.Now(),
	}
	// The transcript should survive request cancellation
	if err := h.runs.Save(context.WithoutCancel(ctx), record); err != nil {
		log.Warn("failed to persist run transcript", "error", err)
	}

	log.Info("run completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"events_sent", eventCount,
		"steps", a.Steps(),
		"state", a.State(),
		"reason", a.Reason(),
	)
}

// buildAgent assembles a single-use agent: fresh registry, fresh remote
// sessions. Nothing is shared between requests except the chat client.
func (h *PromptHandler) buildAgent(ctx context.Context) *agent.Agent {
	registry := tool.NewRegistry().AddTools(localTools()...)
	manager := mcp.NewManager(registry, mcp.WithLogger(h.logger))

	a := agent.New(h.client,
		agent.WithRegistry(registry),
		agent.WithServerManager(manager),
		agent.WithMaxSteps(h.config.MaxSteps),
		agent.WithMaxObserve(h.config.MaxObserve),
		agent.WithMaxStuck(h.config.MaxStuck),
		agent.WithLogger(h.logger),
	)

	if len(h.servers) > 0 {
		connected := a.ConnectServers(ctx, h.servers)
		h.logger.Info("remote tool servers connected", "connected", connected, "configured", len(h.servers))
	}
	return a
}

// writeSSE writes one agent event in SSE format: event: TYPE\ndata: {json}\n\n
func writeSSE(w http.ResponseWriter, flusher http.Flusher, ev agent.Event) error {
	var payload any
	switch ev.Type {
	case agent.EventContent:
		payload = map[string]string{"content": ev.Content}
	case agent.EventError:
		payload = map[string]string{"error": ev.Err.Error()}
	case agent.EventDone:
		payload = map[string]string{"reason": ev.Content}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	flusher.Flush()
	return nil
}

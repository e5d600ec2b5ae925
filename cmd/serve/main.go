// Command serve runs an HTTP server that executes agent runs and streams
// their output over SSE.
//
// Configuration is read from the environment (or a .env file):
//
//	STRIDER_PROVIDER    anthropic or openai (default anthropic)
//	STRIDER_MODEL       model override, provider default otherwise
//	STRIDER_PORT        listen port (default 8000)
//	STRIDER_MCP_CONFIG  optional JSON file describing remote tool servers
//
// POST /api/v1/prompt with {"prompt": "..."} to start a run.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/striderml/strider/chat"
	"github.com/striderml/strider/provider/anthropic"
	"github.com/striderml/strider/provider/openai"
	"github.com/striderml/strider/retry"
	"github.com/striderml/strider/store"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	client, err := buildClient(cfg)
	if err != nil {
		logger.Error("provider setup failed", "error", err)
		os.Exit(1)
	}

	servers, err := cfg.LoadMCPServers()
	if err != nil {
		logger.Error("mcp config unreadable", "error", err)
		os.Exit(1)
	}
	if len(servers) > 0 {
		logger.Info("remote tool servers configured", "count", len(servers))
	}

	runs := store.NewRunStore(nil)
	runsHandler := NewRunsHandler(runs, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/api/v1/prompt", NewPromptHandler(client, servers, cfg, logger, runs))
	mux.HandleFunc("GET /api/v1/runs", runsHandler.List)
	mux.HandleFunc("GET /api/v1/runs/{id}", runsHandler.Get)

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     mux,
		ReadTimeout: 30 * time.Second,
		// No WriteTimeout: SSE responses stay open for the whole run
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "provider", cfg.Provider)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

func buildClient(cfg *Config) (chat.Client, error) {
	var client chat.Client
	switch cfg.Provider {
	case "openai":
		opts := []openai.ClientOption{openai.WithAPIKey(cfg.OpenAIKey)}
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}
		client = openai.New(opts...)
	default:
		opts := []anthropic.ClientOption{anthropic.WithAPIKey(cfg.AnthropicKey)}
		if cfg.Model != "" {
			opts = append(opts, anthropic.WithModel(anthropic.ChatModel(cfg.Model)))
		}
		client = anthropic.New(opts...)
	}

	// Retrying model calls is strictly the host's choice; it stays off
	// unless configured.
	if cfg.RetryAttempts > 1 {
		rc := retry.DefaultConfig()
		rc.MaxAttempts = cfg.RetryAttempts
		client = chat.NewRetrying(client, rc)
	}
	return client, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

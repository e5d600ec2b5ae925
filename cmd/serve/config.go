package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/striderml/strider/mcp"
)

// Config holds the server configuration loaded from environment variables.
type Config struct {
	// Server
	Port     string
	LogLevel string // debug, info, warn, error

	// Provider selection
	Provider string
	Model    string

	// API keys
	AnthropicKey string
	OpenAIKey    string

	// Agent limits
	MaxSteps   int
	MaxObserve int
	MaxStuck   int
	Timeout    time.Duration

	// RetryAttempts is the total attempt budget for transient model-call
	// failures. 1 (the default) means no retries; the agent core itself
	// never retries.
	RetryAttempts int

	// MCPConfig is an optional path to a JSON file describing remote
	// tool servers to connect on each run.
	MCPConfig string
}

// LoadConfig loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func LoadConfig() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Port:          getEnvOrDefault("STRIDER_PORT", "8000"),
		LogLevel:      getEnvOrDefault("STRIDER_LOG_LEVEL", "info"),
		Provider:      getEnvOrDefault("STRIDER_PROVIDER", "anthropic"),
		Model:         os.Getenv("STRIDER_MODEL"),
		AnthropicKey:  os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		MaxSteps:      getEnvIntOrDefault("STRIDER_MAX_STEPS", 10),
		MaxObserve:    getEnvIntOrDefault("STRIDER_MAX_OBSERVE", 10000),
		MaxStuck:      getEnvIntOrDefault("STRIDER_MAX_STUCK", 3),
		Timeout:       getEnvDurationOrDefault("STRIDER_TIMEOUT", 5*time.Minute),
		RetryAttempts: getEnvIntOrDefault("STRIDER_RETRY_ATTEMPTS", 1),
		MCPConfig:     os.Getenv("STRIDER_MCP_CONFIG"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for anthropic provider")
		}
	case "openai":
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for openai provider")
		}
	default:
		return fmt.Errorf("unknown provider: %s (must be anthropic or openai)", c.Provider)
	}
	return nil
}

// LoadMCPServers reads the remote tool-server descriptions from the
// configured JSON file. Returns nil when no file is configured.
func (c *Config) LoadMCPServers() ([]mcp.ServerConfig, error) {
	if c.MCPConfig == "" {
		return nil, nil
	}

	data, err := os.ReadFile(c.MCPConfig)
	if err != nil {
		return nil, fmt.Errorf("read mcp config: %w", err)
	}

	var file struct {
		Servers []mcp.ServerConfig `json:"servers"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse mcp config: %w", err)
	}
	return file.Servers, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

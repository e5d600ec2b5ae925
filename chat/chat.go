// Package chat provides the canonical model client interface.
//
// This package exists so the agent and provider packages can share a single
// interface without import cycles. The interface is deliberately opaque: the
// agent loop only asks the model to produce the next message for a
// conversation; retries, timeouts, and transport concerns belong to the
// implementation.
//
// The provider/anthropic and provider/openai packages implement this interface.
package chat

import (
	"context"

	ai "github.com/striderml/strider"
)

// Client defines the interface for model clients.
type Client interface {
	// Chat sends a conversation and returns a complete response.
	Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error)
}

package chat

import (
	"context"

	ai "github.com/striderml/strider"
	"github.com/striderml/strider/retry"
)

// NewRetrying wraps a Client so that transient failures (rate limits, server
// errors, network timeouts) are retried with exponential backoff. Permanent
// and user-input errors pass through on the first attempt.
func NewRetrying(client Client, cfg retry.Config) Client {
	return &retrying{client: client, cfg: cfg}
}

type retrying struct {
	client Client
	cfg    retry.Config
}

func (r *retrying) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	return retry.Do(ctx, r.cfg, func() (*ai.Response, error) {
		return r.client.Chat(ctx, messages, opts...)
	})
}

package retry

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/striderml/strider"
)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDo(t *testing.T) {
	t.Run("returns immediately on success", func(t *testing.T) {
		calls := 0
		result, err := Do(context.Background(), fastConfig(3), func() (string, error) {
			calls++
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient errors until success", func(t *testing.T) {
		calls := 0
		result, err := Do(context.Background(), fastConfig(5), func() (string, error) {
			calls++
			if calls < 3 {
				return "", ai.NewTransientError("overloaded", 529, nil)
			}
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry permanent errors", func(t *testing.T) {
		calls := 0
		perm := ai.NewPermanentError("bad key", 401, nil)
		_, err := Do(context.Background(), fastConfig(5), func() (string, error) {
			calls++
			return "", perm
		})
		assert.ErrorIs(t, err, perm)
		assert.Equal(t, 1, calls)
	})

	t.Run("returns last error when attempts are exhausted", func(t *testing.T) {
		calls := 0
		_, err := Do(context.Background(), fastConfig(3), func() (string, error) {
			calls++
			return "", ai.NewTransientError("rate limited", 429, nil)
		})
		require.Error(t, err)
		assert.Equal(t, 3, calls)
		assert.True(t, ai.IsTransient(err))
	})

	t.Run("stops waiting when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cfg := Config{MaxAttempts: 3, InitialDelay: time.Hour, MaxDelay: time.Hour, Multiplier: 1}

		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		_, err := Do(ctx, cfg, func() (string, error) {
			return "", ai.NewTransientError("rate limited", 429, nil)
		})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("single attempt when disabled", func(t *testing.T) {
		calls := 0
		_, err := Do(context.Background(), Disabled(), func() (string, error) {
			calls++
			return "", ai.NewTransientError("rate limited", 429, nil)
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestRetryable(t *testing.T) {
	assert.False(t, Retryable(nil))
	assert.False(t, Retryable(context.Canceled))
	assert.False(t, Retryable(context.DeadlineExceeded))
	assert.False(t, Retryable(errors.New("something else")))

	assert.True(t, Retryable(ai.NewTransientError("overloaded", 529, nil)))
	assert.False(t, Retryable(ai.NewPermanentError("bad key", 401, nil)))
	assert.False(t, Retryable(ai.NewUserInputError("malformed", 400, nil)))

	assert.True(t, Retryable(io.ErrUnexpectedEOF))
}

func TestConfigDelay(t *testing.T) {
	cfg := Config{
		MaxAttempts:  5,
		InitialDelay: time.Second,
		MaxDelay:     4 * time.Second,
		Multiplier:   2.0,
	}

	assert.Equal(t, time.Second, cfg.Delay(0))
	assert.Equal(t, 2*time.Second, cfg.Delay(1))
	assert.Equal(t, 4*time.Second, cfg.Delay(2))
	// capped at MaxDelay
	assert.Equal(t, 4*time.Second, cfg.Delay(10))
	// negative attempts are clamped
	assert.Equal(t, time.Second, cfg.Delay(-1))
}

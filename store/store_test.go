package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/striderml/strider"
)

func TestMemoryAdapter(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryAdapter()

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "a", json.RawMessage(`{"x":1}`)))
	v, ok, err := m.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"x":1}`, string(v))

	n, err := m.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, m.Delete(ctx, "a"))
	_, ok, err = m.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting a missing key is not an error
	require.NoError(t, m.Delete(ctx, "a"))
}

func TestRunStore(t *testing.T) {
	ctx := context.Background()
	s := NewRunStore(nil)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := Record{
		ID:        "run-1",
		Prompt:    "find flights",
		State:     "finished",
		Reason:    "terminated",
		Steps:     4,
		Messages:  []ai.Message{ai.NewUserMessage("find flights")},
		StartedAt: base,
	}
	second := Record{
		ID:        "run-2",
		Prompt:    "summarize news",
		State:     "error",
		Reason:    "error",
		Steps:     1,
		StartedAt: base.Add(time.Minute),
	}

	require.NoError(t, s.Save(ctx, first))
	require.NoError(t, s.Save(ctx, second))

	t.Run("round trips records", func(t *testing.T) {
		got, ok, err := s.Get(ctx, "run-1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "find flights", got.Prompt)
		assert.Equal(t, 4, got.Steps)
		require.Len(t, got.Messages, 1)
		assert.Equal(t, ai.RoleUser, got.Messages[0].Role)
	})

	t.Run("lists newest first", func(t *testing.T) {
		records, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "run-2", records[0].ID)
		assert.Equal(t, "run-1", records[1].ID)
	})

	t.Run("missing record", func(t *testing.T) {
		_, ok, err := s.Get(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "run-1"))
		n, err := s.Len(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

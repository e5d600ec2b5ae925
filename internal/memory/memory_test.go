package memory

import (
	"testing"

	ai "github.com/striderml/strider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAppend(t *testing.T) {
	t.Run("appends in order", func(t *testing.T) {
		s := New()
		s.Append(ai.NewUserMessage("one"))
		s.Append(ai.NewAssistantMessage("two"), ai.NewUserMessage("three"))

		msgs := s.Messages()
		require.Len(t, msgs, 3)
		assert.Equal(t, "one", msgs[0].Content)
		assert.Equal(t, "two", msgs[1].Content)
		assert.Equal(t, "three", msgs[2].Content)
	})

	t.Run("empty append is a no-op", func(t *testing.T) {
		s := New()
		s.Append()
		assert.Equal(t, 0, s.Len())
	})

	t.Run("Messages returns a copy", func(t *testing.T) {
		s := New()
		s.Append(ai.NewUserMessage("original"))

		msgs := s.Messages()
		msgs[0].Content = "mutated"

		assert.Equal(t, "original", s.Messages()[0].Content)
	})
}

func TestStoreLast(t *testing.T) {
	s := New()
	s.Append(
		ai.NewUserMessage("a"),
		ai.NewAssistantMessage("b"),
		ai.NewUserMessage("c"),
	)

	t.Run("returns last n", func(t *testing.T) {
		last := s.Last(2)
		require.Len(t, last, 2)
		assert.Equal(t, "b", last[0].Content)
		assert.Equal(t, "c", last[1].Content)
	})

	t.Run("n larger than length returns all", func(t *testing.T) {
		assert.Len(t, s.Last(10), 3)
	})

	t.Run("non-positive n returns nil", func(t *testing.T) {
		assert.Nil(t, s.Last(0))
	})
}

func TestStoreLastAssistant(t *testing.T) {
	t.Run("finds most recent assistant message", func(t *testing.T) {
		s := New()
		s.Append(
			ai.NewAssistantMessage("first"),
			ai.NewUserMessage("user"),
			ai.NewAssistantMessage("second"),
			ai.NewToolResultMessage(ai.ToolResult{ToolCallID: "1", Content: "x", Status: ai.StatusSuccess}),
		)

		last := s.LastAssistant()
		require.NotNil(t, last)
		assert.Equal(t, "second", last.Content)
	})

	t.Run("returns nil when no assistant message", func(t *testing.T) {
		s := New()
		s.Append(ai.NewUserMessage("only user"))
		assert.Nil(t, s.LastAssistant())
	})
}

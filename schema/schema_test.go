package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unmarshal(t *testing.T, raw json.RawMessage) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestObjectBuilder(t *testing.T) {
	raw, err := Object().
		Desc("Search parameters").
		Field("query", String().Desc("Search query").Required()).
		Field("limit", Integer().Min(1).Max(100).Default(10)).
		Closed().
		Build()
	require.NoError(t, err)

	m := unmarshal(t, raw)
	assert.Equal(t, "object", m["type"])
	assert.Equal(t, "Search parameters", m["description"])
	assert.Equal(t, []any{"query"}, m["required"])
	assert.Equal(t, false, m["additionalProperties"])

	props := m["properties"].(map[string]any)
	assert.Equal(t, "string", props["query"].(map[string]any)["type"])
	assert.Equal(t, float64(10), props["limit"].(map[string]any)["default"])
}

func TestStringEnum(t *testing.T) {
	raw, err := String().Enum("success", "failure").Build()
	require.NoError(t, err)

	m := unmarshal(t, raw)
	assert.Equal(t, []any{"success", "failure"}, m["enum"])
}

func TestRequiredDeduplication(t *testing.T) {
	raw, err := Object().
		Field("name", String().Required()).
		Field("name", String().Required()).
		Build()
	require.NoError(t, err)

	m := unmarshal(t, raw)
	assert.Equal(t, []any{"name"}, m["required"])
}

func TestValidation(t *testing.T) {
	t.Run("string length range", func(t *testing.T) {
		_, err := String().MinLength(10).MaxLength(5).Build()
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("bad pattern", func(t *testing.T) {
		_, err := String().Pattern("[unclosed").Build()
		assert.ErrorIs(t, err, ErrInvalidPattern)
	})

	t.Run("numeric range", func(t *testing.T) {
		_, err := Number().Min(5).Max(1).Build()
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("nested field error names the field", func(t *testing.T) {
		_, err := Object().Field("count", Integer().Min(9).Max(1)).Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"count"`)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("array items propagate", func(t *testing.T) {
		_, err := Array(String().MinLength(2).MaxLength(1)).Build()
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}

func TestMustBuildPanics(t *testing.T) {
	assert.Panics(t, func() {
		String().MinLength(10).MaxLength(5).MustBuild()
	})
}

package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	ai "github.com/striderml/strider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noArgs = json.RawMessage(`{"type":"object"}`)

func echoReg(name string) Registration {
	return WithHandler(name, "echo "+name, noArgs,
		func(ctx context.Context, call ai.ToolCall) (string, error) {
			return name, nil
		},
	)
}

func ownedReg(name, owner string) Registration {
	reg := echoReg(name)
	reg.Owner = owner
	return reg
}

func TestRegistryAddTools(t *testing.T) {
	t.Run("preserves insertion order", func(t *testing.T) {
		r := NewRegistry().AddTools(echoReg("alpha"), echoReg("beta"), echoReg("gamma"))

		assert.Equal(t, []string{"alpha", "beta", "gamma"}, r.Names())

		specs := r.Specs()
		require.Len(t, specs, 3)
		assert.Equal(t, "alpha", specs[0].Name)
		assert.Equal(t, "gamma", specs[2].Name)
	})

	t.Run("upsert replaces in place without duplicating", func(t *testing.T) {
		r := NewRegistry().AddTools(echoReg("alpha"), echoReg("beta"))

		replacement := WithHandler("alpha", "replaced", noArgs,
			func(ctx context.Context, call ai.ToolCall) (string, error) {
				return "new", nil
			},
		)
		r.AddTools(replacement)

		assert.Equal(t, 2, r.Len())
		assert.Equal(t, []string{"alpha", "beta"}, r.Names())

		reg, ok := r.Lookup("alpha")
		require.True(t, ok)
		assert.Equal(t, "replaced", reg.Tool.Description)
	})

	t.Run("no duplicate names after repeated upserts", func(t *testing.T) {
		r := NewRegistry()
		for i := 0; i < 5; i++ {
			r.AddTools(echoReg("same"), echoReg("other"))
		}

		seen := map[string]int{}
		for _, name := range r.Names() {
			seen[name]++
		}
		for name, count := range seen {
			assert.Equal(t, 1, count, "duplicate entry for %s", name)
		}
	})

	t.Run("cross-owner replacement is last-write-wins", func(t *testing.T) {
		r := NewRegistry().AddTools(ownedReg("shared", "server-a"))
		r.AddTools(ownedReg("shared", "server-b"))

		reg, ok := r.Lookup("shared")
		require.True(t, ok)
		assert.Equal(t, "server-b", reg.Owner)
		assert.Equal(t, 1, r.Len())
	})
}

func TestRegistryRemove(t *testing.T) {
	t.Run("RemoveByOwner evicts exactly the owner's tools", func(t *testing.T) {
		r := NewRegistry().AddTools(
			echoReg("local_one"),
			ownedReg("remote_a1", "server-a"),
			ownedReg("remote_b1", "server-b"),
			ownedReg("remote_a2", "server-a"),
			echoReg("local_two"),
		)

		removed := r.RemoveByOwner("server-a")

		assert.Equal(t, 2, removed)
		assert.Equal(t, []string{"local_one", "remote_b1", "local_two"}, r.Names())
	})

	t.Run("RemoveByOwner for unknown owner is a no-op", func(t *testing.T) {
		r := NewRegistry().AddTools(echoReg("local_one"))
		assert.Equal(t, 0, r.RemoveByOwner("never-connected"))
		assert.Equal(t, 1, r.Len())
	})

	t.Run("RemoveTools by predicate", func(t *testing.T) {
		r := NewRegistry().AddTools(echoReg("keep"), echoReg("drop_me"), echoReg("drop_too"))

		removed := r.RemoveTools(func(reg Registration) bool {
			return reg.Tool.Name != "keep"
		})

		assert.Equal(t, 2, removed)
		assert.Equal(t, []string{"keep"}, r.Names())
	})
}

func TestRegistryExecute(t *testing.T) {
	t.Run("executes a registered tool", func(t *testing.T) {
		r := NewRegistry().AddTools(
			Func("greet", "Greet someone", noArgs,
				func(ctx context.Context, args struct {
					Name string `json:"name"`
				}) (string, error) {
					return "Hello, " + args.Name + "!", nil
				},
			),
		)

		result, err := r.Execute(context.Background(), ai.ToolCall{
			ID:        "call_123",
			Name:      "greet",
			Arguments: `{"name": "World"}`,
		})

		require.NoError(t, err)
		assert.Equal(t, "call_123", result.ToolCallID)
		assert.Equal(t, "Hello, World!", result.Content)
		assert.Equal(t, ai.StatusSuccess, result.Status)
		assert.False(t, result.IsError())
	})

	t.Run("unknown tool returns ErrToolNotFound", func(t *testing.T) {
		r := NewRegistry()

		_, err := r.Execute(context.Background(), ai.ToolCall{Name: "missing"})

		var notFound *ErrToolNotFound
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "missing", notFound.Name)
	})

	t.Run("handler failure wraps in ErrToolExecution", func(t *testing.T) {
		boom := errors.New("boom")
		r := NewRegistry().AddTools(
			WithHandler("flaky", "always fails", noArgs,
				func(ctx context.Context, call ai.ToolCall) (string, error) {
					return "", boom
				},
			),
		)

		_, err := r.Execute(context.Background(), ai.ToolCall{Name: "flaky"})

		var execErr *ErrToolExecution
		require.ErrorAs(t, err, &execErr)
		assert.Equal(t, "flaky", execErr.Name)
		assert.ErrorIs(t, err, boom)
	})
}

func TestTerminate(t *testing.T) {
	t.Run("is registered as terminal", func(t *testing.T) {
		r := NewRegistry().AddTools(Terminate())
		assert.True(t, r.IsTerminal(TerminateName))
		assert.False(t, r.IsTerminal("anything_else"))
	})

	t.Run("success returns the termination sentinel", func(t *testing.T) {
		r := NewRegistry().AddTools(Terminate())

		result, err := r.Execute(context.Background(), ai.ToolCall{
			ID:        "call_1",
			Name:      TerminateName,
			Arguments: `{"status": "success"}`,
		})

		require.NoError(t, err)
		assert.Equal(t, ai.TerminationSentinel, result.Content)
	})

	t.Run("failure status is reported in content", func(t *testing.T) {
		r := NewRegistry().AddTools(Terminate())

		result, err := r.Execute(context.Background(), ai.ToolCall{
			ID:        "call_2",
			Name:      TerminateName,
			Arguments: `{"status": "failure"}`,
		})

		require.NoError(t, err)
		assert.Equal(t, `{"status":"failure"}`, result.Content)
	})
}

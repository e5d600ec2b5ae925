package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/striderml/strider"
	"github.com/striderml/strider/tool"
)

// scriptedClient replays a fixed sequence of model responses and records
// every request it receives.
type scriptedClient struct {
	mu       sync.Mutex
	script   []scriptStep
	requests [][]ai.Message
}

type scriptStep struct {
	resp *ai.Response
	err  error
}

func (c *scriptedClient) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := make([]ai.Message, len(messages))
	copy(snapshot, messages)
	c.requests = append(c.requests, snapshot)

	if len(c.script) == 0 {
		return &ai.Response{Content: "nothing left to say", FinishReason: "stop"}, nil
	}
	step := c.script[0]
	c.script = c.script[1:]
	return step.resp, step.err
}

func respond(content string, calls ...ai.ToolCall) scriptStep {
	reason := "stop"
	if len(calls) > 0 {
		reason = "tool_calls"
	}
	return scriptStep{resp: &ai.Response{Content: content, FinishReason: reason, ToolCalls: calls}}
}

func call(id, name, args string) ai.ToolCall {
	return ai.ToolCall{ID: id, Name: name, Arguments: args}
}

var echoSchema = json.RawMessage(`{"type":"object","properties":{"text":{"type":"string"}},"required":["text"]}`)

func echo() tool.Registration {
	return tool.WithHandler("echo", "Echo the given text back.", echoSchema,
		func(ctx context.Context, c ai.ToolCall) (string, error) {
			var args struct {
				Text string `json:"text"`
			}
			if err := json.Unmarshal([]byte(c.Arguments), &args); err != nil {
				return "", err
			}
			return args.Text, nil
		})
}

func testRegistry() *tool.Registry {
	return tool.NewRegistry().AddTools(tool.Terminate(), echo())
}

func drain(t *testing.T, ch <-chan Event) []Event {
	t.Helper()
	var events []Event
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

func eventsOf(events []Event, typ EventType) []Event {
	var out []Event
	for _, ev := range events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func TestAgentStream_Terminate(t *testing.T) {
	client := &scriptedClient{script: []scriptStep{
		respond("wrapping up", call("c1", tool.TerminateName, `{"status":"success"}`)),
	}}
	a := New(client, withTestRegistry())

	events := drain(t, a.Stream(context.Background(), "say hello"))

	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, EventDone, last.Type)
	assert.Equal(t, string(TerminationTerminated), last.Content)
	assert.Len(t, eventsOf(events, EventDone), 1)
	assert.Empty(t, eventsOf(events, EventError))

	assert.Equal(t, StateFinished, a.State())
	assert.Equal(t, TerminationTerminated, a.Reason())
	assert.Equal(t, 1, a.Steps())

	// memory holds the full exchange: prompt, assistant turn, tool result
	msgs := a.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, ai.RoleUser, msgs[0].Role)
	assert.Equal(t, ai.RoleAssistant, msgs[1].Role)
	assert.Equal(t, ai.RoleTool, msgs[2].Role)
	require.Len(t, msgs[2].ToolResults, 1)
	assert.Equal(t, ai.TerminationSentinel, msgs[2].ToolResults[0].Content)
}

func TestAgentStream_NaturalCompletion(t *testing.T) {
	client := &scriptedClient{script: []scriptStep{
		respond("The answer is 42."),
	}}
	a := New(client, withTestRegistry())

	events := drain(t, a.Stream(context.Background(), "compute"))

	contents := eventsOf(events, EventContent)
	require.Len(t, contents, 1)
	assert.Equal(t, "The answer is 42.", contents[0].Content)

	last := events[len(events)-1]
	assert.Equal(t, EventDone, last.Type)
	assert.Equal(t, string(TerminationComplete), last.Content)
	assert.Equal(t, StateFinished, a.State())
}

func TestAgentStream_UnknownTool(t *testing.T) {
	client := &scriptedClient{script: []scriptStep{
		respond("using a tool", call("c1", "no_such_tool", `{}`)),
	}}
	a := New(client, withTestRegistry())

	events := drain(t, a.Stream(context.Background(), "go"))

	errEvents := eventsOf(events, EventError)
	require.Len(t, errEvents, 1)
	var notFound *tool.ErrToolNotFound
	require.ErrorAs(t, errEvents[0].Err, &notFound)
	assert.Equal(t, "no_such_tool", notFound.Name)

	last := events[len(events)-1]
	assert.Equal(t, EventDone, last.Type)
	assert.Equal(t, StateError, a.State())
	assert.Equal(t, TerminationError, a.Reason())
}

func TestAgentStream_ToolFailureHaltsRun(t *testing.T) {
	boom := errors.New("disk on fire")
	registry := tool.NewRegistry().AddTools(
		tool.Terminate(),
		tool.WithHandler("burn", "Always fails.", json.RawMessage(`{"type":"object"}`),
			func(ctx context.Context, c ai.ToolCall) (string, error) {
				return "", boom
			}),
	)
	client := &scriptedClient{script: []scriptStep{
		respond("", call("c1", "burn", `{}`)),
	}}
	a := New(client, WithRegistry(registry))

	events := drain(t, a.Stream(context.Background(), "go"))

	errEvents := eventsOf(events, EventError)
	require.Len(t, errEvents, 1)
	var execErr *tool.ErrToolExecution
	require.ErrorAs(t, errEvents[0].Err, &execErr)
	assert.ErrorIs(t, errEvents[0].Err, boom)
	assert.Equal(t, StateError, a.State())
}

func TestAgentStream_ThinkError(t *testing.T) {
	modelErr := ai.NewTransientError("rate limited", 429, nil)
	client := &scriptedClient{script: []scriptStep{
		{err: modelErr},
	}}
	a := New(client, withTestRegistry())

	events := drain(t, a.Stream(context.Background(), "go"))

	errEvents := eventsOf(events, EventError)
	require.Len(t, errEvents, 1)
	assert.ErrorIs(t, errEvents[0].Err, modelErr)
	assert.Equal(t, EventDone, events[len(events)-1].Type)
	assert.Equal(t, StateError, a.State())
}

func TestAgentStream_MaxSteps(t *testing.T) {
	var script []scriptStep
	for i := 0; i < 10; i++ {
		script = append(script, respond("working",
			call(fmt.Sprintf("c%d", i), "echo", fmt.Sprintf(`{"text":"step %d"}`, i))))
	}
	client := &scriptedClient{script: script}
	a := New(client, withTestRegistry(), WithMaxSteps(3), WithMaxStuck(0))

	events := drain(t, a.Stream(context.Background(), "loop forever"))

	last := events[len(events)-1]
	assert.Equal(t, EventDone, last.Type)
	assert.Equal(t, string(TerminationMaxSteps), last.Content)
	assert.Empty(t, eventsOf(events, EventError))

	// budget exhaustion is an outcome, not a failure
	assert.Equal(t, StateFinished, a.State())
	assert.Equal(t, TerminationMaxSteps, a.Reason())
	assert.Equal(t, 3, a.Steps())
}

func TestAgentStream_StuckDetection(t *testing.T) {
	same := func(id string) scriptStep {
		return respond("trying again", call(id, "echo", `{"text":"same thing"}`))
	}
	client := &scriptedClient{script: []scriptStep{same("c1"), same("c2"), same("c3")}}
	a := New(client, withTestRegistry(), WithMaxStuck(3))

	events := drain(t, a.Stream(context.Background(), "go"))

	last := events[len(events)-1]
	assert.Equal(t, EventDone, last.Type)
	assert.Equal(t, string(TerminationStuck), last.Content)
	assert.Equal(t, StateFinished, a.State())
	assert.Equal(t, TerminationStuck, a.Reason())
	assert.Equal(t, 3, a.Steps())
}

func TestAgentStream_ProgressIsNotStuck(t *testing.T) {
	step := func(id, text string) scriptStep {
		return respond("working", call(id, "echo", fmt.Sprintf(`{"text":%q}`, text)))
	}
	client := &scriptedClient{script: []scriptStep{
		step("c1", "A"), step("c2", "A"), step("c3", "B"), step("c4", "A"), step("c5", "A"),
		respond("done", call("c6", tool.TerminateName, `{"status":"success"}`)),
	}}
	a := New(client, withTestRegistry(), WithMaxStuck(3))

	events := drain(t, a.Stream(context.Background(), "go"))

	last := events[len(events)-1]
	assert.Equal(t, string(TerminationTerminated), last.Content)
	assert.Equal(t, 6, a.Steps())
}

func TestAgentStream_SingleUse(t *testing.T) {
	client := &scriptedClient{script: []scriptStep{respond("done")}}
	a := New(client, withTestRegistry())

	drain(t, a.Stream(context.Background(), "first"))
	require.Equal(t, StateFinished, a.State())

	events := drain(t, a.Stream(context.Background(), "second"))
	errEvents := eventsOf(events, EventError)
	require.Len(t, errEvents, 1)
	assert.ErrorIs(t, errEvents[0].Err, ErrRunConsumed)
}

func TestAgentStream_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &scriptedClient{script: []scriptStep{
		respond("working", call("c1", "echo", `{"text":"hi"}`)),
	}}
	a := New(client, withTestRegistry())

	// channel must close promptly even though nobody reads past cancellation
	drain(t, a.Stream(ctx, "go"))

	assert.Equal(t, StateFinished, a.State())
	assert.Equal(t, TerminationCancelled, a.Reason())
	assert.Equal(t, 0, a.Steps())
}

func TestAgentObserve_TruncatesLongResults(t *testing.T) {
	long := strings.Repeat("x", 100)
	client := &scriptedClient{script: []scriptStep{
		respond("fetching", call("c1", "echo", fmt.Sprintf(`{"text":%q}`, long))),
		respond("done"),
	}}
	a := New(client, withTestRegistry(), WithMaxObserve(10))

	drain(t, a.Stream(context.Background(), "go"))

	var result *ai.ToolResult
	for _, msg := range a.Messages() {
		if msg.Role == ai.RoleTool && len(msg.ToolResults) > 0 {
			result = &msg.ToolResults[0]
		}
	}
	require.NotNil(t, result)
	assert.Equal(t, strings.Repeat("x", 10), result.Content)
	assert.Equal(t, ai.StatusPartial, result.Status)
}

type fakeStateful struct {
	mu       sync.Mutex
	snapshot string
	cleanups int
}

func (f *fakeStateful) CurrentContext(ctx context.Context) (string, error) {
	return f.snapshot, nil
}

func (f *fakeStateful) Cleanup(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleanups++
	return nil
}

func TestAgentStream_StatefulPrompt(t *testing.T) {
	stateful := &fakeStateful{snapshot: "viewing https://example.com"}
	registry := tool.NewRegistry().AddTools(
		tool.Terminate(),
		tool.WithHandler("browse", "Open a URL.", json.RawMessage(`{"type":"object"}`),
			func(ctx context.Context, c ai.ToolCall) (string, error) {
				return "opened", nil
			}),
	)
	client := &scriptedClient{script: []scriptStep{
		respond("opening the page", call("c1", "browse", `{}`)),
		respond("done", call("c2", tool.TerminateName, `{"status":"success"}`)),
	}}
	a := New(client,
		WithRegistry(registry),
		WithStatefulTool("browse", stateful),
	)

	drain(t, a.Stream(context.Background(), "look something up"))

	require.Len(t, client.requests, 2)

	// first step: the tool has not been used yet, plain next-step prompt
	first := client.requests[0]
	firstPrompt := first[len(first)-1]
	assert.Equal(t, ai.RoleUser, firstPrompt.Role)
	assert.NotContains(t, firstPrompt.Content, "Current session state:")

	// second step: the augmented prompt carries the live session snapshot
	second := client.requests[1]
	secondPrompt := second[len(second)-1]
	assert.Equal(t, ai.RoleUser, secondPrompt.Role)
	assert.Contains(t, secondPrompt.Content, "Current session state:")
	assert.Contains(t, secondPrompt.Content, "viewing https://example.com")
	assert.Contains(t, secondPrompt.Content, DefaultNextStepPrompt)
}

func TestAgentCleanup_RunsOnce(t *testing.T) {
	stateful := &fakeStateful{snapshot: "idle"}
	client := &scriptedClient{script: []scriptStep{respond("done")}}
	a := New(client, withTestRegistry(), WithStatefulTool("browse", stateful))

	drain(t, a.Stream(context.Background(), "go"))
	assert.Equal(t, 1, stateful.cleanups)

	// explicit calls after the run are no-ops
	require.NoError(t, a.Cleanup(context.Background()))
	require.NoError(t, a.Cleanup(context.Background()))
	assert.Equal(t, 1, stateful.cleanups)
}

func TestAgentCleanup_RunsOnErrorPath(t *testing.T) {
	stateful := &fakeStateful{snapshot: "idle"}
	client := &scriptedClient{script: []scriptStep{
		{err: errors.New("model unavailable")},
	}}
	a := New(client, withTestRegistry(), WithStatefulTool("browse", stateful))

	drain(t, a.Stream(context.Background(), "go"))

	assert.Equal(t, StateError, a.State())
	assert.Equal(t, 1, stateful.cleanups)
}

func TestAgentThink_CatalogueInOrder(t *testing.T) {
	client := &scriptedClient{script: []scriptStep{respond("done")}}
	a := New(client, withTestRegistry())

	drain(t, a.Stream(context.Background(), "go"))

	assert.Equal(t, []string{tool.TerminateName, "echo"}, a.Registry().Names())
}

func TestAgentDefaults(t *testing.T) {
	a := New(&scriptedClient{})

	assert.NotEmpty(t, a.ID())
	assert.Equal(t, StateIdle, a.State())
	// a default registry always carries the terminate tool
	assert.True(t, a.Registry().IsTerminal(tool.TerminateName))
}

func withTestRegistry() Option {
	return WithRegistry(testRegistry())
}

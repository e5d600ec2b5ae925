package agent

import (
	"context"
	"strings"
)

// EventType discriminates streamed agent events.
type EventType string

const (
	// EventContent carries a chunk of assistant or tool output.
	EventContent EventType = "content"
	// EventError carries a fatal run error. It is always followed by a
	// single done event and nothing else.
	EventError EventType = "error"
	// EventDone closes every stream exactly once. Its Content holds the
	// termination reason.
	EventDone EventType = "done"
)

// Event is one item on an agent's output stream.
type Event struct {
	Type    EventType
	Content string
	Err     error
}

// streamBuffer sizes the event channel so the loop rarely blocks on a slow
// consumer.
const streamBuffer = 16

// Stream runs the agent loop for the given prompt and returns a channel of
// events. The channel is always closed after a single done event, and all
// cleanup has completed by the time it closes, even when the consumer's
// context is cancelled mid-run. An agent streams at most once; a second call
// yields an immediate error event.
func (a *Agent) Stream(ctx context.Context, prompt string) <-chan Event {
	ch := make(chan Event, streamBuffer)
	go a.run(ctx, prompt, ch)
	return ch
}

// Run drains Stream and returns the concatenated content, or the first error
// event's error.
func (a *Agent) Run(ctx context.Context, prompt string) (string, error) {
	var parts []string
	for ev := range a.Stream(ctx, prompt) {
		switch ev.Type {
		case EventContent:
			parts = append(parts, ev.Content)
		case EventError:
			return "", ev.Err
		}
	}
	return strings.Join(parts, "\n"), nil
}

func (a *Agent) run(ctx context.Context, prompt string, ch chan<- Event) {
	defer close(ch)
	defer func() {
		// Cleanup must run even when the consumer's context is already
		// cancelled, so it gets a detached copy.
		if err := a.Cleanup(context.WithoutCancel(ctx)); err != nil {
			a.logger.Warn("cleanup failed", "agent", a.id, "error", err)
		}
	}()

	if err := a.begin(prompt); err != nil {
		a.emit(ctx, ch, Event{Type: EventError, Err: err})
		a.emit(ctx, ch, Event{Type: EventDone, Content: string(TerminationError)})
		return
	}

	a.logger.Info("run started", "agent", a.id, "max_steps", a.maxSteps)

	for a.state == StateRunning {
		if ctx.Err() != nil {
			a.finish(TerminationCancelled)
			break
		}
		if a.step >= a.maxSteps {
			a.logger.Info("step budget exhausted", "agent", a.id, "steps", a.step)
			a.finish(TerminationMaxSteps)
			break
		}
		a.step++

		cont, err := a.Think(ctx)
		if err != nil {
			a.fail(err)
			a.emit(ctx, ch, Event{Type: EventError, Err: err})
			a.emit(ctx, ch, Event{Type: EventDone, Content: string(a.reason)})
			return
		}

		if a.stuck.ShouldAbort() {
			a.logger.Warn("repetitive loop state detected", "agent", a.id, "step", a.step)
			a.finish(TerminationStuck)
			break
		}

		if !cont {
			a.finish(TerminationComplete)
			break
		}

		output, err := a.Act(ctx)
		if err != nil {
			a.fail(err)
			a.emit(ctx, ch, Event{Type: EventError, Err: err})
			a.emit(ctx, ch, Event{Type: EventDone, Content: string(a.reason)})
			return
		}
		if output != "" {
			a.emit(ctx, ch, Event{Type: EventContent, Content: output})
		}

		if err := a.Observe(ctx); err != nil {
			a.fail(err)
			a.emit(ctx, ch, Event{Type: EventError, Err: err})
			a.emit(ctx, ch, Event{Type: EventDone, Content: string(a.reason)})
			return
		}
	}

	// A run that ends without tool calls still has a final assistant
	// message worth delivering.
	if a.reason == TerminationComplete {
		if last := a.memory.LastAssistant(); last != nil && last.Content != "" {
			a.emit(ctx, ch, Event{Type: EventContent, Content: last.Content})
		}
	}

	a.logger.Info("run finished", "agent", a.id, "steps", a.step, "reason", a.reason)
	a.emit(ctx, ch, Event{Type: EventDone, Content: string(a.reason)})
}

// emit sends on the stream unless the consumer's context is gone. The channel
// is buffered, so a consumer that keeps up never blocks the loop here.
func (a *Agent) emit(ctx context.Context, ch chan<- Event, ev Event) {
	select {
	case ch <- ev:
	case <-ctx.Done():
	}
}

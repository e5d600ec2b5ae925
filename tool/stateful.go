package tool

import "context"

// Stateful is implemented by tools that hold a live session between calls,
// such as an interactive browser or shell. The agent loop consults
// CurrentContext when building the next-step prompt after recent use, and
// calls Cleanup exactly once when the run ends.
//
// The implementation must not retain a reference to the agent; any state it
// needs is passed through the call arguments or the context.
type Stateful interface {
	// CurrentContext returns a snapshot of the tool's live state, formatted
	// for inclusion in the next reasoning prompt.
	CurrentContext(ctx context.Context) (string, error)

	// Cleanup releases the tool's resources. It must be safe to call when
	// nothing was ever initialized.
	Cleanup(ctx context.Context) error
}

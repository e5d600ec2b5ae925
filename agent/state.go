package agent

// State identifies where an agent is in its lifecycle.
// Transitions only move forward: Idle → Running → Finished or Error.
// A finished or errored agent never runs again; construct a new one instead.
type State string

const (
	// StateIdle is the initial state before a run begins.
	StateIdle State = "idle"

	// StateRunning is the state while the loop is iterating.
	StateRunning State = "running"

	// StateFinished is the terminal state of a completed run, whether by
	// termination signal, natural completion, or budget exhaustion.
	StateFinished State = "finished"

	// StateError is the terminal state after an unrecovered failure.
	StateError State = "error"
)

// Terminal reports whether no further transitions can occur.
func (s State) Terminal() bool {
	return s == StateFinished || s == StateError
}

// TerminationReason indicates why a run stopped.
type TerminationReason string

const (
	// TerminationTerminated indicates a terminal tool reported success.
	TerminationTerminated TerminationReason = "terminated"

	// TerminationComplete indicates the model stopped requesting tools.
	TerminationComplete TerminationReason = "complete"

	// TerminationMaxSteps indicates the step budget was exhausted.
	TerminationMaxSteps TerminationReason = "max_steps"

	// TerminationStuck indicates repeated identical states tripped the
	// stuck detector.
	TerminationStuck TerminationReason = "stuck"

	// TerminationError indicates an unrecoverable error occurred.
	TerminationError TerminationReason = "error"

	// TerminationCancelled indicates the consumer cancelled the run.
	TerminationCancelled TerminationReason = "cancelled"
)

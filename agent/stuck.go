package agent

// StuckDetector guards against non-terminating reasoning loops by counting
// consecutive identical loop states. It knows nothing about tools or memory
// contents; callers feed it whatever fingerprint they consider the agent's
// high-level state.
type StuckDetector struct {
	threshold int
	last      string
	count     int
}

// NewStuckDetector creates a detector that signals abort once the same state
// has been observed threshold times in a row. A threshold of 0 disables
// detection.
func NewStuckDetector(threshold int) *StuckDetector {
	return &StuckDetector{threshold: threshold}
}

// Observe records the next loop state. A repeat of the previous state
// increments the run length; a change starts a new run of one.
func (d *StuckDetector) Observe(state string) {
	if d.count > 0 && state == d.last {
		d.count++
	} else {
		d.count = 1
	}
	d.last = state
}

// ShouldAbort reports whether the current run of identical states has
// reached the configured threshold.
func (d *StuckDetector) ShouldAbort() bool {
	return d.threshold > 0 && d.count >= d.threshold
}

// Reset clears the detector for reuse.
func (d *StuckDetector) Reset() {
	d.last = ""
	d.count = 0
}

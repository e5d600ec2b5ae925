package agent

import "errors"

// ErrRunConsumed is returned when Stream or Run is called on an agent whose
// single run has already started or finished.
var ErrRunConsumed = errors.New("agent: run already consumed")

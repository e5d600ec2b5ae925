package mcp

import "fmt"

// ConnectionError reports a failure to establish or use a session with a
// remote tool server. It is scoped to one server: callers handling it must
// not abort connection attempts to other servers.
type ConnectionError struct {
	ServerID string
	Err      error
}

// Error returns a formatted error message including the server ID.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("mcp: server %s: %v", e.ServerID, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

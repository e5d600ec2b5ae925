package strider

import "encoding/json"

// Tool defines a function that can be called by the model.
type Tool struct {
	// Name is the unique identifier for the tool.
	Name string
	// Description explains what the tool does (helps the model decide when to use it).
	Description string
	// Parameters is a JSON Schema object defining the function parameters.
	Parameters json.RawMessage
}

// ToolCall represents a request from the model to invoke a tool.
type ToolCall struct {
	// ID is a unique identifier for this tool call (used to match results).
	ID string `json:"id"`
	// Name is the name of the tool to invoke.
	Name string `json:"name"`
	// Arguments is a JSON string containing the arguments to pass.
	Arguments string `json:"arguments"`
}

// ResultStatus classifies the outcome of a tool execution.
type ResultStatus string

const (
	// StatusSuccess indicates the tool completed normally.
	StatusSuccess ResultStatus = "success"
	// StatusFailure indicates the tool ran but reported an error.
	StatusFailure ResultStatus = "failure"
	// StatusPartial indicates the tool produced incomplete output
	// (e.g. truncated to the observation ceiling).
	StatusPartial ResultStatus = "partial"
)

// ToolResult represents the result of executing a tool call.
type ToolResult struct {
	// ToolCallID matches the ID from the corresponding ToolCall.
	ToolCallID string `json:"toolCallId"`
	// Content is the result content to return to the model.
	Content string `json:"content"`
	// Status classifies the outcome independently of the content text.
	Status ResultStatus `json:"status"`
}

// IsError reports whether the result represents a failure.
func (r ToolResult) IsError() bool {
	return r.Status == StatusFailure
}

// TerminationSentinel is the literal tool-result content that signals
// successful task completion. Remote tools have no way to carry a
// structured status, so the loop also recognizes this exact text.
const TerminationSentinel = `{"status":"success"}`

// ToolChoice controls how the model uses tools.
type ToolChoice string

const (
	// ToolChoiceAuto lets the model decide when to use tools (default).
	ToolChoiceAuto ToolChoice = "auto"
	// ToolChoiceNone disables tool use for the request.
	ToolChoiceNone ToolChoice = "none"
	// ToolChoiceRequired forces the model to use a tool.
	ToolChoiceRequired ToolChoice = "required"
)

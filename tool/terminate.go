package tool

import (
	"context"

	ai "github.com/striderml/strider"
	"github.com/striderml/strider/schema"
)

// TerminateName is the name of the built-in terminate tool.
const TerminateName = "terminate"

type terminateArgs struct {
	Status string `json:"status"`
}

// Terminate returns the built-in tool the model calls to signal that the
// task is complete. The registration is marked Terminal, and its content is
// the termination sentinel for compatibility with hosts that only inspect
// the result text.
func Terminate() Registration {
	params := schema.Object().
		Field("status", schema.String().
			Desc("The finish status of the interaction.").
			Enum("success", "failure").
			Required()).
		MustBuild()

	reg := Func(TerminateName,
		"Terminate the interaction when the request is fulfilled or when no further progress can be made.",
		params,
		func(ctx context.Context, args terminateArgs) (string, error) {
			if args.Status == "failure" {
				return `{"status":"failure"}`, nil
			}
			return ai.TerminationSentinel, nil
		},
	)
	reg.Terminal = true
	return reg
}

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/striderml/strider/schema"
	"github.com/striderml/strider/tool"
)

// localTools returns the built-in tool set every run starts with. Remote
// tools are layered on top by the server manager.
func localTools() []tool.Registration {
	return []tool.Registration{
		tool.Terminate(),
		timeTool(),
		calculateTool(),
	}
}

type timeArgs struct {
	Format string `json:"format"`
}

func timeTool() tool.Registration {
	params := schema.Object().
		Field("format", schema.String().
			Desc("Output format: 'rfc3339', 'unix', or 'human'.").
			Enum("rfc3339", "unix", "human").
			Default("human")).
		MustBuild()

	return tool.Func("time", "Get the current date and time.", params,
		func(ctx context.Context, args timeArgs) (string, error) {
			now := time.Now()
			switch strings.ToLower(args.Format) {
			case "rfc3339":
				return now.Format(time.RFC3339), nil
			case "unix":
				return fmt.Sprintf("%d", now.Unix()), nil
			default:
				return now.Format("Monday, January 2, 2006 at 3:04 PM MST"), nil
			}
		})
}

type calculateArgs struct {
	Operation string  `json:"operation"`
	A         float64 `json:"a"`
	B         float64 `json:"b"`
}

func calculateTool() tool.Registration {
	params := schema.Object().
		Field("operation", schema.String().
			Desc("The operation to perform.").
			Enum("add", "subtract", "multiply", "divide").
			Required()).
		Field("a", schema.Number().Desc("First operand.").Required()).
		Field("b", schema.Number().Desc("Second operand.").Required()).
		MustBuild()

	return tool.Func("calculate", "Perform basic arithmetic.", params,
		func(ctx context.Context, args calculateArgs) (string, error) {
			var result float64
			switch args.Operation {
			case "add":
				result = args.A + args.B
			case "subtract":
				result = args.A - args.B
			case "multiply":
				result = args.A * args.B
			case "divide":
				if args.B == 0 {
					return "", fmt.Errorf("cannot divide by zero")
				}
				result = args.A / args.B
			default:
				return "", fmt.Errorf("unknown operation: %s", args.Operation)
			}
			return fmt.Sprintf("%.6g", result), nil
		})
}

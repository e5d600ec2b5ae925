package agent

import "fmt"

// DefaultSystemPrompt is the system message used when no override is configured.
const DefaultSystemPrompt = `You are Strider, an all-capable AI assistant aimed at solving any task presented by the user. You have various tools at your disposal that you can call upon to efficiently complete complex requests, whether that is information gathering, data processing, or anything else a tool can reach.`

// DefaultNextStepPrompt nudges the model toward tool selection on each step.
const DefaultNextStepPrompt = `Based on user needs, proactively select the most appropriate tool or combination of tools. For complex tasks, break the problem down and use different tools step by step. After each step, clearly explain the progress made and what remains to be done. When the request is fulfilled, call the terminate tool to end the interaction.`

// renderStatefulPrompt builds the augmented next-step prompt used for exactly
// one reasoning step after a session-holding tool has been in recent use.
func renderStatefulPrompt(snapshot, nextStep string) string {
	return fmt.Sprintf("Current session state:\n%s\n\n%s", snapshot, nextStep)
}

package agent

import (
	"fmt"
	"strings"

	"github.com/povarna/generative-ai-agents/recipe-agent/internal/conversation"
)

const maxObservationChars = 6000

// observationStop keeps the model from writing tool output itself.
const observationStop = "OBSERVATION:"

const protocolInstructions = `## How to respond

You can call one tool per reply. To call a tool, reply with exactly:

ACTION: <tool name>
INPUT: <JSON object matching the tool's input schema>

You will then receive an OBSERVATION with the tool output. When you have
everything you need, reply with:

FINAL: <your answer to the user, in markdown>

Never invent tool output. Never write an OBSERVATION yourself.`

const forceFinalInstruction = "You have used every tool call allowed for this question. " +
	"Answer the user now with what you have. Reply with the answer only."

// BuildSystemPrompt appends the tool catalogue and reply protocol to the
// configured prompt.
func BuildSystemPrompt(base, toolCatalogue string) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(base))
	sb.WriteString("\n\n## Tools\n\n")
	sb.WriteString(toolCatalogue)
	sb.WriteString("\n")
	sb.WriteString(protocolInstructions)
	return sb.String()
}

func buildTurnPrompt(history []conversation.Message, userPrompt string, steps []ToolStep) string {
	var sb strings.Builder

	if len(history) > 0 {
		sb.WriteString("Conversation history:\n")
		for _, msg := range history {
			fmt.Fprintf(&sb, "%s: %s\n", msg.Role, msg.Content)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "user: %s\n", userPrompt)

	for _, step := range steps {
		fmt.Fprintf(&sb, "\n%s %s\n%s %s\nOBSERVATION: %s\n", actionPrefix, step.Tool, inputPrefix, step.Input, truncate(step.Output, maxObservationChars))
	}

	return sb.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "\n[truncated]"
}

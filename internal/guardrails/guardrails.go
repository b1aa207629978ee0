package guardrails

import (
	"context"

	"github.com/povarna/generative-ai-agents/recipe-agent/internal/llm"
	"github.com/rs/zerolog/log"
)

// Guardrails screens chat prompts before they reach the agent.
type Guardrails struct {
	staticValidator *StaticValidator
	llmValidator    *LLMValidator
	enableLLM       bool
}

// NewGuardrails builds the prompt guardrails. The LLM pass is skipped when
// client is nil.
func NewGuardrails(client llm.LLMClient, enableLLM bool) *Guardrails {
	g := &Guardrails{
		staticValidator: NewStaticValidator(DefaultBanWords),
		enableLLM:       enableLLM && client != nil,
	}
	if g.enableLLM {
		g.llmValidator = NewLLMValidator(client)
	}
	return g
}

func (g *Guardrails) ValidateInput(ctx context.Context, input string) ValidationResult {
	// Run static rules first (fast, free)
	result := g.staticValidator.Validate(input)
	if !result.IsValid {
		log.Info().Str("method", "static").Str("reason", result.Reason).Msg("Input blocked by static rules")
		return result
	}

	if g.enableLLM {
		result = g.llmValidator.Validate(ctx, input)
		if !result.IsValid {
			log.Warn().
				Str("method", "llm").
				Str("category", result.Category).
				Str("reason", result.Reason).
				Msg("Input blocked by LLM validator")
		}
		return result
	}

	return result
}

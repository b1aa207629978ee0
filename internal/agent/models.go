package agent

import (
	"encoding/json"
	"fmt"

	"github.com/povarna/generative-ai-agents/recipe-agent/internal/middleware"
)

const maxPromptChars = 10000

type ChatRequest struct {
	Prompt      string  `json:"prompt" description:"The user's message"`
	SessionID   string  `json:"session_id,omitempty" description:"Session to continue; a new one is created when empty"`
	MaxTokens   int     `json:"max_tokens,omitempty" description:"Maximum tokens per model call (default from configs/agent.yaml)"`
	Temperature float64 `json:"temperature,omitempty" description:"Temperature for generation (0.0-1.0)"`
}

// ToolStep is one tool call the agent made while answering.
type ToolStep struct {
	Tool   string          `json:"tool" description:"Tool name"`
	Input  json.RawMessage `json:"input" description:"Arguments passed to the tool"`
	Output string          `json:"output" description:"What the tool returned"`
}

type ChatResponse struct {
	SessionID string     `json:"session_id" description:"Session the exchange was stored in"`
	Content   string     `json:"content" description:"The assistant's answer"`
	Steps     []ToolStep `json:"steps" description:"Tool calls made for this answer"`
	Model     string     `json:"model" description:"Model used"`
	Blocked   bool       `json:"blocked,omitempty" description:"True when input guardrails refused the prompt"`
}

type HealthResponse struct {
	Status  string            `json:"status" description:"ok, or degraded when a backend is unreachable"`
	Version string            `json:"version" description:"API version"`
	Model   string            `json:"model" description:"provider:model the agent runs on"`
	Checks  map[string]string `json:"checks,omitempty" description:"Backend name to ok or unavailable"`
}

type ValidateSQLRequest struct {
	SQL string `json:"sql" description:"Statement to check against the SQL guardrail"`
}

type RecipeListResponse struct {
	Recipes any `json:"recipes" description:"Active recipes, newest first"`
	Count   int `json:"count" description:"Number of recipes returned"`
}

func (c *ChatRequest) Validate() error {
	if c.Prompt == "" {
		return middleware.ErrEmptyPrompt
	}

	if len(c.Prompt) > maxPromptChars {
		return middleware.ErrPromptTooLong
	}

	if c.MaxTokens < 0 || c.MaxTokens > 100000 {
		return middleware.ErrInvalidMaxTokens
	}

	if c.Temperature < 0.0 || c.Temperature > 1.0 {
		return middleware.ErrInvalidTemperature
	}
	return nil
}

type SSEEvent struct {
	Event string `json:"-"`
	Data  any    `json:"-"`
}

// SSE event payloads
type StreamStartEvent struct {
	SessionID string `json:"session_id"`
	Model     string `json:"model"`
}

type StreamToolEvent struct {
	Tool  string          `json:"tool"`
	Input json.RawMessage `json:"input"`
}

type StreamChunkEvent struct {
	Text string `json:"text"`
}

type StreamDoneEvent struct {
	SessionID string `json:"session_id"`
	Steps     int    `json:"steps"`
	Blocked   bool   `json:"blocked,omitempty"`
}

type StreamErrorEvent struct {
	Error string `json:"error"`
}

func (e SSEEvent) Format() (string, error) {
	jsonData, err := json.Marshal(e.Data)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("event: %s\ndata: %s\n\n", e.Event, string(jsonData)), nil
}

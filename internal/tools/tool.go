// Package tools holds the capabilities the recipe agent can invoke. Every
// tool answers with text meant for the model; failures the model can react
// to are returned as text, not as errors.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/povarna/generative-ai-agents/recipe-agent/internal/metrics"
)

var ErrUnknownTool = errors.New("unknown tool")

// Tool is a single agent capability.
type Tool interface {
	Name() string
	Description() string
	// Parameters is a JSON schema object describing the input.
	Parameters() map[string]any
	Call(ctx context.Context, input json.RawMessage) (string, error)
}

// Registry resolves tools by name.
type Registry struct {
	mu      sync.RWMutex
	tools   map[string]Tool
	metrics *metrics.Metrics
}

func NewRegistry(m *metrics.Metrics, tools ...Tool) *Registry {
	r := &Registry{
		tools:   make(map[string]Tool, len(tools)),
		metrics: m,
	}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns the tools sorted by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// Describe renders the tool catalogue for the system prompt.
func (r *Registry) Describe() string {
	var sb strings.Builder
	for _, t := range r.List() {
		schema, _ := json.Marshal(t.Parameters())
		fmt.Fprintf(&sb, "- %s: %s\n  input schema: %s\n", t.Name(), t.Description(), schema)
	}
	return sb.String()
}

func (r *Registry) Execute(ctx context.Context, name string, input json.RawMessage) (string, error) {
	t, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	if len(input) == 0 {
		input = json.RawMessage("{}")
	}

	start := time.Now()
	out, err := t.Call(ctx, input)

	status := "ok"
	if err != nil {
		status = "error"
	}
	r.metrics.ToolCall(name, status, time.Since(start))

	return out, err
}

// decodeInput unmarshals the model's JSON arguments into v.
func decodeInput(input json.RawMessage, v any) error {
	if err := json.Unmarshal(input, v); err != nil {
		return fmt.Errorf("invalid tool input: %w", err)
	}
	return nil
}

func toJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"success": false, "error": %q}`, err.Error())
	}
	return string(b)
}

func stringParam(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func objectSchema(required []string, properties map[string]any) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

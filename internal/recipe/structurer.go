package recipe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/llm"
	"github.com/rs/zerolog"
)

const structurePrompt = `Structure this recipe into the required format:

%s

Respond ONLY with a JSON object in this shape:
{
  "name": "<recipe name>",
  "recipe_type": "cocktail" | "food" | "dessert",
  "ingredients": [{"name": "<ingredient>", "quantity": "<amount>", "unit": "<unit or empty>", "notes": "<prep notes or empty>"}],
  "instructions": ["<step 1>", "<step 2>"],
  "prep_time_minutes": <int or null>,
  "cook_time_minutes": <int or null>,
  "servings": <int or null>,
  "source_references": ["<url>"],
  "notes": "<tips or variations>",
  "tags": ["<flavor profile, diet, occasion>"]
}`

// DefaultImagePrompt is used when no template file is configured.
const DefaultImagePrompt = `Write a single prompt for an image model that produces an appetizing, photorealistic
overhead photo of the {{.RecipeType}} "{{.Name}}".
Key ingredients: {{.KeyIngredients}}.
Description: {{.Description}}.
Describe plating, lighting and background in one paragraph. Return only the prompt.`

// ModelParams carries the per-call LLM settings.
type ModelParams struct {
	MaxTokens   int
	Temperature float64
}

// Structurer turns free-form recipe text into a validated Recipe and writes
// the prompt used to illustrate it.
type Structurer struct {
	client      llm.LLMClient
	imagePrompt *template.Template
	params      ModelParams
	logger      *zerolog.Logger
}

func NewStructurer(client llm.LLMClient, imagePromptTemplate string, params ModelParams, logger *zerolog.Logger) (*Structurer, error) {
	if imagePromptTemplate == "" {
		imagePromptTemplate = DefaultImagePrompt
	}

	tmpl, err := template.New("image_prompt").Parse(imagePromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse image prompt template: %w", err)
	}

	return &Structurer{
		client:      client,
		imagePrompt: tmpl,
		params:      params,
		logger:      logger,
	}, nil
}

// Structure asks the model for a JSON recipe. The model's id is replaced with
// a fresh UUID because models tend to emit placeholder ids.
func (s *Structurer) Structure(ctx context.Context, raw string) (*Recipe, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("recipe text is empty")
	}

	resp, err := s.client.InvokeModelWithRetry(ctx, llm.LLMRequest{
		Prompt:      fmt.Sprintf(structurePrompt, raw),
		MaxTokens:   s.params.MaxTokens,
		Temperature: 0.0,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to structure recipe: %w", err)
	}

	r, err := ParseRecipeJSON(resp.Content)
	if err != nil {
		s.logger.Error().Err(err).Str("content", resp.Content).Msg("failed to deserialize structured recipe")
		return nil, err
	}

	now := time.Now().UTC()
	r.ID = uuid.New()
	r.IsDeleted = false
	r.SavedAt = now
	r.LastAccessedAt = now
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if r.SourceReferences == nil {
		r.SourceReferences = []string{}
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("recipe_id", r.ID.String()).
		Str("name", r.Name).
		Str("recipe_type", string(r.RecipeType)).
		Int("ingredients", len(r.Ingredients)).
		Msg("recipe structured")

	return r, nil
}

type imagePromptData struct {
	Name           string
	RecipeType     string
	KeyIngredients string
	Description    string
}

// ImagePrompt asks the model for an image-generation prompt for r.
func (s *Structurer) ImagePrompt(ctx context.Context, r *Recipe) (string, error) {
	description := r.Notes
	if description == "" {
		description = fmt.Sprintf("A delicious %s", r.RecipeType)
	}

	var buf bytes.Buffer
	if err := s.imagePrompt.Execute(&buf, imagePromptData{
		Name:           r.Name,
		RecipeType:     string(r.RecipeType),
		KeyIngredients: strings.Join(r.KeyIngredients(5), ", "),
		Description:    description,
	}); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}

	resp, err := s.client.InvokeModelWithRetry(ctx, llm.LLMRequest{
		Prompt:      buf.String(),
		MaxTokens:   300,
		Temperature: s.params.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate image prompt: %w", err)
	}

	return strings.TrimSpace(resp.Content), nil
}

// ParseRecipeJSON decodes a model reply, tolerating a surrounding markdown
// code fence or prose before and after the object.
func ParseRecipeJSON(content string) (*Recipe, error) {
	content = stripMarkdownCodeBlock(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in model response")
	}

	var r Recipe
	if err := json.Unmarshal([]byte(content[start:end+1]), &r); err != nil {
		return nil, fmt.Errorf("failed to decode recipe JSON: %w", err)
	}
	return &r, nil
}

func stripMarkdownCodeBlock(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		firstNewline := strings.Index(content, "\n")
		if firstNewline == -1 {
			return content
		}

		closingBackticks := strings.LastIndex(content, "```")
		if closingBackticks == -1 || closingBackticks <= firstNewline {
			return content
		}

		content = strings.TrimSpace(content[firstNewline+1 : closingBackticks])
	}

	return content
}

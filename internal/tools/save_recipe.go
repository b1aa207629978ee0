package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/povarna/generative-ai-agents/recipe-agent/internal/approval"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/metrics"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/recipe"
	"github.com/rs/zerolog"
)

// RecipeStructurer is satisfied by recipe.Structurer.
type RecipeStructurer interface {
	Structure(ctx context.Context, raw string) (*recipe.Recipe, error)
	ImagePrompt(ctx context.Context, r *recipe.Recipe) (string, error)
}

type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

type ImageUploader interface {
	Upload(ctx context.Context, recipeID string, data []byte) (string, error)
}

type RecipeWriter interface {
	InsertRecipe(ctx context.Context, r *recipe.Recipe) error
}

type SaveRecipeInput struct {
	RawRecipeData string `json:"raw_recipe_data"`
}

type SaveRecipeResult struct {
	Status     string `json:"status"`
	RecipeID   string `json:"recipe_id,omitempty"`
	RecipeName string `json:"recipe_name,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
	Error      string `json:"error,omitempty"`
	Message    string `json:"message"`
}

// SaveRecipe stores a recipe after a human approves it. Image generation is
// best effort: without a generator or on failure the recipe is saved bare.
type SaveRecipe struct {
	approver   approval.Approver
	structurer RecipeStructurer
	images     ImageGenerator
	uploader   ImageUploader
	writer     RecipeWriter
	metrics    *metrics.Metrics
	logger     *zerolog.Logger
}

func NewSaveRecipe(
	approver approval.Approver,
	structurer RecipeStructurer,
	images ImageGenerator,
	uploader ImageUploader,
	writer RecipeWriter,
	m *metrics.Metrics,
	logger *zerolog.Logger,
) *SaveRecipe {
	return &SaveRecipe{
		approver:   approver,
		structurer: structurer,
		images:     images,
		uploader:   uploader,
		writer:     writer,
		metrics:    m,
		logger:     logger,
	}
}

func (s *SaveRecipe) Name() string { return "save_recipe" }

func (s *SaveRecipe) Description() string {
	return "Save a recipe to the user's personal collection with an auto-generated image. " +
		"Only use when the user explicitly asks to save or confirms after you offer. " +
		"Include name, ingredients with quantities, step-by-step instructions, prep and cook time in minutes, " +
		"servings, recipe type (cocktail, food or dessert), source URLs and tips. The user must approve the save."
}

func (s *SaveRecipe) Parameters() map[string]any {
	return objectSchema([]string{"raw_recipe_data"}, map[string]any{
		"raw_recipe_data": stringParam("Complete recipe information as text"),
	})
}

func (s *SaveRecipe) Call(ctx context.Context, input json.RawMessage) (string, error) {
	var in SaveRecipeInput
	if err := decodeInput(input, &in); err != nil {
		return "", err
	}
	return toJSON(s.Save(ctx, in.RawRecipeData)), nil
}

func (s *SaveRecipe) Save(ctx context.Context, raw string) SaveRecipeResult {
	if strings.TrimSpace(raw) == "" {
		return s.fail("recipe text is empty")
	}

	decision, err := s.approver.Review(ctx, approval.Request{
		Tool:    s.Name(),
		Summary: "The assistant wants to save this recipe to your collection.",
		Payload: raw,
	})
	if err != nil {
		return s.fail(fmt.Sprintf("approval failed: %v", err))
	}

	s.logger.Info().Str("action", string(decision.Action)).Str("user_action", decision.UserAction).Msg("save_recipe reviewed")

	switch decision.Action {
	case approval.Reject:
		s.metrics.RecipeSaved("rejected")
		return SaveRecipeResult{
			Status:  "rejected",
			Message: "The user declined to save this recipe. Do not retry unless they ask again.",
		}
	case approval.Edit:
		raw = decision.Payload
	}

	r, err := s.structurer.Structure(ctx, raw)
	if err != nil {
		return s.fail(err.Error())
	}
	r.ConversationID = SessionIDFrom(ctx)

	r.ImageURL = s.createImage(ctx, r)

	if err := s.writer.InsertRecipe(ctx, r); err != nil {
		return s.fail(err.Error())
	}

	s.metrics.RecipeSaved("saved")

	message := fmt.Sprintf("Recipe '%s' saved successfully!", r.Name)
	if r.ImageURL == "" {
		message += " (Image generation unavailable)"
	}

	return SaveRecipeResult{
		Status:     "saved",
		RecipeID:   r.ID.String(),
		RecipeName: r.Name,
		ImageURL:   r.ImageURL,
		Message:    message,
	}
}

func (s *SaveRecipe) createImage(ctx context.Context, r *recipe.Recipe) string {
	if s.images == nil || s.uploader == nil {
		s.logger.Warn().Str("recipe", r.Name).Msg("image generation skipped: no image generator configured")
		return ""
	}

	prompt, err := s.structurer.ImagePrompt(ctx, r)
	if err != nil {
		s.logger.Error().Err(err).Msg("image prompt failed")
		return ""
	}

	data, err := s.images.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error().Err(err).Str("recipe", r.Name).Msg("image generation failed")
		return ""
	}

	url, err := s.uploader.Upload(ctx, r.ID.String(), data)
	if err != nil {
		s.logger.Warn().Err(err).Msg("image upload failed")
		return ""
	}
	return url
}

func (s *SaveRecipe) fail(reason string) SaveRecipeResult {
	s.logger.Error().Str("error", reason).Msg("save recipe failed")
	s.metrics.RecipeSaved("error")
	return SaveRecipeResult{
		Status:  "error",
		Error:   reason,
		Message: "Failed to save recipe: " + reason,
	}
}

package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/recipe"
	"github.com/rs/zerolog/log"
)

var ErrRecipeNotFound = errors.New("recipe not found")

// ListFilter narrows ListRecipes. Zero values mean no filter.
type ListFilter struct {
	RecipeType recipe.RecipeType
	Limit      int
}

func (db *DB) InsertRecipe(ctx context.Context, r *recipe.Recipe) error {
	query := `
	INSERT INTO saved_recipes (
		id, name, recipe_type, ingredients, instructions,
		prep_time_minutes, cook_time_minutes, servings, source_references,
		notes, user_notes, tags, image_url, saved_at, last_accessed_at,
		conversation_id, is_deleted
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9,
		NULLIF($10, ''), NULLIF($11, ''), $12, NULLIF($13, ''), $14, $15,
		NULLIF($16, ''), false
	)`

	_, err := db.Pool.Exec(ctx, query,
		r.ID.String(), r.Name, string(r.RecipeType), r.Ingredients, r.Instructions,
		r.PrepTimeMinutes, r.CookTimeMinutes, r.Servings, r.SourceReferences,
		r.Notes, r.UserNotes, r.Tags, r.ImageURL, r.SavedAt, r.LastAccessedAt,
		r.ConversationID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert recipe %s: %w", r.ID, err)
	}

	log.Info().Str("recipe_id", r.ID.String()).Str("name", r.Name).Msg("Recipe inserted")
	return nil
}

// GetRecipe returns an active recipe and marks it as accessed.
func (db *DB) GetRecipe(ctx context.Context, id string) (*recipe.Recipe, error) {
	query := `
	UPDATE saved_recipes SET last_accessed_at = now()
	WHERE id = $1 AND is_deleted = false
	RETURNING
		id, name, recipe_type, ingredients, instructions,
		prep_time_minutes, cook_time_minutes, servings, source_references,
		COALESCE(notes, ''), COALESCE(user_notes, ''), tags, COALESCE(image_url, ''),
		saved_at, last_accessed_at, COALESCE(conversation_id, ''), is_deleted`

	var (
		r      recipe.Recipe
		rawID  string
		rawTyp string
	)
	err := db.Pool.QueryRow(ctx, query, id).Scan(
		&rawID, &r.Name, &rawTyp, &r.Ingredients, &r.Instructions,
		&r.PrepTimeMinutes, &r.CookTimeMinutes, &r.Servings, &r.SourceReferences,
		&r.Notes, &r.UserNotes, &r.Tags, &r.ImageURL,
		&r.SavedAt, &r.LastAccessedAt, &r.ConversationID, &r.IsDeleted,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe %s: %w", id, err)
	}

	if err := r.ID.UnmarshalText([]byte(rawID)); err != nil {
		return nil, fmt.Errorf("recipe %s has a malformed id: %w", id, err)
	}
	r.RecipeType = recipe.RecipeType(rawTyp)

	return &r, nil
}

// ListRecipes returns active recipes, newest first.
func (db *DB) ListRecipes(ctx context.Context, filter ListFilter) ([]recipe.Summary, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
	SELECT id, name, recipe_type, tags, COALESCE(image_url, ''), saved_at
	FROM saved_recipes
	WHERE is_deleted = false AND ($1 = '' OR recipe_type = $1)
	ORDER BY saved_at DESC
	LIMIT $2`

	rows, err := db.Pool.Query(ctx, query, string(filter.RecipeType), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	defer rows.Close()

	summaries := []recipe.Summary{}
	for rows.Next() {
		var (
			s      recipe.Summary
			rawTyp string
		)
		if err := rows.Scan(&s.ID, &s.Name, &rawTyp, &s.Tags, &s.ImageURL, &s.SavedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		s.RecipeType = recipe.RecipeType(rawTyp)
		summaries = append(summaries, s)
	}

	// Rows errors catch
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return summaries, nil
}

// SoftDeleteRecipe flags a recipe as deleted. Rows are never removed.
func (db *DB) SoftDeleteRecipe(ctx context.Context, id string) error {
	result, err := db.Pool.Exec(ctx, `UPDATE saved_recipes SET is_deleted = true WHERE id = $1 AND is_deleted = false`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		log.Warn().Str("recipe_id", id).Msg("Recipe not found")
		return ErrRecipeNotFound
	}

	log.Info().Str("recipe_id", id).Msg("Recipe soft deleted")
	return nil
}

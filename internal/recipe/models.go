package recipe

import (
	"time"

	"github.com/google/uuid"
)

type RecipeType string

const (
	Cocktail RecipeType = "cocktail"
	Food     RecipeType = "food"
	Dessert  RecipeType = "dessert"
)

// Ingredient is a single line of a recipe's ingredient list
type Ingredient struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Quantity string `json:"quantity" validate:"required"`
	Unit     string `json:"unit,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Recipe is both the structured output of the LLM and the saved_recipes row.
type Recipe struct {
	ID               uuid.UUID    `json:"id"`
	Name             string       `json:"name" validate:"required,min=1,max=200"`
	RecipeType       RecipeType   `json:"recipe_type" validate:"required,oneof=cocktail food dessert"`
	Ingredients      []Ingredient `json:"ingredients" validate:"required,min=1,dive"`
	Instructions     []string     `json:"instructions" validate:"required,min=1,dive,required"`
	PrepTimeMinutes  *int         `json:"prep_time_minutes,omitempty" validate:"omitempty,gte=0"`
	CookTimeMinutes  *int         `json:"cook_time_minutes,omitempty" validate:"omitempty,gte=0"`
	Servings         *int         `json:"servings,omitempty" validate:"omitempty,gt=0"`
	SourceReferences []string     `json:"source_references"`
	Notes            string       `json:"notes,omitempty" validate:"max=2000"`
	UserNotes        string       `json:"user_notes,omitempty" validate:"max=2000"`
	Tags             []string     `json:"tags"`
	ImageURL         string       `json:"image_url,omitempty"`
	IsDeleted        bool         `json:"is_deleted"`
	ConversationID   string       `json:"conversation_id,omitempty"`
	SavedAt          time.Time    `json:"saved_at"`
	LastAccessedAt   time.Time    `json:"last_accessed_at"`
}

// KeyIngredients returns up to n ingredient names in list order.
func (r *Recipe) KeyIngredients(n int) []string {
	names := make([]string, 0, n)
	for i, ing := range r.Ingredients {
		if i == n {
			break
		}
		names = append(names, ing.Name)
	}
	return names
}

// Summary is the short form returned by listings.
type Summary struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	RecipeType RecipeType `json:"recipe_type"`
	Tags       []string   `json:"tags"`
	ImageURL   string     `json:"image_url,omitempty"`
	SavedAt    time.Time  `json:"saved_at"`
}

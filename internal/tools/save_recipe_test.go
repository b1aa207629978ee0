package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/approval"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/recipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStructurer struct {
	err    error
	gotRaw string
}

func (s *stubStructurer) Structure(ctx context.Context, raw string) (*recipe.Recipe, error) {
	s.gotRaw = raw
	if s.err != nil {
		return nil, s.err
	}
	return &recipe.Recipe{ID: uuid.New(), Name: "Negroni", RecipeType: recipe.Cocktail}, nil
}

func (s *stubStructurer) ImagePrompt(ctx context.Context, r *recipe.Recipe) (string, error) {
	return "a negroni on a bar", nil
}

type stubImages struct{ err error }

func (s stubImages) Generate(ctx context.Context, prompt string) ([]byte, error) {
	return []byte("png"), s.err
}

type stubUploader struct{}

func (stubUploader) Upload(ctx context.Context, recipeID string, data []byte) (string, error) {
	return "https://img.example.com/" + recipeID + ".png", nil
}

type stubWriter struct {
	saved []*recipe.Recipe
	err   error
}

func (w *stubWriter) InsertRecipe(ctx context.Context, r *recipe.Recipe) error {
	if w.err != nil {
		return w.err
	}
	w.saved = append(w.saved, r)
	return nil
}

type editApprover struct{ text string }

func (e editApprover) Review(ctx context.Context, req approval.Request) (approval.Decision, error) {
	return approval.Decision{Action: approval.Edit, Payload: e.text, UserAction: "edit"}, nil
}

func TestSaveRecipe(t *testing.T) {
	ctx := WithSessionID(context.Background(), "session-1")

	t.Run("approved with image", func(t *testing.T) {
		w := &stubWriter{}
		tool := NewSaveRecipe(approval.NewPolicyApprover(approval.Approve), &stubStructurer{}, stubImages{}, stubUploader{}, w, nil, testLogger())

		res := tool.Save(ctx, "Negroni: gin, campari, vermouth")

		assert.Equal(t, "saved", res.Status)
		assert.Equal(t, "Recipe 'Negroni' saved successfully!", res.Message)
		require.Len(t, w.saved, 1)
		assert.Equal(t, "session-1", w.saved[0].ConversationID)
		assert.Equal(t, w.saved[0].ID.String(), res.RecipeID)
		assert.Equal(t, "https://img.example.com/"+res.RecipeID+".png", res.ImageURL)
	})

	t.Run("image failure still saves", func(t *testing.T) {
		w := &stubWriter{}
		tool := NewSaveRecipe(approval.NewPolicyApprover(approval.Approve), &stubStructurer{}, stubImages{err: errors.New("quota")}, stubUploader{}, w, nil, testLogger())

		res := tool.Save(ctx, "Negroni")
		assert.Equal(t, "saved", res.Status)
		assert.Equal(t, "Recipe 'Negroni' saved successfully! (Image generation unavailable)", res.Message)
		assert.Empty(t, res.ImageURL)
		require.Len(t, w.saved, 1)
	})

	t.Run("no generator configured", func(t *testing.T) {
		w := &stubWriter{}
		tool := NewSaveRecipe(approval.NewPolicyApprover(approval.Approve), &stubStructurer{}, nil, nil, w, nil, testLogger())

		res := tool.Save(ctx, "Negroni")
		assert.Equal(t, "saved", res.Status)
		assert.Contains(t, res.Message, "(Image generation unavailable)")
	})

	t.Run("rejected", func(t *testing.T) {
		w := &stubWriter{}
		s := &stubStructurer{}
		tool := NewSaveRecipe(approval.NewPolicyApprover(approval.Reject), s, nil, nil, w, nil, testLogger())

		res := tool.Save(ctx, "Negroni")
		assert.Equal(t, "rejected", res.Status)
		assert.Empty(t, w.saved)
		assert.Empty(t, s.gotRaw, "rejected recipes are never structured")
	})

	t.Run("edit replaces the text", func(t *testing.T) {
		s := &stubStructurer{}
		tool := NewSaveRecipe(editApprover{text: "Negroni with orange peel"}, s, nil, nil, &stubWriter{}, nil, testLogger())

		res := tool.Save(ctx, "Negroni")
		assert.Equal(t, "saved", res.Status)
		assert.Equal(t, "Negroni with orange peel", s.gotRaw)
	})

	t.Run("structuring error", func(t *testing.T) {
		tool := NewSaveRecipe(approval.NewPolicyApprover(approval.Approve), &stubStructurer{err: errors.New("Name is required")}, nil, nil, &stubWriter{}, nil, testLogger())

		res := tool.Save(ctx, "???")
		assert.Equal(t, "error", res.Status)
		assert.Equal(t, "Failed to save recipe: Name is required", res.Message)
	})

	t.Run("database error", func(t *testing.T) {
		tool := NewSaveRecipe(approval.NewPolicyApprover(approval.Approve), &stubStructurer{}, nil, nil, &stubWriter{err: errors.New("insert failed")}, nil, testLogger())

		res := tool.Save(ctx, "Negroni")
		assert.Equal(t, "error", res.Status)
		assert.Equal(t, "insert failed", res.Error)
	})
}

package imagestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

var ErrNotFound = errors.New("image not found")

// Store keeps one PNG per recipe and returns a URL for it.
type Store interface {
	Upload(ctx context.Context, recipeID string, data []byte) (string, error)
	Delete(ctx context.Context, recipeID string) error
}

func objectName(recipeID string) string {
	return "recipes/" + recipeID + ".png"
}

// LocalStore writes images into a directory and returns file:// URLs.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

func (l *LocalStore) path(recipeID string) string {
	return filepath.Join(l.dir, recipeID+".png")
}

func (l *LocalStore) Upload(ctx context.Context, recipeID string, data []byte) (string, error) {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create images dir: %w", err)
	}

	path := l.path(recipeID)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file://" + abs, nil
}

func (l *LocalStore) Delete(ctx context.Context, recipeID string) error {
	err := os.Remove(l.path(recipeID))
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

// FallbackStore tries primary first and falls back to secondary when it fails.
type FallbackStore struct {
	primary   Store
	secondary Store
	logger    *zerolog.Logger
}

func NewFallbackStore(primary, secondary Store, logger *zerolog.Logger) *FallbackStore {
	return &FallbackStore{primary: primary, secondary: secondary, logger: logger}
}

func (f *FallbackStore) Upload(ctx context.Context, recipeID string, data []byte) (string, error) {
	url, err := f.primary.Upload(ctx, recipeID, data)
	if err == nil {
		return url, nil
	}

	f.logger.Warn().Err(err).Str("recipe_id", recipeID).Msg("primary image store failed, falling back")
	return f.secondary.Upload(ctx, recipeID, data)
}

// Delete removes the image from whichever store has it.
func (f *FallbackStore) Delete(ctx context.Context, recipeID string) error {
	primaryErr := f.primary.Delete(ctx, recipeID)
	if primaryErr == nil {
		return nil
	}
	if !errors.Is(primaryErr, ErrNotFound) {
		f.logger.Warn().Err(primaryErr).Str("recipe_id", recipeID).Msg("primary image delete failed")
	}

	return f.secondary.Delete(ctx, recipeID)
}

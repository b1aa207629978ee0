package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS saved_recipes (
		id                TEXT PRIMARY KEY,
		name              VARCHAR(255) NOT NULL,
		recipe_type       VARCHAR(20) NOT NULL,
		ingredients       JSONB NOT NULL,
		instructions      JSONB NOT NULL,
		prep_time_minutes INTEGER,
		cook_time_minutes INTEGER,
		servings          INTEGER,
		source_references JSONB NOT NULL DEFAULT '[]',
		notes             VARCHAR(2000),
		user_notes        VARCHAR(2000),
		tags              JSONB NOT NULL DEFAULT '[]',
		image_url         TEXT,
		saved_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
		last_accessed_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		conversation_id   VARCHAR(100),
		is_deleted        BOOLEAN NOT NULL DEFAULT false
	)`,
	`CREATE INDEX IF NOT EXISTS idx_saved_recipes_name ON saved_recipes (name)`,
	`CREATE INDEX IF NOT EXISTS idx_saved_recipes_type ON saved_recipes (recipe_type)`,
	`CREATE INDEX IF NOT EXISTS idx_saved_recipes_saved_at ON saved_recipes (saved_at)`,
	`CREATE INDEX IF NOT EXISTS idx_saved_recipes_is_deleted ON saved_recipes (is_deleted)`,
}

// Migrate creates the saved_recipes table and its indexes if they are missing.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	log.Info().Msg("Database schema is up to date")
	return nil
}

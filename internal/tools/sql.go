package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/povarna/generative-ai-agents/recipe-agent/internal/database"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/guardrails"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/metrics"
	"github.com/rs/zerolog"
)

var ErrNoDatabase = errors.New("database is not configured")

// SQLExecutor runs statements the guardrail accepted. Satisfied by *database.DB.
type SQLExecutor interface {
	Execute(ctx context.Context, validated guardrails.SQLResult, maxRows int) (*database.QueryResult, error)
}

// GuardedSQL validates agent SQL and executes what passes. Shared by the SQL
// tools and the MCP server. executor may be nil, leaving validation only.
type GuardedSQL struct {
	guard    *guardrails.SQLGuard
	executor SQLExecutor
	metrics  *metrics.Metrics
	logger   *zerolog.Logger
}

func NewGuardedSQL(guard *guardrails.SQLGuard, executor SQLExecutor, m *metrics.Metrics, logger *zerolog.Logger) *GuardedSQL {
	return &GuardedSQL{guard: guard, executor: executor, metrics: m, logger: logger}
}

// Validate runs the guardrail and records the verdict.
func (g *GuardedSQL) Validate(query string) guardrails.SQLResult {
	result := g.guard.Validate(query)

	if result.Accepted {
		g.metrics.SQLDecision(result.Kind.String(), "accepted")
	} else {
		g.metrics.SQLDecision(result.Kind.String(), result.Error.String())
		g.logger.Warn().Str("reason", result.Reason).Str("error_kind", result.Error.String()).Msg("SQL blocked by guardrails")
	}
	return result
}

func (g *GuardedSQL) Run(ctx context.Context, validated guardrails.SQLResult, maxRows int) (*database.QueryResult, error) {
	if g.executor == nil {
		return nil, ErrNoDatabase
	}
	return g.executor.Execute(ctx, validated, maxRows)
}

const recipeSchema = `TABLE saved_recipes:
  id (TEXT PRIMARY KEY) - UUID
  name (TEXT)
  recipe_type (TEXT) - 'cocktail', 'food' or 'dessert'
  ingredients (JSONB) - array of {name, quantity, unit, notes}
  instructions (JSONB) - array of steps
  prep_time_minutes, cook_time_minutes, servings (INTEGER, nullable)
  source_references (JSONB) - array of URLs
  notes, user_notes (TEXT, nullable)
  tags (JSONB) - array of tags; search with tags::text ILIKE '%vegetarian%'
  image_url (TEXT, nullable)
  saved_at, last_accessed_at (TIMESTAMPTZ)
  conversation_id (TEXT, nullable)
  is_deleted (BOOLEAN) - soft delete flag, filtered out of every SELECT automatically`

type ExecuteSQLInput struct {
	Query string `json:"query"`
}

type ExecuteSQLResult struct {
	Success      bool             `json:"success"`
	Data         []map[string]any `json:"data,omitempty"`
	RowCount     *int             `json:"row_count,omitempty"`
	AffectedRows *int64           `json:"affected_rows,omitempty"`
	Error        string           `json:"error,omitempty"`
	Message      string           `json:"message"`
}

// ExecuteRecipeSQL is the agent's read/update path into saved_recipes.
type ExecuteRecipeSQL struct {
	sql     *GuardedSQL
	maxRows int
}

func NewExecuteRecipeSQL(sql *GuardedSQL, maxRows int) *ExecuteRecipeSQL {
	return &ExecuteRecipeSQL{sql: sql, maxRows: maxRows}
}

func (e *ExecuteRecipeSQL) Name() string { return "execute_recipe_sql" }

func (e *ExecuteRecipeSQL) Description() string {
	return "Run a SELECT or UPDATE against the saved recipes. Search: SELECT * FROM saved_recipes WHERE name ILIKE '%pasta%'. " +
		"Update: UPDATE saved_recipes SET notes = '...' WHERE id = '<uuid>'. Soft delete: UPDATE saved_recipes SET is_deleted = true WHERE id = '<uuid>'. " +
		"DROP, TRUNCATE, ALTER, CREATE, GRANT, REVOKE, DELETE and INSERT are blocked and UPDATE needs a WHERE clause.\n" + recipeSchema
}

func (e *ExecuteRecipeSQL) Parameters() map[string]any {
	return objectSchema([]string{"query"}, map[string]any{
		"query": stringParam("SQL query to execute (SELECT or UPDATE only)"),
	})
}

func (e *ExecuteRecipeSQL) Call(ctx context.Context, input json.RawMessage) (string, error) {
	var in ExecuteSQLInput
	if err := decodeInput(input, &in); err != nil {
		return "", err
	}
	return toJSON(e.Execute(ctx, in.Query)), nil
}

func (e *ExecuteRecipeSQL) Execute(ctx context.Context, query string) ExecuteSQLResult {
	validated := e.sql.Validate(query)
	if !validated.Accepted {
		return ExecuteSQLResult{
			Success: false,
			Error:   validated.Reason,
			Message: "Query blocked: " + validated.Reason,
		}
	}

	result, err := e.sql.Run(ctx, validated, e.maxRows)
	if err != nil {
		return ExecuteSQLResult{
			Success: false,
			Error:   err.Error(),
			Message: "Query failed: " + err.Error(),
		}
	}

	if validated.Kind == guardrails.UpdateKind {
		affected := result.AffectedRows
		return ExecuteSQLResult{
			Success:      true,
			AffectedRows: &affected,
			Message:      fmt.Sprintf("Updated %d row(s)", affected),
		}
	}

	data := result.Records()
	count := len(data)
	message := fmt.Sprintf("Found %d recipe(s)", count)
	if result.Remaining > 0 {
		message += fmt.Sprintf(" (%d more not shown)", result.Remaining)
	}

	return ExecuteSQLResult{
		Success:  true,
		Data:     data,
		RowCount: &count,
		Message:  message,
	}
}

var savedRecipesRe = regexp.MustCompile(`(?i)\bsaved_recipes\b`)

type ExploreInput struct {
	SQLQuery string `json:"sql_query"`
}

// ExploreRecipesDB answers with a text table, which reads better for the
// model than JSON when browsing the collection.
type ExploreRecipesDB struct {
	sql     *GuardedSQL
	maxRows int
}

func NewExploreRecipesDB(sql *GuardedSQL, maxRows int) *ExploreRecipesDB {
	return &ExploreRecipesDB{sql: sql, maxRows: maxRows}
}

func (e *ExploreRecipesDB) Name() string { return "explore_recipes_db" }

func (e *ExploreRecipesDB) Description() string {
	return "Browse the saved recipes with a SELECT (or fix one with an UPDATE) and get a text table back. " +
		"Example: SELECT name, tags FROM saved_recipes WHERE ingredients::text ILIKE '%bourbon%'.\n" + recipeSchema
}

func (e *ExploreRecipesDB) Parameters() map[string]any {
	return objectSchema([]string{"sql_query"}, map[string]any{
		"sql_query": stringParam("SELECT or UPDATE statement against saved_recipes"),
	})
}

func (e *ExploreRecipesDB) Call(ctx context.Context, input json.RawMessage) (string, error) {
	var in ExploreInput
	if err := decodeInput(input, &in); err != nil {
		return "", err
	}
	return e.Explore(ctx, in.SQLQuery), nil
}

func (e *ExploreRecipesDB) Explore(ctx context.Context, query string) string {
	if !savedRecipesRe.MatchString(query) {
		return "Use the 'saved_recipes' table. Example: SELECT name, recipe_type FROM saved_recipes ORDER BY saved_at DESC"
	}

	validated := e.sql.Validate(query)
	if !validated.Accepted {
		return "Blocked: " + validated.Reason
	}

	result, err := e.sql.Run(ctx, validated, e.maxRows)
	if err != nil {
		return fmt.Sprintf("Query error: %v", err)
	}

	if validated.Kind == guardrails.UpdateKind {
		return fmt.Sprintf("Updated %d row(s)", result.AffectedRows)
	}
	if len(result.Rows) == 0 {
		return "No results found."
	}
	return result.Table()
}

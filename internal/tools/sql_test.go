package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/povarna/generative-ai-agents/recipe-agent/internal/database"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/guardrails"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

type fakeExecutor struct {
	result  *database.QueryResult
	err     error
	queries []string
}

func (f *fakeExecutor) Execute(ctx context.Context, validated guardrails.SQLResult, maxRows int) (*database.QueryResult, error) {
	f.queries = append(f.queries, validated.Query)
	return f.result, f.err
}

func newGuardedSQL(exec SQLExecutor) *GuardedSQL {
	return NewGuardedSQL(guardrails.NewSQLGuard(guardrails.Options{}), exec, nil, testLogger())
}

func TestExecuteRecipeSQL(t *testing.T) {
	t.Run("select returns rows and runs the rewritten query", func(t *testing.T) {
		exec := &fakeExecutor{result: &database.QueryResult{
			Kind:    guardrails.SelectKind,
			Columns: []string{"id", "name"},
			Rows:    [][]any{{"1", "Negroni"}, {"2", "Boulevardier"}},
		}}
		tool := NewExecuteRecipeSQL(newGuardedSQL(exec), 200)

		res := tool.Execute(context.Background(), "SELECT id, name FROM saved_recipes WHERE name ILIKE '%ne%'")

		require.True(t, res.Success)
		assert.Equal(t, "Found 2 recipe(s)", res.Message)
		require.NotNil(t, res.RowCount)
		assert.Equal(t, 2, *res.RowCount)
		assert.Equal(t, "Negroni", res.Data[0]["name"])

		require.Len(t, exec.queries, 1)
		assert.Contains(t, exec.queries[0], "is_deleted = false")
	})

	t.Run("update reports affected rows", func(t *testing.T) {
		exec := &fakeExecutor{result: &database.QueryResult{Kind: guardrails.UpdateKind, AffectedRows: 1}}
		tool := NewExecuteRecipeSQL(newGuardedSQL(exec), 200)

		res := tool.Execute(context.Background(), "UPDATE saved_recipes SET notes = 'shake' WHERE id = 'x'")
		require.True(t, res.Success)
		assert.Equal(t, "Updated 1 row(s)", res.Message)
		require.NotNil(t, res.AffectedRows)
		assert.EqualValues(t, 1, *res.AffectedRows)
	})

	t.Run("blocked statements never reach the database", func(t *testing.T) {
		exec := &fakeExecutor{}
		tool := NewExecuteRecipeSQL(newGuardedSQL(exec), 200)

		out, err := tool.Call(context.Background(), json.RawMessage(`{"query": "DELETE FROM saved_recipes"}`))
		require.NoError(t, err)

		var res ExecuteSQLResult
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.False(t, res.Success)
		assert.Equal(t, "Query blocked: DELETE not allowed - use UPDATE SET is_deleted = true", res.Message)
		assert.Empty(t, exec.queries)
	})

	t.Run("database error", func(t *testing.T) {
		exec := &fakeExecutor{err: errors.New("connection refused")}
		tool := NewExecuteRecipeSQL(newGuardedSQL(exec), 200)

		res := tool.Execute(context.Background(), "SELECT * FROM saved_recipes")
		assert.False(t, res.Success)
		assert.Equal(t, "Query failed: connection refused", res.Message)
	})
}

func TestExploreRecipesDB(t *testing.T) {
	t.Run("requires saved_recipes", func(t *testing.T) {
		exec := &fakeExecutor{}
		tool := NewExploreRecipesDB(newGuardedSQL(exec), 50)

		out := tool.Explore(context.Background(), "SELECT * FROM users")
		assert.Contains(t, out, "Use the 'saved_recipes' table")
		assert.Empty(t, exec.queries)
	})

	t.Run("table output", func(t *testing.T) {
		exec := &fakeExecutor{result: &database.QueryResult{
			Kind:      guardrails.SelectKind,
			Columns:   []string{"name", "servings"},
			Rows:      [][]any{{"Negroni", int32(1)}, {"Paella", nil}},
			Remaining: 3,
		}}
		tool := NewExploreRecipesDB(newGuardedSQL(exec), 50)

		out := tool.Explore(context.Background(), "SELECT name, servings FROM saved_recipes")
		assert.Contains(t, out, "name | servings")
		assert.Contains(t, out, "Negroni | 1")
		assert.Contains(t, out, "Paella | NULL")
		assert.Contains(t, out, "... +3 more rows")
	})

	t.Run("empty result", func(t *testing.T) {
		exec := &fakeExecutor{result: &database.QueryResult{Kind: guardrails.SelectKind, Columns: []string{"name"}}}
		tool := NewExploreRecipesDB(newGuardedSQL(exec), 50)

		assert.Equal(t, "No results found.", tool.Explore(context.Background(), "SELECT name FROM saved_recipes"))
	})

	t.Run("blocked", func(t *testing.T) {
		tool := NewExploreRecipesDB(newGuardedSQL(&fakeExecutor{}), 50)
		out := tool.Explore(context.Background(), "UPDATE saved_recipes SET name = 'x'")
		assert.Equal(t, "Blocked: UPDATE requires a WHERE clause", out)
	})
}

package mcpadapter

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/config"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/database"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/guardrails"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/tools"
	"github.com/rs/zerolog"
)

type fakeExecutor struct {
	result  *database.QueryResult
	maxRows int
}

func (f *fakeExecutor) Execute(ctx context.Context, validated guardrails.SQLResult, maxRows int) (*database.QueryResult, error) {
	f.maxRows = maxRows
	return f.result, nil
}

var limits = config.RunSQLConfig{DefaultLimit: 200, MaxLimit: 1000}

func guarded(exec tools.SQLExecutor) *tools.GuardedSQL {
	logger := zerolog.Nop()
	return tools.NewGuardedSQL(guardrails.NewSQLGuard(guardrails.Options{}), exec, nil, &logger)
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 200},
		{-5, 1},
		{50, 50},
		{5000, 1000},
	}

	for _, tt := range tests {
		if got := clampLimit(tt.in, limits); got != tt.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRunSQL(t *testing.T) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		if got := RunSQL(ctx, guarded(&fakeExecutor{}), limits, RunSQLInput{SQL: "  "}); got != "SQL cannot be empty." {
			t.Errorf("got %q", got)
		}
	})

	t.Run("blocked", func(t *testing.T) {
		got := RunSQL(ctx, guarded(&fakeExecutor{}), limits, RunSQLInput{SQL: "DROP TABLE saved_recipes"})
		if got != "Blocked: DROP statements are not allowed" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("select table", func(t *testing.T) {
		exec := &fakeExecutor{result: &database.QueryResult{
			Kind:      guardrails.SelectKind,
			Columns:   []string{"name"},
			Rows:      [][]any{{"Negroni"}},
			Remaining: 2,
		}}
		got := RunSQL(ctx, guarded(exec), limits, RunSQLInput{SQL: "SELECT name FROM saved_recipes", Limit: 1})

		want := "name\n" + strings.Repeat("-", 40) + "\nNegroni\n... +2 more rows"
		if got != want {
			t.Errorf("got:\n%s\nwant:\n%s", got, want)
		}
		if exec.maxRows != 1 {
			t.Errorf("maxRows = %d, want 1", exec.maxRows)
		}
	})

	t.Run("update", func(t *testing.T) {
		exec := &fakeExecutor{result: &database.QueryResult{Kind: guardrails.UpdateKind, AffectedRows: 3}}
		got := RunSQL(ctx, guarded(exec), limits, RunSQLInput{SQL: "UPDATE saved_recipes SET tags = '[]' WHERE recipe_type = 'food'"})
		if got != "✓ 3 row(s) affected" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("no database", func(t *testing.T) {
		got := RunSQL(ctx, guarded(nil), limits, RunSQLInput{SQL: "SELECT name FROM saved_recipes"})
		if got != "Database error: database is not configured" {
			t.Errorf("got %q", got)
		}
	})
}

func TestServerOverInMemoryTransport(t *testing.T) {
	ctx := context.Background()

	server := NewServer("test", Tools{SQL: guarded(nil), Limits: limits})
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	listed, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	names := make([]string, 0, len(listed.Tools))
	for _, tool := range listed.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	if strings.Join(names, ",") != "run_sql,validate_sql" {
		t.Errorf("tools = %v", names)
	}

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "validate_sql",
		Arguments: map[string]any{"sql": "SELECT * FROM saved_recipes"},
	})
	if err != nil {
		t.Fatalf("call validate_sql: %v", err)
	}
	if result.IsError {
		t.Fatalf("validate_sql returned a tool error: %+v", result.Content)
	}

	structured, ok := result.StructuredContent.(map[string]any)
	if !ok {
		t.Fatalf("structured content = %T", result.StructuredContent)
	}
	if structured["ok"] != true || structured["query"] != "SELECT * FROM saved_recipes WHERE is_deleted = false" {
		t.Errorf("structured = %v", structured)
	}
}
